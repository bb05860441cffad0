// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import "context"

// Address is the result of a forward geocoding lookup. AddressFound is false if the
// provider did not know the queried place; this is not an error.
type Address struct {
	AddressFound bool
	CacheHit     bool
	Latitude     float64
	Longitude    float64
	Name         string
	DisplayName  string
	Country      string
	CountryCode  string
	State        string
}

// Geocoder resolves a place name to the coordinates of its best match.
type Geocoder interface {
	Name() string
	Search(ctx context.Context, query string) (Address, error)
}
