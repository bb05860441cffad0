// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocodeearth

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/city-weather/internal/geocode"
	"github.com/wneessen/city-weather/internal/http"
)

const (
	APIEndpoint = "https://api.geocode.earth/v1/search"
	APITimeout  = time.Second * 10
	name        = "geocode-earth"
)

type GeocodeEarth struct {
	apikey string
	http   *http.Client
	lang   language.Tag
}

type Response struct {
	Features []Feature `json:"features"`
	Type     string    `json:"type"`
}

type Feature struct {
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
	Type       string     `json:"type"`
}

// Geometry holds a GeoJSON point, longitude first.
type Geometry struct {
	Coordinates []float64 `json:"coordinates"`
	Type        string    `json:"type"`
}

type Properties struct {
	Name        string `json:"name"`
	DisplayName string `json:"label"`
	City        string `json:"locality"`
	Country     string `json:"country"`
	CountryCode string `json:"country_a"`
	State       string `json:"region"`
}

func New(client *http.Client, lang language.Tag, apikey string) *GeocodeEarth {
	return &GeocodeEarth{
		apikey: apikey,
		lang:   lang,
		http:   client,
	}
}

func (g *GeocodeEarth) Name() string {
	return name
}

func (g *GeocodeEarth) Search(ctx context.Context, city string) (geocode.Address, error) {
	var response Response

	query := url.Values{}
	query.Set("api_key", g.apikey)
	query.Set("text", city)
	query.Set("size", "1")
	query.Set("lang", g.lang.String())

	code, err := g.http.GetWithTimeout(ctx, APIEndpoint, &response, query, nil, APITimeout)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to retrieve address details from geocode.earth API: %w", err)
	}
	if code != 200 {
		return geocode.Address{}, fmt.Errorf("received non-positive response code from geocode.earth API: %d", code)
	}
	if len(response.Features) < 1 {
		return geocode.Address{AddressFound: false}, nil
	}

	feature := response.Features[0]
	if len(feature.Geometry.Coordinates) < 2 {
		return geocode.Address{}, fmt.Errorf("geocode.earth API returned a feature without coordinates")
	}

	// Fill the geocode.Address struct
	result := feature.Properties
	address := geocode.Address{
		AddressFound: true,
		Latitude:     feature.Geometry.Coordinates[1],
		Longitude:    feature.Geometry.Coordinates[0],
		Name:         result.Name,
		DisplayName:  result.DisplayName,
		Country:      result.Country,
		CountryCode:  result.CountryCode,
		State:        result.State,
	}
	if result.City != "" {
		address.Name = result.City
	}

	return address, nil
}
