// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/city-weather/internal/geocode"
	"github.com/wneessen/city-weather/internal/http"
)

const (
	APISearchEndpoint = "https://nominatim.openstreetmap.org/search"
	APITimeout        = time.Second * 10
	name              = "osm-nominatim"
)

type Nominatim struct {
	http *http.Client
	lang language.Tag
}

type SearchResult struct {
	APILat      string  `json:"lat"`
	APILon      string  `json:"lon"`
	Name        string  `json:"name"`
	AddressType string  `json:"addresstype"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

type Address struct {
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	State       string `json:"state"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

func New(client *http.Client, lang language.Tag) *Nominatim {
	return &Nominatim{
		lang: lang,
		http: client,
	}
}

func (n *Nominatim) Name() string {
	return name
}

func (n *Nominatim) Search(ctx context.Context, city string) (geocode.Address, error) {
	var result []SearchResult
	var err error

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("q", city)
	query.Set("addressdetails", "1")
	query.Set("limit", "1")
	query.Set("accept-language", n.lang.String())

	code, err := n.http.GetWithTimeout(ctx, APISearchEndpoint, &result, query, nil, APITimeout)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to fetch address details from Nominatim API: %w", err)
	}
	if code != 200 {
		return geocode.Address{}, fmt.Errorf("received non-positive response code from Nominatim API: %d", code)
	}
	if len(result) < 1 {
		return geocode.Address{AddressFound: false}, nil
	}

	// Fill the geocode.Address struct
	found := result[0]
	address := geocode.Address{
		AddressFound: true,
		Name:         found.Name,
		DisplayName:  found.DisplayName,
		Country:      found.Address.Country,
		CountryCode:  strings.ToUpper(found.Address.CountryCode),
		State:        found.Address.State,
	}
	if address.Name == "" {
		switch {
		case found.Address.City != "":
			address.Name = found.Address.City
		case found.Address.Town != "":
			address.Name = found.Address.Town
		default:
			address.Name = found.Address.Village
		}
	}
	address.Latitude, err = strconv.ParseFloat(found.APILat, 64)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to parse latitude from Nominatim API response: %w", err)
	}
	address.Longitude, err = strconv.ParseFloat(found.APILon, 64)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to parse longitude from Nominatim API response: %w", err)
	}

	return address, nil
}
