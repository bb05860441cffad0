// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

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
	APIEndpoint = "https://geocoding-api.open-meteo.com/v1/search"
	APITimeout  = time.Second * 10
	name        = "open-meteo"
)

type OpenMeteo struct {
	http *http.Client
	lang language.Tag
}

type Response struct {
	Results []Result `json:"results"`
	Error   bool     `json:"error"`
	Reason  string   `json:"reason"`
}

type Result struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Admin1      string  `json:"admin1"`
	Timezone    string  `json:"timezone"`
}

func New(client *http.Client, lang language.Tag) *OpenMeteo {
	return &OpenMeteo{
		http: client,
		lang: lang,
	}
}

func (o *OpenMeteo) Name() string {
	return name
}

// Search looks up the best match for a place name. The Open-Meteo geocoding API omits the
// results list entirely when nothing matches.
func (o *OpenMeteo) Search(ctx context.Context, city string) (geocode.Address, error) {
	var response Response

	base, _ := o.lang.Base()
	query := url.Values{}
	query.Set("name", city)
	query.Set("count", "1")
	query.Set("language", base.String())
	query.Set("format", "json")

	code, err := o.http.GetWithTimeout(ctx, APIEndpoint, &response, query, nil, APITimeout)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to search location via Open-Meteo geocoding API: %w", err)
	}
	if code != 200 || response.Error {
		return geocode.Address{}, fmt.Errorf("received status %d from Open-Meteo geocoding API: %s", code, response.Reason)
	}
	if len(response.Results) < 1 {
		return geocode.Address{AddressFound: false}, nil
	}

	result := response.Results[0]
	address := geocode.Address{
		AddressFound: true,
		Latitude:     result.Latitude,
		Longitude:    result.Longitude,
		Name:         result.Name,
		Country:      result.Country,
		CountryCode:  result.CountryCode,
		State:        result.Admin1,
		DisplayName:  result.Name,
	}
	if result.Country != "" {
		address.DisplayName = result.Name + ", " + result.Country
	}

	return address, nil
}
