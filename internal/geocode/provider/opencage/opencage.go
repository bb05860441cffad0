// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package opencage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/city-weather/internal/geocode"
	"github.com/wneessen/city-weather/internal/http"
)

const (
	APIEndpoint = "https://api.opencagedata.com/geocode/v1/json"
	APITimeout  = time.Second * 10
	name        = "opencage"
)

type OpenCage struct {
	apikey string
	http   *http.Client
	lang   language.Tag
}

type Response struct {
	Results      []Result `json:"results"`
	Status       Status   `json:"status"`
	TotalResults int      `json:"total_results"`
}

type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Result struct {
	Components  Components `json:"components"`
	DisplayName string     `json:"formatted"`
	Geometry    Geometry   `json:"geometry"`
}

type Components struct {
	NomalizedCity string `json:"_normalized_city"`
	City          string `json:"city"`
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
	State         string `json:"state"`
	Town          string `json:"town"`
	Village       string `json:"village"`
}

type Geometry struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

func New(client *http.Client, lang language.Tag, apikey string) *OpenCage {
	return &OpenCage{
		apikey: apikey,
		lang:   lang,
		http:   client,
	}
}

func (o *OpenCage) Name() string {
	return name
}

func (o *OpenCage) Search(ctx context.Context, city string) (geocode.Address, error) {
	var response Response

	query := url.Values{}
	query.Set("key", o.apikey)
	query.Set("q", city)
	query.Set("limit", "1")
	query.Set("no_annotations", "1")
	query.Set("no_record", "1")
	query.Set("language", o.lang.String())

	code, err := o.http.GetWithTimeout(ctx, APIEndpoint, &response, query, nil, APITimeout)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to retrieve address details from OpenCage API: %w", err)
	}
	if code != 200 {
		return geocode.Address{}, fmt.Errorf("received status %d from OpenCage API: %s", code, response.Status.Message)
	}
	if response.TotalResults < 1 || len(response.Results) < 1 {
		return geocode.Address{AddressFound: false}, nil
	}

	// Fill the geocode.Address struct
	result := response.Results[0].Components
	address := geocode.Address{
		AddressFound: true,
		Latitude:     response.Results[0].Geometry.Lat,
		Longitude:    response.Results[0].Geometry.Lon,
		DisplayName:  response.Results[0].DisplayName,
		Name:         result.NomalizedCity,
		Country:      result.Country,
		CountryCode:  strings.ToUpper(result.CountryCode),
		State:        result.State,
	}
	if address.Name == "" {
		address.Name = result.City
	}
	if address.Name == "" && result.Town != "" {
		address.Name = result.Town
	}
	if address.Name == "" && result.Village != "" {
		address.Name = result.Village
	}

	return address, nil
}
