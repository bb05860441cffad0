// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/wneessen/city-weather/internal/weather"
)

var (
	// ErrCityRequired is returned for an empty or blank city name.
	ErrCityRequired = errors.New("city name is required")

	// ErrLocationNotFound is returned when the geocoder knows no place with the given name.
	ErrLocationNotFound = errors.New("no coordinates found for city")

	// ErrUpstream marks failures talking to the geocoding or weather API, including an open
	// circuit breaker.
	ErrUpstream = errors.New("failed to communicate with upstream API")
)

// Client facing error messages.
const (
	MsgCityRequired   = "City name is required"
	MsgNotFound       = "Could not find coordinates for '%s'"
	MsgUpstream       = "Error communicating with external weather API"
	MsgNoCurrent      = "Could not retrieve current weather data"
	MsgInternalServer = "An internal server error occurred"
)

// ErrorResponse maps a Lookup error to the HTTP status and message reported to the client.
// city is the name as the client sent it.
func ErrorResponse(err error, city string) (int, string) {
	switch {
	case errors.Is(err, ErrCityRequired):
		return http.StatusBadRequest, MsgCityRequired
	case errors.Is(err, ErrLocationNotFound):
		return http.StatusNotFound, fmt.Sprintf(MsgNotFound, city)
	case errors.Is(err, weather.ErrNoCurrentWeather):
		return http.StatusInternalServerError, MsgNoCurrent
	case errors.Is(err, ErrUpstream):
		return http.StatusInternalServerError, MsgUpstream
	default:
		return http.StatusInternalServerError, MsgInternalServer
	}
}
