// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package widget

import (
	"errors"
	"fmt"

	"github.com/wneessen/city-weather/internal/backend"
	"github.com/wneessen/city-weather/internal/vartype"
)

var (
	// ErrMissingLocation is returned by Render for a payload without a location object.
	ErrMissingLocation = errors.New("weather payload has no location")

	// ErrMissingWeather is returned by Render for a payload without a weather object.
	ErrMissingWeather = errors.New("weather payload has no weather")

	// ErrInvalidCoordinates is returned by Render if latitude or longitude is not a number.
	ErrInvalidCoordinates = errors.New("weather payload has non-numeric coordinates")
)

// Render formats a successful payload into the eight data fields. Members are printed in
// their natural string form; only the coordinates must be numbers. A payload that cannot be
// rendered completely yields an error and no fields.
func Render(payload backend.Payload) (DisplayState, error) {
	location, current := payload.Location, payload.Weather
	if missing(location) {
		return DisplayState{}, ErrMissingLocation
	}
	if missing(current) {
		return DisplayState{}, ErrMissingWeather
	}
	lat, ok := location.Field("latitude").Number()
	if !ok {
		return DisplayState{}, fmt.Errorf("%w: latitude is %s", ErrInvalidCoordinates, location.Field("latitude"))
	}
	lon, ok := location.Field("longitude").Number()
	if !ok {
		return DisplayState{}, fmt.Errorf("%w: longitude is %s", ErrInvalidCoordinates, location.Field("longitude"))
	}

	dayNight := "Night"
	if current.Field("is_day").Truthy() {
		dayNight = "Day"
	}

	return DisplayState{
		Location: fmt.Sprintf("Location: %s, %s (%s, %s)", location.Field("name"), location.Field("country"),
			vartype.ToFixed(lat, 2), vartype.ToFixed(lon, 2)),
		Temperature:   fmt.Sprintf("Temperature: %s°C", current.Field("temperature")),
		FeelsLike:     fmt.Sprintf("Apparent Temperature: %s°C (Feels like)", current.Field("apparent_temperature")),
		Humidity:      fmt.Sprintf("Humidity: %s%%", current.Field("humidity")),
		WindSpeed:     fmt.Sprintf("Wind Speed: %s m/s", current.Field("wind_speed")),
		Precipitation: fmt.Sprintf("Precipitation: %s mm", current.Field("precipitation")),
		DayNight:      fmt.Sprintf("Day/Night: %s", dayNight),
		Description: fmt.Sprintf("Weather: %s (Code: %s)", current.Field("description"),
			current.Field("weather_code")),
	}, nil
}

// missing reports whether member access on v would fail, which is only the case for absent
// and null values.
func missing(v vartype.Value) bool {
	kind := v.Kind()
	return kind == vartype.KindUndefined || kind == vartype.KindNull
}
