// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"errors"
	"time"
)

// UnitWindSpeed is the wind speed unit reports are expressed in.
const UnitWindSpeed = "m/s"

// ErrNoCurrentWeather is returned by a Provider whose response carries no current conditions.
var ErrNoCurrentWeather = errors.New("no current weather data in provider response")

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	GetWeather(ctx context.Context, coords Coordinate) (*Data, error)
}

// Coordinate represents a geographic coordinate.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid checks if the coordinate is valid according to the EPSG logic
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

type Data struct {
	Coordinates Coordinate

	Current Instant
}

// Instant holds the conditions at InstantTime, local to the location. Units names the unit
// the provider reported each measurement in.
type Instant struct {
	InstantTime         time.Time
	Temperature         float64
	ApparentTemperature float64
	RelativeHumidity    float64
	WindSpeed           float64
	Precipitation       float64
	WeatherCode         int
	IsDay               bool
	Units               Units
}

type Units struct {
	Temperature   string
	WindSpeed     string
	Humidity      string
	Precipitation string
}

func NewData(coords Coordinate) *Data {
	return &Data{Coordinates: coords}
}
