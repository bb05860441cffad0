// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/wneessen/city-weather/internal/http"
	"github.com/wneessen/city-weather/internal/logger"
	"github.com/wneessen/city-weather/internal/weather"
)

const (
	name       = "open-meteo"
	APITimeout = time.Second * 10
)

// APIEndpoint is the Open-Meteo forecast endpoint.
var APIEndpoint = "https://api.open-meteo.com/v1/forecast"

var dataFields = []string{
	"temperature_2m", "relative_humidity_2m", "apparent_temperature", "is_day", "precipitation",
	"weather_code", "wind_speed_10m",
}

type OpenMeteo struct {
	log     *logger.Logger
	http    *http.Client
	timeout time.Duration
}

type resTime struct {
	time.Time
}

type resBool struct {
	bool
}

type response struct {
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	GenerationTimeMs     float64 `json:"generationtime_ms"`
	UTCOffsetSeconds     int     `json:"utc_offset_seconds"`
	Timezone             string  `json:"timezone"`
	TimezoneAbbreviation string  `json:"timezone_abbreviation"`
	Elevation            float64 `json:"elevation"`

	// Set on API errors
	Error  bool   `json:"error"`
	Reason string `json:"reason"`

	CurrentUnits struct {
		Temperature         string `json:"temperature_2m"`
		RelativeHumidity    string `json:"relative_humidity_2m"`
		ApparentTemperature string `json:"apparent_temperature"`
		Precipitation       string `json:"precipitation"`
		WindSpeed           string `json:"wind_speed_10m"`
	} `json:"current_units"`
	Current *struct {
		Time                resTime `json:"time"`
		Interval            int     `json:"interval"`
		Temperature         float64 `json:"temperature_2m"`
		RelativeHumidity    float64 `json:"relative_humidity_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		IsDay               resBool `json:"is_day"`
		Precipitation       float64 `json:"precipitation"`
		WeatherCode         int     `json:"weather_code"`
		WindSpeed           float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

func New(http *http.Client, log *logger.Logger, timeout time.Duration) (*OpenMeteo, error) {
	if http == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if timeout <= 0 {
		timeout = APITimeout
	}

	return &OpenMeteo{http: http, log: log, timeout: timeout}, nil
}

func (o *OpenMeteo) Name() string {
	return name
}

// GetWeather returns the current conditions at the given coordinates. Wind speed is
// requested in m/s, temperatures in °C and precipitation in mm.
func (o *OpenMeteo) GetWeather(ctx context.Context, coords weather.Coordinate) (*weather.Data, error) {
	res := new(response)
	data := weather.NewData(coords)

	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%f", coords.Lat))
	query.Set("longitude", fmt.Sprintf("%f", coords.Lon))
	query.Set("current", strings.Join(dataFields, ","))
	query.Set("timezone", "auto")
	query.Set("forecast_days", "1")
	query.Set("wind_speed_unit", "ms")

	code, err := o.http.GetWithTimeout(ctx, APIEndpoint, res, query, nil, o.timeout)
	if err != nil {
		return data, fmt.Errorf("failed to retrieve weather data from Open-Meteo API: %w", err)
	}
	if code != 200 {
		if res.Reason != "" {
			return data, fmt.Errorf("Open-Meteo API returned non-positive response code %d: %s", code, res.Reason)
		}
		return data, fmt.Errorf("Open-Meteo API returned non-positive response code: %d", code)
	}
	if res.Current == nil {
		return data, fmt.Errorf("failed to read Open-Meteo response: %w", weather.ErrNoCurrentWeather)
	}

	o.log.Debug("received current weather from Open-Meteo", slog.String("timezone", res.Timezone),
		slog.Float64("generation_time_ms", res.GenerationTimeMs))
	data.Current = weather.Instant{
		InstantTime:         res.Current.Time.Time,
		Temperature:         res.Current.Temperature,
		ApparentTemperature: res.Current.ApparentTemperature,
		RelativeHumidity:    res.Current.RelativeHumidity,
		WindSpeed:           res.Current.WindSpeed,
		Precipitation:       res.Current.Precipitation,
		WeatherCode:         res.Current.WeatherCode,
		IsDay:               res.Current.IsDay.bool,
		Units: weather.Units{
			Temperature:   res.CurrentUnits.Temperature,
			WindSpeed:     res.CurrentUnits.WindSpeed,
			Humidity:      res.CurrentUnits.RelativeHumidity,
			Precipitation: res.CurrentUnits.Precipitation,
		},
	}

	return data, nil
}

func (r *resTime) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("empty time")
	}
	if b[0] != '"' {
		return fmt.Errorf("invalid time format: %s", string(b))
	}

	apiTime, err := time.Parse("2006-01-02T15:04", string(b[1:len(b)-1]))
	if err != nil {
		return fmt.Errorf("failed to parse time: %w", err)
	}
	r.Time = apiTime

	return nil
}

func (r *resBool) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("empty bool")
	}
	r.bool = b[0] == '1' || b[0] == 't'
	return nil
}
