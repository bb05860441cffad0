// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

// Report is the document the backend sends to the widget for a successful lookup.
type Report struct {
	Location Location `json:"location"`
	Weather  Current  `json:"weather"`
}

type Location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Current struct {
	Temperature         float64 `json:"temperature"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	Humidity            float64 `json:"humidity"`
	WindSpeed           float64 `json:"wind_speed"`
	Precipitation       float64 `json:"precipitation"`
	IsDay               bool    `json:"is_day"`
	WeatherCode         int     `json:"weather_code"`
	Description         string  `json:"description"`
}

// NewReport assembles a Report from the resolved place and the current conditions.
func NewReport(location Location, data *Data) *Report {
	return &Report{
		Location: location,
		Weather: Current{
			Temperature:         data.Current.Temperature,
			ApparentTemperature: data.Current.ApparentTemperature,
			Humidity:            data.Current.RelativeHumidity,
			WindSpeed:           data.Current.WindSpeed,
			Precipitation:       data.Current.Precipitation,
			IsDay:               data.Current.IsDay,
			WeatherCode:         data.Current.WeatherCode,
			Description:         Description(data.Current.WeatherCode),
		},
	}
}
