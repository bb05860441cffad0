// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package widget

// DisplayState holds the text of the nine display fields. An empty string is a cleared field.
type DisplayState struct {
	Location      string
	Temperature   string
	FeelsLike     string
	Humidity      string
	WindSpeed     string
	Precipitation string
	DayNight      string
	Description   string
	Error         string
}

// DataFields returns the eight data fields in display order.
func (d DisplayState) DataFields() []string {
	return []string{
		d.Location,
		d.Temperature,
		d.FeelsLike,
		d.Humidity,
		d.WindSpeed,
		d.Precipitation,
		d.DayNight,
		d.Description,
	}
}

// IsCleared reports whether all nine fields are empty.
func (d DisplayState) IsCleared() bool {
	return d == DisplayState{}
}

// Sink receives every state the widget displays, in order.
type Sink interface {
	Display(state DisplayState)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(state DisplayState)

func (f SinkFunc) Display(state DisplayState) {
	f(state)
}
