// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package widget implements the weather query widget: it takes a typed city name, queries
// the backend and fills the display fields with the result or an error message.
package widget

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/wneessen/city-weather/internal/backend"
	"github.com/wneessen/city-weather/internal/logger"
)

// Messages shown in the error field.
const (
	MsgEmptyCity    = "Please enter a city name."
	MsgBackendError = "An error occurred fetching weather data from backend."
	MsgNetworkError = "Network error or unable to connect to server. Please try again."
)

// Widget holds the display state and applies query results to it. Submissions are numbered
// in the order they are issued and only the result of the newest one is displayed.
type Widget struct {
	fetcher backend.Fetcher
	sink    Sink
	logger  *logger.Logger

	mu    sync.Mutex
	seq   uint64
	state DisplayState
}

// New returns a Widget that queries fetcher and reports each displayed state to sink. The
// sink is called with the widget's lock held and must not call back into the widget.
func New(fetcher backend.Fetcher, sink Sink, log *logger.Logger) (*Widget, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if sink == nil {
		sink = SinkFunc(func(DisplayState) {})
	}
	return &Widget{
		fetcher: fetcher,
		sink:    sink,
		logger:  log,
	}, nil
}

// Submit runs one query for the raw input. It clears all fields, validates the input and,
// for a non-empty city, waits for the backend. It returns the state this submission
// produced, which is only displayed if no newer submission was issued in the meantime.
// Submit may be called concurrently.
func (w *Widget) Submit(ctx context.Context, raw string) DisplayState {
	w.mu.Lock()
	w.seq++
	seq := w.seq
	w.display(DisplayState{})

	city := strings.TrimSpace(raw)
	if city == "" {
		result := DisplayState{Error: MsgEmptyCity}
		w.display(result)
		w.mu.Unlock()
		return result
	}
	w.mu.Unlock()

	result := w.query(ctx, city)

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.seq {
		w.logger.Debug("dropping stale weather result", slog.String("city", city),
			slog.Uint64("submission", seq), slog.Uint64("latest", w.seq))
		return result
	}
	w.display(result)
	return result
}

// State returns the currently displayed state.
func (w *Widget) State() DisplayState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Widget) query(ctx context.Context, city string) DisplayState {
	payload, err := w.fetcher.Fetch(ctx, city)

	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		msg := MsgBackendError
		if statusErr.Payload.Error.Truthy() {
			msg = statusErr.Payload.Error.String()
		}
		return DisplayState{Error: msg}
	}
	if err != nil {
		w.logger.Error("failed to fetch weather data", logger.Err(err), slog.String("city", city))
		return DisplayState{Error: MsgNetworkError}
	}

	state, err := Render(payload)
	if err != nil {
		w.logger.Error("failed to render weather data", logger.Err(err), slog.String("city", city))
		return DisplayState{Error: MsgNetworkError}
	}
	return state
}

// display must be called with mu held.
func (w *Widget) display(state DisplayState) {
	w.state = state
	w.sink.Display(state)
}
