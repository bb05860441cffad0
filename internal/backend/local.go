// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wneessen/city-weather/internal/service"
	"github.com/wneessen/city-weather/internal/vartype"
	"github.com/wneessen/city-weather/internal/weather"
)

// LookupFunc resolves a city to its weather report.
type LookupFunc func(ctx context.Context, city string) (*weather.Report, error)

// Local answers queries in-process. Results pass through the same JSON documents and
// status mapping the HTTP endpoint uses.
type Local struct {
	lookup LookupFunc
}

func NewLocal(lookup LookupFunc) *Local {
	return &Local{lookup: lookup}
}

func (l *Local) Fetch(ctx context.Context, city string) (Payload, error) {
	report, err := l.lookup(ctx, city)
	if err != nil {
		status, msg := service.ErrorResponse(err, city)
		doc, err := vartype.NewValue(map[string]string{"error": msg})
		if err != nil {
			return Payload{}, fmt.Errorf("failed to encode error document: %w", err)
		}
		payload, err := NewPayload(doc)
		if err != nil {
			return Payload{}, err
		}
		return payload, &StatusError{StatusCode: status, Payload: payload}
	}

	data, err := json.Marshal(report)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to encode weather report: %w", err)
	}
	var doc vartype.Value
	if err = json.Unmarshal(data, &doc); err != nil {
		return Payload{}, fmt.Errorf("failed to decode weather report: %w", err)
	}
	return NewPayload(doc)
}
