// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package backend talks to the get_weather endpoint on behalf of the widget.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wneessen/city-weather/internal/http"
	"github.com/wneessen/city-weather/internal/vartype"
)

// Endpoint is the path of the weather query endpoint relative to the backend URL.
const Endpoint = "/get_weather"

// ErrNullPayload is returned for a response body that is the JSON literal null.
var ErrNullPayload = errors.New("backend response is null")

// Payload holds the members of a get_weather response. Members are kept as loosely typed
// values because the widget renders whatever the backend sends.
type Payload struct {
	Error    vartype.Value
	Location vartype.Value
	Weather  vartype.Value
}

// NewPayload extracts the members from a decoded response document. Documents that are not
// objects carry no members; a null document is rejected.
func NewPayload(doc vartype.Value) (Payload, error) {
	if kind := doc.Kind(); kind == vartype.KindNull || kind == vartype.KindUndefined {
		return Payload{}, ErrNullPayload
	}
	return Payload{
		Error:    doc.Field("error"),
		Location: doc.Field("location"),
		Weather:  doc.Field("weather"),
	}, nil
}

// StatusError is returned for a parseable response with a status outside the 2xx range.
type StatusError struct {
	StatusCode int
	Payload    Payload
}

func (e *StatusError) Error() string {
	if e.Payload.Error.Truthy() {
		return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Payload.Error.String())
	}
	return fmt.Sprintf("backend responded with status %d", e.StatusCode)
}

// Fetcher runs a single weather query for a city name.
type Fetcher interface {
	Fetch(ctx context.Context, city string) (Payload, error)
}

// Client queries a remote backend over HTTP.
type Client struct {
	http     *http.Client
	endpoint string
	timeout  time.Duration
}

// New returns a Client for the backend at baseURL. A timeout of zero leaves requests
// without a deadline.
func New(client *http.Client, baseURL string, timeout time.Duration) (*Client, error) {
	if client == nil {
		return nil, errors.New("http client is required")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse backend URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported backend URL scheme: %q", base.Scheme)
	}
	base.Path = strings.TrimSuffix(base.Path, "/") + Endpoint

	return &Client{
		http:     client,
		endpoint: base.String(),
		timeout:  timeout,
	}, nil
}

// Fetch requests the weather for city. Transport failures and bodies that are not JSON are
// returned as plain errors, non-2xx responses as *StatusError.
func (c *Client) Fetch(ctx context.Context, city string) (Payload, error) {
	var doc vartype.Value

	query := url.Values{}
	query.Set("city", city)

	code, err := c.http.GetWithTimeout(ctx, c.endpoint, &doc, query, nil, c.timeout)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to query weather backend: %w", err)
	}
	payload, err := NewPayload(doc)
	if err != nil {
		return Payload{}, err
	}
	if code < 200 || code > 299 {
		return payload, &StatusError{StatusCode: code, Payload: payload}
	}

	return payload, nil
}
