// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wneessen/city-weather/internal/http"
	"github.com/wneessen/city-weather/internal/logger"
	"github.com/wneessen/city-weather/internal/service"
	"github.com/wneessen/city-weather/internal/testhelper"
	"github.com/wneessen/city-weather/internal/vartype"
	"github.com/wneessen/city-weather/internal/weather"
)

const (
	parisBody = `{"location":{"name":"Paris","country":"FR","latitude":48.8566,"longitude":2.3522},` +
		`"weather":{"temperature":18,"apparent_temperature":17,"humidity":60,"wind_speed":3.5,` +
		`"precipitation":0,"is_day":true,"description":"Clear sky","weather_code":0}}`
	notFoundFile = "../../testdata/error_notfound.json"
	invalidFile  = "../../testdata/invalid.json"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		want     string
		wantFail bool
	}{
		{"plain host", "http://localhost:5000", "http://localhost:5000/get_weather", false},
		{"trailing slash", "http://localhost:5000/", "http://localhost:5000/get_weather", false},
		{"sub path", "https://example.com/weather/", "https://example.com/weather/get_weather", false},
		{"unsupported scheme", "ftp://example.com", "", true},
		{"broken URL", "http://[::1", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, err := New(http.New(testLogger()), tc.baseURL, 0)
			if tc.wantFail {
				if err == nil {
					t.Fatal("expected client creation to fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("failed to create client: %s", err)
			}
			if client.endpoint != tc.want {
				t.Errorf("expected endpoint to be %q, got %q", tc.want, client.endpoint)
			}
		})
	}
	t.Run("missing http client fails", func(t *testing.T) {
		if _, err := New(nil, "http://localhost:5000", 0); err == nil {
			t.Error("expected client creation to fail")
		}
	})
}

func TestClient_Fetch(t *testing.T) {
	t.Run("successful response is decoded", func(t *testing.T) {
		var gotCity string
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			if r.URL.Path != Endpoint {
				t.Errorf("expected path to be %q, got %q", Endpoint, r.URL.Path)
			}
			gotCity = r.URL.Query().Get("city")
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, parisBody)
		}))
		t.Cleanup(server.Close)

		payload, err := testClient(t, server.URL).Fetch(t.Context(), "São Paulo & Co")
		if err != nil {
			t.Fatalf("failed to fetch: %s", err)
		}
		if gotCity != "São Paulo & Co" {
			t.Errorf("expected city to arrive unaltered, got %q", gotCity)
		}
		if got := payload.Location.Field("name").String(); got != "Paris" {
			t.Errorf("expected location name to be Paris, got %q", got)
		}
		if payload.Error.IsSet() {
			t.Error("expected error member to be unset")
		}
	})
	t.Run("error status returns a status error", func(t *testing.T) {
		client := mockClient(t, testhelper.FileResponse(t, notFoundFile, 404))
		_, err := client.Fetch(t.Context(), "Atlantis")
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected a status error, got %v", err)
		}
		if statusErr.StatusCode != 404 {
			t.Errorf("expected status 404, got %d", statusErr.StatusCode)
		}
		if got := statusErr.Payload.Error.String(); got != "City not found" {
			t.Errorf("expected error message 'City not found', got %q", got)
		}
		if statusErr.Error() != "backend responded with status 404: City not found" {
			t.Errorf("unexpected error string: %s", statusErr)
		}
	})
	t.Run("error status with array body has no members", func(t *testing.T) {
		client := mockClient(t, bodyResponse(500, `[1,2]`))
		_, err := client.Fetch(t.Context(), "Paris")
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected a status error, got %v", err)
		}
		if statusErr.Payload.Error.IsSet() {
			t.Error("expected error member to be unset")
		}
	})
	t.Run("body that is not JSON is a transport error", func(t *testing.T) {
		for _, status := range []int{200, 502} {
			client := mockClient(t, testhelper.FileResponse(t, invalidFile, status))
			_, err := client.Fetch(t.Context(), "Paris")
			if err == nil {
				t.Fatal("expected fetch to fail")
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				t.Errorf("expected a transport error for status %d, got a status error", status)
			}
		}
	})
	t.Run("trailing data after the document is a transport error", func(t *testing.T) {
		tests := []struct {
			name   string
			status int
			body   string
		}{
			{"success", stdhttp.StatusOK, parisBody + "garbage"},
			{"not found", stdhttp.StatusNotFound, `{"error":"City not found"} <html>oops</html>`},
			{"server error", stdhttp.StatusInternalServerError, `{"error":"boom"}{"error":"again"}`},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				srv := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(tc.status)
					_, _ = io.WriteString(w, tc.body)
				}))
				defer srv.Close()

				_, err := testClient(t, srv.URL).Fetch(t.Context(), "Paris")
				if !errors.Is(err, http.ErrTrailingData) {
					t.Errorf("expected error to be %s, got %v", http.ErrTrailingData, err)
				}
				var statusErr *StatusError
				if errors.As(err, &statusErr) {
					t.Error("expected a transport error, got a status error")
				}
			})
		}
	})
	t.Run("trailing whitespace is accepted", func(t *testing.T) {
		payload, err := mockClient(t, bodyResponse(200, parisBody+"\n\t \n")).Fetch(t.Context(), "Paris")
		if err != nil {
			t.Fatalf("failed to fetch: %s", err)
		}
		if payload.Location.Field("name").String() != "Paris" {
			t.Errorf("expected location name Paris, got %s", payload.Location.Field("name").String())
		}
	})
	t.Run("null body is rejected", func(t *testing.T) {
		_, err := mockClient(t, bodyResponse(200, `null`)).Fetch(t.Context(), "Paris")
		if !errors.Is(err, ErrNullPayload) {
			t.Errorf("expected error to be %s, got %v", ErrNullPayload, err)
		}
	})
	t.Run("connection failure is a transport error", func(t *testing.T) {
		client := mockClient(t, func(*stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("connection refused")
		})
		if _, err := client.Fetch(t.Context(), "Paris"); err == nil {
			t.Error("expected fetch to fail")
		}
	})
	t.Run("timeout applies when configured", func(t *testing.T) {
		var hasDeadline bool
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			_, hasDeadline = req.Context().Deadline()
			return bodyResponse(200, parisBody)(req)
		}
		hc := http.New(testLogger())
		hc.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		client, err := New(hc, "http://localhost:5000", time.Minute)
		if err != nil {
			t.Fatalf("failed to create client: %s", err)
		}
		if _, err = client.Fetch(t.Context(), "Paris"); err != nil {
			t.Fatalf("failed to fetch: %s", err)
		}
		if !hasDeadline {
			t.Error("expected request to carry a deadline")
		}
		if _, err = mockClient(t, func(req *stdhttp.Request) (*stdhttp.Response, error) {
			_, hasDeadline = req.Context().Deadline()
			return bodyResponse(200, parisBody)(req)
		}).Fetch(t.Context(), "Paris"); err != nil {
			t.Fatalf("failed to fetch: %s", err)
		}
		if hasDeadline {
			t.Error("expected request without timeout to carry no deadline")
		}
	})
}

func TestLocal_Fetch(t *testing.T) {
	t.Run("report is converted to a payload", func(t *testing.T) {
		local := NewLocal(func(_ context.Context, city string) (*weather.Report, error) {
			data := weather.NewData(weather.Coordinate{Lat: 48.8566, Lon: 2.3522})
			data.Current.Temperature = 18
			data.Current.IsDay = true
			return weather.NewReport(weather.Location{Name: city, Country: "France", Latitude: 48.8566,
				Longitude: 2.3522}, data), nil
		})
		payload, err := local.Fetch(t.Context(), "Paris")
		if err != nil {
			t.Fatalf("failed to fetch: %s", err)
		}
		if got := payload.Location.Field("country").String(); got != "France" {
			t.Errorf("expected country to be France, got %q", got)
		}
		if !payload.Weather.Field("is_day").Truthy() {
			t.Error("expected is_day to be truthy")
		}
		if got := payload.Weather.Field("temperature").String(); got != "18" {
			t.Errorf("expected temperature to be 18, got %q", got)
		}
	})
	t.Run("lookup errors are mapped like the HTTP endpoint", func(t *testing.T) {
		local := NewLocal(func(_ context.Context, city string) (*weather.Report, error) {
			return nil, fmt.Errorf("%w: %q", service.ErrLocationNotFound, city)
		})
		_, err := local.Fetch(t.Context(), "Atlantis")
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected a status error, got %v", err)
		}
		if statusErr.StatusCode != 404 {
			t.Errorf("expected status 404, got %d", statusErr.StatusCode)
		}
		if got := statusErr.Payload.Error.String(); got != "Could not find coordinates for 'Atlantis'" {
			t.Errorf("unexpected error message: %q", got)
		}
	})
}

func TestNewPayload(t *testing.T) {
	t.Run("non-object documents have no members", func(t *testing.T) {
		doc, err := vartype.NewValue("just a string")
		if err != nil {
			t.Fatalf("failed to create value: %s", err)
		}
		payload, err := NewPayload(doc)
		if err != nil {
			t.Fatalf("failed to create payload: %s", err)
		}
		if payload.Location.IsSet() || payload.Weather.IsSet() || payload.Error.IsSet() {
			t.Error("expected all members to be unset")
		}
	})
	t.Run("undefined document is rejected", func(t *testing.T) {
		if _, err := NewPayload(vartype.Value{}); !errors.Is(err, ErrNullPayload) {
			t.Errorf("expected error to be %s, got %v", ErrNullPayload, err)
		}
	})
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(http.New(testLogger()), baseURL, 0)
	if err != nil {
		t.Fatalf("failed to create client: %s", err)
	}
	return client
}

func mockClient(t *testing.T, fn func(req *stdhttp.Request) (*stdhttp.Response, error)) *Client {
	t.Helper()
	hc := http.New(testLogger())
	hc.Transport = testhelper.MockRoundTripper{Fn: fn}
	client, err := New(hc, "http://localhost:5000", 0)
	if err != nil {
		t.Fatalf("failed to create client: %s", err)
	}
	return client
}

func bodyResponse(status int, body string) func(req *stdhttp.Request) (*stdhttp.Response, error) {
	return func(*stdhttp.Request) (*stdhttp.Response, error) {
		rec := httptest.NewRecorder()
		rec.WriteHeader(status)
		_, _ = io.WriteString(rec, body)
		return rec.Result(), nil
	}
}

func testLogger() *logger.Logger {
	return logger.NewLogger(slog.LevelDebug, io.Discard)
}
