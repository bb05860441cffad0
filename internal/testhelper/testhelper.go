// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package testhelper provides shared helpers for the package tests.
package testhelper

import (
	"net/http"
	"os"
	"testing"
)

// TestOnlineAPIURL is a reachable URL used by the tests that need real network access.
const TestOnlineAPIURL = "https://geocoding-api.open-meteo.com/v1/search?name=Berlin&count=1"

// MockRoundTripper lets tests replace the HTTP transport with a function.
type MockRoundTripper struct {
	Fn func(req *http.Request) (*http.Response, error)
}

// RoundTrip satisfies the http.RoundTripper interface.
func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// PerformIntegrationTests skips the calling test unless PERFORM_INTEGRATION_TESTS is set to "true".
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if val := os.Getenv("PERFORM_INTEGRATION_TESTS"); val != "true" {
		t.Skip("skipping online integration tests")
	}
}

// FileResponse returns a round trip function that answers every request with the content
// of the given file and status code.
func FileResponse(t *testing.T, file string, status int) func(req *http.Request) (*http.Response, error) {
	t.Helper()
	return func(req *http.Request) (*http.Response, error) {
		data, err := os.Open(file)
		if err != nil {
			t.Fatalf("failed to open JSON response file: %s", err)
		}
		return &http.Response{
			StatusCode: status,
			Body:       data,
			Header:     make(http.Header),
		}, nil
	}
}
