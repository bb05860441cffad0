// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestNew(t *testing.T) {
	const (
		expectLogLevel        = slog.LevelInfo
		expectServerAddress   = "0.0.0.0:5000"
		expectBackendURL      = "http://localhost:5000"
		expectGeocoder        = GeocoderOpenMeteo
		expectCacheBackend    = CacheBackendMemory
		expectCacheHitTTL     = time.Hour * 24
		expectCacheMissTTL    = time.Minute * 10
		expectShutdownTimeout = time.Second * 10
	)
	t.Run("new config with all defaults set", func(t *testing.T) {
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.LogLevel != expectLogLevel {
			t.Errorf("expected log level to be: %s, got %s", expectLogLevel, conf.LogLevel)
		}
		if conf.Server.Address != expectServerAddress {
			t.Errorf("expected server address to be: %s, got %s", expectServerAddress, conf.Server.Address)
		}
		if conf.Server.ShutdownTimeout != expectShutdownTimeout {
			t.Errorf("expected shutdown timeout to be: %s, got %s", expectShutdownTimeout,
				conf.Server.ShutdownTimeout)
		}
		if conf.Server.DisableCompression {
			t.Error("expected compression to be enabled by default")
		}
		if conf.Client.BackendURL != expectBackendURL {
			t.Errorf("expected backend URL to be: %s, got %s", expectBackendURL, conf.Client.BackendURL)
		}
		if conf.Client.Timeout != 0 {
			t.Errorf("expected client timeout to be disabled, got %s", conf.Client.Timeout)
		}
		if conf.Geocoder.Provider != expectGeocoder {
			t.Errorf("expected geocoder provider to be: %s, got %s", expectGeocoder, conf.Geocoder.Provider)
		}
		if conf.Geocoder.CacheBackend != expectCacheBackend {
			t.Errorf("expected cache backend to be: %s, got %s", expectCacheBackend, conf.Geocoder.CacheBackend)
		}
		if conf.Geocoder.CacheHitTTL != expectCacheHitTTL {
			t.Errorf("expected cache hit TTL to be: %s, got %s", expectCacheHitTTL, conf.Geocoder.CacheHitTTL)
		}
		if conf.Geocoder.CacheMissTTL != expectCacheMissTTL {
			t.Errorf("expected cache miss TTL to be: %s, got %s", expectCacheMissTTL, conf.Geocoder.CacheMissTTL)
		}
		if conf.GeocoderLanguage() != language.English {
			t.Errorf("expected geocoder language to be: %s, got %s", language.English, conf.GeocoderLanguage())
		}
	})
	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("CITYWEATHER_SERVER_ADDRESS", "127.0.0.1:8080")
		t.Setenv("CITYWEATHER_GEOCODER_PROVIDER", "nominatim")
		t.Setenv("CITYWEATHER_GEOCODER_LANGUAGE", "de")
		t.Setenv("CITYWEATHER_CLIENT_TIMEOUT", "5s")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Server.Address != "127.0.0.1:8080" {
			t.Errorf("expected server address to be overridden, got %s", conf.Server.Address)
		}
		if conf.Geocoder.Provider != GeocoderNominatim {
			t.Errorf("expected geocoder provider to be overridden, got %s", conf.Geocoder.Provider)
		}
		if conf.GeocoderLanguage() != language.German {
			t.Errorf("expected geocoder language to be German, got %s", conf.GeocoderLanguage())
		}
		if conf.Client.Timeout != 5*time.Second {
			t.Errorf("expected client timeout to be 5s, got %s", conf.Client.Timeout)
		}
	})
	t.Run("new config with invalid values from env", func(t *testing.T) {
		t.Setenv("CITYWEATHER_LOGLEVEL", "invalid")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate geocoder provider", func(t *testing.T) {
		t.Setenv("CITYWEATHER_GEOCODER_PROVIDER", "invalid")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate geocoder API key requirement", func(t *testing.T) {
		t.Setenv("CITYWEATHER_GEOCODER_PROVIDER", GeocoderOpenCage)
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
		t.Setenv("CITYWEATHER_GEOCODER_APIKEY", "secret")
		if _, err := New(); err != nil {
			t.Errorf("expected config to succeed, got %s", err)
		}
	})
	t.Run("config validate geocoder language", func(t *testing.T) {
		t.Setenv("CITYWEATHER_GEOCODER_LANGUAGE", "not a language")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate cache backend", func(t *testing.T) {
		t.Setenv("CITYWEATHER_GEOCODER_CACHE_BACKEND", "invalid")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate weather provider", func(t *testing.T) {
		t.Setenv("CITYWEATHER_WEATHER_PROVIDER", "invalid")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate client timeout", func(t *testing.T) {
		t.Setenv("CITYWEATHER_CLIENT_TIMEOUT", "-1s")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}

func TestNewFromFile(t *testing.T) {
	t.Run("example config file loads", func(t *testing.T) {
		conf, err := NewFromFile("../../etc", "config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Geocoder.Provider != GeocoderOpenMeteo {
			t.Errorf("expected geocoder provider to be %s, got %s", GeocoderOpenMeteo, conf.Geocoder.Provider)
		}
		if conf.Breaker.FailureThreshold != 5 {
			t.Errorf("expected failure threshold to be 5, got %d", conf.Breaker.FailureThreshold)
		}
	})
	t.Run("missing config file fails", func(t *testing.T) {
		if _, err := NewFromFile("../../etc", "nonexistent.toml"); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("invalid config file fails", func(t *testing.T) {
		if _, err := NewFromFile("../../testdata", "invalid.toml"); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("env file values are exported", func(t *testing.T) {
		t.Setenv("CITYWEATHER_GEOCODER_PROVIDER", "")
		t.Setenv("CITYWEATHER_SERVER_ADDRESS", "")
		_ = os.Unsetenv("CITYWEATHER_GEOCODER_PROVIDER")
		_ = os.Unsetenv("CITYWEATHER_SERVER_ADDRESS")

		if err := LoadDotEnv(filepath.Join("..", "..", "testdata", "test.env")); err != nil {
			t.Fatalf("failed to load env file: %s", err)
		}
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Geocoder.Provider != GeocoderNominatim {
			t.Errorf("expected geocoder provider from env file, got %s", conf.Geocoder.Provider)
		}
		if conf.Server.Address != "127.0.0.1:8080" {
			t.Errorf("expected server address from env file, got %s", conf.Server.Address)
		}
	})
	t.Run("existing variables are not overwritten", func(t *testing.T) {
		t.Setenv("CITYWEATHER_SERVER_ADDRESS", "10.0.0.1:5000")
		t.Setenv("CITYWEATHER_GEOCODER_PROVIDER", "")
		_ = os.Unsetenv("CITYWEATHER_GEOCODER_PROVIDER")
		if err := LoadDotEnv(filepath.Join("..", "..", "testdata", "test.env")); err != nil {
			t.Fatalf("failed to load env file: %s", err)
		}
		if got := os.Getenv("CITYWEATHER_SERVER_ADDRESS"); got != "10.0.0.1:5000" {
			t.Errorf("expected existing variable to be kept, got %s", got)
		}
	})
	t.Run("missing env files are skipped", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("expected missing env file to be skipped, got %s", err)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("explicit config file is used", func(t *testing.T) {
		conf, err := Load(filepath.Join("..", "..", "etc", "config.toml"))
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Server.Address != "0.0.0.0:5000" {
			t.Errorf("expected server address from file, got %s", conf.Server.Address)
		}
	})
	t.Run("config file in the home directory is used", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		dir := filepath.Join(home, ".config", "city-weather")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create config dir: %s", err)
		}
		data := []byte("[geocoder]\nprovider = \"nominatim\"\n")
		if err := os.WriteFile(filepath.Join(dir, "config.toml"), data, 0o600); err != nil {
			t.Fatalf("failed to write config file: %s", err)
		}
		conf, err := Load("")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Geocoder.Provider != GeocoderNominatim {
			t.Errorf("expected geocoder provider from home config, got %s", conf.Geocoder.Provider)
		}
	})
	t.Run("defaults are used without config file", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		conf, err := Load("")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Geocoder.Provider != GeocoderOpenMeteo {
			t.Errorf("expected default geocoder provider, got %s", conf.Geocoder.Provider)
		}
	})
	t.Run("missing explicit config file fails", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}
