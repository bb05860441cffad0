// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kkyr/fig"
	"golang.org/x/text/language"
)

const configEnv = "CITYWEATHER"

// Supported provider and cache backend names.
const (
	GeocoderOpenMeteo    = "open-meteo"
	GeocoderNominatim    = "nominatim"
	GeocoderOpenCage     = "opencage"
	GeocoderGeocodeEarth = "geocode-earth"
	WeatherOpenMeteo     = "open-meteo"
	CacheBackendMemory   = "memory"
	CacheBackendRedis    = "redis"
)

// Config represents the application's configuration structure.
type Config struct {
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Server struct {
		Address         string        `fig:"address" default:"0.0.0.0:5000"`
		ReadTimeout     time.Duration `fig:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `fig:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `fig:"shutdown_timeout" default:"10s"`
		// Responses are gzip compressed unless disabled
		DisableCompression bool `fig:"disable_compression"`
	} `fig:"server"`

	Client struct {
		BackendURL string `fig:"backend_url" default:"http://localhost:5000"`
		// Zero disables the timeout
		Timeout time.Duration `fig:"timeout"`
	} `fig:"client"`

	Geocoder struct {
		// Allowed values: open-meteo, nominatim, opencage, geocode-earth
		Provider           string        `fig:"provider" default:"open-meteo"`
		APIKey             string        `fig:"apikey"`
		Language           string        `fig:"language" default:"en"`
		CacheHitTTL        time.Duration `fig:"cache_hit_ttl" default:"24h"`
		CacheMissTTL       time.Duration `fig:"cache_miss_ttl" default:"10m"`
		CacheBackend       string        `fig:"cache_backend" default:"memory"`
		CachePurgeInterval time.Duration `fig:"cache_purge_interval" default:"10m"`
	} `fig:"geocoder"`

	Weather struct {
		Provider string        `fig:"provider" default:"open-meteo"`
		Timeout  time.Duration `fig:"timeout" default:"10s"`
	} `fig:"weather"`

	Redis struct {
		Address  string `fig:"address" default:"localhost:6379"`
		Password string `fig:"password"`
		DB       int    `fig:"db"`
	} `fig:"redis"`

	Breaker struct {
		MaxRequests      uint32        `fig:"max_requests" default:"1"`
		Interval         time.Duration `fig:"interval" default:"1m"`
		Timeout          time.Duration `fig:"timeout" default:"30s"`
		FailureThreshold uint32        `fig:"failure_threshold" default:"5"`
	} `fig:"breaker"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// Load resolves the configuration the way the binaries do: an explicitly given file wins,
// otherwise a config file in the user's config directory is used if present, otherwise the
// defaults and environment apply.
func Load(confPath string) (*Config, error) {
	if confPath != "" {
		return NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
	}
	if path, file := FindConfigFile(); path != "" && file != "" {
		return NewFromFile(path, file)
	}
	return New()
}

// LoadDotEnv reads the given .env files into the process environment. Missing files are
// skipped and variables that are already set are not overwritten.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load env file %q: %w", file, err)
		}
	}
	return nil
}

// FindConfigFile looks for a config file in the user's config directory and returns its
// directory and file name. Both are empty if none exists.
func FindConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "city-weather", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}

func (c *Config) Validate() error {
	switch c.Geocoder.Provider {
	case GeocoderOpenMeteo, GeocoderNominatim:
	case GeocoderOpenCage, GeocoderGeocodeEarth:
		if c.Geocoder.APIKey == "" {
			return fmt.Errorf("geocoder provider %s requires an API key", c.Geocoder.Provider)
		}
	default:
		return fmt.Errorf("invalid geocoder provider: %s", c.Geocoder.Provider)
	}
	if _, err := language.Parse(c.Geocoder.Language); err != nil {
		return fmt.Errorf("invalid geocoder language %q: %w", c.Geocoder.Language, err)
	}
	if c.Geocoder.CacheBackend != CacheBackendMemory && c.Geocoder.CacheBackend != CacheBackendRedis {
		return fmt.Errorf("invalid geocoder cache backend: %s", c.Geocoder.CacheBackend)
	}
	if c.Geocoder.CachePurgeInterval <= 0 {
		return fmt.Errorf("invalid geocoder cache purge interval: %s", c.Geocoder.CachePurgeInterval)
	}
	if c.Weather.Provider != WeatherOpenMeteo {
		return fmt.Errorf("invalid weather provider: %s", c.Weather.Provider)
	}
	if c.Client.BackendURL == "" {
		return errors.New("client backend URL must not be empty")
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("invalid client timeout: %s", c.Client.Timeout)
	}
	if c.Breaker.FailureThreshold < 1 {
		return fmt.Errorf("invalid breaker failure threshold: %d", c.Breaker.FailureThreshold)
	}

	return nil
}

// GeocoderLanguage returns the parsed geocoder language. Validate guarantees it parses.
func (c *Config) GeocoderLanguage() language.Tag {
	tag, err := language.Parse(c.Geocoder.Language)
	if err != nil {
		return language.English
	}
	return tag
}
