// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"

	"github.com/wneessen/city-weather/internal/config"
	"github.com/wneessen/city-weather/internal/geocode"
	geocodeearth "github.com/wneessen/city-weather/internal/geocode/provider/geocode-earth"
	geoopenmeteo "github.com/wneessen/city-weather/internal/geocode/provider/open-meteo"
	"github.com/wneessen/city-weather/internal/geocode/provider/opencage"
	nominatim "github.com/wneessen/city-weather/internal/geocode/provider/osm-nominatim"
	"github.com/wneessen/city-weather/internal/http"
	"github.com/wneessen/city-weather/internal/weather"
	openmeteo "github.com/wneessen/city-weather/internal/weather/provider/open-meteo"
)

func (s *Service) selectGeocodeProvider(lang language.Tag) (geocode.Geocoder, error) {
	var geocoder geocode.Geocoder

	switch strings.ToLower(s.config.Geocoder.Provider) {
	case config.GeocoderOpenMeteo:
		geocoder = geoopenmeteo.New(http.New(s.logger), lang)
	case config.GeocoderNominatim:
		geocoder = nominatim.New(http.New(s.logger), lang)
	case config.GeocoderOpenCage:
		if s.config.Geocoder.APIKey == "" {
			return nil, fmt.Errorf("opencage geocoder requires an API key")
		}
		geocoder = opencage.New(http.New(s.logger), lang, s.config.Geocoder.APIKey)
	case config.GeocoderGeocodeEarth:
		if s.config.Geocoder.APIKey == "" {
			return nil, fmt.Errorf("geocode-earth geocoder requires an API key")
		}
		geocoder = geocodeearth.New(http.New(s.logger), lang, s.config.Geocoder.APIKey)
	default:
		return nil, fmt.Errorf("unsupported geocoder type: %s", s.config.Geocoder.Provider)
	}

	return geocoder, nil
}

func (s *Service) selectWeatherProvider() (provider weather.Provider, err error) {
	switch strings.ToLower(s.config.Weather.Provider) {
	case config.WeatherOpenMeteo:
		provider, err = openmeteo.New(http.New(s.logger), s.logger, s.config.Weather.Timeout)
		if err != nil {
			return provider, fmt.Errorf("failed to create Open-Meteo weather provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported weather provider: %s", s.config.Weather.Provider)
	}
	return provider, nil
}

func (s *Service) selectCacheStore() geocode.Store {
	if s.config.Geocoder.CacheBackend == config.CacheBackendRedis {
		s.redisStore = geocode.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     s.config.Redis.Address,
			Password: s.config.Redis.Password,
			DB:       s.config.Redis.DB,
		}))
		return s.redisStore
	}
	s.memStore = geocode.NewMemoryStore()
	return s.memStore
}
