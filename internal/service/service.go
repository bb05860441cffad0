// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sony/gobreaker/v2"

	"github.com/wneessen/city-weather/internal/config"
	"github.com/wneessen/city-weather/internal/geocode"
	"github.com/wneessen/city-weather/internal/logger"
	"github.com/wneessen/city-weather/internal/weather"
)

const cachePurgeJob = "geocode_cache_purge_job"

// Service resolves a city name to its current weather. Geocoder and weather provider calls
// each pass through their own circuit breaker.
type Service struct {
	config    *config.Config
	logger    *logger.Logger
	geocoder  geocode.Geocoder
	provider  weather.Provider
	scheduler gocron.Scheduler

	memStore   *geocode.MemoryStore
	redisStore *geocode.RedisStore

	geoBreaker     *gobreaker.CircuitBreaker[geocode.Address]
	weatherBreaker *gobreaker.CircuitBreaker[*weather.Data]
}

// Option customizes a Service during construction.
type Option func(*Service)

// WithGeocoder replaces the configured geocoder. The geocoder is used as is, without a cache.
func WithGeocoder(geocoder geocode.Geocoder) Option {
	return func(s *Service) {
		s.geocoder = geocoder
	}
}

// WithWeatherProvider replaces the configured weather provider.
func WithWeatherProvider(provider weather.Provider) Option {
	return func(s *Service) {
		s.provider = provider
	}
}

func New(conf *config.Config, log *logger.Logger, opts ...Option) (*Service, error) {
	if conf == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	service := &Service{
		config:    conf,
		logger:    log,
		scheduler: scheduler,
	}
	for _, opt := range opts {
		opt(service)
	}

	if service.geocoder == nil {
		coder, err := service.selectGeocodeProvider(conf.GeocoderLanguage())
		if err != nil {
			return nil, fmt.Errorf("failed to create geocoder: %w", err)
		}
		service.geocoder = geocode.NewCachedGeocoder(coder, service.selectCacheStore(), log,
			conf.Geocoder.CacheHitTTL, conf.Geocoder.CacheMissTTL)
	}
	if service.provider == nil {
		provider, err := service.selectWeatherProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create weather provider: %w", err)
		}
		service.provider = provider
	}

	service.geoBreaker = gobreaker.NewCircuitBreaker[geocode.Address](service.breakerSettings("geocoder"))
	service.weatherBreaker = gobreaker.NewCircuitBreaker[*weather.Data](service.breakerSettings("weather"))

	return service, nil
}

// Start runs the background jobs of the service until Shutdown is called.
func (s *Service) Start(ctx context.Context) error {
	if s.memStore != nil {
		if err := s.createScheduledJob(ctx, s.config.Geocoder.CachePurgeInterval, s.purgeCache,
			cachePurgeJob); err != nil {
			return err
		}
	}
	if s.redisStore != nil {
		if err := s.redisStore.Ping(ctx); err != nil {
			s.logger.Warn("redis geocode cache is not reachable, lookups will bypass the cache",
				logger.Err(err), slog.String("address", s.config.Redis.Address))
		}
	}
	s.scheduler.Start()
	return nil
}

// Shutdown stops the background jobs and releases the cache connection.
func (s *Service) Shutdown() error {
	var errs []error
	if err := s.scheduler.Shutdown(); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down scheduler: %w", err))
	}
	if s.redisStore != nil {
		if err := s.redisStore.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Lookup geocodes the city and fetches the current weather for the first match.
func (s *Service) Lookup(ctx context.Context, city string) (*weather.Report, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrCityRequired
	}

	addr, err := s.geoBreaker.Execute(func() (geocode.Address, error) {
		return s.geocoder.Search(ctx, city)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to geocode %q: %w: %w", city, ErrUpstream, err)
	}
	if !addr.AddressFound {
		return nil, fmt.Errorf("%w: %q", ErrLocationNotFound, city)
	}

	coords := weather.Coordinate{Lat: addr.Latitude, Lon: addr.Longitude}
	if !coords.Valid() {
		return nil, fmt.Errorf("geocoder %s returned invalid coordinates %f/%f", s.geocoder.Name(),
			coords.Lat, coords.Lon)
	}

	data, err := s.weatherBreaker.Execute(func() (*weather.Data, error) {
		return s.provider.GetWeather(ctx, coords)
	})
	if errors.Is(err, weather.ErrNoCurrentWeather) {
		return nil, fmt.Errorf("failed to fetch weather for %q: %w", city, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather for %q: %w: %w", city, ErrUpstream, err)
	}

	units := data.Current.Units
	s.logger.Debug("weather lookup completed", slog.String("city", city),
		slog.String("location", addr.DisplayName), slog.Bool("geocode_cache_hit", addr.CacheHit),
		slog.String("observed_at", data.Current.InstantTime.Format("2006-01-02T15:04")),
		slog.String("temperature", fmt.Sprintf("%g%s", data.Current.Temperature, units.Temperature)),
		slog.String("wind_speed", fmt.Sprintf("%g%s", data.Current.WindSpeed, units.WindSpeed)))
	if units.WindSpeed != "" && units.WindSpeed != weather.UnitWindSpeed {
		s.logger.Warn("weather provider reported wind speed in an unexpected unit",
			slog.String("provider", s.provider.Name()), slog.String("unit", units.WindSpeed),
			slog.String("expected", weather.UnitWindSpeed))
	}

	location := weather.Location{
		Name:      addr.Name,
		Country:   addr.Country,
		Latitude:  addr.Latitude,
		Longitude: addr.Longitude,
	}
	if location.Name == "" {
		location.Name = city
	}
	if location.Country == "" {
		location.Country = addr.CountryCode
	}
	return weather.NewReport(location, data), nil
}

// Health reports the state of the circuit breakers and the cache backend.
type Health struct {
	Status   string `json:"status"`
	Geocoder string `json:"geocoder"`
	Weather  string `json:"weather"`
	Cache    string `json:"cache"`
}

func (s *Service) Health(ctx context.Context) Health {
	health := Health{
		Status:   "ok",
		Geocoder: s.geoBreaker.State().String(),
		Weather:  s.weatherBreaker.State().String(),
		Cache:    "disabled",
	}
	switch {
	case s.memStore != nil:
		health.Cache = config.CacheBackendMemory
	case s.redisStore != nil:
		health.Cache = config.CacheBackendRedis
		if err := s.redisStore.Ping(ctx); err != nil {
			health.Cache = "unreachable"
			health.Status = "degraded"
		}
	}
	if s.geoBreaker.State() == gobreaker.StateOpen || s.weatherBreaker.State() == gobreaker.StateOpen {
		health.Status = "degraded"
	}
	return health
}

func (s *Service) breakerSettings(name string) gobreaker.Settings {
	threshold := s.config.Breaker.FailureThreshold
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: s.config.Breaker.MaxRequests,
		Interval:    s.config.Breaker.Interval,
		Timeout:     s.config.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn("circuit breaker changed state", slog.String("breaker", name),
				slog.String("from", from.String()), slog.String("to", to.String()))
		},
	}
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

func (s *Service) purgeCache(context.Context) {
	if removed := s.memStore.Purge(); removed > 0 {
		s.logger.Debug("purged expired geocode cache entries", slog.Int("removed", removed),
			slog.Int("remaining", s.memStore.Len()))
	}
}
