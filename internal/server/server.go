// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package server exposes the weather lookup as HTTP backend and serves the widget page.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/klauspost/compress/gzhttp"

	"github.com/wneessen/city-weather/internal/backend"
	"github.com/wneessen/city-weather/internal/config"
	"github.com/wneessen/city-weather/internal/logger"
	"github.com/wneessen/city-weather/internal/service"
	"github.com/wneessen/city-weather/internal/template"
	"github.com/wneessen/city-weather/internal/weather"
)

// WeatherService is the part of the lookup service the handlers depend on.
type WeatherService interface {
	Lookup(ctx context.Context, city string) (*weather.Report, error)
	Health(ctx context.Context) service.Health
}

type Server struct {
	config    *config.Config
	logger    *logger.Logger
	service   WeatherService
	templates *template.Templates
	validate  *validator.Validate
	router    *chi.Mux
}

func New(conf *config.Config, log *logger.Logger, svc WeatherService) (*Server, error) {
	if conf == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if svc == nil {
		return nil, errors.New("weather service is required")
	}
	tpls, err := template.New()
	if err != nil {
		return nil, err
	}

	server := &Server{
		config:    conf,
		logger:    log,
		service:   svc,
		templates: tpls,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		router:    chi.NewRouter(),
	}
	server.mountRoutes()
	return server, nil
}

// Handler returns the router with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe listens on the configured address and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.config.Server.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.Address, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is canceled. Open requests get
// server.shutdown_timeout to complete.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.config.Server.ReadTimeout,
		ReadHeaderTimeout: s.config.Server.ReadTimeout,
		WriteTimeout:      s.config.Server.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("weather backend listening", slog.String("address", listener.Addr().String()))
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down weather backend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return <-errChan
}

func (s *Server) mountRoutes() {
	s.router.Use(s.recoverer)
	s.router.Use(requestID)
	s.router.Use(requestLogger(s.logger))
	if !s.config.Server.DisableCompression {
		s.router.Use(func(next http.Handler) http.Handler {
			return gzhttp.GzipHandler(next)
		})
	}

	s.router.Get("/", s.handleIndex)
	s.router.Get(backend.Endpoint, s.handleWeather)
	s.router.Get("/health", s.handleHealth)
}
