// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the city-weather backend server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wneessen/city-weather/internal/config"
	"github.com/wneessen/city-weather/internal/logger"
	"github.com/wneessen/city-weather/internal/server"
	"github.com/wneessen/city-weather/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	confPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Error("failed to load .env file", logger.Err(err))
		os.Exit(1)
	}
	conf, err := config.Load(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}
	log = logger.New(conf.LogLevel)

	// Initialize the service
	serv, err := service.New(conf, log)
	if err != nil {
		log.Error("failed to initialize weather service", logger.Err(err))
		os.Exit(1)
	}
	if err = serv.Start(ctx); err != nil {
		log.Error("failed to start weather service", logger.Err(err))
		os.Exit(1)
	}
	defer func() {
		if err := serv.Shutdown(); err != nil {
			log.Error("failed to shut down weather service", logger.Err(err))
		}
	}()

	srv, err := server.New(conf, log, serv)
	if err != nil {
		log.Error("failed to initialize server", logger.Err(err))
		os.Exit(1)
	}

	log.Info("starting city-weather server", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = srv.ListenAndServe(ctx); err != nil {
		log.Error("city-weather server failed", logger.Err(err))
	}
	log.Info("shutting down city-weather server")
}
