// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the city-weather terminal widget.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/wneessen/city-weather/internal/backend"
	"github.com/wneessen/city-weather/internal/config"
	"github.com/wneessen/city-weather/internal/http"
	"github.com/wneessen/city-weather/internal/logger"
	"github.com/wneessen/city-weather/internal/presenter"
	"github.com/wneessen/city-weather/internal/widget"
)

const prompt = "Enter city name: "

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	log := logger.New(slog.LevelError)

	confPath := flag.String("config", "", "path to the config file")
	city := flag.String("city", "", "query the weather for this city once and exit")
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

	fetcher, err := backend.New(http.New(log), conf.Client.BackendURL, conf.Client.Timeout)
	if err != nil {
		log.Error("failed to initialize backend client", logger.Err(err))
		os.Exit(1)
	}
	term, err := presenter.NewTerminal(os.Stdout, log)
	if err != nil {
		log.Error("failed to initialize terminal presenter", logger.Err(err))
		os.Exit(1)
	}
	wdgt, err := widget.New(fetcher, term, log)
	if err != nil {
		log.Error("failed to initialize widget", logger.Err(err))
		os.Exit(1)
	}

	if flagSet("city") {
		if state := wdgt.Submit(ctx, *city); state.Error != "" {
			os.Exit(1)
		}
		return
	}
	interactive(ctx, wdgt, os.Stdin)
}

// interactive submits every line read from input. Each submission runs in its own
// goroutine, so a new line supersedes a query that is still pending.
func interactive(ctx context.Context, wdgt *widget.Widget, input io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	var wg sync.WaitGroup
	defer wg.Wait()
	fmt.Print(prompt)
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			wg.Go(func() {
				wdgt.Submit(ctx, line)
				fmt.Print(prompt)
			})
		}
	}
}

func flagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
