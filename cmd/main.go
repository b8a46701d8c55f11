/*
Copyright 2025 The resistor-search Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/common/version"
	"github.com/spf13/pflag"

	"github.com/ohmkit/resistor-search/internal/config"
	"github.com/ohmkit/resistor-search/internal/logging"
	"github.com/ohmkit/resistor-search/internal/metrics"
	"github.com/ohmkit/resistor-search/internal/server"
)

func main() {
	var (
		configPath    string
		listenAddress string
		series        string
		verbosity     int
		development   bool
		showVersion   bool
	)
	pflag.StringVar(&configPath, "config", "", "Path to the YAML configuration file.")
	pflag.StringVar(&listenAddress, "listen-address", "", "Listen address, overriding the configuration.")
	pflag.StringVar(&series, "series", "", "Default value table, overriding the configuration.")
	pflag.IntVarP(&verbosity, "verbosity", "v", -1, "Log verbosity, overriding the configuration.")
	pflag.BoolVar(&development, "development", false, "Use the development log encoding.")
	pflag.BoolVar(&showVersion, "version", false, "Print version information and exit.")
	pflag.Parse()

	if showVersion {
		fmt.Println(version.Print("resistor-search"))
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if listenAddress != "" {
		cfg.Server.ListenAddress = listenAddress
	}
	if series != "" {
		cfg.Search.Series = series
	}
	if verbosity >= 0 {
		cfg.Logging.Verbosity = verbosity
	}
	if development {
		cfg.Logging.Development = true
	}

	logger := logging.NewLogger(cfg.Logging.Verbosity, cfg.Logging.Development)
	logger.Info("Starting resistor-search",
		"version", version.Info(),
		"series", cfg.Search.Series,
		"listenAddress", cfg.Server.ListenAddress)

	srv, err := server.New(cfg, logger, metrics.New())
	if err != nil {
		logger.Error(err, "Failed to assemble server")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.Error(err, "Server exited with error")
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
