/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package app boots the SignalSentry dashboard.
package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/carverauto/signalsentry/pkg/config"
	"github.com/carverauto/signalsentry/pkg/dashboard"
	"github.com/carverauto/signalsentry/pkg/lifecycle"
	"github.com/carverauto/signalsentry/pkg/logger"
	"github.com/carverauto/signalsentry/pkg/tui"
)

const (
	serviceName = "signalsentry"
	tuiLogFile  = "signalsentry.log"
)

// Options contains runtime configuration derived from CLI flags.
type Options struct {
	ConfigPath string
	Debug      bool
	Headless   bool
}

// Run loads the configuration and shows the dashboard until ctx ends or,
// in terminal mode, the user quits.
func Run(ctx context.Context, opts Options) error {
	bootLog := logger.NewTestLogger()

	cfg, err := config.Load(ctx, opts.ConfigPath, bootLog)
	if err != nil {
		return err
	}

	if opts.Debug {
		cfg.Logging.Debug = true
	}

	if !opts.Headless {
		redirectLogs(&cfg.Logging)
	}

	mainLogger, err := lifecycle.CreateComponentLogger("signalsentry-main", &cfg.Logging)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := mainLogger.Close(); closeErr != nil {
			bootLog.Error().Err(closeErr).Msg("Error closing log file")
		}
	}()

	if cfg.Telemetry.Enabled {
		if err := lifecycle.InitializeTelemetry(ctx, lifecycle.TelemetryOptions{
			ServiceName:    serviceName,
			OTel:           &cfg.Logging.OTel,
			ExportInterval: cfg.Telemetry.ExportInterval.Std(),
			Debug:          cfg.Logging.Debug,
			Logger:         mainLogger,
		}); err != nil {
			return err
		}

		defer func() {
			if shutdownErr := lifecycle.ShutdownTelemetry(context.WithoutCancel(ctx)); shutdownErr != nil {
				mainLogger.Error().Err(shutdownErr).Msg("Error shutting down telemetry")
			}
		}()
	}

	overview, err := dashboard.New(cfg, mainLogger)
	if err != nil {
		return err
	}

	mainLogger.Info().
		Str("api", cfg.API.BaseURL+cfg.API.Prefix).
		Str("transport", cfg.Stream.Transport).
		Bool("headless", opts.Headless).
		Msg("Starting dashboard")

	if err := overview.Open(ctx); err != nil {
		return err
	}
	defer overview.Close()

	if opts.Headless {
		return runHeadless(ctx, overview, mainLogger)
	}

	return tui.Run(ctx, overview)
}

// redirectLogs keeps log lines off the terminal the UI draws on.
func redirectLogs(cfg *logger.Config) {
	if cfg.Output == "" || cfg.Output == "stdout" || cfg.Output == "stderr" {
		cfg.Output = filepath.Join(os.TempDir(), tuiLogFile)
	}
}
