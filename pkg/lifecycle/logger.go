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

// Package lifecycle starts and stops the process-wide logging and telemetry.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carverauto/signalsentry/pkg/logger"
	"github.com/carverauto/signalsentry/pkg/version"
)

// ComponentLogger implements the logger.Logger interface for one component.
// Close releases the underlying log file, if any.
type ComponentLogger struct {
	logger zerolog.Logger
	base   *logger.ZerologLogger
}

// CreateComponentLogger creates a logger whose events carry a component field.
// If config is nil, it uses the environment defaults.
func CreateComponentLogger(component string, config *logger.Config) (*ComponentLogger, error) {
	base, err := logger.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &ComponentLogger{
		logger: base.WithComponent(component),
		base:   base,
	}, nil
}

// Close releases the log file.
func (l *ComponentLogger) Close() error {
	return l.base.Close()
}

func (l *ComponentLogger) Trace() *zerolog.Event {
	return l.logger.Trace()
}

func (l *ComponentLogger) Debug() *zerolog.Event {
	return l.logger.Debug()
}

func (l *ComponentLogger) Info() *zerolog.Event {
	return l.logger.Info()
}

func (l *ComponentLogger) Warn() *zerolog.Event {
	return l.logger.Warn()
}

func (l *ComponentLogger) Error() *zerolog.Event {
	return l.logger.Error()
}

func (l *ComponentLogger) Fatal() *zerolog.Event {
	return l.logger.Fatal()
}

func (l *ComponentLogger) Panic() *zerolog.Event {
	return l.logger.Panic()
}

func (l *ComponentLogger) With() zerolog.Context {
	return l.logger.With()
}

// WithComponent replaces this logger's component rather than adding a second field.
func (l *ComponentLogger) WithComponent(component string) zerolog.Logger {
	return l.base.WithComponent(component).Level(l.logger.GetLevel())
}

func (l *ComponentLogger) WithFields(fields map[string]interface{}) zerolog.Logger {
	ctx := l.logger.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}

	return ctx.Logger()
}

func (l *ComponentLogger) SetLevel(level zerolog.Level) {
	l.logger = l.logger.Level(level)
}

func (l *ComponentLogger) SetDebug(debug bool) {
	if debug {
		l.SetLevel(zerolog.DebugLevel)
	} else {
		l.SetLevel(zerolog.InfoLevel)
	}
}

var _ logger.Logger = (*ComponentLogger)(nil)

// TelemetryOptions selects the OTel pipelines to start.
type TelemetryOptions struct {
	ServiceName    string
	OTel           *logger.OTelConfig
	ExportInterval time.Duration
	Debug          bool
	Logger         logger.Logger
}

// InitializeTelemetry starts tracing and, when a collector is configured,
// metrics export. Call ShutdownTelemetry on exit.
func InitializeTelemetry(ctx context.Context, opts TelemetryOptions) error {
	if _, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName:    opts.ServiceName,
		ServiceVersion: version.GetVersion(),
		Debug:          opts.Debug,
		Logger:         opts.Logger,
		OTel:           opts.OTel,
	}); err != nil {
		return err
	}

	if _, err := logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName:    opts.ServiceName,
		ServiceVersion: version.GetVersion(),
		OTel:           opts.OTel,
		ExportInterval: opts.ExportInterval,
	}); err != nil && !errors.Is(err, logger.ErrOTelMetricsDisabled) {
		return err
	}

	return nil
}

// ShutdownTelemetry flushes pending spans and metrics.
func ShutdownTelemetry(ctx context.Context) error {
	return logger.Shutdown(ctx)
}
