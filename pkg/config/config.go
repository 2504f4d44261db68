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

// Package config loads the dashboard configuration from defaults, an optional
// JSON file and SIGNALSENTRY_ environment overrides.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/carverauto/signalsentry/pkg/logger"
	"github.com/carverauto/signalsentry/pkg/models"
)

const (
	// EnvPrefix is prepended to every environment override.
	EnvPrefix = "SIGNALSENTRY_"

	TransportSSE  = "sse"
	TransportNATS = "nats"

	defaultBaseURL      = "http://localhost:8000"
	defaultPrefix       = "/api/v1"
	defaultStreamPath   = "/stream/events"
	defaultNATSURL      = "nats://127.0.0.1:4222"
	defaultNATSSubject  = "signalsentry.events"
	defaultTimeout      = 10 * time.Second
	defaultFetchRate    = 5.0
	defaultFetchBurst   = 5
	defaultActiveLimit  = 10
	defaultCooldown     = 8 * time.Second
	defaultStatusTTL    = 6 * time.Second
	defaultInitialRetry = time.Second
	defaultMaxRetry     = 30 * time.Second
	defaultExport       = 15 * time.Second
)

var (
	errMissingBaseURL      = errors.New("api.base_url is required")
	errInvalidTimeout      = errors.New("api.timeout must be positive")
	errInvalidTransport    = errors.New("stream.transport must be \"sse\" or \"nats\"")
	errMissingNATSSubject  = errors.New("stream.nats_subject is required for the nats transport")
	errInvalidFetchRate    = errors.New("stream.alert_fetch_rate must be positive")
	errInvalidFetchBurst   = errors.New("stream.alert_fetch_burst must be at least 1")
	errInvalidReconnect    = errors.New("stream.reconnect.initial_interval must not exceed max_interval")
	errInvalidActiveLimit  = errors.New("sync.active_incident_limit must be at least 1")
	errInvalidCooldown     = errors.New("sync.service_refresh_cooldown must be positive")
	errInvalidStatusTTL    = errors.New("sync.status_message_ttl must be positive")
	errConfigNotFound      = errors.New("config file not found")
)

// ConfigLoader fills dst from a source identified by path.
type ConfigLoader interface {
	Load(ctx context.Context, path string, dst interface{}) error
}

// Validator is implemented by configurations that can check themselves.
type Validator interface {
	Validate() error
}

// Config is the complete dashboard configuration.
type Config struct {
	API       APIConfig       `json:"api"`
	Stream    StreamConfig    `json:"stream"`
	Sync      SyncConfig      `json:"sync"`
	Logging   logger.Config   `json:"logging"`
	Telemetry TelemetryConfig `json:"telemetry"`
}

// APIConfig locates the backend REST API.
type APIConfig struct {
	BaseURL string          `json:"base_url"`
	Prefix  string          `json:"prefix"`
	Timeout models.Duration `json:"timeout"`
}

// StreamConfig selects the event transport. URL defaults to the backend's SSE
// endpoint under the API prefix when left empty.
type StreamConfig struct {
	Transport       string          `json:"transport"`
	URL             string          `json:"url"`
	NATSURL         string          `json:"nats_url"`
	NATSSubject     string          `json:"nats_subject"`
	AlertFetchRate  float64         `json:"alert_fetch_rate"`
	AlertFetchBurst int             `json:"alert_fetch_burst"`
	Reconnect       ReconnectConfig `json:"reconnect"`
}

// ReconnectConfig controls the opt-in backoff after the stream drops.
// A zero MaxElapsed retries forever.
type ReconnectConfig struct {
	Enabled         bool            `json:"enabled"`
	InitialInterval models.Duration `json:"initial_interval"`
	MaxInterval     models.Duration `json:"max_interval"`
	MaxElapsed      models.Duration `json:"max_elapsed"`
}

// SyncConfig bounds the reconciled state.
type SyncConfig struct {
	ActiveIncidentLimit    int             `json:"active_incident_limit"`
	ServiceRefreshCooldown models.Duration `json:"service_refresh_cooldown"`
	StatusMessageTTL       models.Duration `json:"status_message_ttl"`
}

// TelemetryConfig toggles the OTel pipelines. The collector itself is
// configured under logging.otel.
type TelemetryConfig struct {
	Enabled        bool            `json:"enabled"`
	ExportInterval models.Duration `json:"export_interval"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: defaultBaseURL,
			Prefix:  defaultPrefix,
			Timeout: models.Duration(defaultTimeout),
		},
		Stream: StreamConfig{
			Transport:       TransportSSE,
			NATSURL:         defaultNATSURL,
			NATSSubject:     defaultNATSSubject,
			AlertFetchRate:  defaultFetchRate,
			AlertFetchBurst: defaultFetchBurst,
			Reconnect: ReconnectConfig{
				InitialInterval: models.Duration(defaultInitialRetry),
				MaxInterval:     models.Duration(defaultMaxRetry),
			},
		},
		Sync: SyncConfig{
			ActiveIncidentLimit:    defaultActiveLimit,
			ServiceRefreshCooldown: models.Duration(defaultCooldown),
			StatusMessageTTL:       models.Duration(defaultStatusTTL),
		},
		Logging: *logger.DefaultConfig(),
		Telemetry: TelemetryConfig{
			ExportInterval: models.Duration(defaultExport),
		},
	}
}

// Loader applies the configuration layers in order.
type Loader struct {
	file   ConfigLoader
	env    ConfigLoader
	logger logger.Logger
}

// NewLoader creates a Loader reading JSON files and SIGNALSENTRY_ variables.
func NewLoader(log logger.Logger) *Loader {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Loader{
		file:   &FileConfigLoader{},
		env:    NewEnvConfigLoader(log, EnvPrefix),
		logger: log,
	}
}

// Load builds a Config from defaults, the JSON file at path (skipped when path
// is empty) and the environment, then normalizes and validates it.
func (l *Loader) Load(ctx context.Context, path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", errConfigNotFound, path, err)
		}

		if err := l.file.Load(ctx, path, cfg); err != nil {
			return nil, err
		}

		l.logger.Debug().Str("path", path).Msg("Loaded configuration file")
	}

	if err := l.env.Load(ctx, "", cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.Normalize()

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is a convenience wrapper around NewLoader(log).Load.
func Load(ctx context.Context, path string, log logger.Logger) (*Config, error) {
	return NewLoader(log).Load(ctx, path)
}

// ValidateConfig validates a configuration if it implements Validator.
func ValidateConfig(cfg interface{}) error {
	v, ok := cfg.(Validator)
	if !ok {
		return nil
	}

	return v.Validate()
}

// Normalize trims URL separators and derives the SSE URL when unset.
func (c *Config) Normalize() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")

	prefix := strings.Trim(strings.TrimSpace(c.API.Prefix), "/")
	if prefix != "" {
		prefix = "/" + prefix
	}

	c.API.Prefix = prefix
	c.Stream.Transport = strings.ToLower(strings.TrimSpace(c.Stream.Transport))

	if c.Stream.URL == "" && c.API.BaseURL != "" {
		c.Stream.URL = c.API.BaseURL + c.API.Prefix + defaultStreamPath
	}
}

// Validate implements Validator.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errMissingBaseURL
	}

	if c.API.Timeout <= 0 {
		return errInvalidTimeout
	}

	if err := c.Stream.validate(); err != nil {
		return err
	}

	switch {
	case c.Sync.ActiveIncidentLimit < 1:
		return errInvalidActiveLimit
	case c.Sync.ServiceRefreshCooldown <= 0:
		return errInvalidCooldown
	case c.Sync.StatusMessageTTL <= 0:
		return errInvalidStatusTTL
	}

	return nil
}

func (s *StreamConfig) validate() error {
	switch s.Transport {
	case TransportSSE:
	case TransportNATS:
		if s.NATSSubject == "" {
			return errMissingNATSSubject
		}
	default:
		return fmt.Errorf("%w: %q", errInvalidTransport, s.Transport)
	}

	if s.AlertFetchRate <= 0 {
		return errInvalidFetchRate
	}

	if s.AlertFetchBurst < 1 {
		return errInvalidFetchBurst
	}

	if s.Reconnect.Enabled && s.Reconnect.InitialInterval > s.Reconnect.MaxInterval {
		return errInvalidReconnect
	}

	return nil
}
