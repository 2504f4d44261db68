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

package dashboard

import (
	"fmt"
	"net/http"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/signalsentry/pkg/api"
	"github.com/carverauto/signalsentry/pkg/config"
	"github.com/carverauto/signalsentry/pkg/logger"
	"github.com/carverauto/signalsentry/pkg/stream"
	"github.com/carverauto/signalsentry/pkg/version"
)

// New builds an Overview from a validated configuration.
func New(cfg *config.Config, log logger.Logger) (*Overview, error) {
	if log == nil {
		log = logger.NewTestLogger()
	}

	client, err := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		Prefix:  cfg.API.Prefix,
		Timeout: cfg.API.Timeout.Std(),
		Logger:  logger.ForComponent(log, "api"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	source, err := NewSource(&cfg.Stream, logger.ForComponent(log, "stream"))
	if err != nil {
		return nil, err
	}

	return NewOverview(Options{
		Backend:     client,
		Source:      source,
		Logger:      log,
		ActiveLimit: cfg.Sync.ActiveIncidentLimit,
		Cooldown:    cfg.Sync.ServiceRefreshCooldown.Std(),
		StatusTTL:   cfg.Sync.StatusMessageTTL.Std(),
		FetchRate:   cfg.Stream.AlertFetchRate,
		FetchBurst:  cfg.Stream.AlertFetchBurst,
		Reconnect: stream.ReconnectPolicy{
			Enabled:         cfg.Stream.Reconnect.Enabled,
			InitialInterval: cfg.Stream.Reconnect.InitialInterval.Std(),
			MaxInterval:     cfg.Stream.Reconnect.MaxInterval.Std(),
			MaxElapsed:      cfg.Stream.Reconnect.MaxElapsed.Std(),
		},
	})
}

// NewSource returns the event source selected by the stream transport.
func NewSource(cfg *config.StreamConfig, log logger.Logger) (stream.Source, error) {
	switch cfg.Transport {
	case config.TransportNATS:
		return stream.NewNATSSource(cfg.NATSURL, cfg.NATSSubject, log,
			nats.Name(version.UserAgent()))
	case config.TransportSSE, "":
		// no client timeout: the response body stays open for the life of the subscription
		return stream.NewSSESource(cfg.URL, &http.Client{}, log)
	default:
		return nil, fmt.Errorf("unsupported stream transport %q", cfg.Transport)
	}
}
