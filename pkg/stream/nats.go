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

package stream

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/signalsentry/pkg/logger"
)

const (
	natsMessageBuffer = 256
	natsFlushTimeout  = 5 * time.Second
)

// NATSSource subscribes to a subject carrying the same JSON payloads as the SSE feed.
type NATSSource struct {
	url     string
	subject string
	opts    []nats.Option
	logger  logger.Logger
}

// NewNATSSource creates a source for subject on the server at url. Extra
// options (credentials, TLS) are appended after the defaults.
func NewNATSSource(url, subject string, log logger.Logger, opts ...nats.Option) (*NATSSource, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errMissingURL
	}

	if strings.TrimSpace(subject) == "" {
		return nil, errMissingSubject
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &NATSSource{url: url, subject: subject, opts: opts, logger: log}, nil
}

// Stream implements Source. The NATS client handles transient reconnects
// itself; Stream returns once the connection is closed for good.
func (s *NATSSource) Stream(ctx context.Context, opened func(), handle func(data []byte)) error {
	closed := make(chan struct{})

	var once sync.Once

	opts := append([]nats.Option{
		nats.Name("signalsentry"),
		nats.ClosedHandler(func(_ *nats.Conn) {
			once.Do(func() { close(closed) })
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			s.logger.Warn().Err(err).Str("subject", s.subject).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			s.logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}, s.opts...)

	nc, err := nats.Connect(s.url, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer nc.Close()

	msgs := make(chan *nats.Msg, natsMessageBuffer)

	sub, err := nc.ChanSubscribe(s.subject, msgs)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.subject, err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	flushCtx, cancel := context.WithTimeout(ctx, natsFlushTimeout)
	err = nc.FlushWithContext(flushCtx)

	cancel()

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		return fmt.Errorf("failed to flush subscription: %w", err)
	}

	s.logger.Debug().Str("subject", s.subject).Msg("NATS subscription opened")

	if opened != nil {
		opened()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-closed:
			return errConnectionLost
		case msg := <-msgs:
			handle(msg.Data)
		}
	}
}
