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
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"github.com/carverauto/signalsentry/pkg/logger"
	"github.com/carverauto/signalsentry/pkg/models"
)

const (
	defaultFetchRate  = 5
	defaultFetchBurst = 5
)

// State is the reader's connection status.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateReconnecting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// IncidentFetcher loads the full incident an alert refers to.
type IncidentFetcher interface {
	Incident(ctx context.Context, id int64) (*models.Incident, error)
}

// Sink receives the reconciled results of stream events.
type Sink interface {
	UpsertIncident(inc models.Incident) bool
	RefreshServices(ctx context.Context, force bool) (bool, error)
}

// ReconnectPolicy enables exponential backoff after the stream drops.
// A zero MaxElapsed retries until the context ends.
type ReconnectPolicy struct {
	Enabled         bool
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
}

// ReaderConfig wires a Reader.
type ReaderConfig struct {
	Source        Source
	Fetcher       IncidentFetcher
	Sink          Sink
	Logger        logger.Logger
	Clock         clock.Clock
	FetchRate     float64
	FetchBurst    int
	Reconnect     ReconnectPolicy
	OnStateChange func(State)
}

// Reader consumes a Source and turns events into fetches against the Sink.
// Payloads are handled one at a time in arrival order; the fetches they
// trigger run concurrently and may finish in any order.
type Reader struct {
	source    Source
	fetcher   IncidentFetcher
	sink      Sink
	logger    logger.Logger
	clock     clock.Clock
	limiter   *rate.Limiter
	reconnect ReconnectPolicy
	onState   func(State)

	state atomic.Int32
	wg    sync.WaitGroup
}

// NewReader validates cfg and returns an idle Reader.
func NewReader(cfg ReaderConfig) (*Reader, error) {
	switch {
	case cfg.Source == nil:
		return nil, errMissingSource
	case cfg.Fetcher == nil:
		return nil, errMissingFetcher
	case cfg.Sink == nil:
		return nil, errMissingSink
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	fetchRate := cfg.FetchRate
	if fetchRate <= 0 {
		fetchRate = defaultFetchRate
	}

	burst := cfg.FetchBurst
	if burst < 1 {
		burst = defaultFetchBurst
	}

	return &Reader{
		source:    cfg.Source,
		fetcher:   cfg.Fetcher,
		sink:      cfg.Sink,
		logger:    log,
		clock:     clk,
		limiter:   rate.NewLimiter(rate.Limit(fetchRate), burst),
		reconnect: cfg.Reconnect,
		onState:   cfg.OnStateChange,
	}, nil
}

// State reports the current connection status.
func (r *Reader) State() State {
	return State(r.state.Load())
}

func (r *Reader) setState(s State) {
	if State(r.state.Swap(int32(s))) == s {
		return
	}

	r.logger.Debug().Str("state", s.String()).Msg("Event stream state changed")

	if r.onState != nil {
		r.onState(s)
	}
}

// Run subscribes and processes events until ctx is cancelled, returning nil,
// or until the subscription ends and reconnecting is disabled or exhausted,
// returning an error wrapping ErrStreamClosed. Run waits for the fetches it
// started before returning.
func (r *Reader) Run(ctx context.Context) error {
	defer r.setState(StateClosed)
	defer r.wg.Wait()

	var budget *reconnectBudget

	if r.reconnect.Enabled {
		budget = r.newBudget()
	}

	for attempt := 0; ; attempt++ {
		if attempt == 0 {
			r.setState(StateConnecting)
		}

		var delivered bool

		err := r.source.Stream(ctx, func() {
			recordConnect(ctx, "open")
			r.setState(StateOpen)
		}, func(data []byte) {
			delivered = true

			r.handle(ctx, data)
		})

		if ctx.Err() != nil {
			return nil
		}

		if err == nil {
			err = errStreamEnded
		}

		recordConnect(ctx, "lost")

		if budget == nil {
			r.logger.Warn().Err(err).Msg("Event stream closed")

			return fmt.Errorf("%w: %w", ErrStreamClosed, err)
		}

		if delivered {
			budget.reset()
		}

		wait := budget.next()
		if wait == backoff.Stop {
			r.logger.Warn().Err(err).Int("attempts", attempt+1).Msg("Event stream reconnect budget exhausted")

			return fmt.Errorf("%w: %w", ErrStreamClosed, err)
		}

		r.setState(StateReconnecting)
		r.logger.Info().Err(err).Dur("retry_in", wait).Msg("Event stream dropped, reconnecting")

		timer := r.clock.Timer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()

			return nil
		case <-timer.C:
		}
	}
}

// reconnectBudget pairs an exponential backoff with an elapsed-time limit
// measured on the reader's clock.
type reconnectBudget struct {
	bo         *backoff.ExponentialBackOff
	clock      clock.Clock
	maxElapsed time.Duration
	start      time.Time
}

func (r *Reader) newBudget() *reconnectBudget {
	bo := backoff.NewExponentialBackOff()

	if r.reconnect.InitialInterval > 0 {
		bo.InitialInterval = r.reconnect.InitialInterval
	}

	if r.reconnect.MaxInterval > 0 {
		bo.MaxInterval = r.reconnect.MaxInterval
	}

	b := &reconnectBudget{bo: bo, clock: r.clock, maxElapsed: r.reconnect.MaxElapsed}
	b.reset()

	return b
}

func (b *reconnectBudget) reset() {
	b.bo.Reset()
	b.start = b.clock.Now()
}

// next returns the wait before the following attempt, or backoff.Stop once
// waiting would pass maxElapsed. A zero maxElapsed never stops.
func (b *reconnectBudget) next() time.Duration {
	wait := b.bo.NextBackOff()
	if wait == backoff.Stop {
		return wait
	}

	if b.maxElapsed > 0 && b.clock.Since(b.start)+wait > b.maxElapsed {
		return backoff.Stop
	}

	return wait
}

func (r *Reader) handle(ctx context.Context, data []byte) {
	evt, err := Decode(data)
	if err != nil {
		recordEvent(ctx, eventTypeInvalid)
		r.logger.Warn().Err(err).Int("bytes", len(data)).Msg("Dropping malformed stream event")

		return
	}

	recordEvent(ctx, evt.Type)

	switch evt.Type {
	case models.EventIncidentAlert:
		id, ok := evt.Incident()
		if !ok {
			r.logger.Debug().Msg("Ignoring incident alert without incident id")
			return
		}

		r.wg.Add(1)

		go func() {
			defer r.wg.Done()

			r.fetchIncident(ctx, id)
		}()
	case models.EventMetricUpdate:
		r.wg.Add(1)

		go func() {
			defer r.wg.Done()

			if _, err := r.sink.RefreshServices(ctx, false); err != nil && ctx.Err() == nil {
				r.logger.Warn().Err(err).Msg("Service summary refresh failed")
			}
		}()
	default:
		r.logger.Debug().Str("type", evt.Type).Msg("Ignoring stream event")
	}
}

func (r *Reader) fetchIncident(ctx context.Context, id int64) {
	if err := r.limiter.Wait(ctx); err != nil {
		return
	}

	inc, err := r.fetcher.Incident(ctx, id)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn().Err(err).Int64("incident_id", id).Msg("Failed to fetch alerted incident")
		}

		return
	}

	if inc == nil {
		r.logger.Warn().Int64("incident_id", id).Msg("Backend returned no incident")
		return
	}

	if err := inc.Validate(); err != nil {
		r.logger.Warn().Err(err).Int64("incident_id", id).Msg("Discarding invalid incident")
		return
	}

	if !r.sink.UpsertIncident(*inc) {
		r.logger.Debug().Int64("incident_id", id).Msg("Incident arrived after teardown")
	}
}

// IsClosed reports whether err means the stream ended for good.
func IsClosed(err error) bool {
	return errors.Is(err, ErrStreamClosed)
}
