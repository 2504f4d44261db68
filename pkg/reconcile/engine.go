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

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/carverauto/signalsentry/pkg/logger"
	"github.com/carverauto/signalsentry/pkg/models"
)

// DefaultServiceRefreshCooldown is the minimum spacing between unforced summary polls.
const DefaultServiceRefreshCooldown = 8 * time.Second

var errMissingFetcher = errors.New("service fetcher is required")

// ServiceFetcher loads the full service summary snapshot.
type ServiceFetcher interface {
	ServiceSummaries(ctx context.Context) ([]models.ServiceSummary, error)
}

// Change identifies which part of the state a commit touched.
type Change int

const (
	ChangeIncidents Change = iota + 1
	ChangeServices
)

func (c Change) String() string {
	switch c {
	case ChangeIncidents:
		return "incidents"
	case ChangeServices:
		return "services"
	default:
		return "unknown"
	}
}

// Config wires an Engine. A zero Cooldown or ActiveLimit selects the default.
type Config struct {
	Fetcher     ServiceFetcher
	Logger      logger.Logger
	Clock       clock.Clock
	ActiveLimit int
	Cooldown    time.Duration
	OnChange    func(Change)
}

// Engine owns one view's State. Every mutation goes through its methods and
// is serialized by mu; OnChange runs after the commit, outside the lock.
type Engine struct {
	fetcher  ServiceFetcher
	logger   logger.Logger
	clock    clock.Clock
	limit    int
	cooldown time.Duration
	onChange func(Change)

	mu           sync.Mutex
	state        State
	closed       bool
	inFlight     int
	started      uint64
	committedGen uint64
}

// NewEngine returns an empty engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Fetcher == nil {
		return nil, errMissingFetcher
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultServiceRefreshCooldown
	}

	return &Engine{
		fetcher:  cfg.Fetcher,
		logger:   log,
		clock:    clk,
		limit:    normalizeLimit(cfg.ActiveLimit),
		cooldown: cooldown,
		onChange: cfg.OnChange,
	}, nil
}

// UpsertIncident folds a freshly fetched incident into the active list.
// It returns false after Close or when inc is invalid.
func (e *Engine) UpsertIncident(inc models.Incident) bool {
	if err := inc.Validate(); err != nil {
		e.logger.Debug().Err(err).Msg("Rejecting invalid incident")
		return false
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}

	e.state = UpsertIncident(e.state, inc, e.limit)
	e.mu.Unlock()

	recordUpsert(context.Background(), "upsert")
	e.notify(ChangeIncidents)

	return true
}

// ReplaceActiveIncidents installs an authoritative incident snapshot.
func (e *Engine) ReplaceActiveIncidents(list []models.Incident) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}

	e.state = ReplaceActiveIncidents(e.state, list, e.limit)
	e.mu.Unlock()

	recordUpsert(context.Background(), "replace")
	e.notify(ChangeIncidents)

	return true
}

// RefreshServices polls the service summaries and replaces them wholesale.
//
// Unless force is set the call is a no-op, returning (false, nil), while
// another refresh is in flight or within the cooldown of the last successful
// one, measured from when that fetch was issued. A failed fetch leaves the
// state and the cooldown untouched. A fetch that completes after a newer one
// already committed is discarded.
func (e *Engine) RefreshServices(ctx context.Context, force bool) (bool, error) {
	e.mu.Lock()

	if e.closed {
		e.mu.Unlock()
		return false, nil
	}

	if !force && e.throttledLocked() {
		e.mu.Unlock()
		recordRefresh(ctx, outcomeThrottled)

		return false, nil
	}

	startedAt := e.clock.Now()
	e.started++
	gen := e.started
	e.inFlight++
	e.mu.Unlock()

	list, err := e.fetcher.ServiceSummaries(ctx)

	e.mu.Lock()
	e.inFlight--

	if err != nil {
		e.mu.Unlock()
		recordRefresh(ctx, outcomeError)

		return false, fmt.Errorf("failed to refresh service summaries: %w", err)
	}

	if e.closed || gen < e.committedGen {
		e.mu.Unlock()
		recordRefresh(ctx, outcomeStale)
		e.logger.Debug().Uint64("generation", gen).Msg("Discarding stale service summaries")

		return false, nil
	}

	e.committedGen = gen
	e.state = ReplaceServices(e.state, list, startedAt)
	count := len(e.state.Services)
	e.mu.Unlock()

	recordRefresh(ctx, outcomeOK)
	e.logger.Debug().Int("services", count).Bool("forced", force).Msg("Service summaries refreshed")
	e.notify(ChangeServices)

	return true, nil
}

func (e *Engine) throttledLocked() bool {
	if e.inFlight > 0 {
		return true
	}

	last := e.state.LastServiceRefresh

	return !last.IsZero() && e.clock.Since(last) < e.cooldown
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state.Clone()
}

// Close turns every later mutation, including in-flight refreshes, into a no-op.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

// Closed reports whether Close was called.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.closed
}

func (e *Engine) notify(c Change) {
	if e.onChange != nil {
		e.onChange(c)
	}
}
