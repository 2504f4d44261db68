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

// Package dashboard wires the API client, event stream, reconciliation engine
// and action coordinator into one live overview.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/carverauto/signalsentry/pkg/action"
	"github.com/carverauto/signalsentry/pkg/api"
	"github.com/carverauto/signalsentry/pkg/logger"
	"github.com/carverauto/signalsentry/pkg/models"
	"github.com/carverauto/signalsentry/pkg/reconcile"
	"github.com/carverauto/signalsentry/pkg/stream"
)

var (
	errMissingBackend = errors.New("backend is required")
	errAlreadyOpen    = errors.New("overview already opened")
	errOverviewClosed = errors.New("overview is closed")
)

// Options configures an Overview. Zero limits and durations select the package defaults.
type Options struct {
	Backend     api.Backend
	Source      stream.Source
	Logger      logger.Logger
	Clock       clock.Clock
	ActiveLimit int
	Cooldown    time.Duration
	StatusTTL   time.Duration
	FetchRate   float64
	FetchBurst  int
	Reconnect   stream.ReconnectPolicy
}

// Snapshot is a consistent copy of everything a presentation layer renders.
type Snapshot struct {
	Incidents          []models.Incident
	Services           []models.ServiceSummary
	LastServiceRefresh time.Time
	Status             string
	Pending            bool
	Stream             stream.State
	StreamErr          error
	KPIs               KPIs
}

// Overview is the owning view of one engine. Open starts it, Close tears it down.
type Overview struct {
	backend api.Backend
	logger  logger.Logger
	limit   int

	engine *reconcile.Engine
	reader *stream.Reader
	status *action.StatusBoard
	coord  *action.Coordinator

	updates chan struct{}

	mu        sync.Mutex
	opened    bool
	closed    bool
	cancel    context.CancelFunc
	streamErr error
	done      chan struct{}
}

// NewOverview builds an unopened Overview. A nil Source disables live updates.
func NewOverview(opts Options) (*Overview, error) {
	if opts.Backend == nil {
		return nil, errMissingBackend
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}

	limit := opts.ActiveLimit
	if limit <= 0 {
		limit = reconcile.DefaultActiveLimit
	}

	o := &Overview{
		backend: opts.Backend,
		logger:  logger.ForComponent(log, "dashboard"),
		limit:   limit,
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	engine, err := reconcile.NewEngine(reconcile.Config{
		Fetcher:     opts.Backend,
		Logger:      logger.ForComponent(log, "reconcile"),
		Clock:       clk,
		ActiveLimit: limit,
		Cooldown:    opts.Cooldown,
		OnChange:    func(reconcile.Change) { o.notify() },
	})
	if err != nil {
		return nil, err
	}

	o.engine = engine
	o.status = action.NewStatusBoard(clk, opts.StatusTTL, func(string) { o.notify() })

	o.coord, err = action.NewCoordinator(action.CoordinatorConfig{
		Lister:          opts.Backend,
		Engine:          engine,
		Status:          o.status,
		Logger:          logger.ForComponent(log, "action"),
		OnPendingChange: func(bool) { o.notify() },
	})
	if err != nil {
		return nil, err
	}

	if opts.Source != nil {
		o.reader, err = stream.NewReader(stream.ReaderConfig{
			Source:        opts.Source,
			Fetcher:       opts.Backend,
			Sink:          engine,
			Logger:        logger.ForComponent(log, "stream"),
			Clock:         clk,
			FetchRate:     opts.FetchRate,
			FetchBurst:    opts.FetchBurst,
			Reconnect:     opts.Reconnect,
			OnStateChange: func(stream.State) { o.notify() },
		})
		if err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Open loads the initial incidents and services, then starts consuming the
// event stream in the background. Initial load failures degrade to empty
// collections; only a second Open or an Open after Close is an error.
func (o *Overview) Open(ctx context.Context) error {
	o.mu.Lock()

	switch {
	case o.closed:
		o.mu.Unlock()
		return errOverviewClosed
	case o.opened:
		o.mu.Unlock()
		return errAlreadyOpen
	}

	o.opened = true
	readerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	o.cancel = cancel
	o.mu.Unlock()

	o.initialLoad(ctx)

	if o.reader == nil {
		close(o.done)
		return nil
	}

	go func() {
		defer close(o.done)

		err := o.reader.Run(readerCtx)
		if err != nil {
			o.logger.Warn().Err(err).Msg("Live updates stopped")
		}

		o.mu.Lock()
		o.streamErr = err
		o.mu.Unlock()

		o.notify()
	}()

	return nil
}

func (o *Overview) initialLoad(ctx context.Context) {
	var g errgroup.Group

	g.Go(func() error {
		list, err := o.backend.ActiveIncidents(ctx)
		if err != nil {
			o.logger.Warn().Err(err).Msg("Initial incident load failed")
			return nil
		}

		o.engine.ReplaceActiveIncidents(list)

		return nil
	})

	g.Go(func() error {
		if _, err := o.engine.RefreshServices(ctx, true); err != nil {
			o.logger.Warn().Err(err).Msg("Initial service load failed")
		}

		return nil
	})

	_ = g.Wait()
}

// Close drops the stream subscription, stops the engine and the status timer,
// and waits for the reader to return. It is safe to call more than once.
func (o *Overview) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}

	o.closed = true
	opened := o.opened
	cancel := o.cancel
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	o.engine.Close()
	o.status.Stop()

	if opened {
		<-o.done
	}
}

// Updates signals that the snapshot may have changed. Signals coalesce.
func (o *Overview) Updates() <-chan struct{} {
	return o.updates
}

func (o *Overview) notify() {
	select {
	case o.updates <- struct{}{}:
	default:
	}
}

// Snapshot returns the current view.
func (o *Overview) Snapshot() Snapshot {
	state := o.engine.Snapshot()

	snap := Snapshot{
		Incidents:          state.Active,
		Services:           state.Services,
		LastServiceRefresh: state.LastServiceRefresh,
		Status:             o.status.Current(),
		Pending:            o.coord.Pending(),
		Stream:             stream.StateIdle,
		KPIs:               ComputeKPIs(state),
	}

	if o.reader != nil {
		snap.Stream = o.reader.State()
	}

	o.mu.Lock()
	snap.StreamErr = o.streamErr
	o.mu.Unlock()

	return snap
}

// Simulate asks the backend for a synthetic incident burst.
func (o *Overview) Simulate(ctx context.Context) error {
	return o.coord.Run(ctx, action.Simulate(o.backend))
}

// RefreshDetection re-runs backend detection.
func (o *Overview) RefreshDetection(ctx context.Context) error {
	return o.coord.Run(ctx, action.RefreshDetection(o.backend))
}

// Seed loads the sample dataset.
func (o *Overview) Seed(ctx context.Context, force bool) error {
	return o.coord.Run(ctx, action.Seed(o.backend, force))
}

// Resolve marks an incident resolved.
func (o *Overview) Resolve(ctx context.Context, id int64) error {
	return o.coord.Run(ctx, action.Resolve(o.backend, id))
}

// Postmortem exports the postmortem for an incident.
func (o *Overview) Postmortem(ctx context.Context, id int64) error {
	return o.coord.Run(ctx, action.Postmortem(o.backend, id))
}

// RefreshServices reloads the service table, bypassing the cooldown.
func (o *Overview) RefreshServices(ctx context.Context) error {
	_, err := o.engine.RefreshServices(ctx, true)

	return err
}

// RecentIncidents lists recent incidents, open or resolved. Failures yield an empty list.
func (o *Overview) RecentIncidents(ctx context.Context) []models.Incident {
	list, err := o.backend.RecentIncidents(ctx)
	if err != nil {
		o.logger.Warn().Err(err).Msg("Recent incident load failed")
		return nil
	}

	return list
}

// IncidentDetail loads an incident with its timeline and analysis.
func (o *Overview) IncidentDetail(ctx context.Context, id int64) (*IncidentDetail, error) {
	return LoadIncidentDetail(ctx, o.backend, id, o.logger)
}

// ServiceDetail loads metric series and logs for a service.
func (o *Overview) ServiceDetail(ctx context.Context, service string, filter models.LogFilter) *ServiceDetail {
	detail := LoadServiceDetail(ctx, o.backend, service, filter, o.logger)

	if summary, ok := o.engine.Snapshot().Service(service); ok {
		detail.Summary = &summary
	}

	return detail
}
