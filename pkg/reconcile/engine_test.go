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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/signalsentry/pkg/api"
	"github.com/carverauto/signalsentry/pkg/logger"
	"github.com/carverauto/signalsentry/pkg/models"
)

func services(names ...string) []models.ServiceSummary {
	out := make([]models.ServiceSummary, 0, len(names))
	for _, n := range names {
		out = append(out, models.ServiceSummary{Service: n, LatencyP95Ms: models.Float(120)})
	}

	return out
}

func serviceNames(s State) []string {
	out := make([]string, 0, len(s.Services))
	for _, svc := range s.Services {
		out = append(out, svc.Service)
	}

	return out
}

func newTestEngine(t *testing.T, fetcher ServiceFetcher, clk clock.Clock, onChange func(Change)) *Engine {
	t.Helper()

	engine, err := NewEngine(Config{
		Fetcher:  fetcher,
		Logger:   logger.NewTestLogger(),
		Clock:    clk,
		OnChange: onChange,
	})
	require.NoError(t, err)

	return engine
}

func TestNewEngineRequiresFetcher(t *testing.T) {
	_, err := NewEngine(Config{})
	require.ErrorIs(t, err, errMissingFetcher)
}

func TestRefreshServicesThrottle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := api.NewMockBackend(ctrl)
	clk := clock.NewMock()
	engine := newTestEngine(t, backend, clk, nil)

	backend.EXPECT().ServiceSummaries(gomock.Any()).Return(services("api"), nil).Times(1)

	ok, err := engine.RefreshServices(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, ok)

	clk.Add(5 * time.Second)

	ok, err = engine.RefreshServices(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, ok, "second update within the cooldown is throttled")

	backend.EXPECT().ServiceSummaries(gomock.Any()).Return(services("api", "db"), nil).Times(1)

	clk.Add(4 * time.Second)

	ok, err = engine.RefreshServices(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, ok, "update after the cooldown fetches again")
	assert.Equal(t, []string{"api", "db"}, serviceNames(engine.Snapshot()))
	assert.Equal(t, clk.Now(), engine.Snapshot().LastServiceRefresh)
}

func TestRefreshServicesForceBypassesCooldown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := api.NewMockBackend(ctrl)
	engine := newTestEngine(t, backend, clock.NewMock(), nil)

	backend.EXPECT().ServiceSummaries(gomock.Any()).Return(services("api"), nil).Times(2)

	for i := 0; i < 2; i++ {
		ok, err := engine.RefreshServices(context.Background(), true)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestRefreshServicesFailureKeepsState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := api.NewMockBackend(ctrl)
	clk := clock.NewMock()
	engine := newTestEngine(t, backend, clk, nil)

	backend.EXPECT().ServiceSummaries(gomock.Any()).Return(services("api"), nil)

	_, err := engine.RefreshServices(context.Background(), true)
	require.NoError(t, err)

	before := engine.Snapshot()

	clk.Add(10 * time.Second)

	fetchErr := &api.RequestError{Method: "GET", Path: "/services/summary", Err: errors.New("connection refused")}
	backend.EXPECT().ServiceSummaries(gomock.Any()).Return(nil, fetchErr)

	ok, err := engine.RefreshServices(context.Background(), false)
	assert.False(t, ok)
	require.ErrorAs(t, err, new(*api.RequestError))
	assert.Equal(t, before, engine.Snapshot(), "failed refresh leaves state untouched")

	backend.EXPECT().ServiceSummaries(gomock.Any()).Return(services("db"), nil)

	ok, err = engine.RefreshServices(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, ok, "a failure does not start the cooldown")
	assert.Equal(t, []string{"db"}, serviceNames(engine.Snapshot()))
}

// slowFetcher advances the mock clock while each fetch is outstanding.
type slowFetcher struct {
	clk     *clock.Mock
	latency time.Duration
	calls   atomic.Int32
}

func (f *slowFetcher) ServiceSummaries(context.Context) ([]models.ServiceSummary, error) {
	f.calls.Add(1)
	f.clk.Add(f.latency)

	return services("api"), nil
}

func TestRefreshServicesCooldownStartsWhenIssued(t *testing.T) {
	clk := clock.NewMock()
	fetcher := &slowFetcher{clk: clk, latency: 2 * time.Second}
	engine := newTestEngine(t, fetcher, clk, nil)

	issued := clk.Now()

	ok, err := engine.RefreshServices(context.Background(), false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, issued, engine.Snapshot().LastServiceRefresh)

	// 9s after the first call was issued, 7s after it completed.
	clk.Set(issued.Add(9 * time.Second))

	ok, err = engine.RefreshServices(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, ok, "calls issued more than the cooldown apart both fetch")
	assert.Equal(t, int32(2), fetcher.calls.Load())
}

// gatedFetcher blocks each call until released, returning the queued result.
type gatedFetcher struct {
	calls   atomic.Int32
	started chan struct{}
	release chan []models.ServiceSummary
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{started: make(chan struct{}, 4), release: make(chan []models.ServiceSummary)}
}

func (g *gatedFetcher) ServiceSummaries(ctx context.Context) ([]models.ServiceSummary, error) {
	g.calls.Add(1)
	g.started <- struct{}{}

	select {
	case list := <-g.release:
		return list, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestRefreshServicesSuppressedWhileInFlight(t *testing.T) {
	fetcher := newGatedFetcher()
	engine := newTestEngine(t, fetcher, clock.NewMock(), nil)

	done := make(chan bool, 1)

	go func() {
		ok, _ := engine.RefreshServices(context.Background(), false)
		done <- ok
	}()

	<-fetcher.started

	ok, err := engine.RefreshServices(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, ok, "burst while a refresh is in flight is suppressed")

	fetcher.release <- services("api")
	assert.True(t, <-done)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestRefreshServicesDiscardsStaleCompletion(t *testing.T) {
	fetcher := newGatedFetcher()
	engine := newTestEngine(t, fetcher, clock.NewMock(), nil)

	older := make(chan bool, 1)

	go func() {
		ok, _ := engine.RefreshServices(context.Background(), true)
		older <- ok
	}()

	<-fetcher.started

	newer := make(chan bool, 1)

	go func() {
		ok, _ := engine.RefreshServices(context.Background(), true)
		newer <- ok
	}()

	<-fetcher.started

	// Both fetches are parked on release; the first receive wins, so which
	// goroutine commits first is not fixed. Feed results until both return.
	fetcher.release <- services("first")
	fetcher.release <- services("second")

	results := []bool{<-older, <-newer}

	snapshot := engine.Snapshot()
	require.Len(t, snapshot.Services, 1)

	if results[0] && results[1] {
		// the older fetch committed before the newer one completed
		assert.Equal(t, "second", snapshot.Services[0].Service)
	} else {
		assert.True(t, results[1], "the newer fetch always commits")
		assert.False(t, results[0], "an older fetch finishing last is discarded")
	}
}

func TestEngineUpsertAndReplace(t *testing.T) {
	var changes []Change

	var mu sync.Mutex

	ctrl := gomock.NewController(t)
	engine := newTestEngine(t, api.NewMockBackend(ctrl), clock.NewMock(), func(c Change) {
		mu.Lock()
		changes = append(changes, c)
		mu.Unlock()
	})

	assert.True(t, engine.UpsertIncident(inc(1, 1)))
	assert.True(t, engine.UpsertIncident(inc(2, 1)))
	assert.False(t, engine.UpsertIncident(models.Incident{}), "invalid incidents are rejected")
	assert.Equal(t, []int64{2, 1}, ids(engine.Snapshot().Active))

	assert.True(t, engine.ReplaceActiveIncidents([]models.Incident{inc(5, 1)}))
	assert.Equal(t, []int64{5}, ids(engine.Snapshot().Active))

	assert.Equal(t, []Change{ChangeIncidents, ChangeIncidents, ChangeIncidents}, changes)
}

func TestEngineSnapshotIsACopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := newTestEngine(t, api.NewMockBackend(ctrl), clock.NewMock(), nil)
	engine.UpsertIncident(inc(1, 1))

	snap := engine.Snapshot()
	snap.Active[0].Severity = 9

	assert.Equal(t, 1, engine.Snapshot().Active[0].Severity)
}

func TestEngineConcurrentCompletionOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := newTestEngine(t, api.NewMockBackend(ctrl), clock.NewMock(), nil)

	var wg sync.WaitGroup

	for id := int64(1); id <= 8; id++ {
		for copies := 0; copies < 3; copies++ {
			wg.Add(1)

			go func(id int64) {
				defer wg.Done()

				engine.UpsertIncident(inc(id, 1))
			}(id)
		}
	}

	wg.Wait()

	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5, 6, 7, 8}, ids(engine.Snapshot().Active))
}

func TestEngineClose(t *testing.T) {
	fetcher := newGatedFetcher()
	engine := newTestEngine(t, fetcher, clock.NewMock(), nil)

	done := make(chan bool, 1)

	go func() {
		ok, _ := engine.RefreshServices(context.Background(), true)
		done <- ok
	}()

	<-fetcher.started
	engine.Close()

	fetcher.release <- services("late")

	assert.False(t, <-done, "completion after teardown is a no-op")
	assert.Empty(t, engine.Snapshot().Services)
	assert.False(t, engine.UpsertIncident(inc(1, 1)))
	assert.False(t, engine.ReplaceActiveIncidents([]models.Incident{inc(2, 1)}))
	assert.True(t, engine.Closed())

	ok, err := engine.RefreshServices(context.Background(), true)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}
