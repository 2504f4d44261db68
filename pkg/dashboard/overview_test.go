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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/signalsentry/pkg/action"
	"github.com/carverauto/signalsentry/pkg/api"
	"github.com/carverauto/signalsentry/pkg/logger"
	"github.com/carverauto/signalsentry/pkg/models"
	"github.com/carverauto/signalsentry/pkg/stream"
)

var errBackendDown = &api.RequestError{Method: "GET", Path: "/incidents/active", Err: errors.New("connection refused")}

// chanSource delivers payloads pushed on ch until ctx ends or ch is closed.
type chanSource struct {
	ch chan []byte
}

func newChanSource() *chanSource {
	return &chanSource{ch: make(chan []byte, 16)}
}

func (s *chanSource) Stream(ctx context.Context, opened func(), handle func([]byte)) error {
	opened()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data, ok := <-s.ch:
			if !ok {
				return nil
			}

			handle(data)
		}
	}
}

func incident(id int64) models.Incident {
	return models.Incident{ID: id, Service: "checkout", Metric: models.MetricErrorRate, Status: models.IncidentStatusOpen}
}

func ids(list []models.Incident) []int64 {
	out := make([]int64, 0, len(list))
	for _, inc := range list {
		out = append(out, inc.ID)
	}

	return out
}

func TestNewOverviewRequiresBackend(t *testing.T) {
	_, err := NewOverview(Options{})
	require.ErrorIs(t, err, errMissingBackend)
}

func TestOpenDegradesToEmptyView(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := api.NewMockBackend(ctrl)

	backend.EXPECT().ActiveIncidents(gomock.Any()).Return(nil, errBackendDown)
	backend.EXPECT().ServiceSummaries(gomock.Any()).Return(nil, errBackendDown)

	o, err := NewOverview(Options{Backend: backend})
	require.NoError(t, err)

	require.NoError(t, o.Open(context.Background()))
	defer o.Close()

	snap := o.Snapshot()
	assert.Empty(t, snap.Incidents)
	assert.Empty(t, snap.Services)
	assert.True(t, snap.LastServiceRefresh.IsZero())
	assert.Equal(t, stream.StateIdle, snap.Stream)
	assert.Equal(t, 0, snap.KPIs.ActiveIncidents)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

// components maps each logged message to the component field it carried.
func (b *syncBuffer) components() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]string)

	for _, line := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}

		var entry struct {
			Component string `json:"component"`
			Message   string `json:"message"`
		}

		if err := json.Unmarshal([]byte(line), &entry); err == nil {
			out[entry.Message] = entry.Component
		}
	}

	return out
}

func TestComponentsLogUnderTheirOwnName(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := api.NewMockBackend(ctrl)
	src := newChanSource()
	out := &syncBuffer{}

	backend.EXPECT().ActiveIncidents(gomock.Any()).Return(nil, errBackendDown)
	backend.EXPECT().ServiceSummaries(gomock.Any()).Return(nil, nil)

	o, err := NewOverview(Options{Backend: backend, Source: src, Logger: logger.NewWriterLogger(out)})
	require.NoError(t, err)

	require.NoError(t, o.Open(context.Background()))
	defer o.Close()

	src.ch <- []byte(`not json`)

	require.Eventually(t, func() bool {
		_, ok := out.components()["Dropping malformed stream event"]
		return ok
	}, time.Second, time.Millisecond)

	got := out.components()
	assert.Equal(t, "dashboard", got["Initial incident load failed"])
	assert.Equal(t, "reconcile", got["Service summaries refreshed"])
	assert.Equal(t, "stream", got["Dropping malformed stream event"])
}

func TestOpenTwiceAndAfterClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := api.NewMockBackend(ctrl)

	backend.EXPECT().ActiveIncidents(gomock.Any()).Return(nil, nil)
	backend.EXPECT().ServiceSummaries(gomock.Any()).Return(nil, nil)

	o, err := NewOverview(Options{Backend: backend})
	require.NoError(t, err)

	require.NoError(t, o.Open(context.Background()))
	require.ErrorIs(t, o.Open(context.Background()), errAlreadyOpen)

	o.Close()
	o.Close()

	closed, err := NewOverview(Options{Backend: backend})
	require.NoError(t, err)

	closed.Close()
	require.ErrorIs(t, closed.Open(context.Background()), errOverviewClosed)
}

func TestLiveUpdatesReconcile(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := api.NewMockBackend(ctrl)
	src := newChanSource()
	clk := clock.NewMock()

	backend.EXPECT().ActiveIncidents(gomock.Any()).Return([]models.Incident{incident(1), incident(2)}, nil)
	backend.EXPECT().ServiceSummaries(gomock.Any()).Return([]models.ServiceSummary{{Service: "checkout"}}, nil).Times(1)

	fresh := incident(2)
	fresh.Severity = 3
	backend.EXPECT().Incident(gomock.Any(), int64(2)).Return(&fresh, nil)

	o, err := NewOverview(Options{Backend: backend, Source: src, Clock: clk})
	require.NoError(t, err)

	require.NoError(t, o.Open(context.Background()))
	defer o.Close()

	require.Equal(t, []int64{1, 2}, ids(o.Snapshot().Incidents))

	require.Eventually(t, func() bool {
		return o.Snapshot().Stream == stream.StateOpen
	}, time.Second, time.Millisecond)

	src.ch <- []byte(`{"type":"incident_alert","incident_id":2}`)

	require.Eventually(t, func() bool {
		snap := o.Snapshot()
		return len(snap.Incidents) == 2 && snap.Incidents[0].ID == 2 && snap.Incidents[0].Severity == 3
	}, time.Second, time.Millisecond)

	// within the cooldown: no second services fetch
	src.ch <- []byte(`{"type":"metric_update"}`)
	src.ch <- []byte(`not json`)
	src.ch <- []byte(`{"type":"incident_alert"}`)

	assert.Equal(t, []int64{2, 1}, ids(o.Snapshot().Incidents))
}

func TestLiveAlertPrependsNewIncident(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := api.NewMockBackend(ctrl)
	src := newChanSource()

	seeded := []models.Incident{
		{ID: 2, Service: "api", Metric: models.MetricErrorRate, Severity: 3, Status: models.IncidentStatusOpen},
		{ID: 1, Service: "db", Metric: models.MetricLatencyP95, Severity: 1, Status: models.IncidentStatusOpen},
	}

	backend.EXPECT().ActiveIncidents(gomock.Any()).Return(seeded, nil)
	backend.EXPECT().ServiceSummaries(gomock.Any()).Return(nil, nil)

	alerted := models.Incident{ID: 3, Service: "checkout", Metric: models.MetricErrorRate, Severity: 2, Status: models.IncidentStatusOpen}
	backend.EXPECT().Incident(gomock.Any(), int64(3)).Return(&alerted, nil)

	o, err := NewOverview(Options{Backend: backend, Source: src, Clock: clock.NewMock()})
	require.NoError(t, err)

	require.NoError(t, o.Open(context.Background()))
	defer o.Close()

	require.Equal(t, []int64{2, 1}, ids(o.Snapshot().Incidents))

	src.ch <- []byte(`{"type":"incident_alert","incident_id":3}`)

	require.Eventually(t, func() bool {
		return len(o.Snapshot().Incidents) == 3
	}, time.Second, time.Millisecond)

	snap := o.Snapshot()
	assert.Equal(t, []int64{3, 2, 1}, ids(snap.Incidents))
	assert.Equal(t, "checkout", snap.Incidents[0].Service)
	assert.Equal(t, "api", snap.Incidents[1].Service)
	assert.Equal(t, 3, snap.Incidents[1].Severity)
	assert.Equal(t, "db", snap.Incidents[2].Service)
	assert.Equal(t, 3, snap.KPIs.ActiveIncidents)
}

func TestCloseStopsReader(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := api.NewMockBackend(ctrl)
	src := newChanSource()

	backend.EXPECT().ActiveIncidents(gomock.Any()).Return(nil, nil)
	backend.EXPECT().ServiceSummaries(gomock.Any()).Return(nil, nil)

	o, err := NewOverview(Options{Backend: backend, Source: src})
	require.NoError(t, err)
	require.NoError(t, o.Open(context.Background()))

	o.Close()

	snap := o.Snapshot()
	assert.Equal(t, stream.StateClosed, snap.Stream)
	require.NoError(t, snap.StreamErr, "teardown is not a stream failure")
}

func TestStreamEndIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := api.NewMockBackend(ctrl)
	src := newChanSource()

	backend.EXPECT().ActiveIncidents(gomock.Any()).Return(nil, nil)
	backend.EXPECT().ServiceSummaries(gomock.Any()).Return(nil, nil)

	o, err := NewOverview(Options{Backend: backend, Source: src})
	require.NoError(t, err)
	require.NoError(t, o.Open(context.Background()))

	defer o.Close()

	close(src.ch)

	require.Eventually(t, func() bool {
		return stream.IsClosed(o.Snapshot().StreamErr)
	}, time.Second, time.Millisecond)
}

func TestSimulateThroughOverview(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := api.NewMockBackend(ctrl)
	clk := clock.NewMock()

	gomock.InOrder(
		backend.EXPECT().ActiveIncidents(gomock.Any()).Return(nil, nil),
		backend.EXPECT().ActiveIncidents(gomock.Any()).Return([]models.Incident{incident(7), incident(6)}, nil),
	)
	backend.EXPECT().ServiceSummaries(gomock.Any()).Return([]models.ServiceSummary{{Service: "checkout"}}, nil).Times(2)
	backend.EXPECT().Simulate(gomock.Any()).Return(&models.SimulateResult{Incidents: 2}, nil)

	o, err := NewOverview(Options{Backend: backend, Clock: clk})
	require.NoError(t, err)
	require.NoError(t, o.Open(context.Background()))

	defer o.Close()

	drain(o)

	require.NoError(t, o.Simulate(context.Background()))

	select {
	case <-o.Updates():
	default:
		t.Fatal("expected an update signal")
	}

	snap := o.Snapshot()
	assert.Equal(t, []int64{7, 6}, ids(snap.Incidents))
	assert.Equal(t, "Simulated 2 incidents", snap.Status)
	assert.False(t, snap.Pending)
	assert.Equal(t, 2, snap.KPIs.ActiveIncidents)

	clk.Add(action.DefaultStatusTTL)
	require.Eventually(t, func() bool { return o.Snapshot().Status == "" }, time.Second, time.Millisecond)
}

func TestRecentIncidentsDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := api.NewMockBackend(ctrl)

	backend.EXPECT().RecentIncidents(gomock.Any()).Return(nil, errBackendDown)

	o, err := NewOverview(Options{Backend: backend})
	require.NoError(t, err)

	assert.Empty(t, o.RecentIncidents(context.Background()))
}

func drain(o *Overview) {
	for {
		select {
		case <-o.Updates():
		default:
			return
		}
	}
}
