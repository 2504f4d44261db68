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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/signalsentry/pkg/logger"
	"github.com/carverauto/signalsentry/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL + "/", Prefix: DefaultPrefix, Logger: logger.NewTestLogger()})
	require.NoError(t, err)

	return client
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{})
	require.ErrorIs(t, err, errMissingBaseURL)

	_, err = NewClient(Config{BaseURL: "localhost"})
	require.ErrorIs(t, err, errInvalidBaseURL)

	client, err := NewClient(Config{BaseURL: "http://backend:8000//", Prefix: "api/v1/"})
	require.NoError(t, err)
	assert.Equal(t, "http://backend:8000/api/v1/incidents/active", client.URL("/incidents/active"))
}

func TestGetSetsHeadersAndDecodes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/incidents/active", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Contains(t, r.Header.Get("Cache-Control"), "no-store")

		_, _ = io.WriteString(w, `{"items":[{"id":3,"service":"api","metric":"error_rate","severity":2,"status":"open","updated_at":"2024-05-01T10:00:00"}]}`)
	})

	items, err := client.ActiveIncidents(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, "api", items[0].Service)
	assert.False(t, items[0].UpdatedAt.IsZero())
}

func TestPostWithoutBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/incidents/simulate", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)

		_, _ = io.WriteString(w, `{"incidents":4}`)
	})

	result, err := client.Simulate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Incidents)
}

func TestPostEncodesBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "value", got["key"])

		w.WriteHeader(http.StatusNoContent)
	})

	out := map[string]string{"untouched": "yes"}
	require.NoError(t, client.Post(context.Background(), "/echo", map[string]string{"key": "value"}, &out))
	assert.Equal(t, map[string]string{"untouched": "yes"}, out)
}

func TestEmptyBodyIsEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	result, err := client.RefreshIncidents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created())
}

func TestNon2xxIsRequestError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"Incident not found"}`, http.StatusNotFound)
	})

	_, err := client.Incident(context.Background(), 99)
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Equal(t, "/incidents/99", reqErr.Path)
	assert.Contains(t, reqErr.Body, "Incident not found")
	assert.False(t, reqErr.Transport())
	assert.True(t, IsNotFound(err))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Prefix: DefaultPrefix})
	require.NoError(t, err)

	_, err = client.ServiceSummaries(context.Background())
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.True(t, reqErr.Transport())
	assert.NotNil(t, errors.Unwrap(reqErr))
	assert.False(t, IsNotFound(err))
}

func TestCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ActiveIncidents(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, StatusCode(err))
}

func TestUndecodableBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html>gateway</html>`)
	})

	_, err := client.ServiceSummaries(context.Background())
	require.ErrorIs(t, err, ErrDecodeResponse)
}

func TestQueryEncoding(t *testing.T) {
	tests := []struct {
		name      string
		call      func(*Client) error
		wantPath  string
		wantQuery string
	}{
		{
			name: "metric series escapes service",
			call: func(c *Client) error {
				_, err := c.ServiceMetricSeries(context.Background(), "checkout svc", models.MetricLatencyP95)
				return err
			},
			wantPath:  "/api/v1/services/checkout svc/metrics",
			wantQuery: "metric=latency_p95_ms",
		},
		{
			name: "logs omit ALL level",
			call: func(c *Client) error {
				_, err := c.ServiceLogs(context.Background(), "api", models.LogFilter{Level: models.LogLevelAll})
				return err
			},
			wantPath: "/api/v1/services/api/logs",
		},
		{
			name: "logs with level and query",
			call: func(c *Client) error {
				_, err := c.ServiceLogs(context.Background(), "api", models.LogFilter{Level: models.LogLevelError, Query: "time out"})
				return err
			},
			wantPath:  "/api/v1/services/api/logs",
			wantQuery: "level=ERROR&query=time+out",
		},
		{
			name: "forced seed",
			call: func(c *Client) error {
				_, err := c.Seed(context.Background(), true)
				return err
			},
			wantPath:  "/api/v1/admin/seed",
			wantQuery: "force=true",
		},
		{
			name: "resolve",
			call: func(c *Client) error {
				_, err := c.ResolveIncident(context.Background(), 12)
				return err
			},
			wantPath: "/api/v1/incidents/12/resolve",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.RawQuery)

				_, _ = io.WriteString(w, `{}`)
			})

			require.NoError(t, tt.call(client))
		})
	}
}

func TestRouteOf(t *testing.T) {
	assert.Equal(t, "/incidents/{id}/timeline", routeOf("/incidents/42/timeline"))
	assert.Equal(t, "/services/{service}/metrics", routeOf("/services/api/metrics?metric=cpu_pct"))
	assert.Equal(t, "/services/summary", routeOf("/services/summary"))
}
