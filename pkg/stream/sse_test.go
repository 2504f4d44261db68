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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/signalsentry/pkg/api"
	"github.com/carverauto/signalsentry/pkg/logger"
)

func collectEvents(t *testing.T, input string) []sseEvent {
	t.Helper()

	var got []sseEvent

	require.NoError(t, readEvents(strings.NewReader(input), sseMaxEventSize, func(evt sseEvent) {
		got = append(got, evt)
	}))

	return got
}

func TestReadEventsFraming(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []sseEvent
	}{
		{
			name:  "single data line",
			input: "data: {\"type\":\"metric_update\"}\n\n",
			want:  []sseEvent{{data: []byte(`{"type":"metric_update"}`)}},
		},
		{
			name:  "multi line data is joined",
			input: "data: {\"type\":\ndata:\"metric_update\"}\n\n",
			want:  []sseEvent{{data: []byte("{\"type\":\n\"metric_update\"}")}},
		},
		{
			name:  "crlf and comments",
			input: ": hello\r\nevent: ping\r\ndata: {}\r\n\r\ndata: x\r\n\r\n",
			want:  []sseEvent{{name: "ping", data: []byte("{}")}, {data: []byte("x")}},
		},
		{
			name:  "event without data is not dispatched",
			input: "event: ping\n\ndata: y\n\n",
			want:  []sseEvent{{data: []byte("y")}},
		},
		{
			name:  "id is remembered",
			input: "id: 41\ndata: a\n\ndata: b\n\n",
			want:  []sseEvent{{id: "41", data: []byte("a")}, {id: "41", data: []byte("b")}},
		},
		{
			name:  "trailing partial event is discarded",
			input: "data: a\n\ndata: b\n",
			want:  []sseEvent{{data: []byte("a")}},
		},
		{
			name:  "leading bom",
			input: "\ufeffdata: z\n\n",
			want:  []sseEvent{{data: []byte("z")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectEvents(t, tt.input)
			require.Len(t, got, len(tt.want))

			for i := range tt.want {
				assert.Equal(t, tt.want[i].name, got[i].name)
				assert.Equal(t, tt.want[i].id, got[i].id)
				assert.Equal(t, string(tt.want[i].data), string(got[i].data))
			}
		})
	}
}

func TestReadEventsDropsOversizedEvents(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		input string
		want  []sseEvent
	}{
		{
			name:  "long line",
			limit: 16,
			input: "data: " + strings.Repeat("x", 32) + "\n\ndata: ok\n\n",
			want:  []sseEvent{{oversized: true}, {data: []byte("ok")}},
		},
		{
			name:  "line longer than the read buffer",
			limit: 1 << 10,
			input: "id: 7\ndata: " + strings.Repeat("x", 2*sseReadBuffer) + "\n\ndata: ok\n\n",
			want:  []sseEvent{{id: "7", oversized: true}, {id: "7", data: []byte("ok")}},
		},
		{
			name:  "data lines adding up past the limit",
			limit: 20,
			input: "data: 0123456789\ndata: 0123456789\n\ndata: ok\n\n",
			want:  []sseEvent{{oversized: true}, {data: []byte("ok")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []sseEvent

			require.NoError(t, readEvents(strings.NewReader(tt.input), tt.limit, func(evt sseEvent) {
				got = append(got, evt)
			}))

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSSESourceDeliversMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")

		flusher, ok := w.(http.Flusher)
		if !assert.True(t, ok) {
			return
		}

		_, _ = fmt.Fprint(w, "data: {\"type\":\"incident_alert\",\"incident_id\":1}\n\n")
		_, _ = fmt.Fprint(w, "event: ping\ndata: {}\n\n")
		_, _ = fmt.Fprint(w, "data: {\"type\":\"metric_update\"}\n\n")
		flusher.Flush()
	}))
	defer srv.Close()

	src, err := NewSSESource(srv.URL, nil, logger.NewTestLogger())
	require.NoError(t, err)

	var (
		opened   bool
		payloads []string
	)

	err = src.Stream(context.Background(), func() { opened = true }, func(data []byte) {
		payloads = append(payloads, string(data))
	})
	require.NoError(t, err, "clean end of stream")

	assert.True(t, opened)
	assert.Equal(t, []string{
		`{"type":"incident_alert","incident_id":1}`,
		`{"type":"metric_update"}`,
	}, payloads)
}

func TestSSESourceErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src, err := NewSSESource(srv.URL, nil, nil)
	require.NoError(t, err)

	err = src.Stream(context.Background(), func() { t.Error("opened must not be called") }, func([]byte) {})

	var reqErr *api.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusServiceUnavailable, reqErr.StatusCode)
}

func TestSSESourceCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	src, err := NewSSESource(srv.URL, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	openedCh := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- src.Stream(ctx, func() { close(openedCh) }, func([]byte) {})
	}()

	select {
	case <-openedCh:
	case <-time.After(5 * time.Second):
		t.Fatal("stream never opened")
	}

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after cancel")
	}
}

func TestSSESourceTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	src, err := NewSSESource(srv.URL, nil, nil)
	require.NoError(t, err)

	err = src.Stream(context.Background(), nil, func([]byte) {})

	var reqErr *api.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.True(t, reqErr.Transport())
}

func TestNewSSESourceRequiresURL(t *testing.T) {
	_, err := NewSSESource(" ", nil, nil)
	require.ErrorIs(t, err, errMissingURL)
}
