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
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/carverauto/signalsentry/pkg/api"
	"github.com/carverauto/signalsentry/pkg/logger"
	"github.com/carverauto/signalsentry/pkg/version"
)

const (
	sseReadBuffer   = 64 << 10
	sseMaxEventSize = 1 << 20
	sseMessageEvent = "message"
	maxErrorBody    = 512
)

// SSESource reads a text/event-stream endpoint. Only unnamed and "message"
// events are delivered; named events such as the backend's "ping" keepalive are skipped.
type SSESource struct {
	url    string
	client *http.Client
	logger logger.Logger

	mu          sync.Mutex
	lastEventID string
}

// NewSSESource creates a source for url. The HTTP client must not set a
// Timeout, since the response body stays open for the life of the stream.
func NewSSESource(url string, client *http.Client, log logger.Logger) (*SSESource, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errMissingURL
	}

	if client == nil {
		client = &http.Client{}
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &SSESource{url: url, client: client, logger: log}, nil
}

// Stream implements Source.
func (s *SSESource) Stream(ctx context.Context, opened func(), handle func(data []byte)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return &api.RequestError{Method: http.MethodGet, Path: s.url, Err: err}
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", version.UserAgent())

	if id := s.getLastEventID(); id != "" {
		req.Header.Set("Last-Event-ID", id)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		return &api.RequestError{Method: http.MethodGet, Path: s.url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return &api.RequestError{
			Method:     http.MethodGet,
			Path:       s.url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	s.logger.Debug().Str("url", s.url).Msg("Event stream opened")

	if opened != nil {
		opened()
	}

	err = readEvents(resp.Body, sseMaxEventSize, func(evt sseEvent) {
		if evt.id != "" {
			s.setLastEventID(evt.id)
		}

		if evt.oversized {
			s.logger.Warn().Int("limit", sseMaxEventSize).Msg("Dropping oversized stream event")
			return
		}

		if evt.name != "" && evt.name != sseMessageEvent {
			s.logger.Trace().Str("event", evt.name).Msg("Skipping named event")
			return
		}

		handle(evt.data)
	})

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

func (s *SSESource) getLastEventID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastEventID
}

func (s *SSESource) setLastEventID(id string) {
	s.mu.Lock()
	s.lastEventID = id
	s.mu.Unlock()
}

type sseEvent struct {
	name      string
	id        string
	data      []byte
	oversized bool
}

// readEvents parses SSE framing from r until EOF, calling dispatch for each
// complete event. An event cut off by EOF is discarded. Events whose lines or
// data exceed limit bytes are dispatched with oversized set and no data.
func readEvents(r io.Reader, limit int, dispatch func(sseEvent)) error {
	br := bufio.NewReaderSize(r, sseReadBuffer)

	var (
		data      strings.Builder
		hasData   bool
		oversized bool
		name      string
		id        string
		first     = true
	)

	for {
		line, tooLong, err := readLine(br, limit)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		if tooLong {
			oversized = true
			continue
		}

		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")

		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}

		if line == "" {
			switch {
			case oversized:
				dispatch(sseEvent{name: name, id: id, oversized: true})
			case hasData:
				dispatch(sseEvent{name: name, id: id, data: []byte(strings.TrimSuffix(data.String(), "\n"))})
			}

			data.Reset()

			hasData = false
			oversized = false
			name = ""

			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "data":
			if data.Len()+len(value)+1 > limit {
				oversized = true
				continue
			}

			data.WriteString(value)
			data.WriteByte('\n')

			hasData = true
		case "event":
			name = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				id = value
			}
		}
	}
}

// readLine returns the next line including its terminator. A line longer than
// limit is consumed and discarded, reported by tooLong.
func readLine(br *bufio.Reader, limit int) (string, bool, error) {
	var (
		buf     []byte
		tooLong bool
	)

	for {
		frag, err := br.ReadSlice('\n')

		if !tooLong {
			if len(buf)+len(frag) > limit {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, frag...)
			}
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}

		if err != nil {
			return "", false, err
		}

		if tooLong {
			return "", true, nil
		}

		return string(buf), false, nil
	}
}
