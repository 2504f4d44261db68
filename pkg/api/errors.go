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
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrDecodeResponse is wrapped when a 2xx body is not the expected JSON.
	ErrDecodeResponse = errors.New("failed to decode response")

	errMissingBaseURL = errors.New("api base url is required")
	errInvalidBaseURL = errors.New("invalid api base url")
)

// RequestError reports a failed backend call. StatusCode is 0 when the request
// never produced a response (connection refused, timeout, cancelled context);
// Err then holds the transport cause.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.Path, e.Err)
	}

	if e.Body == "" {
		return fmt.Sprintf("%s %s: API request failed: %d", e.Method, e.Path, e.StatusCode)
	}

	return fmt.Sprintf("%s %s: API request failed: %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Transport reports whether the failure happened before any response arrived.
func (e *RequestError) Transport() bool {
	return e.StatusCode == 0
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}

	return 0
}
