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

import "errors"

var (
	// ErrDecode marks a stream payload that is not a JSON event object.
	ErrDecode = errors.New("failed to decode stream event")
	// ErrStreamClosed is returned by Reader.Run when the subscription ended and will not be retried.
	ErrStreamClosed = errors.New("event stream closed")

	errStreamEnded    = errors.New("stream ended by server")
	errMissingSource  = errors.New("stream source is required")
	errMissingFetcher = errors.New("incident fetcher is required")
	errMissingSink    = errors.New("stream sink is required")
	errMissingURL     = errors.New("stream url is required")
	errMissingSubject = errors.New("nats subject is required")
	errConnectionLost = errors.New("nats connection closed")
)
