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

package models

import (
	"encoding/json"
	"strconv"
)

// Stream event discriminants.
const (
	EventIncidentAlert = "incident_alert"
	EventMetricUpdate  = "metric_update"
)

// StreamEvent is a message from the backend event feed. It only signals that
// something should be fetched; it never carries incident or service content.
type StreamEvent struct {
	Type       string      `json:"type"`
	IncidentID json.Number `json:"incident_id,omitempty"`
}

// Incident returns the referenced incident id for incident_alert events.
func (e *StreamEvent) Incident() (int64, bool) {
	if e.Type != EventIncidentAlert || e.IncidentID == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(e.IncidentID.String(), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return id, true
}
