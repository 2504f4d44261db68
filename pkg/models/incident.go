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
	"errors"
	"fmt"
)

var (
	ErrIncidentMissingID   = errors.New("incident has no id")
	ErrIncidentWindowOrder = errors.New("incident window_start is after window_end")
)

// Incident statuses reported by the backend.
const (
	IncidentStatusOpen     = "open"
	IncidentStatusResolved = "resolved"
)

// Incident is a detected anomaly tied to one service/metric pair and a time window.
// The client never edits an Incident; a fresher copy with the same ID replaces it.
type Incident struct {
	ID          int64     `json:"id"`
	IncidentKey string    `json:"incident_key,omitempty"`
	Service     string    `json:"service"`
	Metric      string    `json:"metric"`
	Severity    int       `json:"severity"`
	Summary     *string   `json:"summary,omitempty"`
	DetectedAt  Timestamp `json:"detected_at"`
	WindowStart Timestamp `json:"window_start"`
	WindowEnd   Timestamp `json:"window_end"`
	Baseline    *float64  `json:"baseline,omitempty"`
	Observed    *float64  `json:"observed,omitempty"`
	Detector    string    `json:"detector,omitempty"`
	Status      string    `json:"status"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// Validate checks the invariants the client relies on.
func (i *Incident) Validate() error {
	if i.ID == 0 {
		return ErrIncidentMissingID
	}

	if !i.WindowStart.IsZero() && !i.WindowEnd.IsZero() && i.WindowStart.After(i.WindowEnd.Time) {
		return fmt.Errorf("%w: incident %d", ErrIncidentWindowOrder, i.ID)
	}

	return nil
}

// IsOpen reports whether the incident is still active.
func (i *Incident) IsOpen() bool {
	return i.Status == "" || i.Status == IncidentStatusOpen
}

// SummaryText returns the summary or an empty string.
func (i *Incident) SummaryText() string {
	if i.Summary == nil {
		return ""
	}

	return *i.Summary
}

// SeverityLabel maps the ordinal severity to a short label.
func SeverityLabel(severity int) string {
	switch {
	case severity >= 3:
		return "critical"
	case severity == 2:
		return "major"
	case severity == 1:
		return "minor"
	default:
		return "info"
	}
}

// IncidentList is the envelope for GET /incidents/active and /incidents/recent.
type IncidentList struct {
	Items []Incident `json:"items"`
}

// IncidentTimeline is the metric history around an incident.
type IncidentTimeline struct {
	IncidentID int64            `json:"incident_id"`
	Metric     string           `json:"metric"`
	Points     []SparklinePoint `json:"points"`
	Baseline   *float64         `json:"baseline,omitempty"`
	Observed   *float64         `json:"observed,omitempty"`
}

// Evidence supports a root-cause hypothesis. Type is "metric" or "log".
type Evidence struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

// Hypothesis is a candidate root cause with a confidence percentage.
type Hypothesis struct {
	Title      string     `json:"title"`
	Confidence int        `json:"confidence"`
	Evidence   []Evidence `json:"evidence"`
}

// RootCauseAnalysis is the backend's analysis of an incident.
type RootCauseAnalysis struct {
	IncidentID int64        `json:"incident_id"`
	Service    string       `json:"service"`
	Metric     string       `json:"metric"`
	Hypotheses []Hypothesis `json:"hypotheses"`
}

// Postmortem describes exported postmortem artifacts.
type Postmortem struct {
	IncidentID int64             `json:"incident_id"`
	Summary    string            `json:"summary"`
	JSONPath   string            `json:"json_path"`
	PDFPath    string            `json:"pdf_path"`
	Downloads  map[string]string `json:"downloads"`
}
