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

// Log levels accepted by the logs endpoint filter. LogLevelAll disables the filter.
const (
	LogLevelAll   = "ALL"
	LogLevelError = "ERROR"
	LogLevelWarn  = "WARN"
	LogLevelInfo  = "INFO"
)

// LogLevels is the cycle order used by level pickers.
var LogLevels = []string{LogLevelAll, LogLevelError, LogLevelWarn, LogLevelInfo}

// LogEntry is a single service log line.
type LogEntry struct {
	ID        int64     `json:"id"`
	Service   string    `json:"service"`
	Level     string    `json:"level"`
	Timestamp Timestamp `json:"timestamp"`
	RequestID *string   `json:"request_id,omitempty"`
	Message   string    `json:"message"`
	LatencyMs *float64  `json:"latency_ms,omitempty"`
	Context   *string   `json:"context,omitempty"`
}

// ServiceLogs is the response of GET /services/{name}/logs.
type ServiceLogs struct {
	Service string     `json:"service"`
	Items   []LogEntry `json:"items"`
}

// LogFilter narrows a logs query. Empty fields are not sent.
type LogFilter struct {
	Level string
	Query string
}
