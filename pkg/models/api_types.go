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

// SimulateResult is returned by POST /incidents/simulate.
type SimulateResult struct {
	Incidents int `json:"incidents"`
}

// RefreshResult is returned by POST /incidents/refresh. Older backends
// report the number of new incidents as "count".
type RefreshResult struct {
	IncidentsCreated int     `json:"incidents_created"`
	Count            int     `json:"count"`
	Reason           *string `json:"reason,omitempty"`
}

// Created returns the number of incidents the detection run opened.
func (r *RefreshResult) Created() int {
	if r.IncidentsCreated != 0 {
		return r.IncidentsCreated
	}

	return r.Count
}

// SeedResult is returned by POST /admin/seed.
type SeedResult struct {
	Seeded    *bool   `json:"seeded,omitempty"`
	Reason    *string `json:"reason,omitempty"`
	Metrics   int     `json:"metrics,omitempty"`
	Logs      int     `json:"logs,omitempty"`
	Incidents int     `json:"incidents,omitempty"`
}

// WasSeeded reports whether the backend loaded the sample dataset.
func (r *SeedResult) WasSeeded() bool {
	return r.Seeded != nil && *r.Seeded
}
