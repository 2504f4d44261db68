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

// Package reconcile holds the dashboard's canonical view state and the rules
// for folding stream events and poll results into it.
package reconcile

import (
	"time"

	"github.com/carverauto/signalsentry/pkg/models"
)

// DefaultActiveLimit caps the active incident list.
const DefaultActiveLimit = 10

// State is the reconciled view. Active holds unique incident ids ordered
// most recently upserted first and never exceeds its limit. Services holds one
// summary per service in backend order.
type State struct {
	Active             []models.Incident
	Services           []models.ServiceSummary
	LastServiceRefresh time.Time
}

// UpsertIncident puts inc at the head of the active list, dropping any older
// copy with the same id, and truncates to limit. The input state is not modified.
func UpsertIncident(s State, inc models.Incident, limit int) State {
	limit = normalizeLimit(limit)

	active := make([]models.Incident, 0, min(len(s.Active)+1, limit))
	active = append(active, inc)

	for _, cur := range s.Active {
		if len(active) >= limit {
			break
		}

		if cur.ID == inc.ID {
			continue
		}

		active = append(active, cur)
	}

	s.Active = active

	return s
}

// ReplaceActiveIncidents swaps in a fresh snapshot, keeping the first
// occurrence of each id and at most limit entries.
func ReplaceActiveIncidents(s State, list []models.Incident, limit int) State {
	limit = normalizeLimit(limit)

	active := make([]models.Incident, 0, min(len(list), limit))
	seen := make(map[int64]struct{}, len(list))

	for _, inc := range list {
		if len(active) >= limit {
			break
		}

		if _, dup := seen[inc.ID]; dup {
			continue
		}

		seen[inc.ID] = struct{}{}
		active = append(active, inc)
	}

	s.Active = active

	return s
}

// ReplaceServices swaps in a full summary snapshot taken at the given time.
// Duplicate service names keep their first entry.
func ReplaceServices(s State, list []models.ServiceSummary, at time.Time) State {
	services := make([]models.ServiceSummary, 0, len(list))
	seen := make(map[string]struct{}, len(list))

	for i := range list {
		if _, dup := seen[list[i].Service]; dup {
			continue
		}

		seen[list[i].Service] = struct{}{}
		services = append(services, list[i].Clone())
	}

	s.Services = services
	s.LastServiceRefresh = at

	return s
}

// Clone returns a copy that shares nothing mutable with s.
func (s State) Clone() State {
	out := State{LastServiceRefresh: s.LastServiceRefresh}

	if s.Active != nil {
		out.Active = append([]models.Incident(nil), s.Active...)
	}

	if s.Services != nil {
		out.Services = make([]models.ServiceSummary, len(s.Services))
		for i := range s.Services {
			out.Services[i] = s.Services[i].Clone()
		}
	}

	return out
}

// Service returns the summary for name, if present.
func (s State) Service(name string) (models.ServiceSummary, bool) {
	for i := range s.Services {
		if s.Services[i].Service == name {
			return s.Services[i], true
		}
	}

	return models.ServiceSummary{}, false
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultActiveLimit
	}

	return limit
}
