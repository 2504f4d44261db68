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

package app

import (
	"context"

	"github.com/carverauto/signalsentry/pkg/dashboard"
	"github.com/carverauto/signalsentry/pkg/logger"
)

// runHeadless logs every view change until ctx ends.
func runHeadless(ctx context.Context, overview *dashboard.Overview, log logger.Logger) error {
	var last dashboard.Snapshot

	report := func() {
		snap := overview.Snapshot()

		if snap.Status != "" && snap.Status != last.Status {
			log.Info().Str("status", snap.Status).Msg("Action status")
		}

		if snap.Stream != last.Stream {
			log.Info().Str("state", snap.Stream.String()).Msg("Event stream")
		}

		if changed(last, snap) {
			event := log.Info().
				Int("active_incidents", snap.KPIs.ActiveIncidents).
				Int("services", snap.KPIs.Services)

			if len(snap.Incidents) > 0 {
				head := snap.Incidents[0]
				event = event.Int64("latest_incident", head.ID).Str("latest_service", head.Service)
			}

			if k := snap.KPIs.HighestLatency; k != nil {
				event = event.Str("slowest_service", k.Service).Float64("latency_p95_ms", k.Value)
			}

			event.Msg("Overview updated")
		}

		last = snap
	}

	report()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-overview.Updates():
			report()
		}
	}
}

func changed(prev, next dashboard.Snapshot) bool {
	if len(prev.Incidents) != len(next.Incidents) || !prev.LastServiceRefresh.Equal(next.LastServiceRefresh) {
		return true
	}

	for i := range next.Incidents {
		if prev.Incidents[i].ID != next.Incidents[i].ID || !prev.Incidents[i].UpdatedAt.Equal(next.Incidents[i].UpdatedAt.Time) {
			return true
		}
	}

	return false
}
