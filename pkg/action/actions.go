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

package action

import (
	"context"
	"fmt"

	"github.com/carverauto/signalsentry/pkg/api"
	"github.com/carverauto/signalsentry/pkg/models"
)

// Action is one user-triggered backend operation. Do returns the status
// message to show on success; Failure is shown when Do or the follow-up
// reconciliation fails.
type Action struct {
	Name    string
	Do      func(ctx context.Context) (string, error)
	Failure string
}

// Simulate injects a synthetic incident burst.
func Simulate(b api.Backend) Action {
	return Action{
		Name: "simulate",
		Do: func(ctx context.Context) (string, error) {
			result, err := b.Simulate(ctx)
			if err != nil {
				return "", err
			}

			if result == nil {
				result = &models.SimulateResult{}
			}

			return fmt.Sprintf("Simulated %d incidents", result.Incidents), nil
		},
		Failure: "Simulation failed",
	}
}

// RefreshDetection re-runs the backend detector over the latest data.
func RefreshDetection(b api.Backend) Action {
	return Action{
		Name: "refresh_detection",
		Do: func(ctx context.Context) (string, error) {
			result, err := b.RefreshIncidents(ctx)
			if err != nil {
				return "", err
			}

			if result == nil {
				result = &models.RefreshResult{}
			}

			if result.Created() == 0 && result.Reason != nil && *result.Reason != "" {
				return "Detection skipped: " + *result.Reason, nil
			}

			return fmt.Sprintf("Detection created %d incidents", result.Created()), nil
		},
		Failure: "Detection refresh failed",
	}
}

// Seed loads the sample dataset. force reseeds a non-empty store.
func Seed(b api.Backend, force bool) Action {
	return Action{
		Name: "seed",
		Do: func(ctx context.Context) (string, error) {
			result, err := b.Seed(ctx, force)
			if err != nil {
				return "", err
			}

			if result != nil && result.Seeded != nil && !*result.Seeded {
				reason := "already seeded"
				if result.Reason != nil && *result.Reason != "" {
					reason = *result.Reason
				}

				return "Seed skipped: " + reason, nil
			}

			return "Seeded sample data", nil
		},
		Failure: "Seeding failed",
	}
}

// Resolve marks an incident resolved.
func Resolve(b api.Backend, id int64) Action {
	return Action{
		Name: "resolve",
		Do: func(ctx context.Context) (string, error) {
			if _, err := b.ResolveIncident(ctx, id); err != nil {
				return "", err
			}

			return fmt.Sprintf("Resolved incident #%d", id), nil
		},
		Failure: "Resolve failed",
	}
}

// Postmortem exports the postmortem artifacts for an incident.
func Postmortem(b api.Backend, id int64) Action {
	return Action{
		Name: "postmortem",
		Do: func(ctx context.Context) (string, error) {
			pm, err := b.CreatePostmortem(ctx, id)
			if err != nil {
				return "", err
			}

			if pm == nil || pm.PDFPath == "" {
				return fmt.Sprintf("Postmortem created for incident #%d", id), nil
			}

			return "Postmortem exported to " + pm.PDFPath, nil
		},
		Failure: "Postmortem export failed",
	}
}
