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

//go:generate mockgen -destination=mock_backend.go -package=api github.com/carverauto/signalsentry/pkg/api Backend

package api

import (
	"context"

	"github.com/carverauto/signalsentry/pkg/models"
)

// Backend is the set of backend calls the dashboard depends on.
type Backend interface {
	ActiveIncidents(ctx context.Context) ([]models.Incident, error)
	RecentIncidents(ctx context.Context) ([]models.Incident, error)
	Incident(ctx context.Context, id int64) (*models.Incident, error)
	IncidentTimeline(ctx context.Context, id int64) (*models.IncidentTimeline, error)
	IncidentAnalysis(ctx context.Context, id int64) (*models.RootCauseAnalysis, error)
	ServiceSummaries(ctx context.Context) ([]models.ServiceSummary, error)
	ServiceMetricSeries(ctx context.Context, service, metric string) (*models.MetricSeries, error)
	ServiceLogs(ctx context.Context, service string, filter models.LogFilter) (*models.ServiceLogs, error)
	Simulate(ctx context.Context) (*models.SimulateResult, error)
	RefreshIncidents(ctx context.Context) (*models.RefreshResult, error)
	Seed(ctx context.Context, force bool) (*models.SeedResult, error)
	ResolveIncident(ctx context.Context, id int64) (*models.Incident, error)
	CreatePostmortem(ctx context.Context, id int64) (*models.Postmortem, error)
}

var _ Backend = (*Client)(nil)
