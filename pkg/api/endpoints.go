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
	"context"
	"net/url"
	"strconv"

	"github.com/carverauto/signalsentry/pkg/models"
)

func incidentPath(id int64, suffix string) string {
	return "/incidents/" + strconv.FormatInt(id, 10) + suffix
}

func servicePath(service, suffix string) string {
	return "/services/" + url.PathEscape(service) + suffix
}

// ActiveIncidents lists open incidents, most recently updated first.
func (c *Client) ActiveIncidents(ctx context.Context) ([]models.Incident, error) {
	var list models.IncidentList
	if err := c.Get(ctx, "/incidents/active", &list); err != nil {
		return nil, err
	}

	return list.Items, nil
}

// RecentIncidents lists the latest incidents regardless of status.
func (c *Client) RecentIncidents(ctx context.Context) ([]models.Incident, error) {
	var list models.IncidentList
	if err := c.Get(ctx, "/incidents/recent", &list); err != nil {
		return nil, err
	}

	return list.Items, nil
}

func (c *Client) Incident(ctx context.Context, id int64) (*models.Incident, error) {
	var inc models.Incident
	if err := c.Get(ctx, incidentPath(id, ""), &inc); err != nil {
		return nil, err
	}

	return &inc, nil
}

func (c *Client) IncidentTimeline(ctx context.Context, id int64) (*models.IncidentTimeline, error) {
	var timeline models.IncidentTimeline
	if err := c.Get(ctx, incidentPath(id, "/timeline"), &timeline); err != nil {
		return nil, err
	}

	return &timeline, nil
}

func (c *Client) IncidentAnalysis(ctx context.Context, id int64) (*models.RootCauseAnalysis, error) {
	var analysis models.RootCauseAnalysis
	if err := c.Get(ctx, incidentPath(id, "/analysis"), &analysis); err != nil {
		return nil, err
	}

	return &analysis, nil
}

// ServiceSummaries returns the full summary snapshot for every service.
func (c *Client) ServiceSummaries(ctx context.Context) ([]models.ServiceSummary, error) {
	var list models.ServiceSummaryList
	if err := c.Get(ctx, "/services/summary", &list); err != nil {
		return nil, err
	}

	return list.Services, nil
}

func (c *Client) ServiceMetricSeries(ctx context.Context, service, metric string) (*models.MetricSeries, error) {
	q := url.Values{}
	q.Set("metric", metric)

	var series models.MetricSeries
	if err := c.Get(ctx, servicePath(service, "/metrics?"+q.Encode()), &series); err != nil {
		return nil, err
	}

	return &series, nil
}

// ServiceLogs fetches log lines for a service. LogLevelAll and empty filter fields are not sent.
func (c *Client) ServiceLogs(ctx context.Context, service string, filter models.LogFilter) (*models.ServiceLogs, error) {
	q := url.Values{}
	if filter.Level != "" && filter.Level != models.LogLevelAll {
		q.Set("level", filter.Level)
	}

	if filter.Query != "" {
		q.Set("query", filter.Query)
	}

	path := servicePath(service, "/logs")
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var logs models.ServiceLogs
	if err := c.Get(ctx, path, &logs); err != nil {
		return nil, err
	}

	return &logs, nil
}

// Simulate asks the backend to inject a synthetic incident burst.
func (c *Client) Simulate(ctx context.Context) (*models.SimulateResult, error) {
	var result models.SimulateResult
	if err := c.Post(ctx, "/incidents/simulate", nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// RefreshIncidents runs the backend detector over the latest data.
func (c *Client) RefreshIncidents(ctx context.Context) (*models.RefreshResult, error) {
	var result models.RefreshResult
	if err := c.Post(ctx, "/incidents/refresh", nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Seed loads the sample dataset. Without force the backend skips seeding a non-empty store.
func (c *Client) Seed(ctx context.Context, force bool) (*models.SeedResult, error) {
	path := "/admin/seed"
	if force {
		path += "?force=true"
	}

	var result models.SeedResult
	if err := c.Post(ctx, path, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) ResolveIncident(ctx context.Context, id int64) (*models.Incident, error) {
	var inc models.Incident
	if err := c.Post(ctx, incidentPath(id, "/resolve"), nil, &inc); err != nil {
		return nil, err
	}

	return &inc, nil
}

func (c *Client) CreatePostmortem(ctx context.Context, id int64) (*models.Postmortem, error) {
	var pm models.Postmortem
	if err := c.Post(ctx, incidentPath(id, "/postmortem"), nil, &pm); err != nil {
		return nil, err
	}

	return &pm, nil
}
