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

package dashboard

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/signalsentry/pkg/api"
	"github.com/carverauto/signalsentry/pkg/logger"
	"github.com/carverauto/signalsentry/pkg/models"
)

// IncidentDetail is an incident with its supporting data. Timeline and
// Analysis are nil when the backend could not provide them.
type IncidentDetail struct {
	Incident models.Incident
	Timeline *models.IncidentTimeline
	Analysis *models.RootCauseAnalysis
}

// ServiceDetail holds the drill-down data for one service. Missing series or
// logs are left empty.
type ServiceDetail struct {
	Service string
	Summary *models.ServiceSummary
	Series  map[string][]models.SparklinePoint
	Logs    []models.LogEntry
}

// LoadIncidentDetail fetches the incident, its timeline and its analysis in
// parallel. Only a failure to load the incident itself is returned.
func LoadIncidentDetail(ctx context.Context, b api.Backend, id int64, log logger.Logger) (*IncidentDetail, error) {
	if log == nil {
		log = logger.NewTestLogger()
	}

	var (
		detail IncidentDetail
		g      errgroup.Group
	)

	g.Go(func() error {
		inc, err := b.Incident(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load incident %d: %w", id, err)
		}

		if inc != nil {
			detail.Incident = *inc
		}

		return nil
	})

	g.Go(func() error {
		timeline, err := b.IncidentTimeline(ctx, id)
		if err != nil {
			log.Warn().Err(err).Int64("incident_id", id).Msg("Timeline unavailable")
			return nil
		}

		detail.Timeline = timeline

		return nil
	})

	g.Go(func() error {
		analysis, err := b.IncidentAnalysis(ctx, id)
		if err != nil {
			log.Warn().Err(err).Int64("incident_id", id).Msg("Analysis unavailable")
			return nil
		}

		detail.Analysis = analysis

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := detail.Incident.Validate(); err != nil {
		return nil, err
	}

	return &detail, nil
}

// LoadServiceDetail fetches every service metric series and the filtered
// logs in parallel. Individual failures are logged and leave gaps.
func LoadServiceDetail(
	ctx context.Context, b api.Backend, service string, filter models.LogFilter, log logger.Logger) *ServiceDetail {
	if log == nil {
		log = logger.NewTestLogger()
	}

	detail := &ServiceDetail{
		Service: service,
		Series:  make(map[string][]models.SparklinePoint, len(models.ServiceMetrics)),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)

	for _, metric := range models.ServiceMetrics {
		g.Go(func() error {
			series, err := b.ServiceMetricSeries(ctx, service, metric)
			if err != nil {
				log.Warn().Err(err).Str("service", service).Str("metric", metric).Msg("Metric series unavailable")
				return nil
			}

			if series == nil {
				return nil
			}

			mu.Lock()
			detail.Series[metric] = series.Points
			mu.Unlock()

			return nil
		})
	}

	g.Go(func() error {
		logs, err := b.ServiceLogs(ctx, service, filter)
		if err != nil {
			log.Warn().Err(err).Str("service", service).Msg("Service logs unavailable")
			return nil
		}

		if logs != nil {
			mu.Lock()
			detail.Logs = logs.Items
			mu.Unlock()
		}

		return nil
	})

	_ = g.Wait()

	return detail
}
