package reconcile

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName                 = "signalsentry.reconcile"
	metricIncidentCommitTotal = "reconcile_incident_commits_total"
	metricServiceRefreshTotal = "reconcile_service_refresh_total"

	outcomeOK        = "ok"
	outcomeError     = "error"
	outcomeThrottled = "throttled"
	outcomeStale     = "stale"
)

var (
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	meterOnce sync.Once
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	incidentCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	refreshCounter metric.Int64Counter
)

func initMeter() {
	meter := otel.Meter(meterName)

	incidents, err := meter.Int64Counter(
		metricIncidentCommitTotal,
		metric.WithDescription("Incident list commits, by kind (upsert or replace)"),
	)
	if err != nil {
		otel.Handle(err)
	}
	incidentCounter = incidents

	refreshes, err := meter.Int64Counter(
		metricServiceRefreshTotal,
		metric.WithDescription("Service summary refresh requests, by outcome"),
	)
	if err != nil {
		otel.Handle(err)
	}
	refreshCounter = refreshes
}

func recordUpsert(ctx context.Context, kind string) {
	meterOnce.Do(initMeter)
	if incidentCounter == nil {
		return
	}

	incidentCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func recordRefresh(ctx context.Context, outcome string) {
	meterOnce.Do(initMeter)
	if refreshCounter == nil {
		return
	}

	refreshCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
