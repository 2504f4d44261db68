package stream

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/carverauto/signalsentry/pkg/models"
)

const (
	meterName           = "signalsentry.stream"
	metricEventsTotal   = "stream_events_total"
	metricConnectsTotal = "stream_connects_total"
)

var (
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	meterOnce sync.Once
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	eventCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	connectCounter metric.Int64Counter
)

func initMeter() {
	meter := otel.Meter(meterName)

	events, err := meter.Int64Counter(
		metricEventsTotal,
		metric.WithDescription("Stream payloads received, by event type"),
	)
	if err != nil {
		otel.Handle(err)
	}
	eventCounter = events

	connects, err := meter.Int64Counter(
		metricConnectsTotal,
		metric.WithDescription("Stream connection attempts, by outcome"),
	)
	if err != nil {
		otel.Handle(err)
	}
	connectCounter = connects
}

const (
	eventTypeInvalid = "invalid"
	eventTypeUnknown = "unknown"
)

// recordEvent counts a payload. Undecodable payloads use the type "invalid".
func recordEvent(ctx context.Context, eventType string) {
	meterOnce.Do(initMeter)
	if eventCounter == nil {
		return
	}

	eventCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("type", eventTypeLabel(eventType))))
}

// eventTypeLabel bounds the attribute to the known event types.
func eventTypeLabel(eventType string) string {
	switch eventType {
	case models.EventIncidentAlert, models.EventMetricUpdate, eventTypeInvalid:
		return eventType
	default:
		return eventTypeUnknown
	}
}

func recordConnect(ctx context.Context, outcome string) {
	meterOnce.Do(initMeter)
	if connectCounter == nil {
		return
	}

	connectCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
