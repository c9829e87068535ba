package otel

import (
	"context"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"iam-gateway/internal/telemetry"
	"iam-gateway/internal/telemetry/domain"
)

// NewEventEmitter returns an EventEmitter that sends decision events as OTel
// log records via the given LoggerProvider. If provider is nil, returns a
// no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger("iam-gateway.mfa")}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *domain.DecisionEvent) error { return nil }

type otelEmitter struct {
	logger otellog.Logger
}

// Emit converts the decision event to an OTel log record and emits it.
func (e *otelEmitter) Emit(ctx context.Context, event *domain.DecisionEvent) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	if !event.CreatedAt.IsZero() {
		rec.SetTimestamp(event.CreatedAt)
	}
	if len(event.Metadata) > 0 {
		rec.SetBody(otellog.BytesValue(event.Metadata))
	}
	if event.ClientID != "" {
		rec.AddAttributes(otellog.String("client_id", event.ClientID))
	}
	if event.UserID != "" {
		rec.AddAttributes(otellog.String("user_id", event.UserID))
	}
	if event.DeviceID != "" {
		rec.AddAttributes(otellog.String("device_id", event.DeviceID))
	}
	if event.EventType != "" {
		rec.AddAttributes(otellog.String("event_type", event.EventType))
	}
	if event.Source != "" {
		rec.AddAttributes(otellog.String("source", event.Source))
	}
	e.logger.Emit(ctx, rec)
	return nil
}
