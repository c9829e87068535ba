package telemetry

import (
	"context"

	"iam-gateway/internal/telemetry/domain"
)

// EventEmitter emits decision telemetry events (e.g. to Kafka). Best-effort;
// callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *domain.DecisionEvent) error
}
