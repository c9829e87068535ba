package repository

import (
	"context"

	"iam-gateway/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ListByClient(ctx context.Context, clientID string, limit, offset int32) ([]*domain.AuditLog, error)
}
