package repository

import (
	"context"
	"time"

	"iam-gateway/internal/device/domain"
)

// Repository defines persistence for remembered devices.
type Repository interface {
	GetByUserClientAndIdentifier(ctx context.Context, userID, clientID, identifier string) (*domain.Device, error)
	Save(ctx context.Context, d *domain.Device) error
	// DeleteExpired removes devices whose trust window closed before the given
	// time; returns the number of rows removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
