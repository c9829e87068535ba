package repository

import (
	"context"

	"iam-gateway/internal/client/domain"
)

// Repository defines persistence for client configuration.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	Save(ctx context.Context, c *domain.Client) error
}
