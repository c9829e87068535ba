package repository

import (
	"context"

	"iam-gateway/internal/user/domain"
)

// Repository defines persistence for users and their factor enrollments.
type Repository interface {
	// GetByID returns the user with enrolled factors loaded, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail returns the user with enrolled factors loaded, or nil if not found.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
}
