package repository

import (
	"context"

	"iam-gateway/internal/factor/domain"
)

// Repository defines persistence for the factor catalog and user enrollments.
type Repository interface {
	// Catalog returns the full factor catalog keyed by factor ID.
	Catalog(ctx context.Context) (domain.CatalogMap, error)
	// ListByUser returns the user's enrollments, active or not.
	ListByUser(ctx context.Context, userID string) ([]domain.EnrolledFactor, error)
	// Enroll records (or updates) a user's enrollment in a factor.
	Enroll(ctx context.Context, userID string, e domain.EnrolledFactor) error
	// SaveFactor upserts a catalog factor.
	SaveFactor(ctx context.Context, f *domain.Factor) error
}
