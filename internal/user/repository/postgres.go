package repository

import (
	"context"
	"database/sql"
	"errors"

	factordomain "iam-gateway/internal/factor/domain"
	"iam-gateway/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ Repository = (*PostgresRepository)(nil)

// GetByID returns the user for id with enrolled factors loaded, or nil if not
// found. It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `SELECT id, email, name, status, created_at, updated_at FROM users WHERE id = $1`
	return r.getOne(ctx, q, id)
}

// GetByEmail returns the user with the given email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT id, email, name, status, created_at, updated_at FROM users WHERE email = $1`
	return r.getOne(ctx, q, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT factor_id, channel_type, activated FROM user_factors WHERE user_id = $1 ORDER BY factor_id`, u.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e factordomain.EnrolledFactor
		if err := rows.Scan(&e.FactorID, &e.ChannelType, &e.Activated); err != nil {
			return nil, err
		}
		u.EnrolledFactors = append(u.EnrolledFactors, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return u, nil
}

// Create persists the user row. The user must have ID set; enrollments are
// managed through the factor repository.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	const q = `INSERT INTO users (id, email, name, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.db.ExecContext(ctx, q, u.ID, u.Email, u.Name, u.Status, u.CreatedAt, u.UpdatedAt)
	return err
}

// Update updates the existing user row. Missing rows are not an error.
func (r *PostgresRepository) Update(ctx context.Context, u *domain.User) error {
	const q = `UPDATE users SET email = $2, name = $3, status = $4, updated_at = $5 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, u.ID, u.Email, u.Name, u.Status, u.UpdatedAt)
	return err
}
