package repository

import (
	"context"
	"database/sql"

	"iam-gateway/internal/factor/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a factor repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ Repository = (*PostgresRepository)(nil)

// Catalog returns all catalog factors keyed by ID. Returns an empty map when
// the catalog is empty.
func (r *PostgresRepository) Catalog(ctx context.Context) (domain.CatalogMap, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, type FROM factors`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(domain.CatalogMap)
	for rows.Next() {
		var id, typ string
		if err := rows.Scan(&id, &typ); err != nil {
			return nil, err
		}
		out[id] = domain.Type(typ)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns the user's enrollments ordered by factor ID. Returns
// (nil, error) only on database errors.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]domain.EnrolledFactor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT factor_id, channel_type, activated FROM user_factors WHERE user_id = $1 ORDER BY factor_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.EnrolledFactor
	for rows.Next() {
		var e domain.EnrolledFactor
		if err := rows.Scan(&e.FactorID, &e.ChannelType, &e.Activated); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Enroll upserts the user's enrollment in a factor.
func (r *PostgresRepository) Enroll(ctx context.Context, userID string, e domain.EnrolledFactor) error {
	const q = `INSERT INTO user_factors (user_id, factor_id, channel_type, activated)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id, factor_id) DO UPDATE SET
			channel_type = EXCLUDED.channel_type,
			activated = EXCLUDED.activated`
	_, err := r.db.ExecContext(ctx, q, userID, e.FactorID, e.ChannelType, e.Activated)
	return err
}

// SaveFactor upserts a catalog factor.
func (r *PostgresRepository) SaveFactor(ctx context.Context, f *domain.Factor) error {
	const q = `INSERT INTO factors (id, type, name) VALUES ($1,$2,$3)
		ON CONFLICT (id) DO UPDATE SET type = EXCLUDED.type, name = EXCLUDED.name`
	_, err := r.db.ExecContext(ctx, q, f.ID, string(f.Type), f.Name)
	return err
}
