package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"iam-gateway/internal/device/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a device repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ Repository = (*PostgresRepository)(nil)

// GetByUserClientAndIdentifier returns the remembered device for the given
// user, client, and device identifier, or nil if not found. It returns an
// error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUserClientAndIdentifier(ctx context.Context, userID, clientID, identifier string) (*domain.Device, error) {
	const q = `SELECT id, user_id, client_id, identifier, expires_at, created_at
		FROM devices WHERE user_id = $1 AND client_id = $2 AND identifier = $3`
	d := &domain.Device{}
	err := r.db.QueryRowContext(ctx, q, userID, clientID, identifier).Scan(
		&d.ID, &d.UserID, &d.ClientID, &d.Identifier, &d.ExpiresAt, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// Save upserts the remembered device, extending the trust window when the
// same user/client/identifier is remembered again. The device must have ID set.
func (r *PostgresRepository) Save(ctx context.Context, d *domain.Device) error {
	const q = `INSERT INTO devices (id, user_id, client_id, identifier, expires_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (user_id, client_id, identifier) DO UPDATE SET
			expires_at = EXCLUDED.expires_at`
	_, err := r.db.ExecContext(ctx, q, d.ID, d.UserID, d.ClientID, d.Identifier, d.ExpiresAt, d.CreatedAt)
	return err
}

// DeleteExpired removes devices whose trust window closed before the given time.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
