package repository

import (
	"context"
	"database/sql"
	"errors"

	"iam-gateway/internal/client/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a client repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ Repository = (*PostgresRepository)(nil)

// GetByID returns the client for id with its configured factor IDs, or nil if
// not found. It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	const q = `SELECT id, name, step_up_rule, adaptive_mfa_rule,
		remember_device_active, skip_remember_device, device_identifier_id,
		remember_device_expiration_seconds, risk_assessment_enabled,
		created_at, updated_at
		FROM clients WHERE id = $1`
	c := &domain.Client{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name,
		&c.MFASettings.StepUpRule, &c.MFASettings.AdaptiveMFARule,
		&c.MFASettings.RememberDevice.Active,
		&c.MFASettings.RememberDevice.SkipRememberDevice,
		&c.MFASettings.RememberDevice.DeviceIdentifierID,
		&c.MFASettings.RememberDevice.ExpirationSeconds,
		&c.RiskAssessmentEnabled,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT factor_id FROM client_factors WHERE client_id = $1 ORDER BY factor_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var fid string
		if err := rows.Scan(&fid); err != nil {
			return nil, err
		}
		c.FactorIDs = append(c.FactorIDs, fid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Save upserts the client row and replaces its factor bindings. The client
// must have ID set.
func (r *PostgresRepository) Save(ctx context.Context, c *domain.Client) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `INSERT INTO clients (
		id, name, step_up_rule, adaptive_mfa_rule,
		remember_device_active, skip_remember_device, device_identifier_id,
		remember_device_expiration_seconds, risk_assessment_enabled,
		created_at, updated_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		step_up_rule = EXCLUDED.step_up_rule,
		adaptive_mfa_rule = EXCLUDED.adaptive_mfa_rule,
		remember_device_active = EXCLUDED.remember_device_active,
		skip_remember_device = EXCLUDED.skip_remember_device,
		device_identifier_id = EXCLUDED.device_identifier_id,
		remember_device_expiration_seconds = EXCLUDED.remember_device_expiration_seconds,
		risk_assessment_enabled = EXCLUDED.risk_assessment_enabled,
		updated_at = EXCLUDED.updated_at`
	if _, err := tx.ExecContext(ctx, upsert,
		c.ID, c.Name,
		c.MFASettings.StepUpRule, c.MFASettings.AdaptiveMFARule,
		c.MFASettings.RememberDevice.Active,
		c.MFASettings.RememberDevice.SkipRememberDevice,
		c.MFASettings.RememberDevice.DeviceIdentifierID,
		c.MFASettings.RememberDevice.ExpirationSeconds,
		c.RiskAssessmentEnabled,
		c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM client_factors WHERE client_id = $1`, c.ID); err != nil {
		return err
	}
	for _, fid := range c.FactorIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO client_factors (client_id, factor_id) VALUES ($1, $2)`, c.ID, fid); err != nil {
			return err
		}
	}
	return tx.Commit()
}
