package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// superuserKeyName is the settings row holding the superuser credential.
const superuserKeyName = "api_key"

// PostgresSettingsRepository implements SettingsRepository using pgxpool.
type PostgresSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository backed by the given connection pool.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &PostgresSettingsRepository{pool: pool}
}

// GetLiveSuperuserKey returns the superuser key if its expiry is in the future
// relative to the store clock.
func (r *PostgresSettingsRepository) GetLiveSuperuserKey(ctx context.Context) (*Credential, error) {
	query := `
		SELECT value, created_at, expires_at
		FROM settings
		WHERE key = $1 AND expires_at > NOW()`

	var c Credential
	err := r.pool.QueryRow(ctx, query, superuserKeyName).Scan(&c.Key, &c.IssuedAt, &c.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoLiveKey
		}
		return nil, fmt.Errorf("querying superuser key: %w", err)
	}
	return &c, nil
}

// UpsertSuperuserKey writes key as the superuser credential, resetting its
// issuance and expiry window.
func (r *PostgresSettingsRepository) UpsertSuperuserKey(ctx context.Context, key string, ttl time.Duration) (*Credential, error) {
	query := `
		INSERT INTO settings (key, value, created_at, expires_at)
		VALUES ($1, $2, NOW(), NOW() + ($3 * INTERVAL '1 second'))
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    created_at = EXCLUDED.created_at,
		    expires_at = EXCLUDED.expires_at
		RETURNING value, created_at, expires_at`

	var c Credential
	err := r.pool.QueryRow(ctx, query, superuserKeyName, key, int64(ttl.Seconds())).
		Scan(&c.Key, &c.IssuedAt, &c.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("upserting superuser key: %w", err)
	}
	return &c, nil
}
