package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// userColumns is the column contract shared by every users query; scanUser
// destructures rows in exactly this order.
const userColumns = `id, email, password_hash, organization_id, api_key,
		       api_key_issued_at, api_key_expires_at,
		       (api_key IS NOT NULL AND api_key_expires_at > NOW()) AS api_key_live,
		       created_at, updated_at`

// PostgresRepository implements UserRepository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new UserRepository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) UserRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new user record.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (email, password_hash, organization_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, u.Email, u.PasswordHash, u.OrganizationID).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a single user by email address.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(ctx, query, email)
}

// FindByLiveKey retrieves the user whose API key equals key and has not expired
// according to the store clock.
func (r *PostgresRepository) FindByLiveKey(ctx context.Context, key string) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE api_key = $1 AND api_key_expires_at > NOW()`
	return r.scanOne(ctx, query, key)
}

// IssueKey stores key only when the user has no live key. When a live key
// already exists (for example minted by a concurrent login) it is returned instead.
func (r *PostgresRepository) IssueKey(ctx context.Context, userID int64, key string, ttl time.Duration) (*Credential, error) {
	query := `
		UPDATE users
		SET api_key = $2,
		    api_key_issued_at = NOW(),
		    api_key_expires_at = NOW() + ($3 * INTERVAL '1 second'),
		    updated_at = NOW()
		WHERE id = $1
		  AND (api_key IS NULL OR api_key_expires_at IS NULL OR api_key_expires_at <= NOW())
		RETURNING api_key, api_key_issued_at, api_key_expires_at`

	var c Credential
	err := r.pool.QueryRow(ctx, query, userID, key, int64(ttl.Seconds())).
		Scan(&c.Key, &c.IssuedAt, &c.ExpiresAt)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("issuing user key: %w", err)
	}

	existing := `
		SELECT api_key, api_key_issued_at, api_key_expires_at
		FROM users
		WHERE id = $1 AND api_key IS NOT NULL AND api_key_expires_at > NOW()`

	err = r.pool.QueryRow(ctx, existing, userID).Scan(&c.Key, &c.IssuedAt, &c.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("reading live user key: %w", err)
	}
	return &c, nil
}

// ClearExpiredKeys removes API keys whose expiry has passed. Returns the number
// of users affected.
func (r *PostgresRepository) ClearExpiredKeys(ctx context.Context) (int64, error) {
	query := `
		UPDATE users
		SET api_key = NULL, api_key_issued_at = NULL, api_key_expires_at = NULL, updated_at = NOW()
		WHERE api_key IS NOT NULL AND api_key_expires_at <= NOW()`

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("clearing expired user keys: %w", err)
	}
	return result.RowsAffected(), nil
}

// ExistingIDs returns the ids from the input that belong to existing users.
func (r *PostgresRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT id FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("looking up user ids: %w", err)
	}

	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scanning user ids: %w", err)
	}
	return found, nil
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.OrganizationID, &u.APIKey,
		&u.APIKeyIssuedAt, &u.APIKeyExpiresAt, &u.APIKeyLive,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user row: %w", err)
	}
	return &u, nil
}
