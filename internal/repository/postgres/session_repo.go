package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mkotelnikov/filevault/internal/errs"
)

// SessionRepo implements SessionRepository as a TTL key-value table in
// PostgreSQL. Expiry is absolute: reads filter on expires_at, writes never
// extend an existing deadline implicitly.
type SessionRepo struct{ db *DB }

// NewSessionRepo constructs a session repository.
func NewSessionRepo(db *DB) *SessionRepo { return &SessionRepo{db: db} }

// Set stores key -> value with the given TTL, overwriting any previous entry.
func (r *SessionRepo) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	const q = `
INSERT INTO sessions (token_key, user_id, expires_at)
VALUES ($1, $2, now() + $3::interval)
ON CONFLICT (token_key)
DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at`
	_, err := r.db.Pool.Exec(ctx, q, key, value, ttl)
	return err
}

// Get returns the stored value for key; expired entries read as absent.
func (r *SessionRepo) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT user_id FROM sessions WHERE token_key=$1 AND expires_at > now()`
	var value string
	err := r.db.Pool.QueryRow(ctx, q, key).Scan(&value)
	switch {
	case err == nil:
		return value, nil
	case errors.Is(err, pgx.ErrNoRows):
		return "", errs.ErrNotFound
	default:
		return "", err
	}
}

// Delete removes the key; removing an absent key succeeds.
func (r *SessionRepo) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM sessions WHERE token_key=$1`
	_, err := r.db.Pool.Exec(ctx, q, key)
	return err
}
