package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mkotelnikov/filevault/internal/errs"
	"github.com/mkotelnikov/filevault/internal/model"
	"github.com/mkotelnikov/filevault/internal/objectid"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, email, password_digest, salt)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID.Hex(), u.Email, u.PasswordDigest, u.Salt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id objectid.ID) (*model.User, error) {
	const q = `
SELECT id, email, password_digest, salt, created_at
FROM users WHERE id=$1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, id.Hex()))
}

// GetByEmail selects a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT id, email, password_digest, salt, created_at
FROM users WHERE email=$1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, email))
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	const q = `SELECT count(*) FROM users`
	var n int64
	if err := r.db.Pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type row interface{ Scan(dest ...any) error }

func (r *UserRepo) scanUser(rw row) (*model.User, error) {
	var (
		u     model.User
		idHex string
	)
	if err := rw.Scan(&idHex, &u.Email, &u.PasswordDigest, &u.Salt, &u.CreatedAt); err != nil {
		// only an absent row reads as not found; I/O failures must keep
		// their cause so callers answer with a retryable server error
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	id, err := objectid.FromHex(idHex)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	u.ID = id
	return &u, nil
}
