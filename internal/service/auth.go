// Package service contains application services for authentication, identity
// resolution and the file tree.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgcrypto "github.com/mkotelnikov/filevault/internal/crypto"
	"github.com/mkotelnikov/filevault/internal/errs"
	"github.com/mkotelnikov/filevault/internal/model"
	"github.com/mkotelnikov/filevault/internal/objectid"
	"github.com/mkotelnikov/filevault/internal/repository"
)

// sessionKeyPrefix namespaces session tokens inside the generic TTL store.
const sessionKeyPrefix = "auth_"

func sessionKey(token string) string { return sessionKeyPrefix + token }

// AuthService defines registration and session lifecycle operations.
type AuthService interface {
	// Register creates a new user with a salted password digest.
	Register(ctx context.Context, email, password string) (*model.User, error)
	// Login authenticates credentials and issues a fresh session token.
	Login(ctx context.Context, email, password string) (token string, err error)
	// Logout revokes a session token.
	Logout(ctx context.Context, token string) error
}

type AuthServiceImpl struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	sessionTTL time.Duration
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, sessionTTL time.Duration) *AuthServiceImpl {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthServiceImpl{users: users, sessions: sessions, sessionTTL: sessionTTL}
}

// Register creates a new user record. Email uniqueness is enforced by the
// store; a duplicate surfaces as errs.ErrAlreadyExists and no row is written.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" {
		return nil, errs.ErrMissingEmail
	}
	if password == "" {
		return nil, errs.ErrMissingPassword
	}
	salt, err := pkgcrypto.RandBytes(16)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:             objectid.New(),
		Email:          email,
		PasswordDigest: pkgcrypto.HashPassword([]byte(password), salt),
		Salt:           salt,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the credential bundle and stores a fresh token with an
// absolute TTL. A malformed bundle and a credential mismatch are
// indistinguishable to the caller.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", errs.ErrUnauthorized
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			// hide existence of the user
			return "", errs.ErrUnauthorized
		}
		return "", err
	}
	if !pkgcrypto.VerifyPassword([]byte(password), u.Salt, u.PasswordDigest) {
		return "", errs.ErrUnauthorized
	}
	token, err := pkgcrypto.NewSessionToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.Set(ctx, sessionKey(token), u.ID.Hex(), s.sessionTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Logout deletes the session key. An unknown or already expired token is an
// authorization failure, matching resolve semantics.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return errs.ErrUnauthorized
	}
	if _, err := s.sessions.Get(ctx, sessionKey(token)); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.ErrUnauthorized
		}
		return err
	}
	return s.sessions.Delete(ctx, sessionKey(token))
}
