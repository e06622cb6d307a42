package service

import (
	"context"
	"errors"

	"github.com/mkotelnikov/filevault/internal/errs"
	"github.com/mkotelnikov/filevault/internal/objectid"
	"github.com/mkotelnikov/filevault/internal/repository"
)

// IdentityService resolves session tokens into authenticated users. It is the
// single authorization gate: every protected operation calls Resolve first
// and propagates ErrUnauthorized verbatim.
type IdentityService interface {
	// Resolve returns the user id behind a token, or errs.ErrUnauthorized.
	Resolve(ctx context.Context, token string) (objectid.ID, error)
}

type IdentityServiceImpl struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
}

// NewIdentityService constructs IdentityService.
func NewIdentityService(users repository.UserRepository, sessions repository.SessionRepository) *IdentityServiceImpl {
	return &IdentityServiceImpl{users: users, sessions: sessions}
}

// Resolve maps a token to its user. Resolution never refreshes the TTL:
// sessions expire on an absolute schedule.
func (s *IdentityServiceImpl) Resolve(ctx context.Context, token string) (objectid.ID, error) {
	if token == "" {
		return objectid.Nil, errs.ErrUnauthorized
	}
	value, err := s.sessions.Get(ctx, sessionKey(token))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return objectid.Nil, errs.ErrUnauthorized
		}
		return objectid.Nil, err
	}
	id, err := objectid.FromHex(value)
	if err != nil {
		return objectid.Nil, errs.ErrUnauthorized
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return objectid.Nil, errs.ErrUnauthorized
		}
		return objectid.Nil, err
	}
	return id, nil
}
