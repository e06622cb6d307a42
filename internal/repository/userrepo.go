// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/mkotelnikov/filevault/internal/model"
	"github.com/mkotelnikov/filevault/internal/objectid"
)

// UserRepository provides access to the credential store.
type UserRepository interface {
	// Create inserts a new user. Returns errs.ErrAlreadyExists when the
	// email is taken.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id objectid.ID) (*model.User, error)
	// GetByEmail loads a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Count returns the total number of registered users.
	Count(ctx context.Context) (int64, error)
}
