// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers. The HTTP adapter is the only
// place these turn into status codes; any error that is not one of them
// surfaces as a generic server error.
var (
	// ErrNotFound indicates the requested entity does not exist or is not
	// owned by the caller (the two are deliberately indistinguishable).
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a missing/invalid token or credential mismatch.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrMissingEmail indicates a registration without an email.
	ErrMissingEmail = errors.New("missing email")

	// ErrMissingPassword indicates a registration without a password.
	ErrMissingPassword = errors.New("missing password")

	// ErrMissingName indicates a node creation without a name.
	ErrMissingName = errors.New("missing name")

	// ErrMissingType indicates a node creation with an absent or unknown type.
	ErrMissingType = errors.New("missing or invalid type")

	// ErrMissingData indicates a non-folder node creation without payload data.
	ErrMissingData = errors.New("missing data")

	// ErrParentNotFound indicates a parent reference resolving to no node.
	ErrParentNotFound = errors.New("parent not found")

	// ErrParentNotFolder indicates a parent node whose kind is not folder.
	ErrParentNotFolder = errors.New("parent is not a folder")
)
