package repository

import (
	"context"

	"github.com/mkotelnikov/filevault/internal/model"
	"github.com/mkotelnikov/filevault/internal/objectid"
)

// NodeRepository provides access to the file tree metadata store.
type NodeRepository interface {
	// Insert persists a new node and fills in its insertion sequence.
	Insert(ctx context.Context, n *model.Node) error

	// GetByID loads a node by id regardless of owner. Used for parent
	// validation, which is intentionally not owner-scoped.
	GetByID(ctx context.Context, id objectid.ID) (*model.Node, error)

	// GetOwned loads a node only when it belongs to owner; absence and
	// ownership mismatch both return errs.ErrNotFound.
	GetOwned(ctx context.Context, owner, id objectid.ID) (*model.Node, error)

	// ListChildren returns owner's nodes under parent (nil means the root
	// sentinel) in insertion order, with skip/limit pagination.
	ListChildren(ctx context.Context, owner objectid.ID, parent *objectid.ID, skip, limit int) ([]model.Node, error)

	// Count returns the total number of nodes across all users.
	Count(ctx context.Context) (int64, error)
}
