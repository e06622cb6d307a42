package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mkotelnikov/filevault/internal/errs"
	"github.com/mkotelnikov/filevault/internal/model"
	"github.com/mkotelnikov/filevault/internal/objectid"
)

// NodeRepo implements NodeRepository using PostgreSQL. The bigserial seq
// column preserves insertion order for listing.
type NodeRepo struct{ db *DB }

// NewNodeRepo constructs a node repository.
func NewNodeRepo(db *DB) *NodeRepo { return &NodeRepo{db: db} }

// Insert persists a new node row and fills n.Seq from the store.
func (r *NodeRepo) Insert(ctx context.Context, n *model.Node) error {
	const q = `
INSERT INTO nodes (id, owner_id, name, kind, is_public, parent_id, local_path)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING seq`
	return r.db.Pool.QueryRow(ctx, q,
		n.ID.Hex(), n.OwnerID.Hex(), n.Name, string(n.Kind), n.IsPublic, parentArg(n.ParentID), n.LocalPath,
	).Scan(&n.Seq)
}

// GetByID selects a node by id regardless of owner.
func (r *NodeRepo) GetByID(ctx context.Context, id objectid.ID) (*model.Node, error) {
	const q = `
SELECT id, owner_id, name, kind, is_public, parent_id, local_path, seq
FROM nodes WHERE id=$1`
	return scanNode(r.db.Pool.QueryRow(ctx, q, id.Hex()))
}

// GetOwned selects a node only when it belongs to owner.
func (r *NodeRepo) GetOwned(ctx context.Context, owner, id objectid.ID) (*model.Node, error) {
	const q = `
SELECT id, owner_id, name, kind, is_public, parent_id, local_path, seq
FROM nodes WHERE id=$1 AND owner_id=$2`
	return scanNode(r.db.Pool.QueryRow(ctx, q, id.Hex(), owner.Hex()))
}

// ListChildren selects owner's nodes under parent in insertion order.
// IS NOT DISTINCT FROM folds the NULL parent (root sentinel) into one query.
func (r *NodeRepo) ListChildren(ctx context.Context, owner objectid.ID, parent *objectid.ID, skip, limit int) ([]model.Node, error) {
	const q = `
SELECT id, owner_id, name, kind, is_public, parent_id, local_path, seq
FROM nodes
WHERE owner_id=$1 AND parent_id IS NOT DISTINCT FROM $2
ORDER BY seq
OFFSET $3 LIMIT $4`
	rows, err := r.db.Pool.Query(ctx, q, owner.Hex(), parentArg(parent), skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Node, 0, limit)
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// Count returns the total number of nodes.
func (r *NodeRepo) Count(ctx context.Context) (int64, error) {
	const q = `SELECT count(*) FROM nodes`
	var n int64
	if err := r.db.Pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func parentArg(parent *objectid.ID) *string {
	if parent == nil {
		return nil
	}
	h := parent.Hex()
	return &h
}

func scanNode(rw row) (*model.Node, error) {
	var (
		n               model.Node
		idHex, ownerHex string
		kind            string
		parentHex       *string
	)
	err := rw.Scan(&idHex, &ownerHex, &n.Name, &kind, &n.IsPublic, &parentHex, &n.LocalPath, &n.Seq)
	if err != nil {
		// only an absent row reads as not found; I/O failures must keep
		// their cause so callers answer with a retryable server error
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if n.ID, err = objectid.FromHex(idHex); err != nil {
		return nil, errs.ErrNotFound
	}
	if n.OwnerID, err = objectid.FromHex(ownerHex); err != nil {
		return nil, errs.ErrNotFound
	}
	n.Kind = model.NodeKind(kind)
	if parentHex != nil {
		pid, err := objectid.FromHex(*parentHex)
		if err != nil {
			return nil, errs.ErrNotFound
		}
		n.ParentID = &pid
	}
	return &n, nil
}
