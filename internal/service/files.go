package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mkotelnikov/filevault/internal/blob"
	"github.com/mkotelnikov/filevault/internal/errs"
	"github.com/mkotelnikov/filevault/internal/model"
	"github.com/mkotelnikov/filevault/internal/objectid"
	"github.com/mkotelnikov/filevault/internal/repository"
)

// defaultPageSize is the fixed listing page size.
const defaultPageSize = 20

// FileService defines operations over the user-owned file tree.
type FileService interface {
	// Create validates and persists a new folder/file/image node.
	Create(ctx context.Context, userID objectid.ID, req model.CreateNodeRequest) (model.NodeView, error)
	// Get returns a node view only when the node exists and belongs to userID.
	Get(ctx context.Context, userID objectid.ID, nodeID string) (model.NodeView, error)
	// List returns one page of the owner's children under a parent.
	List(ctx context.Context, userID objectid.ID, parentID string, page int) ([]model.NodeView, error)
}

type FileServiceImpl struct {
	nodes    repository.NodeRepository
	blobs    blob.Store
	pageSize int
}

// NewFileService constructs FileService.
func NewFileService(nodes repository.NodeRepository, blobs blob.Store, pageSize int) *FileServiceImpl {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &FileServiceImpl{nodes: nodes, blobs: blobs, pageSize: pageSize}
}

// isRootRef reports whether a wire parent reference means the root sentinel.
func isRootRef(ref string) bool { return ref == "" || ref == "0" }

// Create validates in a fixed order (first failure wins), then persists.
// For non-folder kinds the payload is decoded and written to the blob store
// before the metadata insert; nothing is persisted when validation fails.
//
// Parent lookup is intentionally not owner-scoped: a child may attach under
// another user's folder. Kept as-is until product intent says otherwise.
func (s *FileServiceImpl) Create(ctx context.Context, userID objectid.ID, req model.CreateNodeRequest) (model.NodeView, error) {
	if req.Name == "" {
		return model.NodeView{}, errs.ErrMissingName
	}
	kind := model.NodeKind(req.Type)
	if !kind.Valid() {
		return model.NodeView{}, errs.ErrMissingType
	}
	if kind != model.KindFolder && req.Data == "" {
		return model.NodeView{}, errs.ErrMissingData
	}

	var parentID *objectid.ID
	if !isRootRef(req.ParentID) {
		pid, err := objectid.FromHex(req.ParentID)
		if err != nil {
			// a malformed reference reads the same as an absent parent
			return model.NodeView{}, errs.ErrParentNotFound
		}
		parent, err := s.nodes.GetByID(ctx, pid)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return model.NodeView{}, errs.ErrParentNotFound
			}
			return model.NodeView{}, err
		}
		if parent.Kind != model.KindFolder {
			return model.NodeView{}, errs.ErrParentNotFolder
		}
		parentID = &parent.ID
	}

	n := &model.Node{
		ID:       objectid.New(),
		OwnerID:  userID,
		Name:     req.Name,
		Kind:     kind,
		IsPublic: req.IsPublic,
		ParentID: parentID,
	}
	if kind != model.KindFolder {
		raw, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return model.NodeView{}, fmt.Errorf("decode payload: %w", err)
		}
		path, err := s.blobs.Write(ctx, raw)
		if err != nil {
			return model.NodeView{}, fmt.Errorf("write blob: %w", err)
		}
		n.LocalPath = path
	}
	if err := s.nodes.Insert(ctx, n); err != nil {
		return model.NodeView{}, fmt.Errorf("insert node: %w", err)
	}
	return n.View(), nil
}

// Get resolves a single node. Absence, foreign ownership and a malformed id
// all answer errs.ErrNotFound so callers cannot probe for existence.
func (s *FileServiceImpl) Get(ctx context.Context, userID objectid.ID, nodeID string) (model.NodeView, error) {
	id, err := objectid.FromHex(nodeID)
	if err != nil {
		return model.NodeView{}, errs.ErrNotFound
	}
	n, err := s.nodes.GetOwned(ctx, userID, id)
	if err != nil {
		return model.NodeView{}, err
	}
	return n.View(), nil
}

// List pages through the owner's children under parentID in insertion order.
// A malformed parent reference yields an empty page, not an error.
func (s *FileServiceImpl) List(ctx context.Context, userID objectid.ID, parentID string, page int) ([]model.NodeView, error) {
	var parent *objectid.ID
	if !isRootRef(parentID) {
		pid, err := objectid.FromHex(parentID)
		if err != nil {
			return []model.NodeView{}, nil
		}
		parent = &pid
	}
	if page < 0 {
		page = 0
	}
	nodes, err := s.nodes.ListChildren(ctx, userID, parent, page*s.pageSize, s.pageSize)
	if err != nil {
		return nil, err
	}
	views := make([]model.NodeView, 0, len(nodes))
	for i := range nodes {
		views = append(views, nodes[i].View())
	}
	return views, nil
}
