// Package model defines domain entities used by services and repositories.
package model

import (
	"encoding/json"
	"time"

	"github.com/mkotelnikov/filevault/internal/objectid"
)

// NodeKind classifies a node in the ownership tree.
type NodeKind string

// Allowed node kinds. Only folders may have children.
const (
	KindFolder NodeKind = "folder"
	KindFile   NodeKind = "file"
	KindImage  NodeKind = "image"
)

// Valid reports whether the kind is one of the allowed values.
func (k NodeKind) Valid() bool {
	switch k {
	case KindFolder, KindFile, KindImage:
		return true
	}
	return false
}

// User represents an account. Immutable after registration; the plaintext
// password is never stored, only its salted digest.
type User struct {
	ID             objectid.ID // PK
	Email          string      // unique
	PasswordDigest []byte      // Argon2id(password, Salt)
	Salt           []byte      // per-user digest salt
	CreatedAt      time.Time
}

// Node is a single entry in the per-user file forest: a folder, a file or an
// image. Nodes are created once and never mutated.
type Node struct {
	ID        objectid.ID
	OwnerID   objectid.ID  // FK -> users.id, immutable
	Name      string       // non-empty, not unique among siblings
	Kind      NodeKind
	IsPublic  bool         // reserved for public-read support, no access path yet
	ParentID  *objectid.ID // nil means the root sentinel
	LocalPath string       // blob store reference; empty iff Kind == KindFolder
	Seq       int64        // store insertion order, drives listing
}

// ParentRef renders a parent reference on the wire: the JSON number 0 at the
// root sentinel, the hex id string otherwise.
type ParentRef string

// MarshalJSON implements json.Marshaler.
func (p ParentRef) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte("0"), nil
	}
	return json.Marshal(string(p))
}

// NodeView is the externally visible projection of a Node. LocalPath never
// leaves the service.
type NodeView struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	IsPublic bool      `json:"isPublic"`
	ParentID ParentRef `json:"parentId"`
}

// View returns the external projection of the node.
func (n *Node) View() NodeView {
	v := NodeView{
		ID:       n.ID.Hex(),
		UserID:   n.OwnerID.Hex(),
		Name:     n.Name,
		Type:     string(n.Kind),
		IsPublic: n.IsPublic,
	}
	if n.ParentID != nil {
		v.ParentID = ParentRef(n.ParentID.Hex())
	}
	return v
}

// CreateNodeRequest is the parsed-and-decoded input for node creation. The
// HTTP adapter owns wire decoding; the service owns semantic validation.
type CreateNodeRequest struct {
	Name     string
	Type     string
	ParentID string // "" or "0" means the root sentinel
	IsPublic bool
	Data     string // base64 payload, required for non-folder kinds
}
