package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/mkotelnikov/filevault/internal/blob"
	"github.com/mkotelnikov/filevault/internal/errs"
	"github.com/mkotelnikov/filevault/internal/model"
	"github.com/mkotelnikov/filevault/internal/objectid"
	"github.com/mkotelnikov/filevault/internal/repository"
)

type fakeNodes struct {
	nodes []*model.Node
	seq   int64

	insertErr error
	getErr    error
}

var _ repository.NodeRepository = (*fakeNodes)(nil)

func (f *fakeNodes) Insert(_ context.Context, n *model.Node) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.seq++
	n.Seq = f.seq
	cpy := *n
	f.nodes = append(f.nodes, &cpy)
	return nil
}

func (f *fakeNodes) GetByID(_ context.Context, id objectid.ID) (*model.Node, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, n := range f.nodes {
		if n.ID == id {
			c := *n
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeNodes) GetOwned(_ context.Context, owner, id objectid.ID) (*model.Node, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, n := range f.nodes {
		if n.ID == id && n.OwnerID == owner {
			c := *n
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeNodes) ListChildren(_ context.Context, owner objectid.ID, parent *objectid.ID, skip, limit int) ([]model.Node, error) {
	var out []model.Node
	for _, n := range f.nodes {
		if n.OwnerID != owner {
			continue
		}
		switch {
		case parent == nil && n.ParentID == nil:
		case parent != nil && n.ParentID != nil && *parent == *n.ParentID:
		default:
			continue
		}
		out = append(out, *n)
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNodes) Count(context.Context) (int64, error) {
	return int64(len(f.nodes)), nil
}

type fakeBlob struct {
	writes   [][]byte
	writeErr error
	pingErr  error
}

var _ blob.Store = (*fakeBlob)(nil)

func (f *fakeBlob) Write(_ context.Context, data []byte) (string, error) {
	if f.writeErr != nil {
		return "", f.writeErr
	}
	f.writes = append(f.writes, append([]byte(nil), data...))
	return fmt.Sprintf("/tmp/files_manager/blob-%d", len(f.writes)), nil
}

func (f *fakeBlob) Ping(context.Context) error { return f.pingErr }

func newFileService() (*FileServiceImpl, *fakeNodes, *fakeBlob) {
	nodes := &fakeNodes{}
	blobs := &fakeBlob{}
	return NewFileService(nodes, blobs, 20), nodes, blobs
}

func TestFiles_Create_ValidationOrder(t *testing.T) {
	t.Parallel()

	s, nodes, blobs := newFileService()
	owner := objectid.New()

	cases := []struct {
		name string
		req  model.CreateNodeRequest
		want error
	}{
		{"empty name", model.CreateNodeRequest{Type: "file", Data: "aGk="}, errs.ErrMissingName},
		{"empty type", model.CreateNodeRequest{Name: "x", Data: "aGk="}, errs.ErrMissingType},
		{"unknown type", model.CreateNodeRequest{Name: "x", Type: "symlink", Data: "aGk="}, errs.ErrMissingType},
		{"file without data", model.CreateNodeRequest{Name: "x", Type: "file"}, errs.ErrMissingData},
		{"image without data", model.CreateNodeRequest{Name: "x", Type: "image"}, errs.ErrMissingData},
		{"name checked before type", model.CreateNodeRequest{Type: "bogus"}, errs.ErrMissingName},
		{"type checked before data", model.CreateNodeRequest{Name: "x", Type: "bogus"}, errs.ErrMissingType},
		{"data checked before parent", model.CreateNodeRequest{Name: "x", Type: "file", ParentID: "nonsense"}, errs.ErrMissingData},
	}
	for _, tc := range cases {
		if _, err := s.Create(context.Background(), owner, tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
	if len(nodes.nodes) != 0 || len(blobs.writes) != 0 {
		t.Fatalf("failed validation mutated a store: %d nodes, %d blobs", len(nodes.nodes), len(blobs.writes))
	}
}

func TestFiles_Create_ParentRules(t *testing.T) {
	t.Parallel()

	s, _, _ := newFileService()
	owner := objectid.New()

	// malformed and absent parent references read the same
	if _, err := s.Create(context.Background(), owner, model.CreateNodeRequest{Name: "x", Type: "folder", ParentID: "zz"}); !errors.Is(err, errs.ErrParentNotFound) {
		t.Fatalf("malformed parent: got %v, want ErrParentNotFound", err)
	}
	if _, err := s.Create(context.Background(), owner, model.CreateNodeRequest{Name: "x", Type: "folder", ParentID: "000000000000000000000000"}); !errors.Is(err, errs.ErrParentNotFound) {
		t.Fatalf("absent parent: got %v, want ErrParentNotFound", err)
	}

	folder, err := s.Create(context.Background(), owner, model.CreateNodeRequest{Name: "docs", Type: "folder"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	file, err := s.Create(context.Background(), owner, model.CreateNodeRequest{Name: "notes.txt", Type: "file", ParentID: folder.ID, Data: "aGk="})
	if err != nil {
		t.Fatalf("create file under folder: %v", err)
	}

	// a non-folder node cannot be a parent
	if _, err := s.Create(context.Background(), owner, model.CreateNodeRequest{Name: "y", Type: "folder", ParentID: file.ID}); !errors.Is(err, errs.ErrParentNotFolder) {
		t.Fatalf("file as parent: got %v, want ErrParentNotFolder", err)
	}
}

func TestFiles_Create_ParentNotOwnerScoped(t *testing.T) {
	t.Parallel()

	// Pins current behavior: a child may attach under another user's folder.
	// Tightening this check must be a deliberate, visible change.
	s, _, _ := newFileService()
	alice := objectid.New()
	bob := objectid.New()

	folder, err := s.Create(context.Background(), alice, model.CreateNodeRequest{Name: "docs", Type: "folder"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	child, err := s.Create(context.Background(), bob, model.CreateNodeRequest{Name: "intruder", Type: "folder", ParentID: folder.ID})
	if err != nil {
		t.Fatalf("cross-owner attach: %v", err)
	}
	if string(child.ParentID) != folder.ID {
		t.Fatalf("child parent = %q, want %q", child.ParentID, folder.ID)
	}
}

func TestFiles_Create_FileWritesBlobThenMetadata(t *testing.T) {
	t.Parallel()

	s, nodes, blobs := newFileService()
	owner := objectid.New()
	payload := base64.StdEncoding.EncodeToString([]byte("hi"))

	view, err := s.Create(context.Background(), owner, model.CreateNodeRequest{Name: "notes.txt", Type: "file", Data: payload})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(blobs.writes) != 1 || string(blobs.writes[0]) != "hi" {
		t.Fatalf("blob write mismatch: %q", blobs.writes)
	}
	if len(nodes.nodes) != 1 || nodes.nodes[0].LocalPath == "" {
		t.Fatalf("metadata missing local path")
	}
	if view.Type != "file" || view.ParentID != "" {
		t.Fatalf("bad view: %+v", view)
	}

	// folders never touch the blob store
	if _, err := s.Create(context.Background(), owner, model.CreateNodeRequest{Name: "docs", Type: "folder"}); err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if len(blobs.writes) != 1 {
		t.Fatalf("folder create wrote a blob")
	}
	if nodes.nodes[1].LocalPath != "" {
		t.Fatalf("folder has a local path")
	}
}

func TestFiles_Create_BlobFailureInsertsNothing(t *testing.T) {
	t.Parallel()

	s, nodes, blobs := newFileService()
	blobs.writeErr = errors.New("disk full")

	_, err := s.Create(context.Background(), objectid.New(), model.CreateNodeRequest{Name: "x", Type: "file", Data: "aGk="})
	if err == nil || errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want opaque server error, got %v", err)
	}
	if len(nodes.nodes) != 0 {
		t.Fatalf("metadata persisted despite blob failure")
	}
}

func TestFiles_Get_RoundTripAndIsolation(t *testing.T) {
	t.Parallel()

	s, _, _ := newFileService()
	alice := objectid.New()
	bob := objectid.New()

	created, err := s.Create(context.Background(), alice, model.CreateNodeRequest{Name: "pic.png", Type: "image", IsPublic: true, Data: "aGk="})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.Get(context.Background(), alice, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, created) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, created)
	}

	// another owner sees nothing, even though the node exists
	if _, err := s.Get(context.Background(), bob, created.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("cross-owner get: got %v, want ErrNotFound", err)
	}
	// malformed id is also a plain not-found
	if _, err := s.Get(context.Background(), alice, "not-hex"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("malformed id: got %v, want ErrNotFound", err)
	}
}

func TestFiles_List_PaginationAndOrder(t *testing.T) {
	t.Parallel()

	nodes := &fakeNodes{}
	s := NewFileService(nodes, &fakeBlob{}, 3)
	owner := objectid.New()

	folder, err := s.Create(context.Background(), owner, model.CreateNodeRequest{Name: "docs", Type: "folder"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	for i := 0; i < 5; i++ {
		req := model.CreateNodeRequest{Name: fmt.Sprintf("f%d", i), Type: "file", ParentID: folder.ID, Data: "aGk="}
		if _, err := s.Create(context.Background(), owner, req); err != nil {
			t.Fatalf("create f%d: %v", i, err)
		}
	}

	page0, err := s.List(context.Background(), owner, folder.ID, 0)
	if err != nil {
		t.Fatalf("List page 0: %v", err)
	}
	if len(page0) != 3 || page0[0].Name != "f0" || page0[2].Name != "f2" {
		t.Fatalf("bad page 0: %+v", page0)
	}
	page1, err := s.List(context.Background(), owner, folder.ID, 1)
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	if len(page1) != 2 || page1[0].Name != "f3" {
		t.Fatalf("bad page 1: %+v", page1)
	}
	if got, _ := s.List(context.Background(), owner, folder.ID, 7); len(got) != 0 {
		t.Fatalf("page past the end not empty: %+v", got)
	}

	// repeated listing with no writes is stable
	again, err := s.List(context.Background(), owner, folder.ID, 0)
	if err != nil {
		t.Fatalf("List again: %v", err)
	}
	if !reflect.DeepEqual(page0, again) {
		t.Fatalf("listing not stable:\n got %+v\nwant %+v", again, page0)
	}
}

func TestFiles_List_RootAndMalformedParent(t *testing.T) {
	t.Parallel()

	s, _, _ := newFileService()
	owner := objectid.New()

	if _, err := s.Create(context.Background(), owner, model.CreateNodeRequest{Name: "top", Type: "folder"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, ref := range []string{"", "0"} {
		got, err := s.List(context.Background(), owner, ref, 0)
		if err != nil {
			t.Fatalf("List(%q): %v", ref, err)
		}
		if len(got) != 1 || got[0].Name != "top" {
			t.Fatalf("List(%q): %+v", ref, got)
		}
		if got[0].ParentID != "" {
			t.Fatalf("root node parent = %q, want root sentinel", got[0].ParentID)
		}
	}

	// a malformed parent reference is an empty page, not an error
	got, err := s.List(context.Background(), owner, "definitely-not-an-id", 0)
	if err != nil {
		t.Fatalf("List(malformed): %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("List(malformed): want empty page, got %+v", got)
	}
}

func TestFiles_ListedViewsMatchOwnerAndParent(t *testing.T) {
	t.Parallel()

	s, _, _ := newFileService()
	alice := objectid.New()
	bob := objectid.New()

	folder, err := s.Create(context.Background(), alice, model.CreateNodeRequest{Name: "docs", Type: "folder"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	note, err := s.Create(context.Background(), alice, model.CreateNodeRequest{Name: "notes.txt", Type: "file", ParentID: folder.ID, Data: base64.StdEncoding.EncodeToString([]byte("hi"))})
	if err != nil {
		t.Fatalf("create file: %v", err)
	}

	listed, err := s.List(context.Background(), alice, folder.ID, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != note.ID {
		t.Fatalf("want exactly the created file, got %+v", listed)
	}

	// bob shares the parent id but owns nothing under it
	empty, err := s.List(context.Background(), bob, folder.ID, 0)
	if err != nil {
		t.Fatalf("List(bob): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("foreign listing not empty: %+v", empty)
	}
}
