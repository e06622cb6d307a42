package service

import (
	"context"

	"github.com/mkotelnikov/filevault/internal/blob"
	"github.com/mkotelnikov/filevault/internal/repository"
)

// Pinger reports the liveness of an external store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusReport carries store liveness flags.
type StatusReport struct {
	DB      bool `json:"db"`
	Storage bool `json:"storage"`
}

// StatsReport carries aggregate counts.
type StatsReport struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// AppService exposes service-level health and statistics.
type AppService interface {
	// Status probes the metadata and blob stores.
	Status(ctx context.Context) StatusReport
	// Stats counts registered users and nodes.
	Stats(ctx context.Context) (StatsReport, error)
}

type AppServiceImpl struct {
	db    Pinger
	blobs blob.Store
	users repository.UserRepository
	nodes repository.NodeRepository
}

// NewAppService constructs AppService.
func NewAppService(db Pinger, blobs blob.Store, users repository.UserRepository, nodes repository.NodeRepository) *AppServiceImpl {
	return &AppServiceImpl{db: db, blobs: blobs, users: users, nodes: nodes}
}

// Status reports per-store liveness; it never fails as a whole.
func (s *AppServiceImpl) Status(ctx context.Context) StatusReport {
	return StatusReport{
		DB:      s.db.Ping(ctx) == nil,
		Storage: s.blobs.Ping(ctx) == nil,
	}
}

// Stats returns aggregate user and node counts.
func (s *AppServiceImpl) Stats(ctx context.Context) (StatsReport, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return StatsReport{}, err
	}
	files, err := s.nodes.Count(ctx)
	if err != nil {
		return StatsReport{}, err
	}
	return StatsReport{Users: users, Files: files}, nil
}
