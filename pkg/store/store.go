// Package store persists the scheduling-side inputs the earned-value
// engine reads: projects, published schedule snapshots with their
// planned tasks, and approved actual-progress records. The engine only
// ever reads; writes exist for seeding and for the upstream services
// that own the data.
package store

import (
	"context"
	"errors"

	"github.com/obralink/avance/pkg/schedule"
)

// ErrProjectNotFound is the one hard failure of the read path: an
// unknown project is a caller error, not a valid empty result.
var ErrProjectNotFound = errors.New("project not found")

// Reader is the contract the reporting surface consumes.
type Reader interface {
	GetProject(ctx context.Context, id string) (*schedule.Project, error)
	ListSnapshots(ctx context.Context, projectID string) ([]schedule.Snapshot, error)
	ListActualProgress(ctx context.Context, projectID string) ([]schedule.ActualProgress, error)
}

// Writer seeds and maintains the stored inputs.
type Writer interface {
	PutProject(ctx context.Context, p schedule.Project) error
	PutSnapshot(ctx context.Context, s schedule.Snapshot) error
	PutActualProgress(ctx context.Context, projectID string, r schedule.ActualProgress) error
}

// Store combines both sides.
type Store interface {
	Reader
	Writer
}
