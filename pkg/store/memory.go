package store

import (
	"context"
	"sync"

	"github.com/obralink/avance/pkg/schedule"
)

// Memory is a mutex-guarded in-memory Store used by tests and by
// one-shot reports over fixture files.
type Memory struct {
	mu        sync.RWMutex
	projects  map[string]schedule.Project
	snapshots map[string][]schedule.Snapshot
	actuals   map[string][]schedule.ActualProgress
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		projects:  make(map[string]schedule.Project),
		snapshots: make(map[string][]schedule.Snapshot),
		actuals:   make(map[string][]schedule.ActualProgress),
	}
}

func (m *Memory) GetProject(_ context.Context, id string) (*schedule.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return &p, nil
}

func (m *Memory) ListSnapshots(_ context.Context, projectID string) ([]schedule.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]schedule.Snapshot, len(m.snapshots[projectID]))
	copy(out, m.snapshots[projectID])
	return out, nil
}

func (m *Memory) ListActualProgress(_ context.Context, projectID string) ([]schedule.ActualProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]schedule.ActualProgress, len(m.actuals[projectID]))
	copy(out, m.actuals[projectID])
	return out, nil
}

func (m *Memory) PutProject(_ context.Context, p schedule.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = p
	return nil
}

func (m *Memory) PutSnapshot(_ context.Context, s schedule.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[s.ProjectID] = append(m.snapshots[s.ProjectID], s)
	return nil
}

func (m *Memory) PutActualProgress(_ context.Context, projectID string, r schedule.ActualProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actuals[projectID] = append(m.actuals[projectID], r)
	return nil
}
