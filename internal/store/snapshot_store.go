// Package store keeps finalized allocation snapshots: one named bundle
// per (department, phase, regulation), persisted as a single serialized
// collection under a well-known durable key.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/citlabs/labsched-backend/internal/schedule"
)

// SnapshotsKey is the durable key holding the serialized collection.
const SnapshotsKey = "saved_allocations:v1"

// ErrOutOfRange rejects a reorder whose indices fall outside the
// filtered view.
var ErrOutOfRange = errors.New("reorder index out of range")

// Snapshot is a saved scheduling run for one department under a
// phase/regulation pass.
type Snapshot struct {
	DepartmentID     string                 `json:"department_id"`
	DepartmentName   string                 `json:"department_name"`
	RegulationID     string                 `json:"regulation_id"`
	Phase            string                 `json:"phase"`
	Rows             []schedule.Row         `json:"rows"`
	AssignedFaculty  schedule.AssignmentMap `json:"assigned_faculty"`
	FacultyDirectory map[string]string      `json:"faculty_directory"`
	TotalStudents    int                    `json:"total_students"`
	SessionsPerDay   int                    `json:"sessions_per_day"`
	CreatedAt        time.Time              `json:"created_at"`
}

func (s Snapshot) sameKey(deptID, phase, regID string) bool {
	return s.DepartmentID == deptID && s.Phase == phase && s.RegulationID == regID
}

// SnapshotStore owns the in-memory collection and flushes it back to the
// KV on every mutation. Construct it with Load before serving traffic.
type SnapshotStore struct {
	mu   sync.Mutex
	kv   KV
	log  zerolog.Logger
	snap []Snapshot
	now  func() time.Time
}

// Load builds a SnapshotStore from whatever the KV currently holds.
// A missing or unparseable payload starts an empty collection; startup
// never fails on bad snapshot data.
func Load(ctx context.Context, kv KV, log zerolog.Logger) *SnapshotStore {
	s := &SnapshotStore{
		kv:  kv,
		log: log.With().Str("component", "snapshot_store").Logger(),
		now: time.Now,
	}

	raw, err := kv.Get(ctx, SnapshotsKey)
	if err != nil {
		if err != ErrKeyNotFound {
			s.log.Warn().Err(err).Msg("Reading saved allocations failed, starting empty")
		}
		return s
	}
	if err := json.Unmarshal([]byte(raw), &s.snap); err != nil {
		s.log.Warn().Err(err).Msg("Saved allocations payload unparseable, starting empty")
		s.snap = nil
	}
	return s
}

func (s *SnapshotStore) flush(ctx context.Context) error {
	data, err := json.Marshal(s.snap)
	if err != nil {
		return fmt.Errorf("marshal snapshots: %w", err)
	}
	if err := s.kv.Set(ctx, SnapshotsKey, string(data)); err != nil {
		return fmt.Errorf("persist snapshots: %w", err)
	}
	return nil
}

// Upsert saves snap under its (department, phase, regulation) key. An
// existing entry keeps its position and its original CreatedAt; only the
// payload is replaced. A new entry is appended with a fresh CreatedAt.
func (s *SnapshotStore) Upsert(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snap {
		if s.snap[i].sameKey(snap.DepartmentID, snap.Phase, snap.RegulationID) {
			snap.CreatedAt = s.snap[i].CreatedAt
			s.snap[i] = snap
			return s.flush(ctx)
		}
	}

	snap.CreatedAt = s.now()
	s.snap = append(s.snap, snap)
	return s.flush(ctx)
}

// Remove deletes the entry matching the key. Removing a missing entry is
// a no-op (and does not touch the KV).
func (s *SnapshotStore) Remove(ctx context.Context, deptID, phase, regID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snap {
		if s.snap[i].sameKey(deptID, phase, regID) {
			s.snap = append(s.snap[:i], s.snap[i+1:]...)
			return s.flush(ctx)
		}
	}
	return nil
}

// Get returns the snapshot for the key, if present.
func (s *SnapshotStore) Get(deptID, phase, regID string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snap {
		if s.snap[i].sameKey(deptID, phase, regID) {
			return s.snap[i], true
		}
	}
	return Snapshot{}, false
}

// List returns the snapshots matching the phase/regulation filter in
// stored order. An empty filter component matches everything.
func (s *SnapshotStore) List(phase, regID string) []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Snapshot
	for _, snap := range s.snap {
		if (phase == "" || snap.Phase == phase) && (regID == "" || snap.RegulationID == regID) {
			out = append(out, snap)
		}
	}
	return out
}

// Reorder moves the entry at position from to position to, both indices
// relative to the filtered (phase, regulation) view. Entries outside the
// view keep their absolute positions.
func (s *SnapshotStore) Reorder(ctx context.Context, phase, regID string, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var indices []int
	for i, snap := range s.snap {
		if (phase == "" || snap.Phase == phase) && (regID == "" || snap.RegulationID == regID) {
			indices = append(indices, i)
		}
	}
	if from < 0 || from >= len(indices) || to < 0 || to >= len(indices) {
		return fmt.Errorf("%w: %d -> %d of %d", ErrOutOfRange, from, to, len(indices))
	}
	if from == to {
		return nil
	}

	subset := make([]Snapshot, len(indices))
	for i, idx := range indices {
		subset[i] = s.snap[idx]
	}
	moved := subset[from]
	subset = append(subset[:from], subset[from+1:]...)
	subset = append(subset[:to], append([]Snapshot{moved}, subset[to:]...)...)
	for i, idx := range indices {
		s.snap[idx] = subset[i]
	}
	return s.flush(ctx)
}
