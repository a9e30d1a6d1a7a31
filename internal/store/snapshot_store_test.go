package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/citlabs/labsched-backend/internal/schedule"
)

// memKV is an in-process KV for tests. It counts writes so tests can
// assert which operations touch storage.
type memKV struct {
	data   map[string]string
	writes int
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.writes++
	m.data[key] = value
	return nil
}

func testStore(t *testing.T) (*SnapshotStore, *memKV) {
	t.Helper()
	kv := newMemKV()
	s := Load(context.Background(), kv, zerolog.Nop())
	return s, kv
}

func snap(dept, phase, reg string) Snapshot {
	return Snapshot{
		DepartmentID:   dept,
		DepartmentName: "Dept " + dept,
		RegulationID:   reg,
		Phase:          phase,
		Rows: []schedule.Row{
			{Date: "2026-04-13", Session: 1, LabName: "Lab A", SubjectCode: "CS3451", StudentsAllocated: 30},
		},
		TotalStudents:  30,
		SessionsPerDay: 2,
	}
}

func TestLoadStartsEmptyOnMissingKey(t *testing.T) {
	s, _ := testStore(t)
	if got := s.List("", ""); len(got) != 0 {
		t.Errorf("expected empty collection, got %d entries", len(got))
	}
}

func TestLoadSurvivesCorruptPayload(t *testing.T) {
	kv := newMemKV()
	kv.data[SnapshotsKey] = "{not json"

	s := Load(context.Background(), kv, zerolog.Nop())
	if got := s.List("", ""); len(got) != 0 {
		t.Errorf("corrupt payload should start empty, got %d entries", len(got))
	}

	// The store must still accept writes afterwards.
	if err := s.Upsert(context.Background(), snap("cse", "Phase 1", "r2022")); err != nil {
		t.Fatalf("upsert after corrupt load: %v", err)
	}
}

func TestUpsertRoundTripsThroughKV(t *testing.T) {
	ctx := context.Background()
	s, kv := testStore(t)

	if err := s.Upsert(ctx, snap("cse", "Phase 1", "r2022")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// A fresh store over the same KV sees the entry.
	reloaded := Load(ctx, kv, zerolog.Nop())
	got, ok := reloaded.Get("cse", "Phase 1", "r2022")
	if !ok {
		t.Fatal("entry missing after reload")
	}
	if got.DepartmentName != "Dept cse" {
		t.Errorf("DepartmentName = %q", got.DepartmentName)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped on insert")
	}
}

func TestUpsertPreservesCreatedAtAndPosition(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)

	base := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	for _, dept := range []string{"cse", "it", "ece"} {
		if err := s.Upsert(ctx, snap(dept, "Phase 1", "r2022")); err != nil {
			t.Fatalf("upsert %s: %v", dept, err)
		}
	}

	s.now = func() time.Time { return base.Add(48 * time.Hour) }
	updated := snap("it", "Phase 1", "r2022")
	updated.TotalStudents = 99
	if err := s.Upsert(ctx, updated); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	list := s.List("Phase 1", "r2022")
	if len(list) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(list))
	}
	if list[1].DepartmentID != "it" {
		t.Errorf("re-saved entry moved: position 1 holds %s", list[1].DepartmentID)
	}
	if list[1].TotalStudents != 99 {
		t.Errorf("payload not replaced: TotalStudents = %d", list[1].TotalStudents)
	}
	if !list[1].CreatedAt.Equal(base) {
		t.Errorf("CreatedAt changed on re-save: %v", list[1].CreatedAt)
	}
}

func TestRemoveMissingEntryDoesNotTouchKV(t *testing.T) {
	ctx := context.Background()
	s, kv := testStore(t)

	if err := s.Upsert(ctx, snap("cse", "Phase 1", "r2022")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	writesBefore := kv.writes

	if err := s.Remove(ctx, "no-such-dept", "Phase 1", "r2022"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if kv.writes != writesBefore {
		t.Error("removing a missing entry must not write to the KV")
	}

	if err := s.Remove(ctx, "cse", "Phase 1", "r2022"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := s.Get("cse", "Phase 1", "r2022"); ok {
		t.Error("entry still present after remove")
	}
	if kv.writes != writesBefore+1 {
		t.Errorf("expected exactly one flush for the real removal, got %d", kv.writes-writesBefore)
	}
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)

	entries := []Snapshot{
		snap("cse", "Phase 1", "r2022"),
		snap("it", "Phase 2", "r2022"),
		snap("ece", "Phase 1", "r2024"),
	}
	for _, e := range entries {
		if err := s.Upsert(ctx, e); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	if got := s.List("", ""); len(got) != 3 {
		t.Errorf("unfiltered list = %d entries, want 3", len(got))
	}
	if got := s.List("Phase 1", ""); len(got) != 2 {
		t.Errorf("phase filter = %d entries, want 2", len(got))
	}
	got := s.List("Phase 1", "r2022")
	if len(got) != 1 || got[0].DepartmentID != "cse" {
		t.Errorf("full filter = %+v", got)
	}
}

func TestReorderKeepsEntriesOutsideViewInPlace(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)

	// Interleave two phases so filtered indices are non-contiguous.
	order := []struct{ dept, phase string }{
		{"cse", "Phase 1"},
		{"it", "Phase 2"},
		{"ece", "Phase 1"},
		{"eee", "Phase 2"},
		{"mech", "Phase 1"},
	}
	for _, o := range order {
		if err := s.Upsert(ctx, snap(o.dept, o.phase, "r2022")); err != nil {
			t.Fatalf("upsert %s: %v", o.dept, err)
		}
	}

	// Move the last Phase 1 entry to the front of the Phase 1 view.
	if err := s.Reorder(ctx, "Phase 1", "r2022", 2, 0); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	var deptOrder []string
	for _, e := range s.List("", "") {
		deptOrder = append(deptOrder, e.DepartmentID)
	}
	want := []string{"mech", "it", "cse", "eee", "ece"}
	for i := range want {
		if deptOrder[i] != want[i] {
			t.Fatalf("order after reorder = %v, want %v", deptOrder, want)
		}
	}
}

func TestReorderRejectsOutOfRange(t *testing.T) {
	ctx := context.Background()
	s, kv := testStore(t)

	if err := s.Upsert(ctx, snap("cse", "Phase 1", "r2022")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	writesBefore := kv.writes

	err := s.Reorder(ctx, "Phase 1", "r2022", 0, 5)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if kv.writes != writesBefore {
		t.Error("failed reorder must not write to the KV")
	}
}

func TestReorderSamePositionIsNoOp(t *testing.T) {
	ctx := context.Background()
	s, kv := testStore(t)

	if err := s.Upsert(ctx, snap("cse", "Phase 1", "r2022")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	writesBefore := kv.writes

	if err := s.Reorder(ctx, "Phase 1", "r2022", 0, 0); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if kv.writes != writesBefore {
		t.Error("same-position reorder must not write to the KV")
	}
}

func TestSnapshotAssignmentsSurviveReload(t *testing.T) {
	ctx := context.Background()
	s, kv := testStore(t)

	entry := snap("cse", "Phase 1", "r2022")
	entry.AssignedFaculty = schedule.AssignmentMap{
		{SubjectCode: "CS3451", Date: "2026-04-13", LabKey: "lab-a"}: "f-1",
	}
	entry.FacultyDirectory = map[string]string{"f-1": "Dr. Ramesh Kumar"}
	if err := s.Upsert(ctx, entry); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	reloaded := Load(ctx, kv, zerolog.Nop())
	got, ok := reloaded.Get("cse", "Phase 1", "r2022")
	if !ok {
		t.Fatal("entry missing after reload")
	}
	key := schedule.Key{SubjectCode: "CS3451", Date: "2026-04-13", LabKey: "lab-a"}
	if got.AssignedFaculty[key] != "f-1" {
		t.Errorf("assignment lost in round trip: %v", got.AssignedFaculty)
	}
	if got.FacultyDirectory["f-1"] != "Dr. Ramesh Kumar" {
		t.Errorf("directory lost in round trip: %v", got.FacultyDirectory)
	}
}
