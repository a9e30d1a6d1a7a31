package schedule

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/citlabs/labsched-backend/internal/model"
)

func testRoster() []model.Faculty {
	return []model.Faculty{
		{ID: "f-1", Name: "Dr. Ramesh Kumar", YearsOfExperience: 12},
		{ID: "f-2", Name: "Prof. Kavitha M", YearsOfExperience: 3},
		{ID: "f-3", Name: "Prof. Balaji S", YearsOfExperience: 1},
	}
}

func slotKey(code, date, lab string) Key {
	return Key{SubjectCode: code, Date: date, LabKey: lab}
}

func TestAssignEmptyFacultyIsNoOp(t *testing.T) {
	m := AssignmentMap{}
	res, err := m.Assign(slotKey("CS3451", "2026-04-13", "lab-a"), "", testRoster())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Assigned {
		t.Error("empty faculty id should not count as assigned")
	}
	if len(m) != 0 {
		t.Errorf("map should stay empty, has %d entries", len(m))
	}
}

func TestAssignWritesSlot(t *testing.T) {
	m := AssignmentMap{}
	key := slotKey("CS3451", "2026-04-13", "lab-a")

	res, err := m.Assign(key, "f-1", testRoster())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Assigned {
		t.Error("expected assigned result")
	}
	if res.LowExperience {
		t.Error("12 years should not trip the experience warning")
	}
	if res.Faculty == nil || res.Faculty.Name != "Dr. Ramesh Kumar" {
		t.Errorf("roster echo wrong: %+v", res.Faculty)
	}
	if m[key] != "f-1" {
		t.Errorf("slot holds %q, want f-1", m[key])
	}
}

func TestAssignLowExperienceAcceptedWithWarning(t *testing.T) {
	m := AssignmentMap{}
	key := slotKey("CS3451", "2026-04-13", "lab-a")

	res, err := m.Assign(key, "f-3", testRoster())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Assigned {
		t.Error("low experience must not block the assignment")
	}
	if !res.LowExperience {
		t.Error("1 year of experience should raise the warning")
	}
	if m[key] != "f-3" {
		t.Errorf("slot holds %q, want f-3", m[key])
	}
}

func TestAssignRejectsSameDayDuplicate(t *testing.T) {
	first := slotKey("CS3451", "2026-04-13", "lab-a")
	second := slotKey("CS3481", "2026-04-13", "lab-b")

	m := AssignmentMap{first: "f-1"}
	before := m.Clone()

	_, err := m.Assign(second, "f-1", testRoster())
	if !errors.Is(err, ErrDuplicateSameDay) {
		t.Fatalf("expected ErrDuplicateSameDay, got %v", err)
	}
	if !reflect.DeepEqual(m, before) {
		t.Error("rejected assignment must leave the map unchanged")
	}
}

func TestAssignSameSlotReplacementAllowed(t *testing.T) {
	key := slotKey("CS3451", "2026-04-13", "lab-a")
	m := AssignmentMap{key: "f-1"}

	// Re-assigning the very slot the faculty already holds is not a
	// same-day conflict.
	res, err := m.Assign(key, "f-1", testRoster())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Assigned {
		t.Error("expected assigned result")
	}
}

func TestAssignSameFacultyDifferentDays(t *testing.T) {
	m := AssignmentMap{slotKey("CS3451", "2026-04-13", "lab-a"): "f-1"}
	if _, err := m.Assign(slotKey("CS3451", "2026-04-14", "lab-a"), "f-1", testRoster()); err != nil {
		t.Fatalf("different days must not conflict: %v", err)
	}
}

func TestAssignUnknownFacultyStillWrites(t *testing.T) {
	m := AssignmentMap{}
	key := slotKey("CS3451", "2026-04-13", "lab-a")

	res, err := m.Assign(key, "off-roster", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Assigned || res.Faculty != nil {
		t.Errorf("unexpected result for off-roster id: %+v", res)
	}
	if m[key] != "off-roster" {
		t.Errorf("slot holds %q, want off-roster", m[key])
	}
}

func TestKeyStringRoundTrip(t *testing.T) {
	key := slotKey("CS3451", "2026-04-13", "lab-a")
	if key.String() != "CS3451|2026-04-13|lab-a" {
		t.Errorf("String = %q", key.String())
	}

	parsed, err := ParseKey(key.String())
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if parsed != key {
		t.Errorf("round trip changed the key: %+v", parsed)
	}

	if _, err := ParseKey("missing-separators"); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestAssignmentMapJSONKeepsFlatKeys(t *testing.T) {
	m := AssignmentMap{
		slotKey("CS3451", "2026-04-13", "lab-a"): "f-1",
		slotKey("CS3481", "2026-04-14", "lab-b"): "f-2",
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("unmarshal into flat map: %v", err)
	}
	if flat["CS3451|2026-04-13|lab-a"] != "f-1" {
		t.Errorf("flat form missing composite key: %v", flat)
	}

	var back AssignmentMap
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, m) {
		t.Errorf("round trip changed the map: %v", back)
	}
}

func TestTakenOnSortsAndExcludes(t *testing.T) {
	m := AssignmentMap{
		slotKey("CS3451", "2026-04-13", "lab-a"): "f-2",
		slotKey("CS3481", "2026-04-13", "lab-b"): "f-1",
		slotKey("CS3591", "2026-04-14", "lab-a"): "f-3",
	}

	got := m.TakenOn("2026-04-13", slotKey("CS3451", "2026-04-13", "lab-a"))
	want := []string{"f-1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TakenOn = %v, want %v", got, want)
	}
}

func TestRowKeyUsesLabFallback(t *testing.T) {
	r := Row{Date: "2026-04-13", SubjectCode: "CS3451", LabName: "Programming Lab 1"}
	key := RowKey(r)
	if key.LabKey != "Programming Lab 1" {
		t.Errorf("LabKey = %q, want the lab name fallback", key.LabKey)
	}
}
