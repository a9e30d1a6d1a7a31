package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/citlabs/labsched-backend/internal/model"
)

// MinExperienceYears is the advisory threshold below which assigning a
// faculty member raises a warning (without blocking the assignment).
const MinExperienceYears = 2

// ErrDuplicateSameDay is returned when the candidate faculty is already
// assigned to another slot on the same calendar day.
var ErrDuplicateSameDay = errors.New("faculty already assigned on this date for another slot")

// Key identifies one assignable slot: a subject sitting in a lab on a
// date. Its String form, subjectCode|date|labKey, is the wire and
// storage representation and must stay stable for external tooling.
type Key struct {
	SubjectCode string
	Date        string
	LabKey      string
}

// String flattens the key with the fixed pipe-delimited join order.
func (k Key) String() string {
	return k.SubjectCode + "|" + k.Date + "|" + k.LabKey
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	parts := strings.SplitN(s, "|", 3)
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("malformed assignment key %q", s)
	}
	return Key{SubjectCode: parts[0], Date: parts[1], LabKey: parts[2]}, nil
}

// RowKey builds the assignment key for a generated row.
func RowKey(r Row) Key {
	return Key{SubjectCode: r.SubjectCode, Date: r.Date, LabKey: r.LabKey()}
}

// AssignmentMap holds at most one faculty id per slot key. It marshals
// as a flat JSON object keyed by Key.String so that stored and exported
// payloads keep the subjectCode|date|labKey convention.
type AssignmentMap map[Key]string

// MarshalJSON implements json.Marshaler.
func (m AssignmentMap) MarshalJSON() ([]byte, error) {
	flat := make(map[string]string, len(m))
	for k, v := range m {
		flat[k.String()] = v
	}
	return json.Marshal(flat)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *AssignmentMap) UnmarshalJSON(data []byte) error {
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	out := make(AssignmentMap, len(flat))
	for raw, v := range flat {
		k, err := ParseKey(raw)
		if err != nil {
			return err
		}
		out[k] = v
	}
	*m = out
	return nil
}

// Clone returns an independent copy of the map.
func (m AssignmentMap) Clone() AssignmentMap {
	out := make(AssignmentMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// TakenOn returns the faculty ids already assigned to any slot on the
// given date, excluding the slot being written. Sorted for stable output.
func (m AssignmentMap) TakenOn(date string, exclude Key) []string {
	seen := make(map[string]bool)
	for k, v := range m {
		if k.Date == date && k != exclude {
			seen[v] = true
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// AssignResult reports the outcome of an accepted (or no-op) assignment.
type AssignResult struct {
	// Assigned is false when the call was a no-op (empty faculty id).
	Assigned bool `json:"assigned"`
	// LowExperience marks an accepted assignment of a faculty member
	// below MinExperienceYears. Advisory only.
	LowExperience bool `json:"low_experience"`
	// Faculty echoes the roster entry when it was found.
	Faculty *model.Faculty `json:"faculty,omitempty"`
}

// Assign writes facultyID into the slot identified by key, enforcing the
// assignment rules in order:
//
//  1. an empty facultyID is a no-op, not an error;
//  2. a roster match with fewer than MinExperienceYears years is
//     accepted but flagged on the result;
//  3. a faculty id already booked on the same date for a different slot
//     is rejected with ErrDuplicateSameDay and the map is left unchanged.
//
// Callers must validate against the latest map state; a verdict computed
// against a stale map is meaningless.
func (m AssignmentMap) Assign(key Key, facultyID string, roster []model.Faculty) (AssignResult, error) {
	if facultyID == "" {
		return AssignResult{}, nil
	}

	res := AssignResult{Assigned: true}
	for i := range roster {
		if roster[i].ID == facultyID {
			res.Faculty = &roster[i]
			if roster[i].YearsOfExperience < MinExperienceYears {
				res.LowExperience = true
			}
			break
		}
	}

	for _, taken := range m.TakenOn(key.Date, key) {
		if taken == facultyID {
			return AssignResult{}, ErrDuplicateSameDay
		}
	}

	m[key] = facultyID
	return res, nil
}
