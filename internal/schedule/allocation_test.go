package schedule

import (
	"reflect"
	"testing"
	"time"

	"github.com/citlabs/labsched-backend/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func testLabs() []model.Lab {
	return []model.Lab{
		{ID: "lab-a", Name: "Programming Lab 1", Capacity: 30},
		{ID: "lab-b", Name: "Programming Lab 2", Capacity: 30},
		{ID: "lab-c", Name: "Data Structures Lab", Capacity: 24},
	}
}

func TestGenerateSingleSubjectFillsLabsInOrder(t *testing.T) {
	rows := Generate(Input{
		StartDate:      day("2026-04-13"),
		EndDate:        day("2026-04-14"),
		SessionsPerDay: 2,
		TotalStudents:  70,
		Labs:           testLabs(),
		Subjects:       []Subject{{Name: "Operating Systems Lab", Code: "CS3451"}},
	})

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	wantAlloc := []int{30, 30, 10}
	for i, r := range rows {
		if r.Date != "2026-04-13" {
			t.Errorf("row %d: date = %s, want 2026-04-13", i, r.Date)
		}
		if r.Session != 1 {
			t.Errorf("row %d: session = %d, want 1", i, r.Session)
		}
		if r.StudentsAllocated != wantAlloc[i] {
			t.Errorf("row %d: allocated = %d, want %d", i, r.StudentsAllocated, wantAlloc[i])
		}
	}
	if rows[2].LabName != "Data Structures Lab" {
		t.Errorf("third fill should hit the third lab, got %s", rows[2].LabName)
	}
}

func TestGenerateEverySubjectGetsFullHeadcount(t *testing.T) {
	subjects := []Subject{
		{Name: "Operating Systems Lab", Code: "CS3451"},
		{Name: "Database Management Systems Lab", Code: "CS3481"},
		{Name: "Networks Lab", Code: "CS3591"},
	}
	total := 84

	rows := Generate(Input{
		StartDate:      day("2026-04-13"),
		EndDate:        day("2026-04-17"),
		SessionsPerDay: 2,
		TotalStudents:  total,
		Labs:           testLabs(),
		Subjects:       subjects,
	})

	allocated := make(map[string]int)
	for _, r := range rows {
		allocated[r.SubjectCode] += r.StudentsAllocated
	}
	for _, sub := range subjects {
		if allocated[sub.Code] != total {
			t.Errorf("subject %s allocated %d, want %d", sub.Code, allocated[sub.Code], total)
		}
	}
}

func TestGenerateRowOrderIsDaySessionLab(t *testing.T) {
	rows := Generate(Input{
		StartDate:      day("2026-04-13"),
		EndDate:        day("2026-04-14"),
		SessionsPerDay: 2,
		TotalStudents:  300,
		Labs:           []model.Lab{{ID: "a", Name: "Lab A", Capacity: 20}, {ID: "b", Name: "Lab B", Capacity: 20}},
		Subjects:       []Subject{{Name: "Networks Lab", Code: "CS3591"}},
	})

	type slot struct {
		date    string
		session int
		lab     string
	}
	want := []slot{
		{"2026-04-13", 1, "a"}, {"2026-04-13", 1, "b"},
		{"2026-04-13", 2, "a"}, {"2026-04-13", 2, "b"},
		{"2026-04-14", 1, "a"}, {"2026-04-14", 1, "b"},
		{"2026-04-14", 2, "a"}, {"2026-04-14", 2, "b"},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, w := range want {
		got := slot{rows[i].Date, rows[i].Session, rows[i].LabID}
		if got != w {
			t.Errorf("row %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestGenerateNeverExceedsLabCapacity(t *testing.T) {
	labs := testLabs()
	capacities := make(map[string]int)
	for _, l := range labs {
		capacities[l.ID] = l.Capacity
	}

	rows := Generate(Input{
		StartDate:      day("2026-04-13"),
		EndDate:        day("2026-04-24"),
		SessionsPerDay: 3,
		TotalStudents:  500,
		Labs:           labs,
		Subjects:       []Subject{{Name: "Compiler Lab", Code: "CS3501"}},
	})

	for i, r := range rows {
		if r.StudentsAllocated <= 0 {
			t.Errorf("row %d: non-positive allocation %d", i, r.StudentsAllocated)
		}
		if r.StudentsAllocated > capacities[r.LabID] {
			t.Errorf("row %d: allocated %d exceeds capacity %d of %s",
				i, r.StudentsAllocated, capacities[r.LabID], r.LabID)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	in := Input{
		StartDate:      day("2026-04-13"),
		EndDate:        day("2026-04-17"),
		SessionsPerDay: 2,
		TotalStudents:  123,
		Labs:           testLabs(),
		Subjects: []Subject{
			{Name: "Operating Systems Lab", Code: "CS3451"},
			{Name: "Networks Lab", Code: "CS3591"},
		},
	}
	first := Generate(in)
	second := Generate(in)
	if !reflect.DeepEqual(first, second) {
		t.Error("same input produced different row sequences")
	}
}

func TestGenerateDegenerateInputs(t *testing.T) {
	base := Input{
		StartDate:      day("2026-04-13"),
		EndDate:        day("2026-04-14"),
		SessionsPerDay: 2,
		TotalStudents:  60,
		Labs:           testLabs(),
		Subjects:       []Subject{{Name: "Networks Lab", Code: "CS3591"}},
	}

	cases := []struct {
		name   string
		mutate func(*Input)
	}{
		{"no labs", func(in *Input) { in.Labs = nil }},
		{"no subjects", func(in *Input) { in.Subjects = nil }},
		{"end before start", func(in *Input) { in.StartDate, in.EndDate = in.EndDate.AddDate(0, 0, 5), in.StartDate }},
		{"zero sessions", func(in *Input) { in.SessionsPerDay = 0 }},
		{"zero students", func(in *Input) { in.TotalStudents = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			if rows := Generate(in); len(rows) != 0 {
				t.Errorf("expected no rows, got %d", len(rows))
			}
		})
	}
}

func TestGenerateSingleDayRangeIsInclusive(t *testing.T) {
	rows := Generate(Input{
		StartDate:      day("2026-04-13"),
		EndDate:        day("2026-04-13"),
		SessionsPerDay: 1,
		TotalStudents:  10,
		Labs:           []model.Lab{{ID: "a", Name: "Lab A", Capacity: 30}},
		Subjects:       []Subject{{Name: "Networks Lab", Code: "CS3591"}},
	})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row for a one-day window, got %d", len(rows))
	}
	if rows[0].StudentsAllocated != 10 {
		t.Errorf("allocated %d, want 10", rows[0].StudentsAllocated)
	}
}

func TestSessionTimeLabel(t *testing.T) {
	cases := map[int]string{
		1:  "08:30 AM - 11:30 AM",
		2:  "12:00 PM - 03:00 PM",
		3:  "01:30 PM - 03:30 PM",
		4:  "Unknown Time",
		0:  "Unknown Time",
		-1: "Unknown Time",
	}
	for session, want := range cases {
		if got := SessionTimeLabel(session); got != want {
			t.Errorf("SessionTimeLabel(%d) = %q, want %q", session, got, want)
		}
	}
}

func TestSummarizeReportsShortfall(t *testing.T) {
	// One lab, one day, one session: 30 seats against 50 students.
	rows := Generate(Input{
		StartDate:      day("2026-04-13"),
		EndDate:        day("2026-04-13"),
		SessionsPerDay: 1,
		TotalStudents:  50,
		Labs:           []model.Lab{{ID: "a", Name: "Lab A", Capacity: 30}},
		Subjects:       []Subject{{Name: "Networks Lab", Code: "CS3591"}},
	})

	summary := Summarize(rows, 50)
	if len(summary) != 1 {
		t.Fatalf("expected 1 summary entry, got %d", len(summary))
	}
	s := summary[0]
	if s.Allocated != 30 {
		t.Errorf("allocated = %d, want 30", s.Allocated)
	}
	if s.Shortfall != 20 {
		t.Errorf("shortfall = %d, want 20", s.Shortfall)
	}
	if s.Days != 1 {
		t.Errorf("days = %d, want 1", s.Days)
	}
}

func TestSummarizePreservesFirstSeenOrder(t *testing.T) {
	rows := []Row{
		{Date: "2026-04-13", SubjectCode: "CS3591", SubjectName: "Networks Lab", StudentsAllocated: 10},
		{Date: "2026-04-13", SubjectCode: "CS3451", SubjectName: "Operating Systems Lab", StudentsAllocated: 10},
		{Date: "2026-04-14", SubjectCode: "CS3591", SubjectName: "Networks Lab", StudentsAllocated: 5},
	}
	summary := Summarize(rows, 15)
	if len(summary) != 2 {
		t.Fatalf("expected 2 summary entries, got %d", len(summary))
	}
	if summary[0].SubjectCode != "CS3591" || summary[1].SubjectCode != "CS3451" {
		t.Errorf("order = [%s %s], want [CS3591 CS3451]", summary[0].SubjectCode, summary[1].SubjectCode)
	}
	if summary[0].Days != 2 {
		t.Errorf("CS3591 days = %d, want 2", summary[0].Days)
	}
	if summary[0].Allocated != 15 || summary[0].Shortfall != 0 {
		t.Errorf("CS3591 allocated/shortfall = %d/%d, want 15/0", summary[0].Allocated, summary[0].Shortfall)
	}
}

func TestRowLabKeyFallsBackToName(t *testing.T) {
	withID := Row{LabID: "lab-a", LabName: "Programming Lab 1"}
	if withID.LabKey() != "lab-a" {
		t.Errorf("LabKey = %s, want lab-a", withID.LabKey())
	}
	nameOnly := Row{LabName: "Programming Lab 1"}
	if nameOnly.LabKey() != "Programming Lab 1" {
		t.Errorf("LabKey = %s, want Programming Lab 1", nameOnly.LabKey())
	}
}
