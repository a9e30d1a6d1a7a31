// Package schedule implements the allocation generator and the faculty
// assignment rules for practical examinations. Everything here is pure:
// no I/O, no clocks, no globals.
package schedule

import (
	"time"

	"github.com/citlabs/labsched-backend/internal/model"
)

// DateLayout is the calendar-day form used in rows, keys and exports.
const DateLayout = "2006-01-02"

// Subject is a course scheduled for one run. Code is unique within the run.
type Subject struct {
	Name string `json:"name" binding:"required,min=2,max=120"`
	Code string `json:"code" binding:"required,min=2,max=20"`
}

// Input carries everything Generate needs for one scheduling run.
type Input struct {
	StartDate      time.Time
	EndDate        time.Time
	SessionsPerDay int
	TotalStudents  int
	Labs           []model.Lab
	Subjects       []Subject
}

// Row is one generated allocation: a (date, session, lab) slot holding
// part of a subject's headcount. Rows are immutable once generated.
type Row struct {
	Date              string `json:"date"`
	Session           int    `json:"session"`
	Time              string `json:"time"`
	LabID             string `json:"lab_id,omitempty"`
	LabName           string `json:"lab_name"`
	SubjectCode       string `json:"subject_code"`
	SubjectName       string `json:"subject_name"`
	StudentsAllocated int    `json:"students_allocated"`
}

// LabKey returns the lab identifier used in assignment keys: the lab id
// when present, the lab name otherwise.
func (r Row) LabKey() string {
	if r.LabID != "" {
		return r.LabID
	}
	return r.LabName
}

// Generate spreads the full TotalStudents of every subject across the
// available (day, session, lab) slots with a greedy fill: days in
// chronological order, sessions 1..SessionsPerDay, labs in input order.
// Each slot takes min(lab capacity, remaining). The same inputs always
// produce the same row sequence.
//
// Degenerate inputs (no labs, no subjects, empty day range, non-positive
// session count) yield an empty result, never an error. Demand beyond
// the total slot capacity is dropped without a row; callers that need to
// detect the shortfall use Summarize.
func Generate(in Input) []Row {
	if len(in.Labs) == 0 || len(in.Subjects) == 0 {
		return nil
	}
	days := daysBetween(in.StartDate, in.EndDate)
	if len(days) == 0 || in.SessionsPerDay <= 0 {
		return nil
	}

	var rows []Row
	for _, subject := range in.Subjects {
		remaining := in.TotalStudents
	subjectLoop:
		for _, day := range days {
			for session := 1; session <= in.SessionsPerDay; session++ {
				for _, lab := range in.Labs {
					if remaining <= 0 {
						break subjectLoop
					}
					assign := lab.Capacity
					if remaining < assign {
						assign = remaining
					}
					rows = append(rows, Row{
						Date:              day,
						Session:           session,
						Time:              SessionTimeLabel(session),
						LabID:             lab.ID,
						LabName:           lab.Name,
						SubjectCode:       subject.Code,
						SubjectName:       subject.Name,
						StudentsAllocated: assign,
					})
					remaining -= assign
				}
			}
		}
	}
	return rows
}

// daysBetween lists the calendar days from start through end inclusive.
// Returns nil when end is before start.
func daysBetween(start, end time.Time) []string {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return nil
	}

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SessionTimeLabel maps a 1-based session number to its clock slot.
// Numbers beyond the defined slots get a neutral label; the label is
// cosmetic and carries no constraint.
func SessionTimeLabel(session int) string {
	switch session {
	case 1:
		return "08:30 AM - 11:30 AM"
	case 2:
		return "12:00 PM - 03:00 PM"
	case 3:
		return "01:30 PM - 03:30 PM"
	default:
		return "Unknown Time"
	}
}

// SubjectSummary aggregates the generated rows of one subject.
type SubjectSummary struct {
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	Rows        int    `json:"rows"`
	Days        int    `json:"days"`
	Allocated   int    `json:"allocated"`
	Shortfall   int    `json:"shortfall"`
}

// Summarize reports per-subject totals for a generated row list,
// including the shortfall against the requested headcount. It exists so
// callers can surface "demand exceeded capacity" without Generate itself
// changing behaviour.
func Summarize(rows []Row, totalStudents int) []SubjectSummary {
	var order []string
	byCode := make(map[string]*SubjectSummary)
	daysSeen := make(map[string]map[string]bool)

	for _, r := range rows {
		s, ok := byCode[r.SubjectCode]
		if !ok {
			s = &SubjectSummary{SubjectCode: r.SubjectCode, SubjectName: r.SubjectName}
			byCode[r.SubjectCode] = s
			daysSeen[r.SubjectCode] = make(map[string]bool)
			order = append(order, r.SubjectCode)
		}
		s.Rows++
		s.Allocated += r.StudentsAllocated
		daysSeen[r.SubjectCode][r.Date] = true
	}

	out := make([]SubjectSummary, 0, len(order))
	for _, code := range order {
		s := byCode[code]
		s.Days = len(daysSeen[code])
		if totalStudents > s.Allocated {
			s.Shortfall = totalStudents - s.Allocated
		}
		out = append(out, *s)
	}
	return out
}
