package model

import "time"

// AssignmentRecord is a finalized internal-examiner allotment persisted
// to the internal_assignments table, keyed by department + exam window.
type AssignmentRecord struct {
	ID           string    `json:"id"`
	DepartmentID string    `json:"department_id"`
	SubjectCode  string    `json:"subject_code"`
	Date         string    `json:"date"`
	LabKey       string    `json:"lab_key"`
	FacultyID    string    `json:"faculty_id"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
