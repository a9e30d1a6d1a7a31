package model

import "time"

// Faculty is a staff member eligible for internal examiner duty.
type Faculty struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	DepartmentID      string    `json:"department_id"`
	Specialization    string    `json:"specialization,omitempty"`
	YearsOfExperience int       `json:"years_of_experience"`
	CreatedAt         time.Time `json:"created_at"`
}
