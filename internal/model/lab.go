package model

import "time"

// Lab is a practical examination venue. Capacity is the number of
// students one session can seat and is always positive.
type Lab struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Capacity     int       `json:"capacity"`
	DepartmentID string    `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Key returns the identifier used in assignment keys and exported rows:
// the lab id when one exists, the display name otherwise.
func (l Lab) Key() string {
	if l.ID != "" {
		return l.ID
	}
	return l.Name
}
