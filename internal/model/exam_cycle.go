package model

import "time"

// ExamCycle is a named examination window (e.g. "April - May 2025").
type ExamCycle struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}
