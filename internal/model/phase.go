package model

import "time"

// Phase groups year-groups/regulations that share a scheduling pass
// (e.g. Phase 1 = IV Year under R2022, two sessions per day).
type Phase struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	YearGroup      string    `json:"year_group"`
	SessionsPerDay int       `json:"sessions_per_day"`
	CreatedAt      time.Time `json:"created_at"`
}

// SessionTiming is one clock slot of a phase, ordered by start time.
type SessionTiming struct {
	ID        string    `json:"id"`
	PhaseID   string    `json:"phase_id"`
	Label     string    `json:"label"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}
