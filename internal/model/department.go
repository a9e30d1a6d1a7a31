package model

import "time"

// Department belongs to exactly one regulation.
type Department struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	RegulationID string    `json:"regulation_id"`
	CreatedAt    time.Time `json:"created_at"`
}
