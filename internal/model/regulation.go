package model

import "time"

// Regulation is an academic curriculum version (e.g. R2022).
type Regulation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
}
