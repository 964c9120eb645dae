package database

import "time"

// DatasetVersion describes one imported festival dataset.
type DatasetVersion struct {
	Version    string    `json:"version"`
	FirstYear  int       `json:"first_year"`
	LastYear   int       `json:"last_year"`
	Active     bool      `json:"active"`
	Festivals  int       `json:"festivals"`
	ImportedAt time.Time `json:"imported_at"`
}
