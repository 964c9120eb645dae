// Package festival holds the festival and observance registry.
//
// The registry is built from a versioned Dataset that enumerates events by
// exact date for a fixed span of years. It does not know any recurrence
// rules: a date the dataset does not list has no festivals, and every date
// outside the dataset's years is empty.
package festival

import (
	"errors"
	"fmt"
	"time"

	"github.com/zapponejosh/panchang-api/internal/region"
)

// Type categorises a festival entry.
type Type string

const (
	TypeHindu        Type = "Hindu"
	TypeNational     Type = "National"
	TypeRegional     Type = "Regional"
	TypeVrat         Type = "Vrat"
	TypeChristian    Type = "Christian"
	TypeFederal      Type = "Federal"
	TypeGlobal       Type = "Global"
	TypeAstronomical Type = "Astronomical"
)

// ValidTypes returns all valid festival types.
func ValidTypes() []Type {
	return []Type{
		TypeHindu,
		TypeNational,
		TypeRegional,
		TypeVrat,
		TypeChristian,
		TypeFederal,
		TypeGlobal,
		TypeAstronomical,
	}
}

// IsValid checks if a festival type is valid.
func (t Type) IsValid() bool {
	for _, valid := range ValidTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// Entry is a single festival or observance on a date.
type Entry struct {
	Date string `json:"date"` // YYYY-MM-DD
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Dataset is a versioned set of per-region festival tables covering
// FirstYear through LastYear inclusive.
type Dataset struct {
	Version   string                  `json:"version"`
	FirstYear int                     `json:"first_year"`
	LastYear  int                     `json:"last_year"`
	Regions   map[region.Code][]Entry `json:"regions"`
}

// ErrInvalidDataset is wrapped by every dataset validation failure.
var ErrInvalidDataset = errors.New("invalid festival dataset")

// Validate checks the dataset's metadata and every entry.
func (ds Dataset) Validate() error {
	var errs []error

	if ds.Version == "" {
		errs = append(errs, errors.New("version is required"))
	}
	if ds.FirstYear <= 0 || ds.LastYear < ds.FirstYear {
		errs = append(errs, fmt.Errorf("year span %d-%d is not valid", ds.FirstYear, ds.LastYear))
	}

	for code, entries := range ds.Regions {
		if !code.IsValid() {
			errs = append(errs, fmt.Errorf("unknown region %q", code))
			continue
		}
		for i, e := range entries {
			if err := ds.validateEntry(e); err != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: %w", code, i, err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDataset, errors.Join(errs...))
	}
	return nil
}

func (ds Dataset) validateEntry(e Entry) error {
	d, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return fmt.Errorf("date %q is not YYYY-MM-DD", e.Date)
	}
	if d.Year() < ds.FirstYear || d.Year() > ds.LastYear {
		return fmt.Errorf("date %s is outside %d-%d", e.Date, ds.FirstYear, ds.LastYear)
	}
	if e.Name == "" {
		return fmt.Errorf("entry on %s has no name", e.Date)
	}
	if !e.Type.IsValid() {
		return fmt.Errorf("entry %q has unknown type %q", e.Name, e.Type)
	}
	return nil
}

// Count returns the total number of entries across all regions.
func (ds Dataset) Count() int {
	n := 0
	for _, entries := range ds.Regions {
		n += len(entries)
	}
	return n
}
