package festival

import (
	"sort"
	"time"

	"github.com/zapponejosh/panchang-api/internal/region"
)

// Registry answers festival lookups from an immutable dataset.
// It is safe for concurrent use.
type Registry struct {
	version   string
	firstYear int
	lastYear  int
	tables    map[region.Code][]Entry
}

// NewRegistry validates ds and builds a registry from a private copy of it.
func NewRegistry(ds Dataset) (*Registry, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	tables := make(map[region.Code][]Entry, len(ds.Regions))
	for code, entries := range ds.Regions {
		tables[code] = append([]Entry(nil), entries...)
	}

	return &Registry{
		version:   ds.Version,
		firstYear: ds.FirstYear,
		lastYear:  ds.LastYear,
		tables:    tables,
	}, nil
}

// Version returns the dataset version the registry was built from.
func (r *Registry) Version() string { return r.version }

// Years returns the first and last year covered by the dataset.
func (r *Registry) Years() (first, last int) { return r.firstYear, r.lastYear }

// Covers reports whether year is inside the dataset's span.
func (r *Registry) Covers(year int) bool {
	return year >= r.firstYear && year <= r.lastYear
}

// candidates returns the region's table followed by the global table.
// Unknown codes and the global code itself contribute only the global table.
func (r *Registry) candidates(code region.Code) []Entry {
	var out []Entry
	if code != region.CodeGlobal {
		out = append(out, r.tables[code]...)
	}
	return append(out, r.tables[region.CodeGlobal]...)
}

// For returns the festivals on date's civil day for a region: the region's
// entries followed by the global entries. Entries present in both tables
// are returned twice. The result is never nil.
func (r *Registry) For(date time.Time, code region.Code) []Entry {
	key := date.Format("2006-01-02")

	matches := []Entry{}
	for _, e := range r.candidates(code) {
		if e.Date == key {
			matches = append(matches, e)
		}
	}
	return matches
}

// Between returns the festivals from from through to inclusive, ordered by
// date. Within a date the region's entries come before the global ones.
func (r *Registry) Between(from, to time.Time, code region.Code) []Entry {
	lo := from.Format("2006-01-02")
	hi := to.Format("2006-01-02")

	matches := []Entry{}
	for _, e := range r.candidates(code) {
		if e.Date >= lo && e.Date <= hi {
			matches = append(matches, e)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date < matches[j].Date
	})
	return matches
}

// Dataset returns a copy of the dataset the registry serves.
func (r *Registry) Dataset() Dataset {
	regions := make(map[region.Code][]Entry, len(r.tables))
	for code, entries := range r.tables {
		regions[code] = append([]Entry(nil), entries...)
	}
	return Dataset{
		Version:   r.version,
		FirstYear: r.firstYear,
		LastYear:  r.lastYear,
		Regions:   regions,
	}
}
