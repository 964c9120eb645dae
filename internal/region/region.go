// Package region maps festival regions to codes, names and timezones.
package region

import (
	"strings"
	"time"
	_ "time/tzdata" // region zones must load on hosts without a zoneinfo database
)

// Code identifies a festival region.
type Code string

const (
	CodeIndia  Code = "IN"
	CodeUS     Code = "US"
	CodeGlobal Code = "global"
)

// Region is a festival region with its display name and home timezone.
type Region struct {
	Code     Code   `json:"code"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

var (
	India  = Region{Code: CodeIndia, Name: "India", Timezone: "Asia/Kolkata"}
	US     = Region{Code: CodeUS, Name: "United States", Timezone: "America/New_York"}
	Global = Region{Code: CodeGlobal, Name: "Global", Timezone: "UTC"}
)

// Default is the region used when nothing identifies a better one. Only the
// global festival table applies to it.
var Default = Global

// All returns every known region.
func All() []Region {
	return []Region{India, US, Global}
}

// IsValid reports whether c is a known region code.
func (c Code) IsValid() bool {
	switch c {
	case CodeIndia, CodeUS, CodeGlobal:
		return true
	}
	return false
}

// String returns the code as a string.
func (c Code) String() string { return string(c) }

// Lookup returns the region for a code. Codes are matched case-insensitively.
func Lookup(code string) (Region, bool) {
	for _, r := range All() {
		if strings.EqualFold(code, string(r.Code)) {
			return r, true
		}
	}
	return Region{}, false
}

// timezone fragments that identify a region, checked in order.
var tzFragments = []struct {
	fragments []string
	region    Region
}{
	{[]string{"Kolkata", "Calcutta", "India"}, India},
	{[]string{"America", "New_York", "Los_Angeles", "USA"}, US},
}

// Resolve maps an IANA timezone identifier to a region by substring match.
//
//	Asia/Kolkata        -> IN
//	America/Chicago     -> US
//	Europe/Paris        -> global
//
// Unmatched or empty input resolves to Default; Resolve never fails.
func Resolve(timezone string) Region {
	for _, tz := range tzFragments {
		for _, f := range tz.fragments {
			if strings.Contains(timezone, f) {
				return tz.region
			}
		}
	}
	return Default
}

// Select applies the region selection policy for a request: an explicit
// valid code wins, then any non-empty timezone through Resolve, then
// fallback. A timezone outside IN and US therefore selects Default even
// when fallback is another region.
func Select(code, timezone string, fallback Region) Region {
	if r, ok := Lookup(code); ok {
		return r
	}
	if timezone != "" {
		return Resolve(timezone)
	}
	return fallback
}

// Location loads the region's timezone, falling back to UTC for an
// unknown zone name.
func (r Region) Location() *time.Location {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
