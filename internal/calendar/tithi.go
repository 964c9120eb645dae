package calendar

import "time"

// Paksha is a lunar fortnight.
type Paksha string

const (
	// Shukla is the waxing fortnight, ending on Purnima.
	Shukla Paksha = "Shukla"

	// Krishna is the waning fortnight, ending on Amavasya.
	Krishna Paksha = "Krishna"
)

// Tithi cycle constants
const (
	// TithisPerMonth is the length of the tithi cycle.
	TithisPerMonth = 30

	// PurnimaNumber is the tithi number of the full-moon day.
	PurnimaNumber = 30
)

// TithiAnchor is the reference full-moon day: 1 February 2026 is tithi 30,
// Shukla Purnima. All tithi numbers are counted from it.
var TithiAnchor = time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

// tithiNames are the 15 canonical lunar-day names. The fifteenth is the
// last day of the Krishna paksha; the last day of Shukla is Purnima.
var tithiNames = [15]string{
	"Pratipada",
	"Dwitiya",
	"Tritiya",
	"Chaturthi",
	"Panchami",
	"Shashthi",
	"Saptami",
	"Ashtami",
	"Navami",
	"Dashami",
	"Ekadashi",
	"Dwadashi",
	"Trayodashi",
	"Chaturdashi",
	"Amavasya",
}

// TithiInfo describes the lunar day of a date.
type TithiInfo struct {
	Number        int    `json:"number"`         // 1..30
	DisplayNumber int    `json:"display_number"` // number shown in a grid cell, same as Number
	Name          string `json:"name"`
	Paksha        Paksha `json:"paksha"`
}

// ComputeTithi returns the tithi for the civil date of date.
//
// The tithi advances by exactly one per calendar day from the anchor, so the
// result is periodic with a period of 30 days:
//
//	number = (30 + days since anchor) mod 30, with 0 mapped to 30
//
// Numbers 1..15 are Krishna paksha, 16..29 Shukla, and 30 is Purnima.
func ComputeTithi(date time.Time) TithiInfo {
	diffDays := DaysBetween(TithiAnchor, date)

	number := mod(TithisPerMonth+diffDays, TithisPerMonth)
	if number == 0 {
		number = TithisPerMonth
	}

	return classifyTithi(number)
}

// DaysBetween returns the number of calendar days from the civil date of
// from to the civil date of to. Both are reduced to UTC midnights, so the
// Unix second difference is an exact multiple of a day for any year
// time.Time can hold.
func DaysBetween(from, to time.Time) int {
	return int((CivilDate(to).Unix() - CivilDate(from).Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// classifyTithi names a tithi number in [1, 30].
func classifyTithi(number int) TithiInfo {
	info := TithiInfo{Number: number, DisplayNumber: number}

	switch {
	case number == PurnimaNumber:
		info.Name = "Purnima"
		info.Paksha = Shukla
	case number <= 15:
		info.Name = tithiNames[number-1]
		info.Paksha = Krishna
	default:
		idx := number % 15
		if idx == 0 {
			idx = 15
		}
		info.Name = tithiNames[idx-1]
		info.Paksha = Shukla
	}

	return info
}

// TithiNames returns the canonical tithi names in cycle order.
func TithiNames() []string {
	names := make([]string, len(tithiNames))
	copy(names, tithiNames[:])
	return names
}
