package calendar

import "time"

// Era constants
const (
	// EraName is the name of the era reported with every converted date.
	EraName = "Vikram Samvat"

	// EraOffset is the difference between the Vikram Samvat year and the
	// Gregorian year once the era's new year has passed.
	EraOffset = 57
)

// samvatMonths are the lunar month names, starting with the new-year month.
var samvatMonths = [12]string{
	"Chaitra",
	"Vaishakha",
	"Jyeshtha",
	"Ashadha",
	"Shravana",
	"Bhadrapada",
	"Ashwin",
	"Kartika",
	"Margashirsha",
	"Pausha",
	"Magha",
	"Phalguna",
}

// VikramSamvatInfo is a date expressed in the Vikram Samvat era.
type VikramSamvatInfo struct {
	Year      int    `json:"year"`
	MonthName string `json:"month_name"`
	Era       string `json:"era"`
}

// ComputeSamvat converts a Gregorian date and its tithi to the Vikram Samvat
// year and Purnimanta month name.
//
// The era year is the Gregorian year + 57, less one until the new year.
// The new year is approximated as falling in March on the 15th tithi, so
// January, February and the part of March before that tithi belong to the
// previous era year.
//
// Month names follow the Gregorian month with a fixed shift of ten. February
// is the one month whose Gregorian span straddles a named-month boundary at
// the full moon: its Purnima closes Magha and every other February day is
// counted in Phalguna. Other month boundaries are not corrected.
func ComputeSamvat(date time.Time, tithi TithiInfo) VikramSamvatInfo {
	m := monthIndex(date)

	year := date.Year() + EraOffset
	if beforeEraNewYear(m, tithi) {
		year--
	}

	return VikramSamvatInfo{
		Year:      year,
		MonthName: samvatMonthName(m, tithi),
		Era:       EraName,
	}
}

func beforeEraNewYear(m int, tithi TithiInfo) bool {
	return m < 2 || (m == 2 && tithi.DisplayNumber < 15)
}

func samvatMonthName(m int, tithi TithiInfo) string {
	idx := (m + 10) % 12

	// February: Purnima still belongs to Magha, later days to Phalguna.
	if m == 1 && tithi.DisplayNumber == PurnimaNumber {
		idx = mod(idx-1, 12)
	}

	return samvatMonths[idx]
}

// SamvatMonthNames returns the 12 month names starting with Chaitra.
func SamvatMonthNames() []string {
	names := make([]string, len(samvatMonths))
	copy(names, samvatMonths[:])
	return names
}
