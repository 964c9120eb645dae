package calendar

import (
	"time"

	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/region"
)

// Day is everything shown for one calendar cell.
type Day struct {
	Date        string           `json:"date"`
	Weekday     int              `json:"weekday"` // 0=Sunday through 6=Saturday
	WeekdayName string           `json:"weekday_name"`
	Tithi       TithiInfo        `json:"tithi"`
	Samvat      VikramSamvatInfo `json:"samvat"`
	Astro       AstroDayInfo     `json:"astro"`
	Muhurat     MuhuratWindow    `json:"muhurat"`
	Festivals   []festival.Entry `json:"festivals"`
}

// MonthView is a full month grid plus the month's upcoming events.
type MonthView struct {
	Year      int              `json:"year"`
	Month     int              `json:"month"` // 1..12
	MonthName string           `json:"month_name"`
	Region    region.Region    `json:"region"`
	Covered   bool             `json:"covered"` // festival data exists for Year
	Days      []Day            `json:"days"`
	Upcoming  []festival.Entry `json:"upcoming"`
}

// FestivalSource looks up festivals by date.
// *festival.Registry satisfies it.
type FestivalSource interface {
	For(date time.Time, code region.Code) []festival.Entry
	Between(from, to time.Time, code region.Code) []festival.Entry
	Covers(year int) bool
}

// Calendar assembles day cells and month views.
type Calendar struct {
	festivals FestivalSource
}

// New creates a calendar backed by a festival source.
func New(festivals FestivalSource) *Calendar {
	return &Calendar{festivals: festivals}
}

// Day assembles the cell for date's civil day in a region.
func (c *Calendar) Day(date time.Time, code region.Code) Day {
	date = CivilDate(date)
	tithi := ComputeTithi(date)

	return Day{
		Date:        FormatDate(date),
		Weekday:     int(date.Weekday()),
		WeekdayName: DayName(date),
		Tithi:       tithi,
		Samvat:      ComputeSamvat(date, tithi),
		Astro:       ComputeAstro(date),
		Muhurat:     ComputeMuhurat(date.Weekday()),
		Festivals:   c.festivals.For(date, code),
	}
}

// Month assembles every day of a month (1-based) for a region.
func (c *Calendar) Month(year, month int, r region.Region) (MonthView, error) {
	start, err := MonthStart(year, month)
	if err != nil {
		return MonthView{}, err
	}

	n := DaysIn(year, start.Month())
	days := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, c.Day(start.AddDate(0, 0, i), r.Code))
	}

	return MonthView{
		Year:      year,
		Month:     month,
		MonthName: start.Month().String(),
		Region:    r,
		Covered:   c.festivals.Covers(year),
		Days:      days,
		Upcoming:  c.Upcoming(start, r.Code, 0),
	}, nil
}

// Upcoming returns festivals from from's day to the end of its month in date
// order. A limit above zero truncates the result.
func (c *Calendar) Upcoming(from time.Time, code region.Code, limit int) []festival.Entry {
	from = CivilDate(from)
	end := time.Date(from.Year(), from.Month(), DaysIn(from.Year(), from.Month()), 0, 0, 0, 0, time.UTC)

	events := c.festivals.Between(from, end, code)
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events
}
