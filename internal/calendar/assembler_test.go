package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/region"
)

func testCalendar(t *testing.T) *Calendar {
	t.Helper()

	ds, err := festival.DefaultDataset()
	require.NoError(t, err)

	reg, err := festival.NewRegistry(ds)
	require.NoError(t, err)

	return New(reg)
}

func festivalNames(entries []festival.Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

func TestCalendarDay_MahaShivaratri(t *testing.T) {
	cal := testCalendar(t)

	day := cal.Day(date(2026, time.February, 16), region.CodeIndia)

	assert.Equal(t, "2026-02-16", day.Date)
	assert.Equal(t, int(time.Monday), day.Weekday)
	assert.Equal(t, "Monday", day.WeekdayName)

	// 15 days after the anchor Purnima
	assert.Equal(t, 15, day.Tithi.Number)
	assert.Equal(t, "Amavasya", day.Tithi.Name)
	assert.Equal(t, Krishna, day.Tithi.Paksha)

	assert.Equal(t, ComputeMuhurat(time.Monday), day.Muhurat)
	assert.Equal(t, "07:30 - 09:00", day.Muhurat.RahuKaal)

	assert.Equal(t, 2082, day.Samvat.Year)
	assert.Equal(t, "Phalguna", day.Samvat.MonthName)

	assert.Contains(t, festivalNames(day.Festivals), "Maha Shivaratri")
}

func TestCalendarDay_NoFestivals(t *testing.T) {
	cal := testCalendar(t)

	day := cal.Day(date(2025, time.February, 16), region.CodeIndia)

	assert.NotNil(t, day.Festivals)
	assert.Empty(t, day.Festivals)
	assert.NotEmpty(t, day.Tithi.Name)
}

func TestCalendarMonth(t *testing.T) {
	cal := testCalendar(t)

	view, err := cal.Month(2026, 2, region.India)
	require.NoError(t, err)

	assert.Equal(t, "February", view.MonthName)
	assert.True(t, view.Covered)
	require.Len(t, view.Days, 28)
	assert.Equal(t, "2026-02-01", view.Days[0].Date)
	assert.Equal(t, "2026-02-28", view.Days[27].Date)
	assert.Equal(t, "Purnima", view.Days[0].Tithi.Name)

	assert.Equal(t, []string{"Vijaya Ekadashi", "Maha Shivaratri"}, festivalNames(view.Upcoming))
}

func TestCalendarMonth_LeapAndLongMonths(t *testing.T) {
	cal := testCalendar(t)

	view, err := cal.Month(2028, 2, region.Global)
	require.NoError(t, err)
	assert.Len(t, view.Days, 29)
	assert.False(t, view.Covered)
	assert.Empty(t, view.Upcoming)

	view, err = cal.Month(2026, 12, region.US)
	require.NoError(t, err)
	assert.Len(t, view.Days, 31)
}

func TestCalendarMonth_Invalid(t *testing.T) {
	cal := testCalendar(t)

	for _, month := range []int{0, 13, -1} {
		_, err := cal.Month(2026, month, region.India)
		assert.ErrorIs(t, err, ErrInvalidDate, "month %d", month)
	}
}

func TestCalendarUpcoming(t *testing.T) {
	cal := testCalendar(t)

	got := cal.Upcoming(date(2026, time.January, 10), region.CodeIndia, 0)
	assert.Equal(t, []string{
		"Makar Sankranti",
		"Pongal",
		"Shattila Ekadashi",
		"Vasant Panchami",
		"Republic Day",
	}, festivalNames(got))

	limited := cal.Upcoming(date(2026, time.January, 10), region.CodeIndia, 2)
	assert.Equal(t, []string{"Makar Sankranti", "Pongal"}, festivalNames(limited))

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Date, got[i].Date)
	}
}

func TestCalendarUpcoming_StopsAtMonthEnd(t *testing.T) {
	cal := testCalendar(t)

	got := cal.Upcoming(date(2026, time.January, 27), region.CodeIndia, 0)
	assert.Empty(t, got)
}
