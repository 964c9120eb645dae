package calendar

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestComputeAstro_ReferenceDay(t *testing.T) {
	got := ComputeAstro(date(2026, time.February, 16))

	want := AstroDayInfo{
		Sunrise:   "06:52",
		Sunset:    "18:11",
		Rashi:     "Tula",
		Nakshatra: "Magha",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeAstro mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeAstro_Cycles(t *testing.T) {
	hhmm := regexp.MustCompile(`^\d{2}:\d{2}$`)
	rashis := RashiNames()
	nakshatras := NakshatraNames()

	for d := date(2026, time.January, 1); d.Year() < 2028; d = d.AddDate(0, 0, 1) {
		got := ComputeAstro(d)

		assert.Regexp(t, hhmm, got.Sunrise)
		assert.Regexp(t, hhmm, got.Sunset)
		assert.Equal(t, rashis[(d.Day()+monthIndex(d)*2)%12], got.Rashi)
		assert.Equal(t, nakshatras[(d.Day()+20)%27], got.Nakshatra)
		assert.Less(t, got.Sunrise, got.Sunset)
	}
}

func TestComputeAstro_SunriseRange(t *testing.T) {
	assert.Equal(t, "06:45", ComputeAstro(date(2026, time.March, 9)).Sunrise)
	assert.Equal(t, "06:53", ComputeAstro(date(2026, time.March, 8)).Sunrise)
	assert.Equal(t, "18:05", ComputeAstro(date(2026, time.March, 10)).Sunset)
	assert.Equal(t, "18:14", ComputeAstro(date(2026, time.March, 9)).Sunset)
}

func TestNameTables(t *testing.T) {
	assert.Len(t, RashiNames(), 12)
	assert.Len(t, NakshatraNames(), 27)
	assert.Equal(t, "Revati", NakshatraNames()[26])
}
