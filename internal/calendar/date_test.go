package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2026-02-16", date(2026, time.February, 16), false},
		{"2027-12-31", date(2027, time.December, 31), false},
		{"2026-02-30", time.Time{}, true},
		{"16-02-2026", time.Time{}, true},
		{"", time.Time{}, true},
		{"tomorrow", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("ParseDate(%q) error = %v, want ErrInvalidDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(date(2026, time.August, 5)); got != "2026-08-05" {
		t.Errorf("FormatDate = %q, want %q", got, "2026-08-05")
	}
}

func TestCivilDate(t *testing.T) {
	la := time.FixedZone("PST", -8*3600)
	got := CivilDate(time.Date(2026, time.March, 1, 23, 30, 0, 0, la))

	if !got.Equal(date(2026, time.March, 1)) {
		t.Errorf("CivilDate = %v, want 2026-03-01 UTC", got)
	}
}

func TestMonthStart(t *testing.T) {
	got, err := MonthStart(2026, 11)
	if err != nil {
		t.Fatalf("MonthStart error = %v", err)
	}
	if !got.Equal(date(2026, time.November, 1)) {
		t.Errorf("MonthStart = %v", got)
	}

	if _, err := MonthStart(0, 1); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("MonthStart(0, 1) error = %v, want ErrInvalidDate", err)
	}
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2026, time.January, 31},
		{2026, time.February, 28},
		{2028, time.February, 29},
		{2026, time.April, 30},
		{2026, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysIn(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}
