package identity

import (
	"testing"
	"time"
)

func TestParseFlexibleDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"10/03/2026", time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)},
		{"10-03-2026", time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)},
		{"10 03 2026", time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)},
		{"10032026", time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)},
		{"1/3/2026", time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)},
		{" 10/03/2026 ", time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFlexibleDate(tc.in, false)
			if err != nil {
				t.Fatalf("ParseFlexibleDate(%q): %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseFlexibleDateTwoDigitYear(t *testing.T) {
	got, err := ParseFlexibleDate("10/03/26", false)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Year() != 2026 {
		t.Fatalf("year = %d, want 2026", got.Year())
	}

	// A two-digit year more than 50 years ahead falls back a century.
	got, err = ParseFlexibleDate("10/03/99", false)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Year() != 1999 {
		t.Fatalf("year = %d, want 1999", got.Year())
	}
}

func TestParseFlexibleDateWithTime(t *testing.T) {
	got, err := ParseFlexibleDate("10/03/2026 14:30", true)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// withTime requires the hh:mm part.
	if _, err := ParseFlexibleDate("10/03/2026", true); err == nil {
		t.Fatal("expected error for missing time part")
	}
}

func TestParseFlexibleDateRejectsInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"2026-03-10", // year-first not accepted
		"32/01/2026", // day out of range
		"10/13/2026", // month out of range
		"10/03/2026 25:00",
		"not a date",
	} {
		if _, err := ParseFlexibleDate(in, in == "10/03/2026 25:00"); err == nil {
			t.Errorf("ParseFlexibleDate(%q) succeeded, want error", in)
		}
	}
}
