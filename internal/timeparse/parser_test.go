package timeparse

import (
	"errors"
	"testing"
	"time"
)

func fixedParser(now time.Time) *Parser {
	return NewWithClock(time.UTC, func() time.Time { return now })
}

func TestParseClockTime(t *testing.T) {
	now := time.Date(2026, 10, 17, 20, 13, 42, 0, time.UTC)
	p := fixedParser(now)

	cases := []struct {
		in   string
		h, m int
	}{
		{"17:00", 17, 0},
		{"9:05", 9, 5},
		{"09:05", 9, 5},
		{"0:00", 0, 0},
		{"23:59", 23, 59},
		{"  16:45 ", 16, 45},
	}

	for _, tc := range cases {
		got, err := p.Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tc.in, err)
		}
		want := time.Date(2026, 10, 17, tc.h, tc.m, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Fatalf("Parse(%q) = %v; want %v", tc.in, got, want)
		}
		if got.Second() != 0 || got.Nanosecond() != 0 {
			t.Fatalf("Parse(%q) kept seconds: %v", tc.in, got)
		}
	}
}

// A clock time earlier than now stays on today's date.
func TestParseClockTimeDoesNotRollOver(t *testing.T) {
	now := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)
	p := fixedParser(now)

	got, err := p.Parse("08:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Day() != 17 || !got.Before(now) {
		t.Fatalf("expected today's 08:00 in the past, got %v", got)
	}
}

func TestParseAbsent(t *testing.T) {
	p := fixedParser(time.Now())
	for _, in := range []string{"", "   ", "\t"} {
		if _, err := p.Parse(in); !errors.Is(err, ErrAbsent) {
			t.Fatalf("Parse(%q) err = %v; want ErrAbsent", in, err)
		}
	}
}

func TestParseUnparseable(t *testing.T) {
	p := fixedParser(time.Now())
	for _, in := range []string{"24:00", "12:60", "99:99", "tomorrow", "2026-13-01 10:00", "2026-02-30 10:00", "2026-10-20", "2026-10-20T09:30", "2026-10-20T09:30:00Z", "12-"} {
		_, err := p.Parse(in)
		if !errors.Is(err, ErrUnparseable) {
			t.Fatalf("Parse(%q) err = %v; want ErrUnparseable", in, err)
		}
	}
}

func TestParseAbsolute(t *testing.T) {
	p := fixedParser(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC))

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-10-20 09:30", time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC)},
		{"2026-10-20  09:30", time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC)},
		{"2026-1-2 7:05", time.Date(2026, 1, 2, 7, 5, 0, 0, time.UTC)},
		{"2026-10-20 09:30:15", time.Date(2026, 10, 20, 9, 30, 15, 0, time.UTC)},
	}

	for _, tc := range cases {
		got, err := p.Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("Parse(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormat(t *testing.T) {
	p := fixedParser(time.Now())
	if got := p.Format(time.Date(2026, 10, 17, 7, 5, 59, 0, time.UTC)); got != "07:05" {
		t.Fatalf("Format = %q; want 07:05", got)
	}
}
