package availability

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in         string
		hour, min  int
		shouldFail bool
	}{
		{in: "08:00", hour: 8, min: 0},
		{in: "8:00", hour: 8, min: 0},
		{in: "23:59", hour: 23, min: 59},
		{in: "0:30", hour: 0, min: 30},
		{in: "24:00", shouldFail: true},
		{in: "12:60", shouldFail: true},
		{in: "12:5", shouldFail: true},
		{in: "1200", shouldFail: true},
		{in: "", shouldFail: true},
		{in: "ab:cd", shouldFail: true},
		{in: "+9:30", shouldFail: true},
		{in: "-1:30", shouldFail: true},
		{in: "12:+5", shouldFail: true},
	}
	for _, c := range cases {
		h, m, err := ParseTimeOfDay(c.in)
		if c.shouldFail {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): unexpected error: %v", c.in, err)
			continue
		}
		if h != c.hour || m != c.min {
			t.Errorf("ParseTimeOfDay(%q) = %d:%d, want %d:%d", c.in, h, m, c.hour, c.min)
		}
	}
}

func TestClockString(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC)
	if got := ClockString(at); got != "09:05" {
		t.Errorf("expected zero-padded 09:05, got %s", got)
	}
}

func TestClockInWindow_Inclusive(t *testing.T) {
	if !ClockInWindow("09:00", "09:00", "17:00") {
		t.Error("start bound should be inside the window")
	}
	if !ClockInWindow("17:00", "09:00", "17:00") {
		t.Error("end bound should be inside the window")
	}
	if ClockInWindow("08:59", "09:00", "17:00") {
		t.Error("one minute before start should be outside")
	}
	if ClockInWindow("17:01", "09:00", "17:00") {
		t.Error("one minute after end should be outside")
	}
}

func TestIntervalsOverlap(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
	}
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"disjoint before", day(1), day(2), day(3), day(4), false},
		{"disjoint after", day(5), day(6), day(3), day(4), false},
		{"touching at bound", day(1), day(3), day(3), day(4), true},
		{"contained", day(2), day(3), day(1), day(4), true},
		{"containing", day(1), day(4), day(2), day(3), true},
		{"partial", day(1), day(3), day(2), day(4), true},
		{"identical", day(1), day(2), day(1), day(2), true},
	}
	for _, c := range cases {
		if got := IntervalsOverlap(c.aStart, c.aEnd, c.bStart, c.bEnd); got != c.want {
			t.Errorf("%s: IntervalsOverlap = %v, want %v", c.name, got, c.want)
		}
		// The single inclusive predicate must agree with the expanded
		// case analysis: b starts inside a, b ends inside a, or b spans a.
		expanded := (!c.bStart.Before(c.aStart) && !c.bStart.After(c.aEnd)) ||
			(!c.bEnd.Before(c.aStart) && !c.bEnd.After(c.aEnd)) ||
			(c.bStart.Before(c.aStart) && c.bEnd.After(c.aEnd))
		if got := IntervalsOverlap(c.aStart, c.aEnd, c.bStart, c.bEnd); got != expanded {
			t.Errorf("%s: predicate disagrees with expanded form: %v vs %v", c.name, got, expanded)
		}
	}
}

func TestContains_Inclusive(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	if !Contains(start, end, start) {
		t.Error("start bound should be contained")
	}
	if !Contains(start, end, end) {
		t.Error("end bound should be contained")
	}
	if Contains(start, end, start.Add(-time.Second)) {
		t.Error("instant before start should not be contained")
	}
	if Contains(start, end, end.Add(time.Second)) {
		t.Error("instant after end should not be contained")
	}
}
