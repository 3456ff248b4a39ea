package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimeOfDay parses a 24-hour "HH:MM" string into hour and minute.
// A single-digit hour is accepted ("8:00"); minutes must be two digits.
// Only decimal digits are allowed, so signed values like "+9:30" are
// rejected.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || len(parts[1]) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	if !allDigits(parts[0]) || !allDigits(parts[1]) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return hour, minute, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ClockString formats a date-time's clock time as zero-padded "HH:MM".
func ClockString(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// ClockInWindow reports whether clock time hhmm falls inside [start, end],
// bounds inclusive. All three are zero-padded "HH:MM" strings, so plain
// string comparison orders them correctly.
func ClockInWindow(hhmm, start, end string) bool {
	return hhmm >= start && hhmm <= end
}

// IntervalsOverlap reports whether [aStart, aEnd] and [bStart, bEnd] share
// at least one instant, bounds inclusive.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// Contains reports whether at falls inside [start, end], bounds inclusive.
func Contains(start, end, at time.Time) bool {
	return !at.Before(start) && !at.After(end)
}
