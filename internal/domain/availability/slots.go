package availability

import "time"

// GenerateSlots produces the candidate slot start times for one calendar day:
// beginning at date@w.Start and stepping by duration minutes while the slot
// start is before date@w.End. The final slot is kept even when its end would
// run past the window; trimming it would silently shorten the bookable day
// and existing bookings rely on the current boundary. A window whose start is
// at or after its end yields no slots.
func GenerateSlots(date time.Time, w Window, durationMinutes int) []time.Time {
	if durationMinutes <= 0 {
		return nil
	}

	startHour, startMin, err := ParseTimeOfDay(w.Start)
	if err != nil {
		return nil
	}
	endHour, endMin, err := ParseTimeOfDay(w.End)
	if err != nil {
		return nil
	}

	loc := date.Location()
	cur := time.Date(date.Year(), date.Month(), date.Day(), startHour, startMin, 0, 0, loc)
	end := time.Date(date.Year(), date.Month(), date.Day(), endHour, endMin, 0, 0, loc)

	var slots []time.Time
	step := time.Duration(durationMinutes) * time.Minute
	for cur.Before(end) {
		slots = append(slots, cur)
		cur = cur.Add(step)
	}
	return slots
}

// DayBounds returns the inclusive day window for date in its own location:
// local midnight through 23:59:59.999.
func DayBounds(date time.Time) (start, end time.Time) {
	loc := date.Location()
	start = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end = time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 999000000, loc)
	return start, end
}
