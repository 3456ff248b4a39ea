package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock ScheduleSource --

type mockScheduleSource struct {
	hours   map[uuid.UUID][]WorkingHoursEntry
	timeOff map[uuid.UUID][]TimeOffEntry
}

func newMockScheduleSource() *mockScheduleSource {
	return &mockScheduleSource{
		hours:   make(map[uuid.UUID][]WorkingHoursEntry),
		timeOff: make(map[uuid.UUID][]TimeOffEntry),
	}
}

func (m *mockScheduleSource) WorkingHours(_ context.Context, opticianID uuid.UUID) ([]WorkingHoursEntry, error) {
	return m.hours[opticianID], nil
}

func (m *mockScheduleSource) TimeOffBetween(_ context.Context, opticianID uuid.UUID, start, end time.Time) ([]TimeOffEntry, error) {
	var result []TimeOffEntry
	for _, to := range m.timeOff[opticianID] {
		if IntervalsOverlap(to.StartDate, to.EndDate, start, end) {
			result = append(result, to)
		}
	}
	return result, nil
}

// weekdayTemplate returns a Monday-Friday 09:00-17:00 template.
func weekdayTemplate() []WorkingHoursEntry {
	var entries []WorkingHoursEntry
	for day := 1; day <= 5; day++ {
		entries = append(entries, WorkingHoursEntry{
			DayOfWeek:   day,
			StartTime:   "09:00",
			EndTime:     "17:00",
			IsAvailable: true,
		})
	}
	return entries
}

// 2025-03-10 is a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestCheck_Available(t *testing.T) {
	src := newMockScheduleSource()
	id := uuid.New()
	src.hours[id] = weekdayTemplate()

	eval := NewEvaluator(src)
	got, err := eval.Check(context.Background(), id, monday(10, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Available {
		t.Errorf("expected available, got reason %q", got.Reason)
	}
	if got.Reason != "" {
		t.Errorf("available result should carry no reason, got %q", got.Reason)
	}
}

func TestCheck_NotScheduledDay(t *testing.T) {
	src := newMockScheduleSource()
	id := uuid.New()
	src.hours[id] = weekdayTemplate()

	eval := NewEvaluator(src)
	sunday := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	got, err := eval.Check(context.Background(), id, sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Available {
		t.Fatal("expected unavailable on a day with no template row")
	}
	if got.Reason != "Not scheduled to work on this day" {
		t.Errorf("unexpected reason: %q", got.Reason)
	}
}

func TestCheck_DayMarkedUnavailable(t *testing.T) {
	src := newMockScheduleSource()
	id := uuid.New()
	src.hours[id] = []WorkingHoursEntry{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsAvailable: false},
	}

	eval := NewEvaluator(src)
	got, _ := eval.Check(context.Background(), id, monday(10, 0))
	if got.Available || got.Reason != ReasonNotScheduled {
		t.Errorf("IsAvailable=false row should read as not scheduled, got %+v", got)
	}
}

func TestCheck_OutsideWorkingHours(t *testing.T) {
	src := newMockScheduleSource()
	id := uuid.New()
	src.hours[id] = weekdayTemplate()

	eval := NewEvaluator(src)
	got, _ := eval.Check(context.Background(), id, monday(8, 59))
	if got.Available {
		t.Fatal("expected unavailable before shift start")
	}
	if got.Reason != "Outside working hours" {
		t.Errorf("unexpected reason: %q", got.Reason)
	}
}

func TestCheck_WindowBoundsInclusive(t *testing.T) {
	src := newMockScheduleSource()
	id := uuid.New()
	src.hours[id] = weekdayTemplate()

	eval := NewEvaluator(src)
	for _, at := range []time.Time{monday(9, 0), monday(17, 0)} {
		got, _ := eval.Check(context.Background(), id, at)
		if !got.Available {
			t.Errorf("%s should be inside the 09:00-17:00 window, got reason %q",
				ClockString(at), got.Reason)
		}
	}
}

func TestCheck_TimeOffDefaultReason(t *testing.T) {
	src := newMockScheduleSource()
	id := uuid.New()
	src.hours[id] = weekdayTemplate()
	src.timeOff[id] = []TimeOffEntry{
		{StartDate: monday(0, 0), EndDate: monday(23, 59), IsAllDay: true},
	}

	eval := NewEvaluator(src)
	got, _ := eval.Check(context.Background(), id, monday(10, 0))
	if got.Available {
		t.Fatal("expected unavailable during time off")
	}
	if got.Reason != "Time off" {
		t.Errorf("expected default reason, got %q", got.Reason)
	}
}

func TestCheck_TimeOffCustomReason(t *testing.T) {
	src := newMockScheduleSource()
	id := uuid.New()
	src.hours[id] = weekdayTemplate()
	reason := "Annual leave"
	src.timeOff[id] = []TimeOffEntry{
		{StartDate: monday(0, 0), EndDate: monday(23, 59), Reason: &reason},
	}

	eval := NewEvaluator(src)
	got, _ := eval.Check(context.Background(), id, monday(10, 0))
	if got.Reason != "Annual leave" {
		t.Errorf("expected stored reason, got %q", got.Reason)
	}
}

func TestCheck_TimeOffOutsideInterval(t *testing.T) {
	src := newMockScheduleSource()
	id := uuid.New()
	src.hours[id] = weekdayTemplate()
	src.timeOff[id] = []TimeOffEntry{
		{StartDate: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
			EndDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)},
	}

	eval := NewEvaluator(src)
	got, _ := eval.Check(context.Background(), id, monday(10, 0))
	if !got.Available {
		t.Errorf("time off on other days should not block Monday, got reason %q", got.Reason)
	}
}

func TestCheck_ScheduledTakesPrecedenceOverTimeOff(t *testing.T) {
	// Time off only matters once the weekday template allows the booking.
	src := newMockScheduleSource()
	id := uuid.New()
	src.hours[id] = weekdayTemplate()
	reason := "Conference"
	src.timeOff[id] = []TimeOffEntry{
		{StartDate: monday(0, 0), EndDate: monday(23, 59), Reason: &reason},
	}

	eval := NewEvaluator(src)
	got, _ := eval.Check(context.Background(), id, monday(7, 0))
	if got.Reason != ReasonOutsideHours {
		t.Errorf("outside-hours should win over time off, got %q", got.Reason)
	}
}
