package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Unavailability reasons surfaced to callers verbatim.
const (
	ReasonNotScheduled = "Not scheduled to work on this day"
	ReasonOutsideHours = "Outside working hours"
	ReasonTimeOff      = "Time off"
)

// Availability is the outcome of checking one optician at one date-time.
type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Evaluator decides whether an optician can take an appointment at a specific
// date-time, from their weekday template and time-off intervals.
type Evaluator struct {
	schedules ScheduleSource
}

func NewEvaluator(schedules ScheduleSource) *Evaluator {
	return &Evaluator{schedules: schedules}
}

// Check evaluates one optician at one date-time. The weekday template is
// consulted first: a missing row or IsAvailable=false means the optician is
// not scheduled that day. The clock-time window check compares only "HH:MM"
// strings; the weekday lookup has already pinned the calendar day, so date
// does not participate again. Time-off is checked last so its reason wins
// only when the template would otherwise allow the booking.
func (e *Evaluator) Check(ctx context.Context, opticianID uuid.UUID, at time.Time) (Availability, error) {
	dayOfWeek := int(at.Weekday())

	entries, err := e.schedules.WorkingHours(ctx, opticianID)
	if err != nil {
		return Availability{}, err
	}

	var entry *WorkingHoursEntry
	for i := range entries {
		if entries[i].DayOfWeek == dayOfWeek {
			entry = &entries[i]
			break
		}
	}
	if entry == nil || !entry.IsAvailable {
		return Availability{Available: false, Reason: ReasonNotScheduled}, nil
	}

	if !ClockInWindow(ClockString(at), entry.StartTime, entry.EndTime) {
		return Availability{Available: false, Reason: ReasonOutsideHours}, nil
	}

	offs, err := e.schedules.TimeOffBetween(ctx, opticianID, at, at)
	if err != nil {
		return Availability{}, err
	}
	for i := range offs {
		if Contains(offs[i].StartDate, offs[i].EndDate, at) {
			reason := ReasonTimeOff
			if offs[i].Reason != nil && *offs[i].Reason != "" {
				reason = *offs[i].Reason
			}
			return Availability{Available: false, Reason: reason}, nil
		}
	}

	return Availability{Available: true}, nil
}
