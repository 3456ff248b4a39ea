package optician

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEndBeforeStart rejects time-off windows whose end precedes their start.
	ErrEndBeforeStart = errors.New("End date cannot be before start date")
	// ErrDuplicateDay rejects a second working-hours row for the same weekday.
	ErrDuplicateDay = errors.New("Working hours already exist for this day")
	// ErrNotFound is returned when the targeted record does not exist.
	ErrNotFound = errors.New("record not found")
)

// OverlappingTimeOffError is returned when a new or updated time-off window
// overlaps an existing one for the same optician.
type OverlappingTimeOffError struct {
	Existing *TimeOff
}

func (e *OverlappingTimeOffError) Error() string {
	return fmt.Sprintf("Time off period overlaps with existing time off from %s to %s",
		e.Existing.StartDate.Format(time.RFC3339), e.Existing.EndDate.Format(time.RFC3339))
}

// ConflictingAppointmentsError is returned when a time-off window would
// cover pending or confirmed appointments.
type ConflictingAppointmentsError struct {
	Appointments []AppointmentRef
}

func (e *ConflictingAppointmentsError) Error() string {
	return fmt.Sprintf("Cannot create time off: %d appointment(s) are scheduled during this period", len(e.Appointments))
}
