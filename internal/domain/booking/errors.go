package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotTaken rejects a booking whose exact start time is already
	// occupied for the branch or optician.
	ErrSlotTaken = errors.New("Time slot is already booked")
	// ErrNotFound is returned when the targeted appointment does not exist.
	ErrNotFound = errors.New("appointment not found")
)

// OpticianUnavailableError is returned when the selected optician cannot
// take the requested time, with the evaluator's reason attached.
type OpticianUnavailableError struct {
	Reason string
}

func (e *OpticianUnavailableError) Error() string {
	return fmt.Sprintf("Optician is not available at the selected time: %s", e.Reason)
}

// ValidationError marks input the caller can correct; handlers map it to a
// 400 rather than a 500.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalidInput(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
