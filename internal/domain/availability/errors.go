package availability

import "errors"

var (
	// ErrServiceNotFound is returned when the requested service id does not exist.
	ErrServiceNotFound = errors.New("Service not found")
	// ErrBranchNotFound is returned when the requested branch id does not exist.
	ErrBranchNotFound = errors.New("Branch not found")
	// ErrInvalidTimeFormat is returned for time-of-day strings that are not
	// zero-padded 24-hour HH:MM.
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")
)
