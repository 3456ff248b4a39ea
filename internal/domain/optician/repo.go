package optician

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines storage operations for opticians. Lookups return
// (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, o *Optician) error
	GetByID(ctx context.Context, id uuid.UUID) (*Optician, error)
	GetByEmail(ctx context.Context, email string) (*Optician, error)
	List(ctx context.Context, f Filter) ([]*Optician, error)
	Update(ctx context.Context, o *Optician) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// WorkingHoursRepository defines storage operations for weekday templates.
type WorkingHoursRepository interface {
	ListByOptician(ctx context.Context, opticianID uuid.UUID) ([]*WorkingHours, error)
	GetByDay(ctx context.Context, opticianID uuid.UUID, dayOfWeek int) (*WorkingHours, error)
	Create(ctx context.Context, wh *WorkingHours) error
	Update(ctx context.Context, wh *WorkingHours) error
	// DeleteByOptician removes the row for dayOfWeek, or every row when
	// dayOfWeek is nil. Returns the number of rows removed.
	DeleteByOptician(ctx context.Context, opticianID uuid.UUID, dayOfWeek *int) (int64, error)
	// ReplaceAll atomically swaps an optician's whole template for entries.
	ReplaceAll(ctx context.Context, opticianID uuid.UUID, entries []*WorkingHours) error
}

// TimeOffRepository defines storage operations for time-off intervals.
type TimeOffRepository interface {
	ListByOptician(ctx context.Context, opticianID uuid.UUID) ([]*TimeOff, error)
	ListBetween(ctx context.Context, opticianID uuid.UUID, start, end time.Time) ([]*TimeOff, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TimeOff, error)
	// FindOverlapping returns the first existing interval for the optician
	// that shares at least one instant with [start, end], skipping excludeID
	// when non-nil. Returns (nil, nil) when there is no overlap.
	FindOverlapping(ctx context.Context, opticianID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*TimeOff, error)
	Create(ctx context.Context, to *TimeOff) error
	Update(ctx context.Context, to *TimeOff) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AppointmentFinder looks up the occupying appointments (pending or
// confirmed) whose start time falls inside a window. Satisfied by the
// booking repository through an adapter wired in cmd/booking-server.
type AppointmentFinder interface {
	OccupiedBetween(ctx context.Context, opticianID uuid.UUID, start, end time.Time) ([]AppointmentRef, error)
}
