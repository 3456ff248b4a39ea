package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines storage operations for appointments. Lookups return
// (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, f Filter) ([]*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ScheduledTimes returns only the start times of appointments matching
	// the filter; the availability read path needs nothing more.
	ScheduledTimes(ctx context.Context, f Filter) ([]time.Time, error)

	// FindConflict returns an occupying appointment at exactly scheduledAt
	// that shares the branch, or the optician when one is given. excludeID
	// skips the appointment being rescheduled. Returns (nil, nil) when the
	// slot is free.
	FindConflict(ctx context.Context, scheduledAt time.Time, branchID uuid.UUID, opticianID, excludeID *uuid.UUID) (*Appointment, error)
}

// TxRunner executes fn atomically; repositories called with the ctx fn
// receives join the same transaction. Wired to the pgx pool in
// cmd/booking-server, a pass-through in tests.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error
