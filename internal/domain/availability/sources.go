package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// The engine reads branches, services, optician schedules and appointments
// through the narrow interfaces below. Adapters over the concrete
// repositories are wired in cmd/booking-server.

// ServiceInfo is the slice of a service the engine consumes.
type ServiceInfo struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Duration int       `json:"duration"`
}

// BranchInfo is the slice of a branch the engine consumes.
type BranchInfo struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	OperatingHours string    `json:"operatingHours"`
}

// CatalogSource resolves services and branches by id. Implementations
// return (nil, nil) when the id does not exist.
type CatalogSource interface {
	ServiceByID(ctx context.Context, id uuid.UUID) (*ServiceInfo, error)
	BranchByID(ctx context.Context, id uuid.UUID) (*BranchInfo, error)
}

// WorkingHoursEntry is one weekday row of an optician's recurring template.
// DayOfWeek runs 0 (Sunday) through 6 (Saturday); times are "HH:MM".
type WorkingHoursEntry struct {
	DayOfWeek   int    `json:"dayOfWeek"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

// TimeOffEntry is one absolute unavailability interval, bounds inclusive.
type TimeOffEntry struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Reason    *string   `json:"reason,omitempty"`
	IsAllDay  bool      `json:"isAllDay"`
}

// ScheduleSource exposes an optician's working-hours template and time-off
// intervals.
type ScheduleSource interface {
	WorkingHours(ctx context.Context, opticianID uuid.UUID) ([]WorkingHoursEntry, error)
	TimeOffBetween(ctx context.Context, opticianID uuid.UUID, start, end time.Time) ([]TimeOffEntry, error)
}

// SlotFilter selects appointments by day window, occupying-status set, and
// branch or optician scope. Exactly one of BranchID/OpticianID is set for an
// availability query: the optician when the caller asked for a specific one,
// the branch otherwise.
type SlotFilter struct {
	BranchID   *uuid.UUID
	OpticianID *uuid.UUID
	From       time.Time
	To         time.Time
	Statuses   []string
}

// AppointmentSource returns the scheduled start times of appointments
// matching the filter.
type AppointmentSource interface {
	ScheduledTimes(ctx context.Context, f SlotFilter) ([]time.Time, error)
}

// OpticianInfo is the slice of an optician the range report surfaces.
type OpticianInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// OpticianDirectory resolves opticians by id. Implementations return
// (nil, nil) when the id does not exist.
type OpticianDirectory interface {
	OpticianByID(ctx context.Context, id uuid.UUID) (*OpticianInfo, error)
}

// OccupyingStatuses are the appointment statuses that block a slot.
func OccupyingStatuses() []string {
	return []string{"pending", "confirmed"}
}
