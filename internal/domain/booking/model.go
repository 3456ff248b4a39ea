package booking

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Only pending and confirmed occupy a slot; the
// others never block new bookings or time off.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusConfirmed: true, StatusCompleted: true,
	StatusCancelled: true, StatusNoShow: true,
}

// OccupyingStatuses are the statuses that block a slot.
var OccupyingStatuses = []string{StatusPending, StatusConfirmed}

// Appointment maps to the appointment table. ScheduledAt is the slot start.
type Appointment struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientName  string     `db:"patient_name" json:"patientName"`
	PatientEmail *string    `db:"patient_email" json:"patientEmail,omitempty"`
	PatientPhone string     `db:"patient_phone" json:"patientPhone"`
	BranchID     uuid.UUID  `db:"branch_id" json:"branchId"`
	ServiceID    uuid.UUID  `db:"service_id" json:"serviceId"`
	OpticianID   *uuid.UUID `db:"optician_id" json:"opticianId,omitempty"`
	ScheduledAt  time.Time  `db:"scheduled_at" json:"scheduledAt"`
	Status       string     `db:"status" json:"status"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// Filter selects appointments by time window, status set, and branch or
// optician scope. Nil and empty fields are not applied.
type Filter struct {
	BranchID   *uuid.UUID
	OpticianID *uuid.UUID
	From       time.Time
	To         time.Time
	Statuses   []string
}

// Patch is a partial appointment update; nil fields are left unchanged.
type Patch struct {
	PatientName  *string    `json:"patientName"`
	PatientEmail *string    `json:"patientEmail"`
	PatientPhone *string    `json:"patientPhone"`
	OpticianID   *uuid.UUID `json:"opticianId"`
	ScheduledAt  *time.Time `json:"scheduledAt"`
	Status       *string    `json:"status"`
	Notes        *string    `json:"notes"`
}
