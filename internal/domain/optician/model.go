package optician

import (
	"time"

	"github.com/google/uuid"
)

// Optician maps to the optician table.
type Optician struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Specialty *string   `db:"specialty" json:"specialty,omitempty"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	BranchID  uuid.UUID `db:"branch_id" json:"branchId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// WorkingHours maps to the optician_working_hours table: one row per
// (optician, weekday), enforced unique by the schema. DayOfWeek runs
// 0 (Sunday) through 6 (Saturday); times are "HH:MM" 24-hour strings.
type WorkingHours struct {
	ID          uuid.UUID `db:"id" json:"id"`
	OpticianID  uuid.UUID `db:"optician_id" json:"opticianId"`
	DayOfWeek   int       `db:"day_of_week" json:"dayOfWeek"`
	StartTime   string    `db:"start_time" json:"startTime"`
	EndTime     string    `db:"end_time" json:"endTime"`
	IsAvailable bool      `db:"is_available" json:"isAvailable"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// TimeOff maps to the optician_time_off table. Bounds are inclusive.
type TimeOff struct {
	ID         uuid.UUID `db:"id" json:"id"`
	OpticianID uuid.UUID `db:"optician_id" json:"opticianId"`
	StartDate  time.Time `db:"start_date" json:"startDate"`
	EndDate    time.Time `db:"end_date" json:"endDate"`
	Reason     *string   `db:"reason" json:"reason,omitempty"`
	IsAllDay   bool      `db:"is_all_day" json:"isAllDay"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// AppointmentRef is the slice of an appointment surfaced in time-off
// conflict reports.
type AppointmentRef struct {
	ID           uuid.UUID `json:"id"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	PatientName  string    `json:"patientName"`
	PatientPhone string    `json:"patientPhone"`
}

// Filter selects opticians for listing.
type Filter struct {
	BranchID   *uuid.UUID
	ActiveOnly bool
}

// BulkError records a single failed item of a bulk operation. Index refers
// to the item's position in the request; ID is set instead when the item
// carried an identifier.
type BulkError struct {
	Index *int   `json:"index,omitempty"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

// BulkResult aggregates the outcome of a sequential bulk operation. A
// failure on one item never aborts the others; Success is true only when
// every item succeeded.
type BulkResult struct {
	Success   bool        `json:"success"`
	Processed int         `json:"processed"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Errors    []BulkError `json:"errors"`
	Data      interface{} `json:"data,omitempty"`
}

// ImportError records one rejected import row.
type ImportError struct {
	Row   int                    `json:"row"`
	Error string                 `json:"error"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// ImportResult aggregates the outcome of an optician import.
type ImportResult struct {
	Total   int           `json:"total"`
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Errors  []ImportError `json:"errors"`
}
