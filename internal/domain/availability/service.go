package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SlotQuery selects the availability of one branch/service/date, optionally
// narrowed to a single optician.
type SlotQuery struct {
	BranchID   uuid.UUID
	ServiceID  uuid.UUID
	Date       time.Time
	OpticianID *uuid.UUID
}

// DayAvailability is one day of a range report.
type DayAvailability struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"availableSlots"`
	IsAvailable    bool     `json:"isAvailable"`
}

// Service aggregates branch operating hours, generated slots, booked
// appointments, and per-optician schedules into bookable slot lists.
type Service struct {
	catalog      CatalogSource
	appointments AppointmentSource
	eval         *Evaluator
}

func NewService(catalog CatalogSource, appointments AppointmentSource, eval *Evaluator) *Service {
	return &Service{catalog: catalog, appointments: appointments, eval: eval}
}

// Evaluator exposes the underlying optician evaluator for callers that need
// a single-point check.
func (s *Service) Evaluator() *Evaluator {
	return s.eval
}

// AvailableSlots returns the bookable slot start times for the query date in
// chronological order.
//
// Booked appointments knock out candidates by exact start-time equality, not
// interval overlap: slots are generated at fixed increments of the service
// duration, so two occupying appointments from the same flow always collide
// on the start instant. Appointments booked at misaligned offsets (a
// different service's grid) are not caught here; the write path re-checks
// at creation.
func (s *Service) AvailableSlots(ctx context.Context, q SlotQuery) ([]time.Time, error) {
	svc, err := s.catalog.ServiceByID(ctx, q.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}

	branch, err := s.catalog.BranchByID(ctx, q.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, ErrBranchNotFound
	}

	window := ResolveOperatingHours(branch.OperatingHours)
	slots := GenerateSlots(q.Date, window, svc.Duration)
	if len(slots) == 0 {
		return nil, nil
	}

	dayStart, dayEnd := DayBounds(q.Date)
	filter := SlotFilter{
		From:     dayStart,
		To:       dayEnd,
		Statuses: OccupyingStatuses(),
	}
	if q.OpticianID != nil {
		filter.OpticianID = q.OpticianID
	} else {
		branchID := q.BranchID
		filter.BranchID = &branchID
	}

	booked, err := s.appointments.ScheduledTimes(ctx, filter)
	if err != nil {
		return nil, err
	}
	taken := make(map[int64]bool, len(booked))
	for _, t := range booked {
		taken[t.Unix()] = true
	}

	var free []time.Time
	for _, slot := range slots {
		if taken[slot.Unix()] {
			continue
		}
		if q.OpticianID != nil {
			avail, err := s.eval.Check(ctx, *q.OpticianID, slot)
			if err != nil {
				return nil, err
			}
			if !avail.Available {
				continue
			}
		}
		free = append(free, slot)
	}
	return free, nil
}

// RangeReport computes per-day availability for each date in [start, end]
// inclusive.
func (s *Service) RangeReport(ctx context.Context, branchID, serviceID uuid.UUID, start, end time.Time, opticianID *uuid.UUID) ([]DayAvailability, error) {
	var report []DayAvailability
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		slots, err := s.AvailableSlots(ctx, SlotQuery{
			BranchID:   branchID,
			ServiceID:  serviceID,
			Date:       d,
			OpticianID: opticianID,
		})
		if err != nil {
			return nil, err
		}

		day := DayAvailability{
			Date:           d.Format("2006-01-02"),
			AvailableSlots: make([]string, 0, len(slots)),
			IsAvailable:    len(slots) > 0,
		}
		for _, slot := range slots {
			day.AvailableSlots = append(day.AvailableSlots, slot.Format(time.RFC3339))
		}
		report = append(report, day)
	}
	return report, nil
}
