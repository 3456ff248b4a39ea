package optician

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Bulk operations process each item sequentially and independently: one
// failed item is recorded and the rest continue.

func (s *Service) BulkCreate(ctx context.Context, items []*Optician) *BulkResult {
	result := &BulkResult{Errors: []BulkError{}}
	var created []*Optician

	for i, o := range items {
		result.Processed++
		if err := s.Create(ctx, o); err != nil {
			idx := i
			result.Failed++
			result.Errors = append(result.Errors, BulkError{Index: &idx, Error: err.Error()})
			continue
		}
		result.Succeeded++
		created = append(created, o)
	}

	result.Success = result.Failed == 0
	result.Data = created
	return result
}

func (s *Service) BulkUpdate(ctx context.Context, items []*Optician) *BulkResult {
	result := &BulkResult{Errors: []BulkError{}}
	var updated []*Optician

	for _, o := range items {
		result.Processed++
		if o.ID == uuid.Nil {
			result.Failed++
			result.Errors = append(result.Errors, BulkError{Error: "id is required"})
			continue
		}
		if err := s.Update(ctx, o); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BulkError{ID: o.ID.String(), Error: err.Error()})
			continue
		}
		result.Succeeded++
		updated = append(updated, o)
	}

	result.Success = result.Failed == 0
	result.Data = updated
	return result
}

func (s *Service) BulkSetActive(ctx context.Context, ids []uuid.UUID, active bool) *BulkResult {
	result := &BulkResult{Errors: []BulkError{}}
	var updated []*Optician

	for _, id := range ids {
		result.Processed++
		o, err := s.SetActive(ctx, id, active)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BulkError{ID: id.String(), Error: err.Error()})
			continue
		}
		result.Succeeded++
		updated = append(updated, o)
	}

	result.Success = result.Failed == 0
	result.Data = updated
	return result
}

// BulkReplaceWorkingHours applies the same weekly template to several
// opticians, replacing whatever each had before.
func (s *Service) BulkReplaceWorkingHours(ctx context.Context, opticianIDs []uuid.UUID, template []*WorkingHours) *BulkResult {
	result := &BulkResult{Errors: []BulkError{}}

	for _, id := range opticianIDs {
		result.Processed++

		entries := make([]*WorkingHours, 0, len(template))
		for _, wh := range template {
			entries = append(entries, &WorkingHours{
				OpticianID:  id,
				DayOfWeek:   wh.DayOfWeek,
				StartTime:   wh.StartTime,
				EndTime:     wh.EndTime,
				IsAvailable: wh.IsAvailable,
			})
		}

		if err := s.ReplaceWorkingHours(ctx, id, entries); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BulkError{ID: id.String(), Error: err.Error()})
			continue
		}
		result.Succeeded++
	}

	result.Success = result.Failed == 0
	return result
}

// BulkCreateTimeOff books the same time-off window for several opticians.
// Each optician is checked for occupying appointments inside the window;
// overlap against that optician's other time-off entries is not checked on
// this path, matching the single-entry admin flow it batches.
func (s *Service) BulkCreateTimeOff(ctx context.Context, opticianIDs []uuid.UUID, start, end time.Time, reason *string, isAllDay bool) *BulkResult {
	result := &BulkResult{Errors: []BulkError{}}
	var created []*TimeOff

	if end.Before(start) {
		for range opticianIDs {
			result.Processed++
			result.Failed++
		}
		result.Errors = append(result.Errors, BulkError{Error: ErrEndBeforeStart.Error()})
		return result
	}

	for _, id := range opticianIDs {
		result.Processed++

		o, err := s.opticians.GetByID(ctx, id)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BulkError{ID: id.String(), Error: err.Error()})
			continue
		}
		if o == nil {
			result.Failed++
			result.Errors = append(result.Errors, BulkError{ID: id.String(), Error: ErrNotFound.Error()})
			continue
		}

		conflicts, err := s.appointments.OccupiedBetween(ctx, id, start, end)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BulkError{ID: id.String(), Error: err.Error()})
			continue
		}
		if len(conflicts) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, BulkError{
				ID:    id.String(),
				Error: (&ConflictingAppointmentsError{Appointments: conflicts}).Error(),
			})
			continue
		}

		to := &TimeOff{
			OpticianID: id,
			StartDate:  start,
			EndDate:    end,
			Reason:     reason,
			IsAllDay:   isAllDay,
		}
		if err := s.timeOff.Create(ctx, to); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BulkError{ID: id.String(), Error: err.Error()})
			continue
		}
		result.Succeeded++
		created = append(created, to)
	}

	result.Success = result.Failed == 0
	result.Data = created
	return result
}
