package optician

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/fredtinotenda3/LinkOpticians/internal/domain/availability"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Service struct {
	opticians    Repository
	hours        WorkingHoursRepository
	timeOff      TimeOffRepository
	appointments AppointmentFinder
}

func NewService(opticians Repository, hours WorkingHoursRepository, timeOff TimeOffRepository, appointments AppointmentFinder) *Service {
	return &Service{opticians: opticians, hours: hours, timeOff: timeOff, appointments: appointments}
}

// -- Optician --

func (s *Service) validateOptician(o *Optician) error {
	if o.Name == "" {
		return fmt.Errorf("name is required")
	}
	if o.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(o.Email) {
		return fmt.Errorf("invalid email format")
	}
	if o.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	if o.BranchID == uuid.Nil {
		return fmt.Errorf("branch_id is required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, o *Optician) error {
	if err := s.validateOptician(o); err != nil {
		return err
	}
	return s.opticians.Create(ctx, o)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Optician, error) {
	return s.opticians.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Optician, error) {
	return s.opticians.GetByEmail(ctx, email)
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Optician, error) {
	return s.opticians.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, o *Optician) error {
	if err := s.validateOptician(o); err != nil {
		return err
	}
	return s.opticians.Update(ctx, o)
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Optician, error) {
	o, err := s.opticians.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}
	o.IsActive = active
	if err := s.opticians.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.opticians.Delete(ctx, id)
}

// -- Working Hours --

func validateWeekday(day int) error {
	if day < 0 || day > 6 {
		return fmt.Errorf("day_of_week must be between 0 (Sunday) and 6 (Saturday), got %d", day)
	}
	return nil
}

func validateClockTimes(start, end string) error {
	if _, _, err := availability.ParseTimeOfDay(start); err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	if _, _, err := availability.ParseTimeOfDay(end); err != nil {
		return fmt.Errorf("end_time: %w", err)
	}
	return nil
}

func (s *Service) ListWorkingHours(ctx context.Context, opticianID uuid.UUID) ([]*WorkingHours, error) {
	return s.hours.ListByOptician(ctx, opticianID)
}

// CreateWorkingHours adds one weekday row. A row already present for that
// weekday is a conflict; the whole-week path is ReplaceWorkingHours.
func (s *Service) CreateWorkingHours(ctx context.Context, wh *WorkingHours) error {
	if wh.OpticianID == uuid.Nil {
		return fmt.Errorf("optician_id is required")
	}
	if err := validateWeekday(wh.DayOfWeek); err != nil {
		return err
	}
	if err := validateClockTimes(wh.StartTime, wh.EndTime); err != nil {
		return err
	}

	existing, err := s.hours.GetByDay(ctx, wh.OpticianID, wh.DayOfWeek)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateDay
	}
	return s.hours.Create(ctx, wh)
}

// ReplaceWorkingHours swaps an optician's whole weekly template.
func (s *Service) ReplaceWorkingHours(ctx context.Context, opticianID uuid.UUID, entries []*WorkingHours) error {
	seen := make(map[int]bool, len(entries))
	for _, wh := range entries {
		if err := validateWeekday(wh.DayOfWeek); err != nil {
			return err
		}
		if err := validateClockTimes(wh.StartTime, wh.EndTime); err != nil {
			return err
		}
		if seen[wh.DayOfWeek] {
			return fmt.Errorf("duplicate day_of_week %d in entries", wh.DayOfWeek)
		}
		seen[wh.DayOfWeek] = true
	}
	return s.hours.ReplaceAll(ctx, opticianID, entries)
}

func (s *Service) UpdateWorkingHours(ctx context.Context, wh *WorkingHours) error {
	if err := validateWeekday(wh.DayOfWeek); err != nil {
		return err
	}
	if err := validateClockTimes(wh.StartTime, wh.EndTime); err != nil {
		return err
	}
	return s.hours.Update(ctx, wh)
}

func (s *Service) DeleteWorkingHours(ctx context.Context, opticianID uuid.UUID, dayOfWeek *int) (int64, error) {
	if dayOfWeek != nil {
		if err := validateWeekday(*dayOfWeek); err != nil {
			return 0, err
		}
	}
	return s.hours.DeleteByOptician(ctx, opticianID, dayOfWeek)
}

// -- Time Off --

func (s *Service) ListTimeOff(ctx context.Context, opticianID uuid.UUID) ([]*TimeOff, error) {
	return s.timeOff.ListByOptician(ctx, opticianID)
}

// checkTimeOffWindow runs the shared validation for creating or updating a
// time-off interval: range sanity, overlap against other intervals, and
// occupying appointments inside the window.
func (s *Service) checkTimeOffWindow(ctx context.Context, to *TimeOff, excludeID *uuid.UUID) error {
	if to.EndDate.Before(to.StartDate) {
		return ErrEndBeforeStart
	}

	overlap, err := s.timeOff.FindOverlapping(ctx, to.OpticianID, to.StartDate, to.EndDate, excludeID)
	if err != nil {
		return err
	}
	if overlap != nil {
		return &OverlappingTimeOffError{Existing: overlap}
	}

	conflicts, err := s.appointments.OccupiedBetween(ctx, to.OpticianID, to.StartDate, to.EndDate)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &ConflictingAppointmentsError{Appointments: conflicts}
	}
	return nil
}

func (s *Service) CreateTimeOff(ctx context.Context, to *TimeOff) error {
	if to.OpticianID == uuid.Nil {
		return fmt.Errorf("optician_id is required")
	}
	if err := s.checkTimeOffWindow(ctx, to, nil); err != nil {
		return err
	}
	return s.timeOff.Create(ctx, to)
}

func (s *Service) UpdateTimeOff(ctx context.Context, to *TimeOff) error {
	current, err := s.timeOff.GetByID(ctx, to.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	to.OpticianID = current.OpticianID
	if err := s.checkTimeOffWindow(ctx, to, &to.ID); err != nil {
		return err
	}
	return s.timeOff.Update(ctx, to)
}

func (s *Service) DeleteTimeOff(ctx context.Context, id uuid.UUID) error {
	return s.timeOff.Delete(ctx, id)
}
