package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fredtinotenda3/LinkOpticians/internal/domain/availability"
)

// Service owns appointment lifecycle. Every write that could collide with a
// concurrent booking runs inside runTx so the conflict check and the insert
// commit together.
type Service struct {
	repo  Repository
	eval  *availability.Evaluator
	runTx TxRunner
}

func NewService(repo Repository, eval *availability.Evaluator, runTx TxRunner) *Service {
	if runTx == nil {
		runTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &Service{repo: repo, eval: eval, runTx: runTx}
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientName == "" {
		return invalidInput("patient_name is required")
	}
	if a.PatientPhone == "" {
		return invalidInput("patient_phone is required")
	}
	if a.BranchID == uuid.Nil {
		return invalidInput("branch_id is required")
	}
	if a.ServiceID == uuid.Nil {
		return invalidInput("service_id is required")
	}
	if a.ScheduledAt.IsZero() {
		return invalidInput("scheduled_at is required")
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if !validStatuses[a.Status] {
		return invalidInput("invalid status: %s", a.Status)
	}

	return s.runTx(ctx, func(ctx context.Context) error {
		if err := s.checkSlot(ctx, a.ScheduledAt, a.BranchID, a.OpticianID, nil); err != nil {
			return err
		}
		return s.repo.Create(ctx, a)
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Appointment, error) {
	if f.From.IsZero() || f.To.IsZero() {
		return nil, invalidInput("start and end dates are required")
	}
	return s.repo.List(ctx, f)
}

// Update applies the patch and reports whether the status changed, so the
// caller can decide about notifying the patient.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (*Appointment, bool, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}

	prevStatus := a.Status
	reschedule := false

	if p.PatientName != nil {
		a.PatientName = *p.PatientName
	}
	if p.PatientEmail != nil {
		a.PatientEmail = p.PatientEmail
	}
	if p.PatientPhone != nil {
		a.PatientPhone = *p.PatientPhone
	}
	if p.OpticianID != nil {
		a.OpticianID = p.OpticianID
		reschedule = true
	}
	if p.ScheduledAt != nil {
		a.ScheduledAt = *p.ScheduledAt
		reschedule = true
	}
	if p.Status != nil {
		if !validStatuses[*p.Status] {
			return nil, false, invalidInput("invalid status: %s", *p.Status)
		}
		a.Status = *p.Status
	}
	if p.Notes != nil {
		a.Notes = p.Notes
	}

	err = s.runTx(ctx, func(ctx context.Context) error {
		if reschedule {
			if err := s.checkSlot(ctx, a.ScheduledAt, a.BranchID, a.OpticianID, &a.ID); err != nil {
				return err
			}
		}
		return s.repo.Update(ctx, a)
	})
	if err != nil {
		return nil, false, err
	}
	return a, a.Status != prevStatus, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return a, nil
}

// checkSlot enforces the two booking rules: the exact start time must be
// free for the branch (and optician, if one is assigned), and an assigned
// optician must actually be available then.
func (s *Service) checkSlot(ctx context.Context, at time.Time, branchID uuid.UUID, opticianID, excludeID *uuid.UUID) error {
	conflict, err := s.repo.FindConflict(ctx, at, branchID, opticianID, excludeID)
	if err != nil {
		return err
	}
	if conflict != nil {
		return ErrSlotTaken
	}
	if opticianID != nil && s.eval != nil {
		avail, err := s.eval.Check(ctx, *opticianID, at)
		if err != nil {
			return err
		}
		if !avail.Available {
			return &OpticianUnavailableError{Reason: avail.Reason}
		}
	}
	return nil
}
