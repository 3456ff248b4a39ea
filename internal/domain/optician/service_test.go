package optician

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fredtinotenda3/LinkOpticians/internal/domain/availability"
)

// -- Mock Repositories --

type mockRepo struct {
	opticians map[uuid.UUID]*Optician
}

func newMockRepo() *mockRepo {
	return &mockRepo{opticians: make(map[uuid.UUID]*Optician)}
}

func (m *mockRepo) Create(_ context.Context, o *Optician) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
	m.opticians[o.ID] = o
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Optician, error) {
	return m.opticians[id], nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*Optician, error) {
	for _, o := range m.opticians {
		if strings.EqualFold(o.Email, email) {
			return o, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) List(_ context.Context, f Filter) ([]*Optician, error) {
	var result []*Optician
	for _, o := range m.opticians {
		if f.BranchID != nil && o.BranchID != *f.BranchID {
			continue
		}
		if f.ActiveOnly && !o.IsActive {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

func (m *mockRepo) Update(_ context.Context, o *Optician) error {
	if _, ok := m.opticians[o.ID]; !ok {
		return ErrNotFound
	}
	m.opticians[o.ID] = o
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.opticians[id]; !ok {
		return ErrNotFound
	}
	delete(m.opticians, id)
	return nil
}

type mockHoursRepo struct {
	rows map[uuid.UUID]*WorkingHours
}

func newMockHoursRepo() *mockHoursRepo {
	return &mockHoursRepo{rows: make(map[uuid.UUID]*WorkingHours)}
}

func (m *mockHoursRepo) ListByOptician(_ context.Context, opticianID uuid.UUID) ([]*WorkingHours, error) {
	var result []*WorkingHours
	for _, wh := range m.rows {
		if wh.OpticianID == opticianID {
			result = append(result, wh)
		}
	}
	return result, nil
}

func (m *mockHoursRepo) GetByDay(_ context.Context, opticianID uuid.UUID, dayOfWeek int) (*WorkingHours, error) {
	for _, wh := range m.rows {
		if wh.OpticianID == opticianID && wh.DayOfWeek == dayOfWeek {
			return wh, nil
		}
	}
	return nil, nil
}

func (m *mockHoursRepo) Create(_ context.Context, wh *WorkingHours) error {
	wh.ID = uuid.New()
	m.rows[wh.ID] = wh
	return nil
}

func (m *mockHoursRepo) Update(_ context.Context, wh *WorkingHours) error {
	if _, ok := m.rows[wh.ID]; !ok {
		return ErrNotFound
	}
	m.rows[wh.ID] = wh
	return nil
}

func (m *mockHoursRepo) DeleteByOptician(_ context.Context, opticianID uuid.UUID, dayOfWeek *int) (int64, error) {
	var removed int64
	for id, wh := range m.rows {
		if wh.OpticianID != opticianID {
			continue
		}
		if dayOfWeek != nil && wh.DayOfWeek != *dayOfWeek {
			continue
		}
		delete(m.rows, id)
		removed++
	}
	return removed, nil
}

func (m *mockHoursRepo) ReplaceAll(ctx context.Context, opticianID uuid.UUID, entries []*WorkingHours) error {
	if _, err := m.DeleteByOptician(ctx, opticianID, nil); err != nil {
		return err
	}
	for _, wh := range entries {
		wh.OpticianID = opticianID
		if err := m.Create(ctx, wh); err != nil {
			return err
		}
	}
	return nil
}

type mockTimeOffRepo struct {
	rows map[uuid.UUID]*TimeOff
}

func newMockTimeOffRepo() *mockTimeOffRepo {
	return &mockTimeOffRepo{rows: make(map[uuid.UUID]*TimeOff)}
}

func (m *mockTimeOffRepo) ListByOptician(_ context.Context, opticianID uuid.UUID) ([]*TimeOff, error) {
	var result []*TimeOff
	for _, to := range m.rows {
		if to.OpticianID == opticianID {
			result = append(result, to)
		}
	}
	return result, nil
}

func (m *mockTimeOffRepo) ListBetween(_ context.Context, opticianID uuid.UUID, start, end time.Time) ([]*TimeOff, error) {
	var result []*TimeOff
	for _, to := range m.rows {
		if to.OpticianID == opticianID && availability.IntervalsOverlap(to.StartDate, to.EndDate, start, end) {
			result = append(result, to)
		}
	}
	return result, nil
}

func (m *mockTimeOffRepo) GetByID(_ context.Context, id uuid.UUID) (*TimeOff, error) {
	return m.rows[id], nil
}

func (m *mockTimeOffRepo) FindOverlapping(_ context.Context, opticianID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*TimeOff, error) {
	for _, to := range m.rows {
		if to.OpticianID != opticianID {
			continue
		}
		if excludeID != nil && to.ID == *excludeID {
			continue
		}
		if availability.IntervalsOverlap(to.StartDate, to.EndDate, start, end) {
			return to, nil
		}
	}
	return nil, nil
}

func (m *mockTimeOffRepo) Create(_ context.Context, to *TimeOff) error {
	to.ID = uuid.New()
	m.rows[to.ID] = to
	return nil
}

func (m *mockTimeOffRepo) Update(_ context.Context, to *TimeOff) error {
	if _, ok := m.rows[to.ID]; !ok {
		return ErrNotFound
	}
	m.rows[to.ID] = to
	return nil
}

func (m *mockTimeOffRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type mockAppointmentFinder struct {
	appointments []AppointmentRef
}

func (m *mockAppointmentFinder) OccupiedBetween(_ context.Context, _ uuid.UUID, start, end time.Time) ([]AppointmentRef, error) {
	var result []AppointmentRef
	for _, a := range m.appointments {
		if !a.ScheduledAt.Before(start) && !a.ScheduledAt.After(end) {
			result = append(result, a)
		}
	}
	return result, nil
}

func newTestService() (*Service, *mockAppointmentFinder) {
	finder := &mockAppointmentFinder{}
	svc := NewService(newMockRepo(), newMockHoursRepo(), newMockTimeOffRepo(), finder)
	return svc, finder
}

func validOptician() *Optician {
	return &Optician{
		Name:     "Dr. Tendai Moyo",
		Email:    "tendai.moyo@linkopticians.co.zw",
		Phone:    "+263 77 123 4567",
		BranchID: uuid.New(),
		IsActive: true,
	}
}

// -- Optician CRUD --

func TestCreateOptician(t *testing.T) {
	svc, _ := newTestService()
	o := validOptician()
	if err := svc.Create(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ID == uuid.Nil {
		t.Error("expected assigned ID")
	}
}

func TestCreateOptician_Validation(t *testing.T) {
	svc, _ := newTestService()
	cases := []struct {
		name   string
		mutate func(*Optician)
	}{
		{"missing name", func(o *Optician) { o.Name = "" }},
		{"missing email", func(o *Optician) { o.Email = "" }},
		{"bad email", func(o *Optician) { o.Email = "not-an-email" }},
		{"missing phone", func(o *Optician) { o.Phone = "" }},
		{"missing branch", func(o *Optician) { o.BranchID = uuid.Nil }},
	}
	for _, c := range cases {
		o := validOptician()
		c.mutate(o)
		if err := svc.Create(context.Background(), o); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestSetActive(t *testing.T) {
	svc, _ := newTestService()
	o := validOptician()
	svc.Create(context.Background(), o)

	updated, err := svc.SetActive(context.Background(), o.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.IsActive {
		t.Error("expected optician deactivated")
	}
}

func TestUpdateOptician_NotFound(t *testing.T) {
	svc, _ := newTestService()
	o := validOptician()
	o.ID = uuid.New()
	if err := svc.Update(context.Background(), o); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetActive_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.SetActive(context.Background(), uuid.New(), false)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// -- Working Hours --

func TestCreateWorkingHours(t *testing.T) {
	svc, _ := newTestService()
	wh := &WorkingHours{
		OpticianID:  uuid.New(),
		DayOfWeek:   1,
		StartTime:   "09:00",
		EndTime:     "17:00",
		IsAvailable: true,
	}
	if err := svc.CreateWorkingHours(context.Background(), wh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateWorkingHours_DuplicateDay(t *testing.T) {
	svc, _ := newTestService()
	opticianID := uuid.New()
	first := &WorkingHours{OpticianID: opticianID, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"}
	if err := svc.CreateWorkingHours(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := &WorkingHours{OpticianID: opticianID, DayOfWeek: 1, StartTime: "10:00", EndTime: "15:00"}
	if err := svc.CreateWorkingHours(context.Background(), second); !errors.Is(err, ErrDuplicateDay) {
		t.Errorf("expected ErrDuplicateDay, got %v", err)
	}
}

func TestCreateWorkingHours_InvalidInput(t *testing.T) {
	svc, _ := newTestService()
	cases := []*WorkingHours{
		{OpticianID: uuid.New(), DayOfWeek: 7, StartTime: "09:00", EndTime: "17:00"},
		{OpticianID: uuid.New(), DayOfWeek: -1, StartTime: "09:00", EndTime: "17:00"},
		{OpticianID: uuid.New(), DayOfWeek: 1, StartTime: "25:00", EndTime: "17:00"},
		{OpticianID: uuid.New(), DayOfWeek: 1, StartTime: "09:00", EndTime: "17:60"},
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
	}
	for i, wh := range cases {
		if err := svc.CreateWorkingHours(context.Background(), wh); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestReplaceWorkingHours(t *testing.T) {
	svc, _ := newTestService()
	opticianID := uuid.New()
	svc.CreateWorkingHours(context.Background(), &WorkingHours{
		OpticianID: opticianID, DayOfWeek: 0, StartTime: "08:00", EndTime: "12:00",
	})

	entries := []*WorkingHours{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
		{DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
	}
	if err := svc.ReplaceWorkingHours(context.Background(), opticianID, entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hours, _ := svc.ListWorkingHours(context.Background(), opticianID)
	if len(hours) != 2 {
		t.Errorf("expected template fully replaced with 2 rows, got %d", len(hours))
	}
}

func TestReplaceWorkingHours_DuplicateDayInPayload(t *testing.T) {
	svc, _ := newTestService()
	entries := []*WorkingHours{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
		{DayOfWeek: 1, StartTime: "10:00", EndTime: "16:00"},
	}
	if err := svc.ReplaceWorkingHours(context.Background(), uuid.New(), entries); err == nil {
		t.Error("expected error for duplicate weekday in payload")
	}
}

func TestDeleteWorkingHours_SingleDay(t *testing.T) {
	svc, _ := newTestService()
	opticianID := uuid.New()
	for day := 1; day <= 3; day++ {
		svc.CreateWorkingHours(context.Background(), &WorkingHours{
			OpticianID: opticianID, DayOfWeek: day, StartTime: "09:00", EndTime: "17:00",
		})
	}

	day := 2
	removed, err := svc.DeleteWorkingHours(context.Background(), opticianID, &day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 row removed, got %d", removed)
	}

	removed, _ = svc.DeleteWorkingHours(context.Background(), opticianID, nil)
	if removed != 2 {
		t.Errorf("expected remaining 2 rows removed, got %d", removed)
	}
}

// -- Time Off --

func mar(day int) time.Time {
	return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)
}

func TestCreateTimeOff(t *testing.T) {
	svc, _ := newTestService()
	to := &TimeOff{OpticianID: uuid.New(), StartDate: mar(10), EndDate: mar(12), IsAllDay: true}
	if err := svc.CreateTimeOff(context.Background(), to); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateTimeOff_EndBeforeStart(t *testing.T) {
	svc, _ := newTestService()
	to := &TimeOff{OpticianID: uuid.New(), StartDate: mar(12), EndDate: mar(10)}
	if err := svc.CreateTimeOff(context.Background(), to); !errors.Is(err, ErrEndBeforeStart) {
		t.Errorf("expected ErrEndBeforeStart, got %v", err)
	}
}

func TestCreateTimeOff_OverlapRejected(t *testing.T) {
	svc, _ := newTestService()
	opticianID := uuid.New()
	svc.CreateTimeOff(context.Background(), &TimeOff{OpticianID: opticianID, StartDate: mar(10), EndDate: mar(12)})

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"starts inside", mar(11), mar(14)},
		{"ends inside", mar(8), mar(11)},
		{"spans existing", mar(8), mar(14)},
		{"inside existing", mar(11), mar(11)},
		{"touches start bound", mar(8), mar(10)},
		{"touches end bound", mar(12), mar(14)},
	}
	for _, c := range cases {
		to := &TimeOff{OpticianID: opticianID, StartDate: c.start, EndDate: c.end}
		err := svc.CreateTimeOff(context.Background(), to)
		var overlap *OverlappingTimeOffError
		if !errors.As(err, &overlap) {
			t.Errorf("%s: expected overlap error, got %v", c.name, err)
		}
	}
}

func TestCreateTimeOff_AdjacentAllowed(t *testing.T) {
	svc, _ := newTestService()
	opticianID := uuid.New()
	svc.CreateTimeOff(context.Background(), &TimeOff{OpticianID: opticianID, StartDate: mar(10), EndDate: mar(12)})

	// Bounds are inclusive: the next free day is the 13th.
	to := &TimeOff{OpticianID: opticianID, StartDate: mar(13), EndDate: mar(15)}
	if err := svc.CreateTimeOff(context.Background(), to); err != nil {
		t.Errorf("disjoint window should be accepted, got %v", err)
	}
}

func TestCreateTimeOff_ConflictingAppointments(t *testing.T) {
	svc, finder := newTestService()
	opticianID := uuid.New()
	finder.appointments = []AppointmentRef{
		{ID: uuid.New(), ScheduledAt: mar(11), PatientName: "Rudo Dube", PatientPhone: "+263 77 555 1234"},
	}

	to := &TimeOff{OpticianID: opticianID, StartDate: mar(10), EndDate: mar(12)}
	err := svc.CreateTimeOff(context.Background(), to)
	var conflict *ConflictingAppointmentsError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflicting appointments error, got %v", err)
	}
	if len(conflict.Appointments) != 1 || conflict.Appointments[0].PatientName != "Rudo Dube" {
		t.Errorf("conflict should carry the blocking appointments, got %+v", conflict.Appointments)
	}
}

func TestUpdateTimeOff_ExcludesOwnInterval(t *testing.T) {
	svc, _ := newTestService()
	opticianID := uuid.New()
	to := &TimeOff{OpticianID: opticianID, StartDate: mar(10), EndDate: mar(12)}
	svc.CreateTimeOff(context.Background(), to)

	// Extending the same interval must not collide with itself.
	to.EndDate = mar(13)
	if err := svc.UpdateTimeOff(context.Background(), to); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpdateTimeOff_NotFound(t *testing.T) {
	svc, _ := newTestService()
	to := &TimeOff{ID: uuid.New(), StartDate: mar(10), EndDate: mar(12)}
	if err := svc.UpdateTimeOff(context.Background(), to); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTimeOff_KeepsOwner(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()
	to := &TimeOff{OpticianID: owner, StartDate: mar(10), EndDate: mar(12)}
	svc.CreateTimeOff(context.Background(), to)

	patch := &TimeOff{ID: to.ID, OpticianID: uuid.New(), StartDate: mar(10), EndDate: mar(12)}
	if err := svc.UpdateTimeOff(context.Background(), patch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patch.OpticianID != owner {
		t.Error("update should not reassign the interval to another optician")
	}
}
