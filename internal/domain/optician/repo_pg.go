package optician

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fredtinotenda3/LinkOpticians/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Optician Repository ===========

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const opticianCols = `id, name, email, phone, specialty, is_active, branch_id, created_at, updated_at`

func scanOptician(row pgx.Row) (*Optician, error) {
	var o Optician
	err := row.Scan(&o.ID, &o.Name, &o.Email, &o.Phone, &o.Specialty,
		&o.IsActive, &o.BranchID, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *repoPG) Create(ctx context.Context, o *Optician) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO optician (id, name, email, phone, specialty, is_active, branch_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		o.ID, o.Name, o.Email, o.Phone, o.Specialty, o.IsActive, o.BranchID)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Optician, error) {
	o, err := scanOptician(r.conn(ctx).QueryRow(ctx, `SELECT `+opticianCols+` FROM optician WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Optician, error) {
	o, err := scanOptician(r.conn(ctx).QueryRow(ctx, `SELECT `+opticianCols+` FROM optician WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repoPG) List(ctx context.Context, f Filter) ([]*Optician, error) {
	query := `SELECT ` + opticianCols + ` FROM optician WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.ActiveOnly {
		query += ` AND is_active = TRUE`
	}
	if f.BranchID != nil {
		query += fmt.Sprintf(` AND branch_id = $%d`, idx)
		args = append(args, *f.BranchID)
		idx++
	}
	query += ` ORDER BY name ASC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Optician
	for rows.Next() {
		o, err := scanOptician(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, o *Optician) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE optician SET name=$2, email=$3, phone=$4, specialty=$5, is_active=$6, branch_id=$7, updated_at=NOW()
		WHERE id = $1`,
		o.ID, o.Name, o.Email, o.Phone, o.Specialty, o.IsActive, o.BranchID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM optician WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// =========== Working Hours Repository ===========

type workingHoursRepoPG struct{ pool *pgxpool.Pool }

func NewWorkingHoursRepoPG(pool *pgxpool.Pool) WorkingHoursRepository {
	return &workingHoursRepoPG{pool: pool}
}

func (r *workingHoursRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const workingHoursCols = `id, optician_id, day_of_week, start_time, end_time, is_available, created_at, updated_at`

func scanWorkingHours(row pgx.Row) (*WorkingHours, error) {
	var wh WorkingHours
	err := row.Scan(&wh.ID, &wh.OpticianID, &wh.DayOfWeek, &wh.StartTime, &wh.EndTime,
		&wh.IsAvailable, &wh.CreatedAt, &wh.UpdatedAt)
	return &wh, err
}

func (r *workingHoursRepoPG) ListByOptician(ctx context.Context, opticianID uuid.UUID) ([]*WorkingHours, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+workingHoursCols+` FROM optician_working_hours WHERE optician_id = $1 ORDER BY day_of_week ASC`,
		opticianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*WorkingHours
	for rows.Next() {
		wh, err := scanWorkingHours(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, wh)
	}
	return items, rows.Err()
}

func (r *workingHoursRepoPG) GetByDay(ctx context.Context, opticianID uuid.UUID, dayOfWeek int) (*WorkingHours, error) {
	wh, err := scanWorkingHours(r.conn(ctx).QueryRow(ctx,
		`SELECT `+workingHoursCols+` FROM optician_working_hours WHERE optician_id = $1 AND day_of_week = $2`,
		opticianID, dayOfWeek))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return wh, nil
}

func (r *workingHoursRepoPG) Create(ctx context.Context, wh *WorkingHours) error {
	if wh.ID == uuid.Nil {
		wh.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO optician_working_hours (id, optician_id, day_of_week, start_time, end_time, is_available)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		wh.ID, wh.OpticianID, wh.DayOfWeek, wh.StartTime, wh.EndTime, wh.IsAvailable)
	return err
}

func (r *workingHoursRepoPG) Update(ctx context.Context, wh *WorkingHours) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE optician_working_hours SET start_time=$3, end_time=$4, is_available=$5, updated_at=NOW()
		WHERE optician_id = $1 AND day_of_week = $2`,
		wh.OpticianID, wh.DayOfWeek, wh.StartTime, wh.EndTime, wh.IsAvailable)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *workingHoursRepoPG) DeleteByOptician(ctx context.Context, opticianID uuid.UUID, dayOfWeek *int) (int64, error) {
	if dayOfWeek != nil {
		tag, err := r.conn(ctx).Exec(ctx,
			`DELETE FROM optician_working_hours WHERE optician_id = $1 AND day_of_week = $2`,
			opticianID, *dayOfWeek)
		return tag.RowsAffected(), err
	}
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM optician_working_hours WHERE optician_id = $1`, opticianID)
	return tag.RowsAffected(), err
}

func (r *workingHoursRepoPG) ReplaceAll(ctx context.Context, opticianID uuid.UUID, entries []*WorkingHours) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		if _, err := r.conn(ctx).Exec(ctx,
			`DELETE FROM optician_working_hours WHERE optician_id = $1`, opticianID); err != nil {
			return err
		}
		for _, wh := range entries {
			wh.OpticianID = opticianID
			if err := r.Create(ctx, wh); err != nil {
				return err
			}
		}
		return nil
	})
}

// =========== Time Off Repository ===========

type timeOffRepoPG struct{ pool *pgxpool.Pool }

func NewTimeOffRepoPG(pool *pgxpool.Pool) TimeOffRepository { return &timeOffRepoPG{pool: pool} }

func (r *timeOffRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const timeOffCols = `id, optician_id, start_date, end_date, reason, is_all_day, created_at, updated_at`

func scanTimeOff(row pgx.Row) (*TimeOff, error) {
	var to TimeOff
	err := row.Scan(&to.ID, &to.OpticianID, &to.StartDate, &to.EndDate, &to.Reason,
		&to.IsAllDay, &to.CreatedAt, &to.UpdatedAt)
	return &to, err
}

func (r *timeOffRepoPG) ListByOptician(ctx context.Context, opticianID uuid.UUID) ([]*TimeOff, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+timeOffCols+` FROM optician_time_off WHERE optician_id = $1 ORDER BY start_date ASC`,
		opticianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTimeOff(rows)
}

func (r *timeOffRepoPG) ListBetween(ctx context.Context, opticianID uuid.UUID, start, end time.Time) ([]*TimeOff, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+timeOffCols+` FROM optician_time_off
		 WHERE optician_id = $1 AND start_date <= $3 AND end_date >= $2
		 ORDER BY start_date ASC`,
		opticianID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTimeOff(rows)
}

func collectTimeOff(rows pgx.Rows) ([]*TimeOff, error) {
	var items []*TimeOff
	for rows.Next() {
		to, err := scanTimeOff(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, to)
	}
	return items, rows.Err()
}

func (r *timeOffRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*TimeOff, error) {
	to, err := scanTimeOff(r.conn(ctx).QueryRow(ctx,
		`SELECT `+timeOffCols+` FROM optician_time_off WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return to, nil
}

func (r *timeOffRepoPG) FindOverlapping(ctx context.Context, opticianID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*TimeOff, error) {
	query := `SELECT ` + timeOffCols + ` FROM optician_time_off
		WHERE optician_id = $1 AND start_date <= $3 AND end_date >= $2`
	args := []interface{}{opticianID, start, end}
	if excludeID != nil {
		query += ` AND id <> $4`
		args = append(args, *excludeID)
	}
	query += ` ORDER BY start_date ASC LIMIT 1`

	to, err := scanTimeOff(r.conn(ctx).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return to, nil
}

func (r *timeOffRepoPG) Create(ctx context.Context, to *TimeOff) error {
	if to.ID == uuid.Nil {
		to.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO optician_time_off (id, optician_id, start_date, end_date, reason, is_all_day)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		to.ID, to.OpticianID, to.StartDate, to.EndDate, to.Reason, to.IsAllDay)
	return err
}

func (r *timeOffRepoPG) Update(ctx context.Context, to *TimeOff) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE optician_time_off SET start_date=$2, end_date=$3, reason=$4, is_all_day=$5, updated_at=NOW()
		WHERE id = $1`,
		to.ID, to.StartDate, to.EndDate, to.Reason, to.IsAllDay)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *timeOffRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM optician_time_off WHERE id = $1`, id)
	return err
}
