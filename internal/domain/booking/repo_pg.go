package booking

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `id, patient_name, patient_email, patient_phone, branch_id, service_id,
	optician_id, scheduled_at, status, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientName, &a.PatientEmail, &a.PatientPhone, &a.BranchID,
		&a.ServiceID, &a.OpticianID, &a.ScheduledAt, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, patient_name, patient_email, patient_phone, branch_id,
			service_id, optician_id, scheduled_at, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.PatientName, a.PatientEmail, a.PatientPhone, a.BranchID,
		a.ServiceID, a.OpticianID, a.ScheduledAt, a.Status, a.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// filterClause renders the filter's conditions starting at argument index 1.
func filterClause(f Filter) (string, []interface{}) {
	clause := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if !f.From.IsZero() {
		clause += fmt.Sprintf(` AND scheduled_at >= $%d`, idx)
		args = append(args, f.From)
		idx++
	}
	if !f.To.IsZero() {
		clause += fmt.Sprintf(` AND scheduled_at <= $%d`, idx)
		args = append(args, f.To)
		idx++
	}
	if f.OpticianID != nil {
		clause += fmt.Sprintf(` AND optician_id = $%d`, idx)
		args = append(args, *f.OpticianID)
		idx++
	}
	if f.BranchID != nil {
		clause += fmt.Sprintf(` AND branch_id = $%d`, idx)
		args = append(args, *f.BranchID)
		idx++
	}
	if len(f.Statuses) > 0 {
		clause += fmt.Sprintf(` AND status = ANY($%d)`, idx)
		args = append(args, f.Statuses)
		idx++
	}
	return clause, args
}

func (r *repoPG) List(ctx context.Context, f Filter) ([]*Appointment, error) {
	clause, args := filterClause(f)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` FROM appointment`+clause+` ORDER BY scheduled_at ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) ScheduledTimes(ctx context.Context, f Filter) ([]time.Time, error) {
	clause, args := filterClause(f)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT scheduled_at FROM appointment`+clause+` ORDER BY scheduled_at ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (r *repoPG) FindConflict(ctx context.Context, scheduledAt time.Time, branchID uuid.UUID, opticianID, excludeID *uuid.UUID) (*Appointment, error) {
	query := `SELECT ` + apptCols + ` FROM appointment
		WHERE scheduled_at = $1 AND status = ANY($2)`
	args := []interface{}{scheduledAt, OccupyingStatuses}
	idx := 3

	if opticianID != nil {
		query += fmt.Sprintf(` AND (branch_id = $%d OR optician_id = $%d)`, idx, idx+1)
		args = append(args, branchID, *opticianID)
		idx += 2
	} else {
		query += fmt.Sprintf(` AND branch_id = $%d`, idx)
		args = append(args, branchID)
		idx++
	}
	if excludeID != nil {
		query += fmt.Sprintf(` AND id <> $%d`, idx)
		args = append(args, *excludeID)
	}
	query += ` LIMIT 1`

	a, err := scanAppointment(r.conn(ctx).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET patient_name=$2, patient_email=$3, patient_phone=$4,
			optician_id=$5, scheduled_at=$6, status=$7, notes=$8, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientName, a.PatientEmail, a.PatientPhone,
		a.OpticianID, a.ScheduledAt, a.Status, a.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
