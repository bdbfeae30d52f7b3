package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/domain/visibility"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const apptCols = `ap.id, ap.doctor_id, ap.patient_id, ap.appointment_date, ap.status, ap.notes, ap.created_at,
	TRIM(da.first_name || ' ' || da.last_name), TRIM(pa.first_name || ' ' || pa.last_name)`

const apptFrom = ` FROM appointment ap
	JOIN doctor_profile d ON d.id = ap.doctor_id
	JOIN account da ON da.id = d.account_id
	JOIN patient_profile p ON p.id = ap.patient_id
	JOIN account pa ON pa.id = p.account_id`

func scanAppointment(row interface{ Scan(...any) error }) (*Appointment, error) {
	a := &Appointment{}
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.AppointmentDate, &a.Status, &a.Notes, &a.CreatedAt,
		&a.DoctorName, &a.PatientName)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointment (id, doctor_id, patient_id, appointment_date, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		a.ID, a.DoctorID, a.PatientID, a.AppointmentDate, a.Status, a.Notes,
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *repoPG) GetVisible(ctx context.Context, id uuid.UUID, scope visibility.Scope) (*Appointment, error) {
	if scope.IsNone() {
		return nil, pgx.ErrNoRows
	}

	args := []any{id}
	where := ` WHERE ap.id = $1`
	if clause, newArgs := visibility.Clause(scope, "ap", args); clause != "" {
		where += ` AND` + clause
		args = newArgs
	}

	return scanAppointment(r.pool.QueryRow(ctx, `SELECT `+apptCols+apptFrom+where, args...))
}

func (r *repoPG) List(ctx context.Context, scope visibility.Scope, limit, offset int) ([]*Appointment, int, error) {
	if scope.IsNone() {
		return []*Appointment{}, 0, nil
	}

	where := ""
	var args []any
	if clause, newArgs := visibility.Clause(scope, "ap", nil); clause != "" {
		where = ` WHERE` + clause
		args = newArgs
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+apptFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+apptCols+apptFrom+where+
			fmt.Sprintf(` ORDER BY ap.appointment_date DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var appts []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, a)
	}
	return appts, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE appointment
		SET doctor_id=$2, patient_id=$3, appointment_date=$4, status=$5, notes=$6
		WHERE id=$1`,
		a.ID, a.DoctorID, a.PatientID, a.AppointmentDate, a.Status, a.Notes)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}
