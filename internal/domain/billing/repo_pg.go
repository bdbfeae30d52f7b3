package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/domain/visibility"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const invCols = `iv.id, iv.appointment_id, iv.amount, iv.status, iv.issued_at, iv.paid_at,
	TRIM(da.first_name || ' ' || da.last_name), TRIM(pa.first_name || ' ' || pa.last_name), ap.appointment_date`

// Visibility is transitive through the owning appointment; the account
// joins feed the derived name fields.
const invFrom = ` FROM invoice iv
	JOIN appointment ap ON ap.id = iv.appointment_id
	JOIN doctor_profile d ON d.id = ap.doctor_id
	JOIN account da ON da.id = d.account_id
	JOIN patient_profile p ON p.id = ap.patient_id
	JOIN account pa ON pa.id = p.account_id`

func (r *repoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO invoice (id, appointment_id, amount, status, paid_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING issued_at`,
		inv.ID, inv.AppointmentID, inv.Amount, inv.Status, inv.PaidAt,
	).Scan(&inv.IssuedAt)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, scope visibility.Scope, limit, offset int) ([]*Invoice, int, error) {
	if scope.IsNone() {
		return []*Invoice{}, 0, nil
	}

	where := ""
	var args []any
	if clause, newArgs := visibility.Clause(scope, "ap", nil); clause != "" {
		where = ` WHERE` + clause
		args = newArgs
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+invFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+invCols+invFrom+where+
			fmt.Sprintf(` ORDER BY iv.issued_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*Invoice
	for rows.Next() {
		inv := &Invoice{}
		err := rows.Scan(&inv.ID, &inv.AppointmentID, &inv.Amount, &inv.Status, &inv.IssuedAt, &inv.PaidAt,
			&inv.DoctorName, &inv.PatientName, &inv.AppointmentDate)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, total, rows.Err()
}
