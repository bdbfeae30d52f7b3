package prescription

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

const rxCols = `pr.id, pr.appointment_id, pr.diagnosis, pr.medicines, pr.instructions, pr.created_at`

// Visibility is transitive through the owning appointment.
const rxFrom = ` FROM prescription pr
	JOIN appointment ap ON ap.id = pr.appointment_id`

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO prescription (id, appointment_id, diagnosis, medicines, instructions)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		p.ID, p.AppointmentID, p.Diagnosis, p.Medicines, p.Instructions,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, scope visibility.Scope, limit, offset int) ([]*Prescription, int, error) {
	if scope.IsNone() {
		return []*Prescription{}, 0, nil
	}

	where := ""
	var args []any
	if clause, newArgs := visibility.Clause(scope, "ap", nil); clause != "" {
		where = ` WHERE` + clause
		args = newArgs
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+rxFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count prescriptions: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+rxCols+rxFrom+where+
			fmt.Sprintf(` ORDER BY pr.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()

	var out []*Prescription
	for rows.Next() {
		p := &Prescription{}
		if err := rows.Scan(&p.ID, &p.AppointmentID, &p.Diagnosis, &p.Medicines, &p.Instructions, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan prescription: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repoPG) ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM prescription WHERE appointment_id = $1)`,
		appointmentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check prescription exists: %w", err)
	}
	return exists, nil
}
