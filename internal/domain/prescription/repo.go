package prescription

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/visibility"
)

type Repository interface {
	// Create persists the prescription. The unique constraint on
	// appointment_id is the real race barrier; callers translate its
	// violation into the same validation failure as the pre-check.
	Create(ctx context.Context, p *Prescription) error
	List(ctx context.Context, scope visibility.Scope, limit, offset int) ([]*Prescription, int, error)
	ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error)
}
