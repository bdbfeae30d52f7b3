package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/visibility"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	// GetVisible returns the appointment only when the scope covers it;
	// a hidden record is indistinguishable from an absent one.
	GetVisible(ctx context.Context, id uuid.UUID, scope visibility.Scope) (*Appointment, error)
	List(ctx context.Context, scope visibility.Scope, limit, offset int) ([]*Appointment, int, error)
	Update(ctx context.Context, a *Appointment) error
}
