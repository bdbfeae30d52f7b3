package billing

import (
	"context"

	"github.com/clinic/clinic/internal/domain/visibility"
)

type Repository interface {
	// Create persists the invoice. The unique constraint on
	// appointment_id enforces the one-invoice-per-appointment rule.
	Create(ctx context.Context, inv *Invoice) error
	List(ctx context.Context, scope visibility.Scope, limit, offset int) ([]*Invoice, int, error)
}
