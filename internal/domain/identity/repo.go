package identity

import (
	"context"

	"github.com/google/uuid"
)

type AccountRepository interface {
	// Register inserts the account and its role profile (either may be
	// nil) in a single transaction, so an account never exists without
	// the profile its role requires.
	Register(ctx context.Context, a *Account, d *Doctor, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
}

type DoctorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Doctor, error)
	// List returns doctors with account fields joined in; onlyAvailable
	// restricts to is_available = true.
	List(ctx context.Context, onlyAvailable bool, limit, offset int) ([]*Doctor, int, error)
}

type PatientRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}
