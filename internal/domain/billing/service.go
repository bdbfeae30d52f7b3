package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/appointment"
	"github.com/clinic/clinic/internal/domain/visibility"
	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
)

type Service struct {
	repo  Repository
	appts appointment.Repository
}

func NewService(repo Repository, appts appointment.Repository) *Service {
	return &Service{repo: repo, appts: appts}
}

// Create issues an invoice for an appointment. Admin only. An invoice
// created with status paid gets paid_at stamped immediately; there is no
// way to mark it paid later.
func (s *Service) Create(ctx context.Context, ident auth.Identity, inv *Invoice) (*Invoice, error) {
	if ident.Role != auth.RoleAdmin {
		return nil, apperr.Forbidden("Only admins can create invoices.")
	}

	if inv.AppointmentID == uuid.Nil {
		return nil, apperr.Validation("appointment is required")
	}
	if inv.Amount < 0 {
		return nil, apperr.Validation("amount must not be negative")
	}
	if inv.Status == "" {
		inv.Status = StatusPending
	}
	if !ValidStatus(inv.Status) {
		return nil, apperr.Validation(fmt.Sprintf("invalid status: %s", inv.Status))
	}

	if _, err := s.appts.GetVisible(ctx, inv.AppointmentID, visibility.Scope{Kind: visibility.All}); err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.Validation("appointment not found")
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if inv.Status == StatusPaid {
		now := time.Now().UTC()
		inv.PaidAt = &now
	} else {
		inv.PaidAt = nil
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Validation("An invoice already exists for this appointment.")
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return inv, nil
}

// List returns the invoices whose appointment the caller may see.
func (s *Service) List(ctx context.Context, ident auth.Identity, limit, offset int) ([]*Invoice, int, error) {
	return s.repo.List(ctx, visibility.ForIdentity(ident), limit, offset)
}
