package prescription

import (
	"context"
	"fmt"

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

// Create writes a prescription for an appointment. Admins may write for
// any appointment; doctors only for their own. The existence pre-check is
// a friendly-error fast path: the unique constraint on appointment_id is
// what actually serializes concurrent attempts, and its violation surfaces
// as the same validation failure.
func (s *Service) Create(ctx context.Context, ident auth.Identity, p *Prescription) (*Prescription, error) {
	switch ident.Role {
	case auth.RoleAdmin, auth.RoleDoctor:
	default:
		return nil, apperr.Forbidden("Only doctors can write prescriptions.")
	}

	if p.AppointmentID == uuid.Nil {
		return nil, apperr.Validation("appointment is required")
	}

	target, err := s.appts.GetVisible(ctx, p.AppointmentID, visibility.Scope{Kind: visibility.All})
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.Validation("appointment not found")
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if ident.Role == auth.RoleDoctor && target.DoctorID != ident.ProfileID {
		return nil, apperr.Forbidden("You can only write prescriptions for your own appointments.")
	}

	exists, err := s.repo.ExistsForAppointment(ctx, p.AppointmentID)
	if err != nil {
		return nil, fmt.Errorf("check existing prescription: %w", err)
	}
	if exists {
		return nil, apperr.Validation("A prescription already exists for this appointment.")
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Validation("A prescription already exists for this appointment.")
		}
		return nil, fmt.Errorf("create prescription: %w", err)
	}
	return p, nil
}

// List returns the prescriptions whose appointment the caller may see.
func (s *Service) List(ctx context.Context, ident auth.Identity, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.List(ctx, visibility.ForIdentity(ident), limit, offset)
}
