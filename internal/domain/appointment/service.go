package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/visibility"
	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create books an appointment. Patients may only book for themselves: any
// client-supplied patient id is silently overwritten with the caller's own
// profile. Admins book for any patient and must name both parties. All
// other roles are denied.
func (s *Service) Create(ctx context.Context, ident auth.Identity, a *Appointment) (*Appointment, error) {
	switch ident.Role {
	case auth.RolePatient:
		a.PatientID = ident.ProfileID
	case auth.RoleAdmin:
		if a.PatientID == uuid.Nil {
			return nil, apperr.Validation("patient is required")
		}
	default:
		return nil, apperr.Forbidden("Only patients or admins can book appointments.")
	}

	if a.DoctorID == uuid.Nil {
		return nil, apperr.Validation("doctor is required")
	}
	if a.AppointmentDate.IsZero() {
		return nil, apperr.Validation("appointment_date is required")
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if !ValidStatus(a.Status) {
		return nil, apperr.Validation(fmt.Sprintf("invalid status: %s", a.Status))
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return a, nil
}

// List returns the appointments visible to the caller.
func (s *Service) List(ctx context.Context, ident auth.Identity, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, visibility.ForIdentity(ident), limit, offset)
}

// Get returns one appointment if the caller may see it; a hidden record
// reads as not found.
func (s *Service) Get(ctx context.Context, ident auth.Identity, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetVisible(ctx, id, visibility.ForIdentity(ident))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound("appointment not found")
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// Update applies a partial update to a visible appointment. Visibility is
// the only gate: any caller who can read the record may change any field.
func (s *Service) Update(ctx context.Context, ident auth.Identity, id uuid.UUID, req UpdateRequest) (*Appointment, error) {
	a, err := s.Get(ctx, ident, id)
	if err != nil {
		return nil, err
	}

	if req.DoctorID != nil {
		a.DoctorID = *req.DoctorID
	}
	if req.PatientID != nil {
		a.PatientID = *req.PatientID
	}
	if req.AppointmentDate != nil {
		a.AppointmentDate = *req.AppointmentDate
	}
	if req.Status != nil {
		if !ValidStatus(*req.Status) {
			return nil, apperr.Validation(fmt.Sprintf("invalid status: %s", *req.Status))
		}
		a.Status = *req.Status
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	return a, nil
}
