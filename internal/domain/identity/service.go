package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
)

// placeholderDOB is stored when a patient registers without supplying a
// date of birth. Known data-quality gap: patients are expected to update
// it from their profile.
var placeholderDOB = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

// defaultSpecialization is stored for self-registered doctors until an
// administrator assigns the real one.
const defaultSpecialization = "general"

type Service struct {
	accounts AccountRepository
	doctors  DoctorRepository
	patients PatientRepository
}

func NewService(accounts AccountRepository, doctors DoctorRepository, patients PatientRepository) *Service {
	return &Service{accounts: accounts, doctors: doctors, patients: patients}
}

// RegisterRequest is the open registration payload. Role defaults to
// patient when unspecified.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates the account and, for doctor or patient roles, the role
// profile in the same transaction. The doctor profile starts with a zero
// consultation fee (an administrator must update it later); the patient
// profile starts with a placeholder date of birth.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	if req.Username == "" {
		return nil, apperr.Validation("username is required")
	}
	if req.Email == "" {
		return nil, apperr.Validation("email is required")
	}
	if req.Password == "" {
		return nil, apperr.Validation("password is required")
	}

	role := req.Role
	if role == "" {
		role = auth.RolePatient
	}
	switch role {
	case auth.RoleAdmin, auth.RoleDoctor, auth.RolePatient:
	default:
		return nil, apperr.Validation(fmt.Sprintf("invalid role: %s", role))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	a := &Account{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         role,
	}

	var d *Doctor
	var p *Patient
	switch role {
	case auth.RoleDoctor:
		d = &Doctor{
			Specialization:  defaultSpecialization,
			ConsultationFee: 0,
			IsAvailable:     true,
		}
	case auth.RolePatient:
		p = &Patient{DateOfBirth: placeholderDOB}
	}

	if err := s.accounts.Register(ctx, a, d, p); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Validation("username or email already taken")
		}
		return nil, fmt.Errorf("register account: %w", err)
	}
	return a, nil
}

// Authenticate verifies credentials and resolves the caller's identity,
// including the role profile id that the visibility rules key on.
func (s *Service) Authenticate(ctx context.Context, username, password string) (auth.Identity, error) {
	a, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if db.IsNoRows(err) {
			return auth.Identity{}, apperr.AuthRequired("invalid username or password")
		}
		return auth.Identity{}, fmt.Errorf("authenticate: %w", err)
	}
	if !auth.CheckPassword(a.PasswordHash, password) {
		return auth.Identity{}, apperr.AuthRequired("invalid username or password")
	}
	return s.identityFor(ctx, a)
}

func (s *Service) identityFor(ctx context.Context, a *Account) (auth.Identity, error) {
	id := auth.Identity{AccountID: a.ID, Role: a.Role}
	switch a.Role {
	case auth.RoleDoctor:
		d, err := s.doctors.GetByAccountID(ctx, a.ID)
		if err != nil {
			return auth.Identity{}, fmt.Errorf("resolve doctor profile: %w", err)
		}
		id.ProfileID = d.ID
	case auth.RolePatient:
		p, err := s.patients.GetByAccountID(ctx, a.ID)
		if err != nil {
			return auth.Identity{}, fmt.Errorf("resolve patient profile: %w", err)
		}
		id.ProfileID = p.ID
	}
	return id, nil
}

// Me returns the caller's own account.
func (s *Service) Me(ctx context.Context, ident auth.Identity) (*Account, error) {
	a, err := s.accounts.GetByID(ctx, ident.AccountID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound("account not found")
		}
		return nil, fmt.Errorf("me: %w", err)
	}
	return a, nil
}

// ListDoctors applies the directory visibility rule: admins and doctors
// see every doctor, patients only the available ones, anything else
// nothing.
func (s *Service) ListDoctors(ctx context.Context, ident auth.Identity, limit, offset int) ([]*Doctor, int, error) {
	switch ident.Role {
	case auth.RoleAdmin, auth.RoleDoctor:
		return s.doctors.List(ctx, false, limit, offset)
	case auth.RolePatient:
		return s.doctors.List(ctx, true, limit, offset)
	default:
		return []*Doctor{}, 0, nil
	}
}

// ListPatients is restricted to admin and doctor callers; patients have no
// endpoint to enumerate other patients.
func (s *Service) ListPatients(ctx context.Context, ident auth.Identity, limit, offset int) ([]*Patient, int, error) {
	switch ident.Role {
	case auth.RoleAdmin, auth.RoleDoctor:
		return s.patients.List(ctx, limit, offset)
	default:
		return nil, 0, apperr.Forbidden("You do not have permission to perform this action.")
	}
}
