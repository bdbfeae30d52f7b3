package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
)

// -- Mock Repositories --

type mockAccountRepo struct {
	accounts map[uuid.UUID]*Account
	doctors  *mockDoctorRepo
	patients *mockPatientRepo
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{
		accounts: make(map[uuid.UUID]*Account),
		doctors:  newMockDoctorRepo(),
		patients: newMockPatientRepo(),
	}
}

func (m *mockAccountRepo) Register(_ context.Context, a *Account, d *Doctor, p *Patient) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.accounts[a.ID] = a
	if d != nil {
		d.ID = uuid.New()
		d.AccountID = a.ID
		m.doctors.doctors[d.ID] = d
	}
	if p != nil {
		p.ID = uuid.New()
		p.AccountID = a.ID
		m.patients.patients[p.ID] = p
	}
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return a, nil
}

func (m *mockAccountRepo) GetByUsername(_ context.Context, username string) (*Account, error) {
	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type mockDoctorRepo struct {
	doctors map[uuid.UUID]*Doctor
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return d, nil
}

func (m *mockDoctorRepo) GetByAccountID(_ context.Context, accountID uuid.UUID) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.AccountID == accountID {
			return d, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockDoctorRepo) List(_ context.Context, onlyAvailable bool, limit, offset int) ([]*Doctor, int, error) {
	var out []*Doctor
	for _, d := range m.doctors {
		if onlyAvailable && !d.IsAvailable {
			continue
		}
		out = append(out, d)
	}
	return out, len(out), nil
}

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockPatientRepo) GetByAccountID(_ context.Context, accountID uuid.UUID) (*Patient, error) {
	for _, p := range m.patients {
		if p.AccountID == accountID {
			return p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.patients {
		out = append(out, p)
	}
	return out, len(out), nil
}

func newTestService() (*Service, *mockAccountRepo) {
	repo := newMockAccountRepo()
	return NewService(repo, repo.doctors, repo.patients), repo
}

// -- Registration --

func TestRegisterDefaultsToPatient(t *testing.T) {
	svc, repo := newTestService()

	a, err := svc.Register(context.Background(), RegisterRequest{
		Username: "arjun", Email: "arjun@gmail.com", Password: "patient123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if a.Role != auth.RolePatient {
		t.Errorf("role = %q, want patient", a.Role)
	}
	if len(repo.patients.patients) != 1 {
		t.Fatalf("patient profiles = %d, want 1", len(repo.patients.patients))
	}
	for _, p := range repo.patients.patients {
		if p.AccountID != a.ID {
			t.Error("profile not linked to account")
		}
		if !p.DateOfBirth.Equal(placeholderDOB) {
			t.Errorf("date_of_birth = %v, want placeholder", p.DateOfBirth)
		}
	}
}

func TestRegisterDoctorAutoCreatesProfile(t *testing.T) {
	svc, repo := newTestService()

	a, err := svc.Register(context.Background(), RegisterRequest{
		Username: "dr_smith", Email: "smith@hospital.com", Password: "doctor123", Role: auth.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(repo.doctors.doctors) != 1 {
		t.Fatalf("doctor profiles = %d, want 1", len(repo.doctors.doctors))
	}
	for _, d := range repo.doctors.doctors {
		if d.AccountID != a.ID {
			t.Error("profile not linked to account")
		}
		if d.ConsultationFee != 0 {
			t.Errorf("consultation_fee = %v, want 0", d.ConsultationFee)
		}
	}
	if len(repo.patients.patients) != 0 {
		t.Error("doctor registration created a patient profile")
	}
}

func TestRegisterAdminCreatesNoProfile(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "admin", Email: "admin@hospital.com", Password: "admin123", Role: auth.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(repo.doctors.doctors) != 0 || len(repo.patients.patients) != 0 {
		t.Error("admin registration created a role profile")
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "x", Email: "x@x.com", Password: "p", Role: "superuser",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("err = %v, want validation failure", err)
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc, _ := newTestService()
	cases := []RegisterRequest{
		{Email: "x@x.com", Password: "p"},
		{Username: "x", Password: "p"},
		{Username: "x", Email: "x@x.com"},
	}
	for _, req := range cases {
		if _, err := svc.Register(context.Background(), req); !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("Register(%+v) err = %v, want validation failure", req, err)
		}
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo := newTestService()

	a, err := svc.Register(context.Background(), RegisterRequest{
		Username: "arjun", Email: "arjun@gmail.com", Password: "patient123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	stored := repo.accounts[a.ID]
	if stored.PasswordHash == "patient123" {
		t.Error("password stored in plaintext")
	}
	if !auth.CheckPassword(stored.PasswordHash, "patient123") {
		t.Error("stored hash does not match original password")
	}
}

// -- Authentication --

func registerUser(t *testing.T, svc *Service, username, password, role string) *Account {
	t.Helper()
	a, err := svc.Register(context.Background(), RegisterRequest{
		Username: username, Email: username + "@clinic.test", Password: password, Role: role,
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return a
}

func TestAuthenticateResolvesProfile(t *testing.T) {
	svc, repo := newTestService()
	a := registerUser(t, svc, "dr_priya", "doctor123", auth.RoleDoctor)

	ident, err := svc.Authenticate(context.Background(), "dr_priya", "doctor123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if ident.AccountID != a.ID || ident.Role != auth.RoleDoctor {
		t.Errorf("identity = %+v", ident)
	}
	d, err := repo.doctors.GetByAccountID(context.Background(), a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ident.ProfileID != d.ID {
		t.Errorf("profile id = %v, want %v", ident.ProfileID, d.ID)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService()
	registerUser(t, svc, "arjun", "patient123", auth.RolePatient)

	if _, err := svc.Authenticate(context.Background(), "arjun", "wrong"); !apperr.IsKind(err, apperr.KindAuthRequired) {
		t.Errorf("wrong password err = %v, want auth required", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody", "x"); !apperr.IsKind(err, apperr.KindAuthRequired) {
		t.Errorf("unknown user err = %v, want auth required", err)
	}
}

// -- Me --

func TestMeReturnsOwnAccount(t *testing.T) {
	svc, _ := newTestService()
	a := registerUser(t, svc, "arjun", "patient123", auth.RolePatient)
	registerUser(t, svc, "sneha", "patient123", auth.RolePatient)

	ident, err := svc.Authenticate(context.Background(), "arjun", "patient123")
	if err != nil {
		t.Fatal(err)
	}
	me, err := svc.Me(context.Background(), ident)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.ID != a.ID || me.Username != "arjun" {
		t.Errorf("Me = %+v, want own account", me)
	}
}

// -- Directory listings --

func seedDoctors(t *testing.T, svc *Service, repo *mockAccountRepo) (available, unavailable *Doctor) {
	t.Helper()
	a1 := registerUser(t, svc, "dr_smith", "doctor123", auth.RoleDoctor)
	a2 := registerUser(t, svc, "dr_kumar", "doctor123", auth.RoleDoctor)
	d1, _ := repo.doctors.GetByAccountID(context.Background(), a1.ID)
	d2, _ := repo.doctors.GetByAccountID(context.Background(), a2.ID)
	d2.IsAvailable = false
	return d1, d2
}

func TestListDoctorsPatientSeesOnlyAvailable(t *testing.T) {
	svc, repo := newTestService()
	available, _ := seedDoctors(t, svc, repo)

	ident := auth.Identity{AccountID: uuid.New(), Role: auth.RolePatient, ProfileID: uuid.New()}
	doctors, total, err := svc.ListDoctors(context.Background(), ident, 20, 0)
	if err != nil {
		t.Fatalf("ListDoctors: %v", err)
	}
	if total != 1 || len(doctors) != 1 {
		t.Fatalf("got %d doctors, want 1", len(doctors))
	}
	if doctors[0].ID != available.ID {
		t.Error("patient saw an unavailable doctor")
	}
}

func TestListDoctorsAdminAndDoctorSeeAll(t *testing.T) {
	svc, repo := newTestService()
	seedDoctors(t, svc, repo)

	for _, role := range []string{auth.RoleAdmin, auth.RoleDoctor} {
		ident := auth.Identity{AccountID: uuid.New(), Role: role, ProfileID: uuid.New()}
		doctors, _, err := svc.ListDoctors(context.Background(), ident, 20, 0)
		if err != nil {
			t.Fatalf("ListDoctors(%s): %v", role, err)
		}
		if len(doctors) != 2 {
			t.Errorf("%s saw %d doctors, want 2 (including unavailable)", role, len(doctors))
		}
	}
}

func TestListDoctorsUnknownRoleSeesNothing(t *testing.T) {
	svc, repo := newTestService()
	seedDoctors(t, svc, repo)

	ident := auth.Identity{AccountID: uuid.New(), Role: "receptionist"}
	doctors, total, err := svc.ListDoctors(context.Background(), ident, 20, 0)
	if err != nil {
		t.Fatalf("ListDoctors: %v", err)
	}
	if len(doctors) != 0 || total != 0 {
		t.Errorf("unknown role saw %d doctors, want 0", len(doctors))
	}
}

func TestListPatientsRestrictedToAdminAndDoctor(t *testing.T) {
	svc, _ := newTestService()
	registerUser(t, svc, "arjun", "patient123", auth.RolePatient)

	for _, role := range []string{auth.RoleAdmin, auth.RoleDoctor} {
		ident := auth.Identity{AccountID: uuid.New(), Role: role, ProfileID: uuid.New()}
		patients, _, err := svc.ListPatients(context.Background(), ident, 20, 0)
		if err != nil {
			t.Fatalf("ListPatients(%s): %v", role, err)
		}
		if len(patients) != 1 {
			t.Errorf("%s saw %d patients, want 1", role, len(patients))
		}
	}

	ident := auth.Identity{AccountID: uuid.New(), Role: auth.RolePatient, ProfileID: uuid.New()}
	if _, _, err := svc.ListPatients(context.Background(), ident, 20, 0); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("patient ListPatients err = %v, want forbidden", err)
	}
}
