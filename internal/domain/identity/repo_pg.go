package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// -- Account Repository --

type accountRepoPG struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) AccountRepository {
	return &accountRepoPG{pool: pool}
}

const accountCols = `id, username, email, first_name, last_name, password_hash, role, created_at, updated_at`

func (r *accountRepoPG) Register(ctx context.Context, a *Account, d *Doctor, p *Patient) error {
	a.ID = uuid.New()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin register tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO account (id, username, email, first_name, last_name, password_hash, role)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		a.ID, a.Username, a.Email, a.FirstName, a.LastName, a.PasswordHash, a.Role,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	if d != nil {
		d.ID = uuid.New()
		d.AccountID = a.ID
		_, err = tx.Exec(ctx, `
			INSERT INTO doctor_profile (id, account_id, specialization, experience_years, consultation_fee, is_available)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			d.ID, d.AccountID, d.Specialization, d.ExperienceYears, d.ConsultationFee, d.IsAvailable)
		if err != nil {
			return fmt.Errorf("insert doctor profile: %w", err)
		}
	}

	if p != nil {
		p.ID = uuid.New()
		p.AccountID = a.ID
		_, err = tx.Exec(ctx, `
			INSERT INTO patient_profile (id, account_id, date_of_birth, blood_group, phone, address, emergency_contact)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			p.ID, p.AccountID, p.DateOfBirth, p.BloodGroup, p.Phone, p.Address, p.EmergencyContact)
		if err != nil {
			return fmt.Errorf("insert patient profile: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *accountRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	a := &Account{}
	err := r.pool.QueryRow(ctx, `SELECT `+accountCols+` FROM account WHERE id = $1`, id).Scan(
		&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRepoPG) GetByUsername(ctx context.Context, username string) (*Account, error) {
	a := &Account{}
	err := r.pool.QueryRow(ctx, `SELECT `+accountCols+` FROM account WHERE username = $1`, username).Scan(
		&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// -- Doctor Repository --

type doctorRepoPG struct {
	pool *pgxpool.Pool
}

func NewDoctorRepo(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepoPG{pool: pool}
}

const doctorCols = `d.id, d.account_id, d.specialization, d.experience_years, d.consultation_fee, d.is_available,
	a.username, TRIM(a.first_name || ' ' || a.last_name), a.email`

const doctorFrom = ` FROM doctor_profile d JOIN account a ON a.id = d.account_id`

func scanDoctor(row interface{ Scan(...any) error }) (*Doctor, error) {
	d := &Doctor{}
	err := row.Scan(&d.ID, &d.AccountID, &d.Specialization, &d.ExperienceYears, &d.ConsultationFee, &d.IsAvailable,
		&d.Username, &d.FullName, &d.Email)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorCols+doctorFrom+` WHERE d.id = $1`, id))
}

func (r *doctorRepoPG) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorCols+doctorFrom+` WHERE d.account_id = $1`, accountID))
}

func (r *doctorRepoPG) List(ctx context.Context, onlyAvailable bool, limit, offset int) ([]*Doctor, int, error) {
	where := ""
	if onlyAvailable {
		where = ` WHERE d.is_available`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+doctorFrom+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+doctorCols+doctorFrom+where+` ORDER BY a.username LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var doctors []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}
	return doctors, total, rows.Err()
}

// -- Patient Repository --

type patientRepoPG struct {
	pool *pgxpool.Pool
}

func NewPatientRepo(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `p.id, p.account_id, p.date_of_birth, p.blood_group, p.phone, p.address, p.emergency_contact,
	a.username, a.email`

const patientFrom = ` FROM patient_profile p JOIN account a ON a.id = p.account_id`

func scanPatient(row interface{ Scan(...any) error }) (*Patient, error) {
	p := &Patient{}
	err := row.Scan(&p.ID, &p.AccountID, &p.DateOfBirth, &p.BloodGroup, &p.Phone, &p.Address, &p.EmergencyContact,
		&p.Username, &p.Email)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+patientFrom+` WHERE p.id = $1`, id))
}

func (r *patientRepoPG) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+patientFrom+` WHERE p.account_id = $1`, accountID))
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+patientFrom).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+patientCols+patientFrom+` ORDER BY a.username LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}
