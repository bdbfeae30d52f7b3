package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account maps to the account table. Exactly one of the role profiles
// (Doctor or Patient) attaches per non-admin account, created at
// registration. Role is immutable after creation.
type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins the name parts, tolerating either being empty.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Doctor maps to the doctor_profile table. Username, FullName, and Email
// are joined from the owning account at read time and never accepted on
// input.
type Doctor struct {
	ID              uuid.UUID `db:"id" json:"id"`
	AccountID       uuid.UUID `db:"account_id" json:"account_id"`
	Specialization  string    `db:"specialization" json:"specialization"`
	ExperienceYears int       `db:"experience_years" json:"experience_years"`
	ConsultationFee float64   `db:"consultation_fee" json:"consultation_fee"`
	IsAvailable     bool      `db:"is_available" json:"is_available"`

	Username string `db:"-" json:"username,omitempty"`
	FullName string `db:"-" json:"full_name,omitempty"`
	Email    string `db:"-" json:"email,omitempty"`
}

// Patient maps to the patient_profile table. Username and Email are joined
// from the owning account at read time.
type Patient struct {
	ID               uuid.UUID `db:"id" json:"id"`
	AccountID        uuid.UUID `db:"account_id" json:"account_id"`
	DateOfBirth      time.Time `db:"date_of_birth" json:"date_of_birth"`
	BloodGroup       string    `db:"blood_group" json:"blood_group"`
	Phone            string    `db:"phone" json:"phone"`
	Address          string    `db:"address" json:"address"`
	EmergencyContact string    `db:"emergency_contact" json:"emergency_contact"`

	Username string `db:"-" json:"username,omitempty"`
	Email    string `db:"-" json:"email,omitempty"`
}

var validSpecializations = map[string]bool{
	"cardiologist": true,
	"neurologist":  true,
	"orthopedic":   true,
	"general":      true,
}

// ValidSpecialization reports whether s is a recognized specialization.
func ValidSpecialization(s string) bool { return validSpecializations[s] }

var validBloodGroups = map[string]bool{
	"A+": true, "A-": true,
	"B+": true, "B-": true,
	"O+": true, "O-": true,
	"AB+": true, "AB-": true,
}

// ValidBloodGroup reports whether bg is one of the eight recognized groups.
func ValidBloodGroup(bg string) bool { return validBloodGroups[bg] }
