package appointment

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// ValidStatus reports whether s is a recognized appointment status.
func ValidStatus(s string) bool { return validStatuses[s] }

// Appointment maps to the appointment table. DoctorName and PatientName
// are derived at read time from the owning profiles' accounts; they are
// never accepted on input and never used for authorization.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient"`
	AppointmentDate time.Time `db:"appointment_date" json:"appointment_date"`
	Status          string    `db:"status" json:"status"`
	Notes           string    `db:"notes" json:"notes"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`

	DoctorName  string `db:"-" json:"doctor_name,omitempty"`
	PatientName string `db:"-" json:"patient_name,omitempty"`
}

// UpdateRequest is the PATCH payload for the detail endpoint. Every field
// is optional; absent fields are left untouched. Any caller who can view
// the appointment may change any of these — there is no per-field guard
// and no status transition table.
type UpdateRequest struct {
	DoctorID        *uuid.UUID `json:"doctor"`
	PatientID       *uuid.UUID `json:"patient"`
	AppointmentDate *time.Time `json:"appointment_date"`
	Status          *string    `json:"status"`
	Notes           *string    `json:"notes"`
}
