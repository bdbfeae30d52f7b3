package billing

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusPaid:      true,
	StatusCancelled: true,
}

func ValidStatus(s string) bool { return validStatuses[s] }

// Invoice maps to the invoice table, one per appointment. PaidAt is set
// only when the invoice is created already paid; there is no update
// endpoint. DoctorName, PatientName and AppointmentDate are read-time
// joins through the owning appointment, never accepted on input.
type Invoice struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	AppointmentID uuid.UUID  `db:"appointment_id" json:"appointment"`
	Amount        float64    `db:"amount" json:"amount"`
	Status        string     `db:"status" json:"status"`
	IssuedAt      time.Time  `db:"issued_at" json:"issued_at"`
	PaidAt        *time.Time `db:"paid_at" json:"paid_at"`

	DoctorName      string    `db:"-" json:"doctor_name,omitempty"`
	PatientName     string    `db:"-" json:"patient_name,omitempty"`
	AppointmentDate time.Time `db:"-" json:"appointment_date,omitempty"`
}
