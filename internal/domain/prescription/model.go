package prescription

import (
	"time"

	"github.com/google/uuid"
)

// Prescription maps to the prescription table. Exactly one exists per
// appointment; the appointment reference is immutable once set, as is
// created_at.
type Prescription struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment"`
	Diagnosis     string    `db:"diagnosis" json:"diagnosis"`
	Medicines     string    `db:"medicines" json:"medicines"`
	Instructions  string    `db:"instructions" json:"instructions"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
