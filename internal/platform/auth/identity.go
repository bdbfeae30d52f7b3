package auth

import (
	"context"

	"github.com/google/uuid"
)

// Recognized account roles. Any other value is treated as unknown and
// resolves to empty visibility everywhere.
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller attached to each request: the
// account reference, its role, and the id of the role profile (doctor or
// patient) when one exists. It is threaded explicitly into every service
// call rather than read from ambient state.
type Identity struct {
	AccountID uuid.UUID
	Role      string
	// ProfileID is the caller's DoctorProfile or PatientProfile id,
	// uuid.Nil for admins.
	ProfileID uuid.UUID
}

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the authenticated identity. ok is false when
// the request was not authenticated.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
