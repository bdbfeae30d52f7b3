// Package visibility holds the row-level read-scoping rules. A caller's
// identity resolves to a Scope, a tagged variant the repositories consume
// uniformly when building list and detail queries: admins see everything,
// doctors see rows tied to their own appointments, patients symmetrically,
// and any unrecognized role sees nothing.
package visibility

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

type Kind int

const (
	// All matches every record (admin).
	All Kind = iota
	// OwnDoctor matches records whose appointment doctor is Owner.
	OwnDoctor
	// OwnPatient matches records whose appointment patient is Owner.
	OwnPatient
	// None matches nothing. The fail-closed default for unknown roles;
	// deliberately an empty result, not an error.
	None
)

// Scope is the read predicate derived from a caller identity.
type Scope struct {
	Kind  Kind
	Owner uuid.UUID
}

// role→scope table. Roles absent from the table fail closed.
var scopeForRole = map[string]func(auth.Identity) Scope{
	auth.RoleAdmin:   func(auth.Identity) Scope { return Scope{Kind: All} },
	auth.RoleDoctor:  func(id auth.Identity) Scope { return Scope{Kind: OwnDoctor, Owner: id.ProfileID} },
	auth.RolePatient: func(id auth.Identity) Scope { return Scope{Kind: OwnPatient, Owner: id.ProfileID} },
}

// ForIdentity resolves the caller's read scope. A doctor or patient whose
// profile id is missing also resolves to None rather than an unbounded
// predicate.
func ForIdentity(id auth.Identity) Scope {
	f, ok := scopeForRole[id.Role]
	if !ok {
		return Scope{Kind: None}
	}
	s := f(id)
	if s.Kind != All && s.Owner == uuid.Nil {
		return Scope{Kind: None}
	}
	return s
}

// IsNone reports whether the scope matches nothing. Repositories short-
// circuit on it without touching the database.
func (s Scope) IsNone() bool { return s.Kind == None }

// Clause renders the scope as a SQL predicate against the appointment
// table alias, appending any bound value to args. All yields the empty
// clause; None yields FALSE, though repositories short-circuit on IsNone
// before building SQL.
func Clause(s Scope, alias string, args []any) (string, []any) {
	switch s.Kind {
	case All:
		return "", args
	case OwnDoctor:
		args = append(args, s.Owner)
		return fmt.Sprintf(" %s.doctor_id = $%d", alias, len(args)), args
	case OwnPatient:
		args = append(args, s.Owner)
		return fmt.Sprintf(" %s.patient_id = $%d", alias, len(args)), args
	default:
		return " FALSE", args
	}
}
