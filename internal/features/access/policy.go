package access

import (
	"go-salesdash/internal/features/user"
)

// AssignField names the assignment dimension a scope matches against. The
// native column behind it belongs to the adapter.
type AssignField string

const (
	ByFieldRep       AssignField = "field_rep"
	ByAccountManager AssignField = "account_manager"
)

// Scope is what an adapter must apply to a query before it touches the
// backing store.
type Scope struct {
	// Deny short-circuits the fetch: the caller gets an empty result set.
	// This is "no access", not "no data"; controllers surface it as such.
	Deny bool
	// Field says which assignment dimension Name matches.
	Field AssignField
	// Name, when non-empty, restricts the fetch to records whose
	// assignment field equals it.
	Name string
}

// Unscoped reports whether the fetch may read every record.
func (s Scope) Unscoped() bool {
	return !s.Deny && s.Name == ""
}

// ScopeFilter decides how a fetch must be narrowed for the given user.
// explicitName is an admin-only narrowing by rep name; non-admin roles
// cannot widen their self-scope with it. hasAssignment is false for sources
// whose schema carries no rep/manager attribution at all — there only
// admins may read.
func ScopeFilter(u *user.Profile, explicitName string, hasAssignment bool) Scope {
	if u == nil {
		return Scope{Deny: true}
	}

	if !hasAssignment {
		if u.Role == user.RoleAdmin {
			return Scope{}
		}
		return Scope{Deny: true}
	}

	switch u.Role {
	case user.RoleAdmin:
		return Scope{Field: ByFieldRep, Name: explicitName}
	case user.RoleFieldRep:
		// Self-scope only. An explicit override is ignored.
		if u.Name == "" {
			return Scope{Deny: true}
		}
		return Scope{Field: ByFieldRep, Name: u.Name}
	case user.RoleAccountManager:
		// Missing display name fails closed rather than widening to
		// everything.
		if u.Name == "" {
			return Scope{Deny: true}
		}
		return Scope{Field: ByAccountManager, Name: u.Name}
	default:
		return Scope{Deny: true}
	}
}
