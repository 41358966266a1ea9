package access

import (
	"testing"

	"go-salesdash/internal/features/user"
)

func TestScopeFilter(t *testing.T) {
	alice := &user.Profile{Name: "Alice", Role: user.RoleFieldRep}
	bob := &user.Profile{Name: "Bob", Role: user.RoleAccountManager}
	admin := &user.Profile{Name: "Root", Role: user.RoleAdmin}

	tests := []struct {
		name          string
		user          *user.Profile
		explicit      string
		hasAssignment bool
		want          Scope
	}{
		{
			name:          "field rep self scope",
			user:          alice,
			hasAssignment: true,
			want:          Scope{Field: ByFieldRep, Name: "Alice"},
		},
		{
			name:          "field rep cannot widen with explicit name",
			user:          alice,
			explicit:      "Carol",
			hasAssignment: true,
			want:          Scope{Field: ByFieldRep, Name: "Alice"},
		},
		{
			name:          "account manager self scope",
			user:          bob,
			hasAssignment: true,
			want:          Scope{Field: ByAccountManager, Name: "Bob"},
		},
		{
			name:          "account manager without name fails closed",
			user:          &user.Profile{Role: user.RoleAccountManager},
			hasAssignment: true,
			want:          Scope{Deny: true},
		},
		{
			name:          "admin unscoped by default",
			user:          admin,
			hasAssignment: true,
			want:          Scope{Field: ByFieldRep},
		},
		{
			name:          "admin may narrow to a rep",
			user:          admin,
			explicit:      "Carol",
			hasAssignment: true,
			want:          Scope{Field: ByFieldRep, Name: "Carol"},
		},
		{
			name:          "no assignment field denies field rep",
			user:          alice,
			hasAssignment: false,
			want:          Scope{Deny: true},
		},
		{
			name:          "no assignment field denies account manager",
			user:          bob,
			hasAssignment: false,
			want:          Scope{Deny: true},
		},
		{
			name:          "no assignment field keeps admin, ignores narrowing",
			user:          admin,
			explicit:      "Carol",
			hasAssignment: false,
			want:          Scope{},
		},
		{
			name:          "nil user denied",
			user:          nil,
			hasAssignment: true,
			want:          Scope{Deny: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScopeFilter(tt.user, tt.explicit, tt.hasAssignment)
			if got != tt.want {
				t.Errorf("ScopeFilter() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScopeUnscoped(t *testing.T) {
	if !(Scope{}).Unscoped() {
		t.Error("empty scope should be unscoped")
	}
	if (Scope{Deny: true}).Unscoped() {
		t.Error("denied scope must not read everything")
	}
	if (Scope{Name: "Alice"}).Unscoped() {
		t.Error("named scope is not unscoped")
	}
}
