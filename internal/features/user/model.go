package user

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role decides what slice of the lead stores a user may see.
type Role string

const (
	RoleFieldRep       Role = "field_rep"
	RoleAccountManager Role = "account_manager"
	RoleAdmin          Role = "admin"
)

// Profile is created by the external identity system at signup and is
// read-only here.
type Profile struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email string             `bson:"email" json:"email"`
	Name  string             `bson:"name" json:"name"`
	Role  Role               `bson:"role" json:"role"`
}
