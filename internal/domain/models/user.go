// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an authentication account. It is deliberately separate from Member:
// a User is how someone signs in, a Member is their community profile. The
// member record is resolved (and created if missing) from the user's email on
// each authenticated request that needs it.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"`
	FullName string             `bson:"full_name" json:"full_name"`

	// Role is "admin" or "user". Admins can manage settings, moderate
	// members, and run database export/import.
	Role string `bson:"role" json:"role"`

	ProfileImage string `bson:"profile_image,omitempty" json:"profile_image,omitempty"`

	// AuthMethod is "password" or "google".
	AuthMethod   string  `bson:"auth_method" json:"auth_method"`
	PasswordHash string  `bson:"password_hash,omitempty" json:"-"`
	GoogleID     *string `bson:"google_id,omitempty" json:"-"`

	Status string `bson:"status" json:"status"` // active | disabled

	CreatedDate time.Time `bson:"created_date" json:"created_date"`
	UpdatedDate time.Time `bson:"updated_date" json:"updated_date"`
}

// User roles and statuses.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	UserActive   = "active"
	UserDisabled = "disabled"
)
