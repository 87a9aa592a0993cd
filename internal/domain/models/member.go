// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is a community member profile. One member exists per authenticated
// identity, keyed by normalized lowercase email. Members are created lazily
// on first login (see system/memberident) or restored by the backup importer.
//
// Field names mirror the portable snapshot format, so documents round-trip
// through export/import without renaming.
type Member struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Email        string `bson:"email" json:"email"`
	FirstName    string `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName     string `bson:"last_name,omitempty" json:"last_name,omitempty"`
	ProfileImage string `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	Bio          string `bson:"bio,omitempty" json:"bio,omitempty"`
	City         string `bson:"city,omitempty" json:"city,omitempty"`
	Country      string `bson:"country,omitempty" json:"country,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`

	Skills    []string `bson:"skills,omitempty" json:"skills,omitempty"`
	Interests []string `bson:"interests,omitempty" json:"interests,omitempty"`

	// Status is one of "pending", "approved", "rejected". Only approved
	// members appear in the public directory.
	Status  string `bson:"status" json:"status"`
	IsAdmin bool   `bson:"is_admin,omitempty" json:"is_admin,omitempty"`

	PrimaryElement   string `bson:"primary_element,omitempty" json:"primary_element,omitempty"`
	SecondaryElement string `bson:"secondary_element,omitempty" json:"secondary_element,omitempty"`

	CreatedDate time.Time `bson:"created_date" json:"created_date"`
	UpdatedDate time.Time `bson:"updated_date" json:"updated_date"`
	CreatedBy   string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

// Member status values.
const (
	MemberPending  = "pending"
	MemberApproved = "approved"
	MemberRejected = "rejected"
)

// FullName joins first and last name, tolerating either being empty.
func (m *Member) FullName() string {
	switch {
	case m.FirstName == "":
		return m.LastName
	case m.LastName == "":
		return m.FirstName
	default:
		return m.FirstName + " " + m.LastName
	}
}
