// internal/domain/models/actioncard.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActionCard is an offer/resource listing: something a member can provide to
// the community (knowledge, equipment, space, time).
type ActionCard struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Category    string `bson:"category,omitempty" json:"category,omitempty"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"`
	Quantity    int    `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Location    string `bson:"location,omitempty" json:"location,omitempty"`

	Tags  []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	Links []CardLink `bson:"links,omitempty" json:"links,omitempty"`

	// Owner is recorded denormalized (id + display fields) the way the
	// snapshot format stores it. On import these values are written
	// verbatim even though the referenced member gets a fresh id.
	OwnerID    string `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	OwnerName  string `bson:"owner_name,omitempty" json:"owner_name,omitempty"`
	OwnerImage string `bson:"owner_image,omitempty" json:"owner_image,omitempty"`

	CreatedDate time.Time `bson:"created_date" json:"created_date"`
	UpdatedDate time.Time `bson:"updated_date" json:"updated_date"`
	CreatedBy   string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

// CardLink is a titled URL attached to an action card.
type CardLink struct {
	Title string `bson:"title" json:"title"`
	URL   string `bson:"url" json:"url"`
}
