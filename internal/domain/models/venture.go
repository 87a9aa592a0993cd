// internal/domain/models/venture.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Venture is a collaborative-project listing a member is recruiting for.
type Venture struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Category    string `bson:"category,omitempty" json:"category,omitempty"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"`

	// WantsNeeds lists what the venture is looking for from collaborators.
	WantsNeeds []string `bson:"wants_needs,omitempty" json:"wants_needs,omitempty"`

	// Owner is denormalized as in the snapshot format; import writes these
	// verbatim without remapping ids.
	OwnerID    string `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	OwnerName  string `bson:"owner_name,omitempty" json:"owner_name,omitempty"`
	OwnerImage string `bson:"owner_image,omitempty" json:"owner_image,omitempty"`

	CreatedDate time.Time `bson:"created_date" json:"created_date"`
	UpdatedDate time.Time `bson:"updated_date" json:"updated_date"`
	CreatedBy   string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
}
