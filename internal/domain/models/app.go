// internal/domain/models/app.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// App is an app-store listing submitted by a member.
type App struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Name        string   `bson:"name" json:"name"`
	Icon        string   `bson:"icon,omitempty" json:"icon,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Category    string   `bson:"category,omitempty" json:"category,omitempty"`
	URL         string   `bson:"url,omitempty" json:"url,omitempty"`
	Tags        []string `bson:"tags,omitempty" json:"tags,omitempty"`

	OwnerID   string `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	OwnerName string `bson:"owner_name,omitempty" json:"owner_name,omitempty"`

	CreatedDate time.Time `bson:"created_date" json:"created_date"`
	UpdatedDate time.Time `bson:"updated_date" json:"updated_date"`
	CreatedBy   string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
}
