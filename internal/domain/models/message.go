// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a directed member-to-member message. Once created, the only
// permitted mutation is flipping Read when the recipient opens it.
type Message struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Sender and recipient are member ids in hex form, matching the
	// snapshot format (and written verbatim on import).
	SenderID    string `bson:"sender_id" json:"sender_id"`
	RecipientID string `bson:"recipient_id" json:"recipient_id"`

	Subject string `bson:"subject,omitempty" json:"subject,omitempty"`
	Content string `bson:"content,omitempty" json:"content,omitempty"`
	Read    bool   `bson:"read" json:"read"`

	CreatedDate time.Time `bson:"created_date" json:"created_date"`
	UpdatedDate time.Time `bson:"updated_date" json:"updated_date"`
	CreatedBy   string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
}
