package messagestore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pod44apps/community-pulse/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

// EnsureIndexes creates the mailbox lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_date", Value: -1}},
			Options: options.Index().SetName("idx_messages_inbox"),
		},
		{
			Keys:    bson.D{{Key: "sender_id", Value: 1}, {Key: "created_date", Value: -1}},
			Options: options.Index().SetName("idx_messages_sent"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a message. Read always starts false.
func (s *Store) Create(ctx context.Context, m models.Message) (models.Message, error) {
	m.ID = primitive.NewObjectID()
	m.Read = false
	now := time.Now().UTC()
	m.CreatedDate = now
	m.UpdatedDate = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// GetByID loads a message by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	var m models.Message
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Inbox returns messages addressed to a member, newest first.
func (s *Store) Inbox(ctx context.Context, memberID string) ([]models.Message, error) {
	return s.list(ctx, bson.M{"recipient_id": memberID})
}

// Sent returns messages a member has sent, newest first.
func (s *Store) Sent(ctx context.Context, memberID string) ([]models.Message, error) {
	return s.list(ctx, bson.M{"sender_id": memberID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_date", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkRead flips a message to read. Only the recipient may do this; the
// filter enforces it so a forged id is a silent no-op.
func (s *Store) MarkRead(ctx context.Context, id primitive.ObjectID, recipientID string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "recipient_id": recipientID},
		bson.M{"$set": bson.M{"read": true, "updated_date": time.Now().UTC()}})
	return err
}

// UnreadCount reports how many unread messages a member has.
func (s *Store) UnreadCount(ctx context.Context, memberID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"recipient_id": memberID, "read": false})
}
