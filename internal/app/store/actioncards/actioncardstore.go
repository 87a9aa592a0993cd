package actioncardstore

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pod44apps/community-pulse/internal/app/system/normalize"
	"github.com/pod44apps/community-pulse/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("action_cards")}
}

// GetByID loads an action card by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ActionCard, error) {
	var card models.ActionCard
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&card); err != nil {
		return nil, err
	}
	return &card, nil
}

// Create inserts an action card and returns it with id and timestamps set.
func (s *Store) Create(ctx context.Context, card models.ActionCard) (models.ActionCard, error) {
	card.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	card.CreatedDate = now
	card.UpdatedDate = now

	if _, err := s.c.InsertOne(ctx, card); err != nil {
		return models.ActionCard{}, err
	}
	return card, nil
}

// Update holds the editable fields of an action card.
type Update struct {
	Title       string
	Description string
	Category    string
	Image       string
	Quantity    int
	Location    string
	Tags        []string
	Links       []models.CardLink
}

// UpdateOwned updates a card only if ownerID matches. It reports whether a
// document was modified.
func (s *Store) UpdateOwned(ctx context.Context, id primitive.ObjectID, ownerID string, upd Update) (bool, error) {
	set := bson.M{
		"title":        upd.Title,
		"description":  upd.Description,
		"category":     upd.Category,
		"image":        upd.Image,
		"quantity":     upd.Quantity,
		"location":     upd.Location,
		"tags":         upd.Tags,
		"links":        upd.Links,
		"updated_date": time.Now().UTC(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "owner_id": ownerID}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// DeleteOwned removes a card if ownerID matches (pass "" for admin deletes).
func (s *Store) DeleteOwned(ctx context.Context, id primitive.ObjectID, ownerID string) (int64, error) {
	filter := bson.M{"_id": id}
	if ownerID != "" {
		filter["owner_id"] = ownerID
	}
	res, err := s.c.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns cards newest first, optionally filtered by category.
func (s *Store) List(ctx context.Context, category string) ([]models.ActionCard, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	return s.find(ctx, filter)
}

// ByOwner returns a member's cards, newest first.
func (s *Store) ByOwner(ctx context.Context, ownerID string) ([]models.ActionCard, error) {
	return s.find(ctx, bson.M{"owner_id": ownerID})
}

// Search matches cards by title, description, category, location, or tags,
// case-insensitively.
func (s *Store) Search(ctx context.Context, query string) ([]models.ActionCard, error) {
	q := normalize.QueryParam(query)
	if q == "" {
		return s.List(ctx, "")
	}
	rx := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	return s.find(ctx, bson.M{"$or": []bson.M{
		{"title": rx},
		{"description": rx},
		{"category": rx},
		{"location": rx},
		{"tags": rx},
	}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.ActionCard, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_date", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cards []models.ActionCard
	if err := cur.All(ctx, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}
