package venturestore

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
	return &Store{c: db.Collection("ventures")}
}

// GetByID loads a venture by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Venture, error) {
	var v models.Venture
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a venture and returns it with id and timestamps set.
func (s *Store) Create(ctx context.Context, v models.Venture) (models.Venture, error) {
	v.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	v.CreatedDate = now
	v.UpdatedDate = now

	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.Venture{}, err
	}
	return v, nil
}

// Update holds the editable fields of a venture.
type Update struct {
	Title       string
	Description string
	Category    string
	Image       string
	WantsNeeds  []string
}

// UpdateOwned updates a venture only if ownerID matches, so a non-owner
// request is a silent no-op. It reports whether a document was modified.
func (s *Store) UpdateOwned(ctx context.Context, id primitive.ObjectID, ownerID string, upd Update) (bool, error) {
	set := bson.M{
		"title":        upd.Title,
		"description":  upd.Description,
		"category":     upd.Category,
		"image":        upd.Image,
		"wants_needs":  upd.WantsNeeds,
		"updated_date": time.Now().UTC(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "owner_id": ownerID}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// DeleteOwned removes a venture if ownerID matches (pass "" to skip the
// owner check, for admin deletes). Returns the number deleted.
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

// List returns ventures newest first, optionally filtered by category.
func (s *Store) List(ctx context.Context, category string) ([]models.Venture, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	return s.find(ctx, filter)
}

// ByOwner returns a member's ventures, newest first.
func (s *Store) ByOwner(ctx context.Context, ownerID string) ([]models.Venture, error) {
	return s.find(ctx, bson.M{"owner_id": ownerID})
}

// Search matches ventures by title, description, category, or wants/needs,
// case-insensitively.
func (s *Store) Search(ctx context.Context, query string) ([]models.Venture, error) {
	q := normalize.QueryParam(query)
	if q == "" {
		return s.List(ctx, "")
	}
	rx := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	return s.find(ctx, bson.M{"$or": []bson.M{
		{"title": rx},
		{"description": rx},
		{"category": rx},
		{"wants_needs": rx},
	}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Venture, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_date", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ventures []models.Venture
	if err := cur.All(ctx, &ventures); err != nil {
		return nil, err
	}
	return ventures, nil
}
