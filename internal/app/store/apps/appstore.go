package appstore

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
	return &Store{c: db.Collection("apps")}
}

// GetByID loads an app listing by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.App, error) {
	var a models.App
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an app listing and returns it with id and timestamps set.
func (s *Store) Create(ctx context.Context, a models.App) (models.App, error) {
	a.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	a.CreatedDate = now
	a.UpdatedDate = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.App{}, err
	}
	return a, nil
}

// Update holds the editable fields of an app listing.
type Update struct {
	Name        string
	Icon        string
	Description string
	Category    string
	URL         string
	Tags        []string
}

// UpdateOwned updates a listing only if ownerID matches.
func (s *Store) UpdateOwned(ctx context.Context, id primitive.ObjectID, ownerID string, upd Update) (bool, error) {
	set := bson.M{
		"name":         upd.Name,
		"icon":         upd.Icon,
		"description":  upd.Description,
		"category":     upd.Category,
		"url":          upd.URL,
		"tags":         upd.Tags,
		"updated_date": time.Now().UTC(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "owner_id": ownerID}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// DeleteOwned removes a listing if ownerID matches (pass "" for admin deletes).
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

// List returns listings alphabetically, optionally filtered by category.
func (s *Store) List(ctx context.Context, category string) ([]models.App, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	return s.find(ctx, filter)
}

// Search matches listings by name, description, category, or tags.
func (s *Store) Search(ctx context.Context, query string) ([]models.App, error) {
	q := normalize.QueryParam(query)
	if q == "" {
		return s.List(ctx, "")
	}
	rx := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	return s.find(ctx, bson.M{"$or": []bson.M{
		{"name": rx},
		{"description": rx},
		{"category": rx},
		{"tags": rx},
	}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.App, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var apps []models.App
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}
