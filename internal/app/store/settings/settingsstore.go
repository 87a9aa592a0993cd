package settingsstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pod44apps/community-pulse/internal/domain/models"
)

// Store provides access to the settings collection. The collection is a
// singleton in practice: Get reads the first document, Save upserts it.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("settings")}
}

// Get returns the app settings, or defaults when none have been saved yet.
func (s *Store) Get(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	opts := options.FindOne().SetSort(bson.D{{Key: "created_date", Value: 1}})
	err := s.c.FindOne(ctx, bson.M{}, opts).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return models.Settings{
			AppName:    models.DefaultAppName,
			TagLine:    models.DefaultTagLine,
			ColorTheme: models.DefaultColorTheme,
		}, nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

// Save upserts the settings document, recording who changed it.
func (s *Store) Save(ctx context.Context, settings models.Settings, updatedBy string) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"app_name":      settings.AppName,
			"app_logo":      settings.AppLogo,
			"tag_line":      settings.TagLine,
			"color_theme":   settings.ColorTheme,
			"custom_colors": settings.CustomColors,
			"updated_date":  now,
		},
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID(),
			"created_date": now,
			"created_by":   updatedBy,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{}, update, opts)
	return err
}
