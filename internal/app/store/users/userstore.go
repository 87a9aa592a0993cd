package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique email index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_users_email"),
	})
	return err
}

var (
	// ErrDuplicateEmail is returned when creating a user whose email already exists.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	errBadRole        = errors.New(`role must be "admin"|"user"`)
	errBadAuthMethod  = errors.New(`auth_method must be "password"|"google"`)
)

// GetByID loads a user account by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up an account by normalized email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByGoogleID looks up an account linked to a Google subject id.
func (s *Store) GetByGoogleID(ctx context.Context, sub string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"google_id": sub}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new account after normalizing and validating fields.
// Password hashing happens in the auth layer; PasswordHash arrives ready.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.Status == "" {
		u.Status = models.UserActive
	}

	switch u.Role {
	case models.RoleAdmin, models.RoleUser:
	default:
		return models.User{}, errBadRole
	}
	switch u.AuthMethod {
	case "password", "google":
	default:
		return models.User{}, errBadAuthMethod
	}

	now := time.Now().UTC()
	u.CreatedDate = now
	u.UpdatedDate = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// LinkGoogleID attaches a Google subject id to an existing account, used
// when a password account signs in with Google for the first time.
func (s *Store) LinkGoogleID(ctx context.Context, id primitive.ObjectID, sub string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"google_id":    sub,
		"updated_date": time.Now().UTC(),
	}})
	return err
}

// UpdateProfile updates the display fields of an account.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, fullName, profileImage string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"full_name":     normalize.Name(fullName),
		"profile_image": profileImage,
		"updated_date":  time.Now().UTC(),
	}})
	return err
}

// SetPasswordHash replaces an account's password hash.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": hash,
		"auth_method":   "password",
		"updated_date":  time.Now().UTC(),
	}})
	return err
}

// SetStatus flips an account between active and disabled.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if status != models.UserActive && status != models.UserDisabled {
		return errors.New(`status must be "active"|"disabled"`)
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":       status,
		"updated_date": time.Now().UTC(),
	}})
	return err
}

// CountAdmins reports how many active admin accounts exist. Startup uses it
// to decide whether to seed the bootstrap admin.
func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": models.RoleAdmin, "status": models.UserActive})
}
