package memberstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
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
	return &Store{c: db.Collection("members")}
}

// EnsureIndexes creates the lookup indexes. Email is intentionally not
// unique: imported snapshots may legitimately carry duplicate addresses and
// the importer must not reject them.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_members_email"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_members_status"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetByID loads a member by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByEmail looks a member up by email, matching case-insensitively so
// records imported with mixed-case addresses are still found. Returns
// mongo.ErrNoDocuments if no member matches.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	var m models.Member
	filter := bson.M{"email": bson.M{
		"$regex":   "^" + regexp.QuoteMeta(normalize.Email(email)) + "$",
		"$options": "i",
	}}
	if err := s.c.FindOne(ctx, filter).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a member and returns its assigned id. Email is normalized;
// an empty status defaults to pending.
func (s *Store) Create(ctx context.Context, m *models.Member) (primitive.ObjectID, error) {
	m.ID = primitive.NewObjectID()
	m.Email = normalize.Email(m.Email)
	if m.Status == "" {
		m.Status = models.MemberPending
	}
	now := time.Now().UTC()
	m.CreatedDate = now
	m.UpdatedDate = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return primitive.NilObjectID, err
	}
	return m.ID, nil
}

// UpdateEmail rewrites a member's stored email to its normalized form.
func (s *Store) UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"email":        normalize.Email(email),
		"updated_date": time.Now().UTC(),
	}})
	return err
}

// ProfileUpdate holds the member-editable profile fields.
type ProfileUpdate struct {
	FirstName        string
	LastName         string
	ProfileImage     string
	Bio              string
	City             string
	Country          string
	Phone            string
	Skills           []string
	Interests        []string
	PrimaryElement   string
	SecondaryElement string
}

// UpdateProfile replaces the member-editable fields of a profile.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	set := bson.M{
		"first_name":        normalize.Name(upd.FirstName),
		"last_name":         normalize.Name(upd.LastName),
		"profile_image":     upd.ProfileImage,
		"bio":               upd.Bio,
		"city":              upd.City,
		"country":           upd.Country,
		"phone":             upd.Phone,
		"skills":            upd.Skills,
		"interests":         upd.Interests,
		"primary_element":   upd.PrimaryElement,
		"secondary_element": upd.SecondaryElement,
		"updated_date":      time.Now().UTC(),
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SetStatus moves a member through the moderation states.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	switch status {
	case models.MemberPending, models.MemberApproved, models.MemberRejected:
	default:
		return errBadStatus
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":       status,
		"updated_date": time.Now().UTC(),
	}})
	return err
}

// List returns members, optionally filtered by status, newest first.
func (s *Store) List(ctx context.Context, status string) ([]models.Member, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_date", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []models.Member
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// Search returns approved members matching the query across name, location,
// bio, skills, and interests, case-insensitively.
func (s *Store) Search(ctx context.Context, query string) ([]models.Member, error) {
	q := normalize.QueryParam(query)
	if q == "" {
		return s.List(ctx, models.MemberApproved)
	}
	rx := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	filter := bson.M{
		"status": models.MemberApproved,
		"$or": []bson.M{
			{"first_name": rx},
			{"last_name": rx},
			{"city": rx},
			{"country": rx},
			{"bio": rx},
			{"skills": rx},
			{"interests": rx},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []models.Member
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// Vocabulary collects the distinct skills and interests across approved
// members, deduplicated case- and accent-insensitively. Directory filters
// are built from it.
func (s *Store) Vocabulary(ctx context.Context) (skills, interests []string, err error) {
	skills, err = s.distinctFolded(ctx, "skills")
	if err != nil {
		return nil, nil, err
	}
	interests, err = s.distinctFolded(ctx, "interests")
	if err != nil {
		return nil, nil, err
	}
	return skills, interests, nil
}

func (s *Store) distinctFolded(ctx context.Context, field string) ([]string, error) {
	raw, err := s.c.Distinct(ctx, field, bson.M{"status": models.MemberApproved})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok || str == "" {
			continue
		}
		key := text.Fold(str)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, str)
	}
	return out, nil
}

// Delete removes a member by id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

var errBadStatus = errors.New(`status must be "pending"|"approved"|"rejected"`)
