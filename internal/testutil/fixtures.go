package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pod44apps/community-pulse/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateMember inserts an approved member with the given email and name.
func (f *Fixtures) CreateMember(ctx context.Context, email, first, last string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:          primitive.NewObjectID(),
		Email:       email,
		FirstName:   first,
		LastName:    last,
		Status:      models.MemberApproved,
		CreatedDate: now,
		UpdatedDate: now,
		CreatedBy:   email,
	}
	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return m
}

// CreatePendingMember inserts a member still awaiting approval.
func (f *Fixtures) CreatePendingMember(ctx context.Context, email string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:          primitive.NewObjectID(),
		Email:       email,
		Status:      models.MemberPending,
		CreatedDate: now,
		UpdatedDate: now,
	}
	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return m
}

// CreateUser inserts an active account with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, email, fullName, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:          primitive.NewObjectID(),
		Email:       email,
		FullName:    fullName,
		Role:        role,
		AuthMethod:  "password",
		Status:      models.UserActive,
		CreatedDate: now,
		UpdatedDate: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateVenture inserts a venture owned by the given member.
func (f *Fixtures) CreateVenture(ctx context.Context, title string, owner models.Member) models.Venture {
	f.t.Helper()

	now := time.Now().UTC()
	v := models.Venture{
		ID:          primitive.NewObjectID(),
		Title:       title,
		OwnerID:     owner.ID.Hex(),
		OwnerName:   owner.FullName(),
		CreatedDate: now,
		UpdatedDate: now,
		CreatedBy:   owner.Email,
	}
	if _, err := f.db.Collection("ventures").InsertOne(ctx, v); err != nil {
		f.t.Fatalf("failed to create test venture: %v", err)
	}
	return v
}

// CreateActionCard inserts an action card owned by the given member.
func (f *Fixtures) CreateActionCard(ctx context.Context, title string, owner models.Member) models.ActionCard {
	f.t.Helper()

	now := time.Now().UTC()
	card := models.ActionCard{
		ID:          primitive.NewObjectID(),
		Title:       title,
		OwnerID:     owner.ID.Hex(),
		OwnerName:   owner.FullName(),
		CreatedDate: now,
		UpdatedDate: now,
		CreatedBy:   owner.Email,
	}
	if _, err := f.db.Collection("action_cards").InsertOne(ctx, card); err != nil {
		f.t.Fatalf("failed to create test action card: %v", err)
	}
	return card
}

// CreateMessage inserts a message between two members.
func (f *Fixtures) CreateMessage(ctx context.Context, from, to models.Member, subject string) models.Message {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Message{
		ID:          primitive.NewObjectID(),
		SenderID:    from.ID.Hex(),
		RecipientID: to.ID.Hex(),
		Subject:     subject,
		Content:     "test message body",
		CreatedDate: now,
		UpdatedDate: now,
		CreatedBy:   from.Email,
	}
	if _, err := f.db.Collection("messages").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test message: %v", err)
	}
	return m
}
