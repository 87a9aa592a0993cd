package userstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	userstore "github.com/pod44apps/community-pulse/internal/app/store/users"
	"github.com/pod44apps/community-pulse/internal/domain/models"
	"github.com/pod44apps/community-pulse/internal/testutil"
)

func newStore(t *testing.T) *userstore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	return store
}

func TestStore_Create_NormalizesAndDefaults(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{
		Email:      "  Person@Example.COM ",
		FullName:   "  Test Person  ",
		Role:       models.RoleUser,
		AuthMethod: "password",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.Email != "person@example.com" {
		t.Errorf("Email: got %q, want normalized", u.Email)
	}
	if u.FullName != "Test Person" {
		t.Errorf("FullName: got %q, want trimmed", u.FullName)
	}
	if u.Status != models.UserActive {
		t.Errorf("Status: got %q, want %q", u.Status, models.UserActive)
	}

	loaded, err := store.GetByEmail(ctx, "PERSON@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if loaded.ID != u.ID {
		t.Errorf("GetByEmail returned wrong user: %v", loaded.ID)
	}
}

func TestStore_Create_RejectsBadRoleAndAuthMethod(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{
		Email: "a@example.com", FullName: "A", Role: "superuser", AuthMethod: "password",
	})
	if err == nil {
		t.Error("expected error for unknown role")
	}

	_, err = store.Create(ctx, models.User{
		Email: "b@example.com", FullName: "B", Role: models.RoleUser, AuthMethod: "ldap",
	})
	if err == nil {
		t.Error("expected error for unknown auth method")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := models.User{Email: "dup@example.com", FullName: "First", Role: models.RoleUser, AuthMethod: "password"}
	if _, err := store.Create(ctx, u); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	u.FullName = "Second"
	_, err := store.Create(ctx, u)
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_LinkGoogleID(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{
		Email: "g@example.com", FullName: "G", Role: models.RoleUser, AuthMethod: "password",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.LinkGoogleID(ctx, u.ID, "google-sub-123"); err != nil {
		t.Fatalf("LinkGoogleID failed: %v", err)
	}
	linked, err := store.GetByGoogleID(ctx, "google-sub-123")
	if err != nil {
		t.Fatalf("GetByGoogleID failed: %v", err)
	}
	if linked.ID != u.ID {
		t.Errorf("wrong user linked: %v", linked.ID)
	}

	_, err = store.GetByGoogleID(ctx, "unknown-sub")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected mongo.ErrNoDocuments for unknown sub, got %v", err)
	}
}

func TestStore_CountAdmins_ActiveOnly(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin, err := store.Create(ctx, models.User{
		Email: "admin@example.com", FullName: "Admin", Role: models.RoleAdmin, AuthMethod: "password",
	})
	if err != nil {
		t.Fatalf("Create admin failed: %v", err)
	}
	if _, err := store.Create(ctx, models.User{
		Email: "user@example.com", FullName: "User", Role: models.RoleUser, AuthMethod: "password",
	}); err != nil {
		t.Fatalf("Create user failed: %v", err)
	}

	n, err := store.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("CountAdmins failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountAdmins: got %d, want 1", n)
	}

	// Disabled admins don't count toward the seed check.
	if err := store.SetStatus(ctx, admin.ID, models.UserDisabled); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	n, err = store.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("CountAdmins failed: %v", err)
	}
	if n != 0 {
		t.Errorf("CountAdmins after disable: got %d, want 0", n)
	}
}
