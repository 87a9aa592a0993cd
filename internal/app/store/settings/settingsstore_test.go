package settingsstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	settingsstore "github.com/pod44apps/community-pulse/internal/app/store/settings"
	"github.com/pod44apps/community-pulse/internal/domain/models"
	"github.com/pod44apps/community-pulse/internal/testutil"
)

func TestStore_Get_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if s.AppName != models.DefaultAppName {
		t.Errorf("AppName: got %q, want default %q", s.AppName, models.DefaultAppName)
	}
	if s.ColorTheme != models.DefaultColorTheme {
		t.Errorf("ColorTheme: got %q, want default %q", s.ColorTheme, models.DefaultColorTheme)
	}
}

func TestStore_Save_ThenGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Save(ctx, models.Settings{
		AppName:    "Oak Street Hub",
		TagLine:    "Neighbors helping neighbors",
		ColorTheme: "ocean-blue",
	}, "admin@example.com")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if s.AppName != "Oak Street Hub" {
		t.Errorf("AppName: got %q, want %q", s.AppName, "Oak Street Hub")
	}
	if s.ColorTheme != "ocean-blue" {
		t.Errorf("ColorTheme: got %q, want %q", s.ColorTheme, "ocean-blue")
	}
	if s.CreatedBy != "admin@example.com" {
		t.Errorf("CreatedBy: got %q, want %q", s.CreatedBy, "admin@example.com")
	}
}

func TestStore_Save_UpsertsSingleton(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, models.Settings{AppName: "First"}, "a@example.com"); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := store.Save(ctx, models.Settings{AppName: "Second"}, "b@example.com"); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	count, err := db.Collection("settings").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected a single settings document, got %d", count)
	}

	s, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if s.AppName != "Second" {
		t.Errorf("AppName: got %q, want %q", s.AppName, "Second")
	}
	// created_by records the first writer, not later editors.
	if s.CreatedBy != "a@example.com" {
		t.Errorf("CreatedBy: got %q, want %q", s.CreatedBy, "a@example.com")
	}
}
