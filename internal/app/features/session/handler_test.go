package session_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pod44apps/community-pulse/internal/app/features/session"
	"github.com/pod44apps/community-pulse/internal/app/system/auth"
	"github.com/pod44apps/community-pulse/internal/domain/models"
	"github.com/pod44apps/community-pulse/internal/testutil"
)

func newTestHandler(t *testing.T) (*session.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if auth.Store == nil {
		err := auth.InitSessionStore("test-session-key-for-testing-only", "test-session", "", false, zap.NewNop())
		if err != nil {
			t.Fatalf("InitSessionStore failed: %v", err)
		}
	}
	handler := session.NewHandler(db, zap.NewNop())

	// The duplicate-email path depends on the unique index.
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := handler.Users.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	return handler, testutil.NewFixtures(t, db)
}

// createPasswordUser inserts an active account that can log in with the
// given password.
func createPasswordUser(t *testing.T, fixtures *testutil.Fixtures, email, password string) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	u := fixtures.CreateUser(ctx, email, "Test Person", models.RoleUser)
	_, err = fixtures.DB().Collection("users").UpdateOne(ctx,
		bson.M{"_id": u.ID},
		bson.M{"$set": bson.M{"password_hash": string(hash)}})
	if err != nil {
		t.Fatalf("set password hash failed: %v", err)
	}
}

func TestHandleLogin_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	createPasswordUser(t, fixtures, "person@example.com", "correct horse")

	body := `{"email": "Person@Example.com", "password": "correct horse"}`
	req := testutil.NewRequest("POST", "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie on successful login")
	}

	var resp struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if resp.Email != "person@example.com" {
		t.Errorf("Email: got %q, want %q", resp.Email, "person@example.com")
	}
	if resp.Role != models.RoleUser {
		t.Errorf("Role: got %q, want %q", resp.Role, models.RoleUser)
	}
}

func TestHandleLogin_UniformFailureResponses(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	createPasswordUser(t, fixtures, "person@example.com", "correct horse")

	tests := []struct {
		name string
		body string
	}{
		{"wrong_password", `{"email": "person@example.com", "password": "battery staple"}`},
		{"unknown_email", `{"email": "nobody@example.com", "password": "correct horse"}`},
	}

	var messages []string
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewRequest("POST", "/auth/login", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.HandleLogin(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
			}
			messages = append(messages, rec.Body.String())
		})
	}

	// Both failures must be indistinguishable.
	if len(messages) == 2 && messages[0] != messages[1] {
		t.Errorf("failure responses differ: %q vs %q", messages[0], messages[1])
	}
}

func TestHandleLogin_DisabledAccount(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	createPasswordUser(t, fixtures, "disabled@example.com", "correct horse")
	_, err := fixtures.DB().Collection("users").UpdateOne(ctx,
		bson.M{"email": "disabled@example.com"},
		bson.M{"$set": bson.M{"status": models.UserDisabled}})
	if err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	body := `{"email": "disabled@example.com", "password": "correct horse"}`
	req := testutil.NewRequest("POST", "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestHandleRegister_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	body := `{"email": "New@Example.com", "full_name": "New Person", "password": "longenough"}`
	req := testutil.NewRequest("POST", "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleRegister(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var stored struct {
		Email      string `bson:"email"`
		Role       string `bson:"role"`
		AuthMethod string `bson:"auth_method"`
		Status     string `bson:"status"`
	}
	err := fixtures.DB().Collection("users").FindOne(ctx, bson.M{"email": "new@example.com"}).Decode(&stored)
	if err != nil {
		t.Fatalf("registered user not found: %v", err)
	}
	if stored.Role != models.RoleUser {
		t.Errorf("Role: got %q, want %q", stored.Role, models.RoleUser)
	}
	if stored.AuthMethod != "password" {
		t.Errorf("AuthMethod: got %q, want %q", stored.AuthMethod, "password")
	}
	if stored.Status != models.UserActive {
		t.Errorf("Status: got %q, want %q", stored.Status, models.UserActive)
	}
}

func TestHandleRegister_ShortPassword(t *testing.T) {
	handler, _ := newTestHandler(t)

	body := `{"email": "new@example.com", "full_name": "New Person", "password": "short"}`
	req := testutil.NewRequest("POST", "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleRegister(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "taken@example.com", "Existing Person", models.RoleUser)

	body := `{"email": "taken@example.com", "full_name": "New Person", "password": "longenough"}`
	req := testutil.NewRequest("POST", "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleRegister(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d: %s", http.StatusConflict, rec.Code, rec.Body.String())
	}
}

func TestServeMe_CreatesMemberProfile(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := testutil.TestUser{
		ID:    "68b1c2d3e4f5a6b7c8d9e0f1",
		Name:  "Grace Brewster Hopper",
		Email: "grace@example.com",
		Role:  "user",
	}
	req := testutil.NewAuthenticatedRequest("GET", "/auth/me", nil, user)
	rec := httptest.NewRecorder()
	handler.ServeMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		MemberID     string `json:"member_id"`
		MemberStatus string `json:"member_status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if resp.MemberID == "" {
		t.Error("expected a member profile to be created")
	}
	if resp.MemberStatus != models.MemberApproved {
		t.Errorf("MemberStatus: got %q, want %q", resp.MemberStatus, models.MemberApproved)
	}

	var stored struct {
		FirstName string `bson:"first_name"`
		LastName  string `bson:"last_name"`
	}
	err := fixtures.DB().Collection("members").FindOne(ctx, bson.M{"email": "grace@example.com"}).Decode(&stored)
	if err != nil {
		t.Fatalf("member profile not found: %v", err)
	}
	if stored.FirstName != "Grace" || stored.LastName != "Brewster Hopper" {
		t.Errorf("name split: got %q %q, want %q %q", stored.FirstName, stored.LastName, "Grace", "Brewster Hopper")
	}
}

func TestServeMe_Unauthenticated(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/auth/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeMe(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestHandleLogout(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest("POST", "/auth/logout", nil)
	rec := httptest.NewRecorder()
	handler.HandleLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}
