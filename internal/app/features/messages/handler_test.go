package messages_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/pod44apps/community-pulse/internal/app/features/messages"
	"github.com/pod44apps/community-pulse/internal/domain/models"
	"github.com/pod44apps/community-pulse/internal/testutil"
)

func newTestHandler(t *testing.T) (*messages.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := messages.NewHandler(db, zap.NewNop())
	return handler, testutil.NewFixtures(t, db)
}

func memberUser(m models.Member) testutil.TestUser {
	return testutil.TestUser{
		ID:    m.ID.Hex(),
		Name:  m.FullName(),
		Email: m.Email,
		Role:  "user",
	}
}

func TestHandleSend_DeliversToInbox(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "alice@example.com", "Alice", "Anderson")
	bob := fixtures.CreateMember(ctx, "bob@example.com", "Bob", "Baker")

	body := `{"recipient_id": "` + bob.ID.Hex() + `", "subject": "hello", "content": "Fancy a <b>coffee</b>?<script>x</script>"}`
	req := testutil.NewAuthenticatedRequest("POST", "/messages", strings.NewReader(body), memberUser(alice))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleSend(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var sent models.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &sent); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if sent.Read {
		t.Error("new message should start unread")
	}
	if strings.Contains(sent.Content, "<script>") {
		t.Errorf("content should be sanitized, got %q", sent.Content)
	}

	// Bob sees it in his inbox.
	inboxReq := testutil.NewAuthenticatedRequest("GET", "/messages/inbox", nil, memberUser(bob))
	inboxRec := httptest.NewRecorder()
	handler.ServeInbox(inboxRec, inboxReq)

	var inbox []models.Message
	if err := json.Unmarshal(inboxRec.Body.Bytes(), &inbox); err != nil {
		t.Fatalf("decode inbox failed: %v", err)
	}
	if len(inbox) != 1 {
		t.Fatalf("expected 1 inbox message, got %d", len(inbox))
	}
	if inbox[0].SenderID != alice.ID.Hex() {
		t.Errorf("SenderID: got %q, want %q", inbox[0].SenderID, alice.ID.Hex())
	}
}

func TestHandleSend_RejectsPendingRecipient(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "alice@example.com", "Alice", "Anderson")
	pending := fixtures.CreatePendingMember(ctx, "pending@example.com")

	body := `{"recipient_id": "` + pending.ID.Hex() + `", "content": "hi"}`
	req := testutil.NewAuthenticatedRequest("POST", "/messages", strings.NewReader(body), memberUser(alice))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleSend(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d for pending recipient, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHandleSend_RequiresContent(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "alice@example.com", "Alice", "Anderson")
	bob := fixtures.CreateMember(ctx, "bob@example.com", "Bob", "Baker")

	body := `{"recipient_id": "` + bob.ID.Hex() + `", "subject": "empty"}`
	req := testutil.NewAuthenticatedRequest("POST", "/messages", strings.NewReader(body), memberUser(alice))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleSend(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleMarkRead_RecipientOnly(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "alice@example.com", "Alice", "Anderson")
	bob := fixtures.CreateMember(ctx, "bob@example.com", "Bob", "Baker")
	msg := fixtures.CreateMessage(ctx, alice, bob, "hello")

	// The sender cannot mark the recipient's copy read.
	req := testutil.NewAuthenticatedRequest("POST", "/messages/"+msg.ID.Hex()+"/read", nil, memberUser(alice))
	req = testutil.WithChiURLParam(req, "id", msg.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleMarkRead(rec, req)

	var stored struct {
		Read bool `bson:"read"`
	}
	if err := fixtures.DB().Collection("messages").FindOne(ctx, bson.M{"_id": msg.ID}).Decode(&stored); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if stored.Read {
		t.Error("sender should not be able to mark the message read")
	}

	// The recipient can.
	req = testutil.NewAuthenticatedRequest("POST", "/messages/"+msg.ID.Hex()+"/read", nil, memberUser(bob))
	req = testutil.WithChiURLParam(req, "id", msg.ID.Hex())
	rec = httptest.NewRecorder()
	handler.HandleMarkRead(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if err := fixtures.DB().Collection("messages").FindOne(ctx, bson.M{"_id": msg.ID}).Decode(&stored); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if !stored.Read {
		t.Error("recipient mark-read should stick")
	}
}

func TestServeUnreadCount(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "alice@example.com", "Alice", "Anderson")
	bob := fixtures.CreateMember(ctx, "bob@example.com", "Bob", "Baker")
	fixtures.CreateMessage(ctx, alice, bob, "one")
	fixtures.CreateMessage(ctx, alice, bob, "two")

	req := testutil.NewAuthenticatedRequest("GET", "/messages/unread_count", nil, memberUser(bob))
	rec := httptest.NewRecorder()
	handler.ServeUnreadCount(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var resp struct {
		Unread int64 `json:"unread"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if resp.Unread != 2 {
		t.Errorf("Unread: got %d, want 2", resp.Unread)
	}
}
