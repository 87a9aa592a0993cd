package messages

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	memberstore "github.com/pod44apps/community-pulse/internal/app/store/members"
	messagestore "github.com/pod44apps/community-pulse/internal/app/store/messages"
	"github.com/pod44apps/community-pulse/internal/app/system/auth"
	"github.com/pod44apps/community-pulse/internal/app/system/htmlsanitize"
	"github.com/pod44apps/community-pulse/internal/app/system/httpjson"
	"github.com/pod44apps/community-pulse/internal/app/system/memberident"
	"github.com/pod44apps/community-pulse/internal/domain/models"
)

// Handler owns the member-to-member messaging endpoints.
type Handler struct {
	Messages *messagestore.Store
	Members  *memberstore.Store
	Log      *zap.Logger
}

// NewHandler constructs a messages Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Messages: messagestore.New(db),
		Members:  memberstore.New(db),
		Log:      logger,
	}
}

// member resolves the signed-in user to their member profile, writing the
// error response itself when that fails.
func (h *Handler) member(w http.ResponseWriter, r *http.Request) (*models.Member, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	m, err := memberident.Resolve(r.Context(), h.Members, *su)
	if err != nil {
		h.Log.Error("member resolution failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not resolve member profile")
		return nil, false
	}
	return m, true
}

// ServeInbox handles GET /messages/inbox.
func (h *Handler) ServeInbox(w http.ResponseWriter, r *http.Request) {
	m, ok := h.member(w, r)
	if !ok {
		return
	}
	msgs, err := h.Messages.Inbox(r.Context(), m.ID.Hex())
	if err != nil {
		h.Log.Error("inbox query failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load inbox")
		return
	}
	httpjson.Respond(w, http.StatusOK, orEmpty(msgs))
}

// ServeSent handles GET /messages/sent.
func (h *Handler) ServeSent(w http.ResponseWriter, r *http.Request) {
	m, ok := h.member(w, r)
	if !ok {
		return
	}
	msgs, err := h.Messages.Sent(r.Context(), m.ID.Hex())
	if err != nil {
		h.Log.Error("sent query failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load sent messages")
		return
	}
	httpjson.Respond(w, http.StatusOK, orEmpty(msgs))
}

type sendRequest struct {
	RecipientID string `json:"recipient_id"`
	Subject     string `json:"subject"`
	Content     string `json:"content"`
}

// HandleSend handles POST /messages. The recipient must be an approved
// member; content accepts limited HTML and is sanitized.
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	m, ok := h.member(w, r)
	if !ok {
		return
	}

	var req sendRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		httpjson.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid recipient id")
		return
	}
	recipient, err := h.Members.GetByID(r.Context(), recipientID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "recipient not found")
			return
		}
		h.Log.Error("recipient lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not send message")
		return
	}
	if recipient.Status != models.MemberApproved {
		httpjson.Error(w, http.StatusNotFound, "recipient not found")
		return
	}

	msg, err := h.Messages.Create(r.Context(), models.Message{
		SenderID:    m.ID.Hex(),
		RecipientID: recipient.ID.Hex(),
		Subject:     req.Subject,
		Content:     htmlsanitize.Sanitize(req.Content),
		CreatedBy:   m.Email,
	})
	if err != nil {
		h.Log.Error("message create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not send message")
		return
	}

	h.Log.Info("message sent",
		zap.String("from", msg.SenderID),
		zap.String("to", msg.RecipientID))
	httpjson.Respond(w, http.StatusCreated, msg)
}

// HandleMarkRead handles POST /messages/{id}/read. Only the recipient can
// mark a message read; anyone else's request is a no-op.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	m, ok := h.member(w, r)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid message id")
		return
	}

	if err := h.Messages.MarkRead(r.Context(), id, m.ID.Hex()); err != nil {
		h.Log.Error("mark read failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update message")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]bool{"ok": true})
}

// ServeUnreadCount handles GET /messages/unread_count.
func (h *Handler) ServeUnreadCount(w http.ResponseWriter, r *http.Request) {
	m, ok := h.member(w, r)
	if !ok {
		return
	}
	n, err := h.Messages.UnreadCount(r.Context(), m.ID.Hex())
	if err != nil {
		h.Log.Error("unread count failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not count unread messages")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]int64{"unread": n})
}

func orEmpty(list []models.Message) []models.Message {
	if list == nil {
		return []models.Message{}
	}
	return list
}
