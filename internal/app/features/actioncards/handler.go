package actioncards

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	actioncardstore "github.com/pod44apps/community-pulse/internal/app/store/actioncards"
	memberstore "github.com/pod44apps/community-pulse/internal/app/store/members"
	"github.com/pod44apps/community-pulse/internal/app/system/auth"
	"github.com/pod44apps/community-pulse/internal/app/system/authz"
	"github.com/pod44apps/community-pulse/internal/app/system/htmlsanitize"
	"github.com/pod44apps/community-pulse/internal/app/system/httpjson"
	"github.com/pod44apps/community-pulse/internal/app/system/memberident"
	"github.com/pod44apps/community-pulse/internal/domain/models"
)

// Handler owns the action-card (offer/resource) endpoints.
type Handler struct {
	Cards   *actioncardstore.Store
	Members *memberstore.Store
	Log     *zap.Logger
}

// NewHandler constructs an action-cards Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Cards:   actioncardstore.New(db),
		Members: memberstore.New(db),
		Log:     logger,
	}
}

// ServeList handles GET /action_cards with optional ?q= and ?category=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var (
		list []models.ActionCard
		err  error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		list, err = h.Cards.Search(r.Context(), q)
	} else {
		list, err = h.Cards.List(r.Context(), r.URL.Query().Get("category"))
	}
	if err != nil {
		h.Log.Error("action card list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list action cards")
		return
	}
	httpjson.Respond(w, http.StatusOK, orEmpty(list))
}

// ServeCard handles GET /action_cards/{id}.
func (h *Handler) ServeCard(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid action card id")
		return
	}
	card, err := h.Cards.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "action card not found")
			return
		}
		h.Log.Error("action card fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load action card")
		return
	}
	httpjson.Respond(w, http.StatusOK, card)
}

type cardRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Image       string            `json:"image"`
	Quantity    int               `json:"quantity"`
	Location    string            `json:"location"`
	Tags        []string          `json:"tags"`
	Links       []models.CardLink `json:"links"`
}

// HandleCreate handles POST /action_cards.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req cardRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		httpjson.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	m, err := memberident.Resolve(r.Context(), h.Members, *su)
	if err != nil {
		h.Log.Error("member resolution failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not resolve member profile")
		return
	}

	card, err := h.Cards.Create(r.Context(), models.ActionCard{
		Title:       req.Title,
		Description: htmlsanitize.Sanitize(req.Description),
		Category:    req.Category,
		Image:       req.Image,
		Quantity:    req.Quantity,
		Location:    req.Location,
		Tags:        req.Tags,
		Links:       req.Links,
		OwnerID:     m.ID.Hex(),
		OwnerName:   m.FullName(),
		OwnerImage:  m.ProfileImage,
		CreatedBy:   m.Email,
	})
	if err != nil {
		h.Log.Error("action card create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create action card")
		return
	}
	httpjson.Respond(w, http.StatusCreated, card)
}

// HandleUpdate handles PUT /action_cards/{id}. Only the owner may edit.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid action card id")
		return
	}

	var req cardRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := memberident.Resolve(r.Context(), h.Members, *su)
	if err != nil {
		h.Log.Error("member resolution failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not resolve member profile")
		return
	}

	modified, err := h.Cards.UpdateOwned(r.Context(), id, m.ID.Hex(), actioncardstore.Update{
		Title:       req.Title,
		Description: htmlsanitize.Sanitize(req.Description),
		Category:    req.Category,
		Image:       req.Image,
		Quantity:    req.Quantity,
		Location:    req.Location,
		Tags:        req.Tags,
		Links:       req.Links,
	})
	if err != nil {
		h.Log.Error("action card update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update action card")
		return
	}
	if !modified {
		httpjson.Error(w, http.StatusNotFound, "action card not found")
		return
	}

	card, err := h.Cards.GetByID(r.Context(), id)
	if err != nil {
		h.Log.Error("action card reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load action card")
		return
	}
	httpjson.Respond(w, http.StatusOK, card)
}

// HandleDelete handles DELETE /action_cards/{id}. Owner or admin.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid action card id")
		return
	}

	ownerID := ""
	if !authz.IsAdmin(r) {
		m, err := memberident.Resolve(r.Context(), h.Members, *su)
		if err != nil {
			h.Log.Error("member resolution failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "could not resolve member profile")
			return
		}
		ownerID = m.ID.Hex()
	}

	n, err := h.Cards.DeleteOwned(r.Context(), id, ownerID)
	if err != nil {
		h.Log.Error("action card delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete action card")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "action card not found")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func orEmpty(list []models.ActionCard) []models.ActionCard {
	if list == nil {
		return []models.ActionCard{}
	}
	return list
}
