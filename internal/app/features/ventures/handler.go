package ventures

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	memberstore "github.com/pod44apps/community-pulse/internal/app/store/members"
	venturestore "github.com/pod44apps/community-pulse/internal/app/store/ventures"
	"github.com/pod44apps/community-pulse/internal/app/system/auth"
	"github.com/pod44apps/community-pulse/internal/app/system/authz"
	"github.com/pod44apps/community-pulse/internal/app/system/htmlsanitize"
	"github.com/pod44apps/community-pulse/internal/app/system/httpjson"
	"github.com/pod44apps/community-pulse/internal/app/system/memberident"
	"github.com/pod44apps/community-pulse/internal/domain/models"
)

// Handler owns the venture listing endpoints.
type Handler struct {
	Ventures *venturestore.Store
	Members  *memberstore.Store
	Log      *zap.Logger
}

// NewHandler constructs a ventures Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Ventures: venturestore.New(db),
		Members:  memberstore.New(db),
		Log:      logger,
	}
}

// ServeList handles GET /ventures with optional ?q= and ?category=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var (
		list []models.Venture
		err  error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		list, err = h.Ventures.Search(r.Context(), q)
	} else {
		list, err = h.Ventures.List(r.Context(), r.URL.Query().Get("category"))
	}
	if err != nil {
		h.Log.Error("venture list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list ventures")
		return
	}
	httpjson.Respond(w, http.StatusOK, orEmpty(list))
}

// ServeVenture handles GET /ventures/{id}.
func (h *Handler) ServeVenture(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid venture id")
		return
	}
	v, err := h.Ventures.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "venture not found")
			return
		}
		h.Log.Error("venture fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load venture")
		return
	}
	httpjson.Respond(w, http.StatusOK, v)
}

type ventureRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	WantsNeeds  []string `json:"wants_needs"`
}

// HandleCreate handles POST /ventures. The signed-in member becomes the
// owner, denormalized onto the record.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req ventureRequest
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

	v, err := h.Ventures.Create(r.Context(), models.Venture{
		Title:       req.Title,
		Description: htmlsanitize.Sanitize(req.Description),
		Category:    req.Category,
		Image:       req.Image,
		WantsNeeds:  req.WantsNeeds,
		OwnerID:     m.ID.Hex(),
		OwnerName:   m.FullName(),
		OwnerImage:  m.ProfileImage,
		CreatedBy:   m.Email,
	})
	if err != nil {
		h.Log.Error("venture create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create venture")
		return
	}
	httpjson.Respond(w, http.StatusCreated, v)
}

// HandleUpdate handles PUT /ventures/{id}. Only the owner may edit.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid venture id")
		return
	}

	var req ventureRequest
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

	modified, err := h.Ventures.UpdateOwned(r.Context(), id, m.ID.Hex(), venturestore.Update{
		Title:       req.Title,
		Description: htmlsanitize.Sanitize(req.Description),
		Category:    req.Category,
		Image:       req.Image,
		WantsNeeds:  req.WantsNeeds,
	})
	if err != nil {
		h.Log.Error("venture update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update venture")
		return
	}
	if !modified {
		httpjson.Error(w, http.StatusNotFound, "venture not found")
		return
	}

	v, err := h.Ventures.GetByID(r.Context(), id)
	if err != nil {
		h.Log.Error("venture reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load venture")
		return
	}
	httpjson.Respond(w, http.StatusOK, v)
}

// HandleDelete handles DELETE /ventures/{id}. The owner may delete their
// own venture; admins may delete any.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid venture id")
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

	n, err := h.Ventures.DeleteOwned(r.Context(), id, ownerID)
	if err != nil {
		h.Log.Error("venture delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete venture")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "venture not found")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func orEmpty(list []models.Venture) []models.Venture {
	if list == nil {
		return []models.Venture{}
	}
	return list
}
