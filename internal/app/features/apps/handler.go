package apps

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	appstore "github.com/pod44apps/community-pulse/internal/app/store/apps"
	memberstore "github.com/pod44apps/community-pulse/internal/app/store/members"
	"github.com/pod44apps/community-pulse/internal/app/system/auth"
	"github.com/pod44apps/community-pulse/internal/app/system/authz"
	"github.com/pod44apps/community-pulse/internal/app/system/htmlsanitize"
	"github.com/pod44apps/community-pulse/internal/app/system/httpjson"
	"github.com/pod44apps/community-pulse/internal/app/system/memberident"
	"github.com/pod44apps/community-pulse/internal/domain/models"
)

// Handler owns the community app-store endpoints.
type Handler struct {
	Apps    *appstore.Store
	Members *memberstore.Store
	Log     *zap.Logger
}

// NewHandler constructs an apps Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Apps:    appstore.New(db),
		Members: memberstore.New(db),
		Log:     logger,
	}
}

// ServeList handles GET /apps with optional ?q= and ?category=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var (
		list []models.App
		err  error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		list, err = h.Apps.Search(r.Context(), q)
	} else {
		list, err = h.Apps.List(r.Context(), r.URL.Query().Get("category"))
	}
	if err != nil {
		h.Log.Error("app list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list apps")
		return
	}
	if list == nil {
		list = []models.App{}
	}
	httpjson.Respond(w, http.StatusOK, list)
}

// ServeApp handles GET /apps/{id}.
func (h *Handler) ServeApp(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid app id")
		return
	}
	a, err := h.Apps.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "app not found")
			return
		}
		h.Log.Error("app fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load app")
		return
	}
	httpjson.Respond(w, http.StatusOK, a)
}

type appRequest struct {
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
}

// HandleCreate handles POST /apps.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req appRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	m, err := memberident.Resolve(r.Context(), h.Members, *su)
	if err != nil {
		h.Log.Error("member resolution failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not resolve member profile")
		return
	}

	a, err := h.Apps.Create(r.Context(), models.App{
		Name:        req.Name,
		Icon:        req.Icon,
		Description: htmlsanitize.Sanitize(req.Description),
		Category:    req.Category,
		URL:         req.URL,
		Tags:        req.Tags,
		OwnerID:     m.ID.Hex(),
		OwnerName:   m.FullName(),
		CreatedBy:   m.Email,
	})
	if err != nil {
		h.Log.Error("app create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create app")
		return
	}
	httpjson.Respond(w, http.StatusCreated, a)
}

// HandleUpdate handles PUT /apps/{id}. Only the owner may edit.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid app id")
		return
	}

	var req appRequest
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

	modified, err := h.Apps.UpdateOwned(r.Context(), id, m.ID.Hex(), appstore.Update{
		Name:        req.Name,
		Icon:        req.Icon,
		Description: htmlsanitize.Sanitize(req.Description),
		Category:    req.Category,
		URL:         req.URL,
		Tags:        req.Tags,
	})
	if err != nil {
		h.Log.Error("app update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update app")
		return
	}
	if !modified {
		httpjson.Error(w, http.StatusNotFound, "app not found")
		return
	}

	a, err := h.Apps.GetByID(r.Context(), id)
	if err != nil {
		h.Log.Error("app reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load app")
		return
	}
	httpjson.Respond(w, http.StatusOK, a)
}

// HandleDelete handles DELETE /apps/{id}. Owner or admin.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid app id")
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

	n, err := h.Apps.DeleteOwned(r.Context(), id, ownerID)
	if err != nil {
		h.Log.Error("app delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete app")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "app not found")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]bool{"ok": true})
}
