package members

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	memberstore "github.com/pod44apps/community-pulse/internal/app/store/members"
	"github.com/pod44apps/community-pulse/internal/app/system/auth"
	"github.com/pod44apps/community-pulse/internal/app/system/authz"
	"github.com/pod44apps/community-pulse/internal/app/system/htmlsanitize"
	"github.com/pod44apps/community-pulse/internal/app/system/httpjson"
	"github.com/pod44apps/community-pulse/internal/app/system/memberident"
	"github.com/pod44apps/community-pulse/internal/app/system/normalize"
	"github.com/pod44apps/community-pulse/internal/domain/models"
)

// Handler owns the member directory and profile endpoints.
type Handler struct {
	Members *memberstore.Store
	Log     *zap.Logger
}

// NewHandler constructs a members Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Members: memberstore.New(db), Log: logger}
}

// ServeDirectory handles GET /members. Plain users see the approved
// directory (optionally searched with ?q=); admins may also filter by
// ?status= to review pending and rejected members.
func (h *Handler) ServeDirectory(w http.ResponseWriter, r *http.Request) {
	status := normalize.Status(r.URL.Query().Get("status"))
	if status != "" && authz.IsAdmin(r) {
		list, err := h.Members.List(r.Context(), status)
		if err != nil {
			h.Log.Error("member list failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "could not list members")
			return
		}
		httpjson.Respond(w, http.StatusOK, orEmpty(list))
		return
	}

	list, err := h.Members.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.Log.Error("member search failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not search members")
		return
	}
	httpjson.Respond(w, http.StatusOK, orEmpty(list))
}

type vocabularyResponse struct {
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

// ServeVocabulary handles GET /members/vocabulary, returning the distinct
// skills and interests the directory filters offer.
func (h *Handler) ServeVocabulary(w http.ResponseWriter, r *http.Request) {
	skills, interests, err := h.Members.Vocabulary(r.Context())
	if err != nil {
		h.Log.Error("vocabulary query failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load vocabulary")
		return
	}
	if skills == nil {
		skills = []string{}
	}
	if interests == nil {
		interests = []string{}
	}
	httpjson.Respond(w, http.StatusOK, vocabularyResponse{Skills: skills, Interests: interests})
}

// ServeMember handles GET /members/{id}.
func (h *Handler) ServeMember(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid member id")
		return
	}

	m, err := h.Members.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "member not found")
			return
		}
		h.Log.Error("member fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load member")
		return
	}

	// Non-admins only see approved members.
	if m.Status != models.MemberApproved && !authz.IsAdmin(r) {
		httpjson.Error(w, http.StatusNotFound, "member not found")
		return
	}
	httpjson.Respond(w, http.StatusOK, m)
}

type profileRequest struct {
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	ProfileImage     string   `json:"profile_image"`
	Bio              string   `json:"bio"`
	City             string   `json:"city"`
	Country          string   `json:"country"`
	Phone            string   `json:"phone"`
	Skills           []string `json:"skills"`
	Interests        []string `json:"interests"`
	PrimaryElement   string   `json:"primary_element"`
	SecondaryElement string   `json:"secondary_element"`
}

// HandleUpdateProfile handles PUT /members/me: the signed-in user edits
// their own profile. The bio accepts limited HTML and is sanitized.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req profileRequest
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

	upd := memberstore.ProfileUpdate{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		ProfileImage:     req.ProfileImage,
		Bio:              htmlsanitize.Sanitize(req.Bio),
		City:             req.City,
		Country:          req.Country,
		Phone:            req.Phone,
		Skills:           req.Skills,
		Interests:        req.Interests,
		PrimaryElement:   req.PrimaryElement,
		SecondaryElement: req.SecondaryElement,
	}
	if err := h.Members.UpdateProfile(r.Context(), m.ID, upd); err != nil {
		h.Log.Error("profile update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update profile")
		return
	}

	updated, err := h.Members.GetByID(r.Context(), m.ID)
	if err != nil {
		h.Log.Error("profile reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus handles POST /members/{id}/status (admin only): moves a
// member between pending, approved, and rejected.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid member id")
		return
	}

	var req statusRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Members.SetStatus(r.Context(), id, normalize.Status(req.Status)); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.Log.Info("member status changed",
		zap.String("member_id", id.Hex()),
		zap.String("status", req.Status))
	httpjson.Respond(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleDelete handles DELETE /members/{id} (admin only).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid member id")
		return
	}

	n, err := h.Members.Delete(r.Context(), id)
	if err != nil {
		h.Log.Error("member delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete member")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "member not found")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func orEmpty(list []models.Member) []models.Member {
	if list == nil {
		return []models.Member{}
	}
	return list
}
