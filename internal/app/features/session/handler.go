package session

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pod44apps/community-pulse/internal/app/system/auth"
	"github.com/pod44apps/community-pulse/internal/app/system/httpjson"
	"github.com/pod44apps/community-pulse/internal/app/system/memberident"
	"github.com/pod44apps/community-pulse/internal/app/system/normalize"
	memberstore "github.com/pod44apps/community-pulse/internal/app/store/members"
	userstore "github.com/pod44apps/community-pulse/internal/app/store/users"
	"github.com/pod44apps/community-pulse/internal/domain/models"
)

// Handler owns password login, logout, registration, and the current-user
// endpoint.
type Handler struct {
	Users   *userstore.Store
	Members *memberstore.Store
	Log     *zap.Logger
}

// NewHandler constructs a session Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   userstore.New(db),
		Members: memberstore.New(db),
		Log:     logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	ProfileImage string `json:"profile_image,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:           u.ID.Hex(),
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		ProfileImage: u.ProfileImage,
	}
}

// HandleLogin handles POST /auth/login with an email/password body.
// Failed lookups and bad passwords return the same 401 so the response
// does not reveal which emails have accounts.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			h.Log.Error("login lookup failed", zap.Error(err))
		}
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if u.Status != models.UserActive || u.PasswordHash == "" {
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := auth.Establish(w, r, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}); err != nil {
		h.Log.Error("session establish failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not establish session")
		return
	}

	h.Log.Info("user logged in", zap.String("email", u.Email))
	httpjson.Respond(w, http.StatusOK, toUserResponse(u))
}

type registerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// HandleRegister handles POST /auth/register, creating a password account
// with the plain user role and signing it in.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if normalize.Email(req.Email) == "" || req.FullName == "" {
		httpjson.Error(w, http.StatusBadRequest, "email and full_name are required")
		return
	}
	if len(req.Password) < 8 {
		httpjson.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	u, err := h.Users.Create(r.Context(), models.User{
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         models.RoleUser,
		AuthMethod:   "password",
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("account create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	if err := auth.Establish(w, r, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}); err != nil {
		h.Log.Error("session establish failed", zap.Error(err))
	}

	h.Log.Info("user registered", zap.String("email", u.Email))
	httpjson.Respond(w, http.StatusCreated, toUserResponse(&u))
}

// HandleLogout handles POST /auth/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.Clear(w, r); err != nil {
		h.Log.Warn("session clear failed", zap.Error(err))
	}
	httpjson.Respond(w, http.StatusOK, map[string]bool{"ok": true})
}

type meResponse struct {
	userResponse
	MemberID     string `json:"member_id,omitempty"`
	MemberStatus string `json:"member_status,omitempty"`
}

// ServeMe handles GET /auth/me. It returns the session identity and the
// linked member profile, creating the profile on first call.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	resp := meResponse{userResponse: userResponse{
		ID:       su.ID,
		Email:    su.Email,
		FullName: su.Name,
		Role:     su.Role,
	}}

	m, err := memberident.Resolve(r.Context(), h.Members, *su)
	if err != nil {
		h.Log.Error("member resolution failed", zap.Error(err), zap.String("email", su.Email))
		httpjson.Error(w, http.StatusInternalServerError, "could not resolve member profile")
		return
	}
	resp.MemberID = m.ID.Hex()
	resp.MemberStatus = m.Status
	resp.ProfileImage = m.ProfileImage

	httpjson.Respond(w, http.StatusOK, resp)
}
