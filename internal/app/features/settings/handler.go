package settings

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	settingsstore "github.com/pod44apps/community-pulse/internal/app/store/settings"
	"github.com/pod44apps/community-pulse/internal/app/system/auth"
	"github.com/pod44apps/community-pulse/internal/app/system/httpjson"
	"github.com/pod44apps/community-pulse/internal/app/system/theme"
	"github.com/pod44apps/community-pulse/internal/domain/models"
)

// Handler owns the app settings and theme endpoints.
type Handler struct {
	Settings *settingsstore.Store
	Log      *zap.Logger
}

// NewHandler constructs a settings Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Settings: settingsstore.New(db), Log: logger}
}

// ServeSettings handles GET /settings. Public: the app name, logo, and
// theme are needed before login.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Settings.Get(r.Context())
	if err != nil {
		h.Log.Error("settings fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load settings")
		return
	}
	httpjson.Respond(w, http.StatusOK, s)
}

type settingsRequest struct {
	AppName      string               `json:"app_name"`
	AppLogo      string               `json:"app_logo"`
	TagLine      string               `json:"tag_line"`
	ColorTheme   string               `json:"color_theme"`
	CustomColors *models.CustomColors `json:"custom_colors"`
}

// HandleSave handles PUT /settings (admin only).
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AppName == "" {
		httpjson.Error(w, http.StatusBadRequest, "app_name is required")
		return
	}
	if req.ColorTheme != "" {
		if _, ok := theme.Palettes[req.ColorTheme]; !ok {
			httpjson.Error(w, http.StatusBadRequest, "unknown color theme")
			return
		}
	}

	updatedBy := ""
	if su, ok := auth.CurrentUser(r); ok {
		updatedBy = su.Email
	}

	err := h.Settings.Save(r.Context(), models.Settings{
		AppName:      req.AppName,
		AppLogo:      req.AppLogo,
		TagLine:      req.TagLine,
		ColorTheme:   req.ColorTheme,
		CustomColors: req.CustomColors,
	}, updatedBy)
	if err != nil {
		h.Log.Error("settings save failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not save settings")
		return
	}

	s, err := h.Settings.Get(r.Context())
	if err != nil {
		h.Log.Error("settings reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load settings")
		return
	}
	h.Log.Info("settings saved", zap.String("by", updatedBy))
	httpjson.Respond(w, http.StatusOK, s)
}

// ServeThemeCSS handles GET /settings/theme.css: the resolved palette as a
// :root custom-property block the front end links directly.
func (h *Handler) ServeThemeCSS(w http.ResponseWriter, r *http.Request) {
	s, err := h.Settings.Get(r.Context())
	if err != nil {
		h.Log.Error("settings fetch failed", zap.Error(err))
		http.Error(w, "could not load theme", http.StatusInternalServerError)
		return
	}

	css := theme.Stylesheet(theme.Variables(theme.Resolve(s)))
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(css))
}
