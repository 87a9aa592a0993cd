// internal/app/bootstrap/routes.go
package bootstrap

import (
	"encoding/base64"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	actioncardsfeature "github.com/pod44apps/community-pulse/internal/app/features/actioncards"
	appsfeature "github.com/pod44apps/community-pulse/internal/app/features/apps"
	authgooglefeature "github.com/pod44apps/community-pulse/internal/app/features/authgoogle"
	backupfeature "github.com/pod44apps/community-pulse/internal/app/features/backup"
	healthfeature "github.com/pod44apps/community-pulse/internal/app/features/health"
	membersfeature "github.com/pod44apps/community-pulse/internal/app/features/members"
	messagesfeature "github.com/pod44apps/community-pulse/internal/app/features/messages"
	sessionfeature "github.com/pod44apps/community-pulse/internal/app/features/session"
	settingsfeature "github.com/pod44apps/community-pulse/internal/app/features/settings"
	venturesfeature "github.com/pod44apps/community-pulse/internal/app/features/ventures"
	"github.com/pod44apps/community-pulse/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. The hub is a JSON API: features mount under
// their own prefixes, sessions ride a signed cookie, and everything except
// health, settings, and auth requires a signed-in user.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"

	sessionKey := appCfg.SessionKey
	if sessionKey == "" {
		// Dev convenience: sessions won't survive a restart.
		sessionKey = base64.RawStdEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
		logger.Warn("session_key not configured; generated a volatile dev key")
	}
	if err := auth.InitSessionStore(sessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	r := chi.NewRouter()

	// Loads the SessionUser into context when a valid session cookie is
	// present, for auth.CurrentUser(r) everywhere downstream.
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	// App identity and theme: public, needed before login.
	r.Route("/settings", settingsfeature.NewHandler(db, logger).MountRoutes)

	// Authentication.
	r.Route("/auth", func(r chi.Router) {
		sessionfeature.NewHandler(db, logger).MountRoutes(r)
		r.Route("/google", authgooglefeature.NewHandler(
			db, appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger).MountRoutes)
	})

	// Community features: signed-in users only.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)

		r.Route("/members", membersfeature.NewHandler(db, logger).MountRoutes)
		r.Route("/messages", messagesfeature.NewHandler(db, logger).MountRoutes)
		r.Route("/ventures", venturesfeature.NewHandler(db, logger).MountRoutes)
		r.Route("/action_cards", actioncardsfeature.NewHandler(db, logger).MountRoutes)
		r.Route("/apps", appsfeature.NewHandler(db, logger).MountRoutes)

		// Database export/import (additionally admin-gated inside).
		r.Route("/backup", backupfeature.NewHandler(db, logger).MountRoutes)
	})

	return r, nil
}
