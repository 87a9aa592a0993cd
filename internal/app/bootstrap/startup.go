// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "github.com/pod44apps/community-pulse/internal/app/store/users"
	"github.com/pod44apps/community-pulse/internal/domain/models"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. The hub
// uses it to seed the bootstrap admin account so a fresh deployment can be
// signed into.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return ensureAdmin(ctx, appCfg, deps, logger)
}

// ensureAdmin creates the configured admin account when no active admin
// exists. A deployment without admin credentials configured just logs a
// warning; someone can still be promoted by hand.
func ensureAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	n, err := users.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if appCfg.AdminEmail == "" || appCfg.AdminPassword == "" {
		logger.Warn("no admin account exists and admin_email/admin_password are not configured")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u, err := users.Create(ctx, models.User{
		Email:        appCfg.AdminEmail,
		FullName:     "Administrator",
		Role:         models.RoleAdmin,
		AuthMethod:   "password",
		PasswordHash: string(hash),
	})
	if err != nil {
		return err
	}

	logger.Info("bootstrap admin created", zap.String("email", u.Email))
	return nil
}
