package daemon

import (
	"context"

	"github.com/dchest/uniuri"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/auth"
	"github.com/mediatekformation/mediatekformation/internal/config"
	"github.com/mediatekformation/mediatekformation/internal/db/controller/setting"
	"github.com/mediatekformation/mediatekformation/internal/db/models"
)

const (
	// DefaultAdminPassword is used when [Admin] has no password.
	DefaultAdminPassword = "admin"

	appSecretSetting = "app_secret"
	appSecretLen     = 64
)

// ErrConfigNil is returned by New without configuration.
var ErrConfigNil = errors.New("config is nil")

// seedAdmin creates the configured admin account in an empty users table.
func seedAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	provider := auth.NewLocalProvider(db)

	count, err := provider.CountUsers(ctx)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if count > 0 {
		return nil
	}

	password := cfg.Admin.Password
	if password == "" {
		password = DefaultAdminPassword

		log.Warn().Str("email", cfg.Admin.Email).Msg("seeding admin with the default password, change it")
	}

	if _, err = provider.UpsertUser(ctx, cfg.Admin.Email, password, []string{models.RoleAdmin}); err != nil {
		return errors.Wrap(err, "failed to seed admin")
	}

	log.Info().Str("email", cfg.Admin.Email).Msg("admin account created")

	return nil
}

// loadAppSecret returns the stored anti-forgery key, generated on first use.
func loadAppSecret(ctx context.Context, db *gorm.DB) (string, error) {
	secret, err := setting.LoadOrInit(ctx, db, appSecretSetting, func() (string, error) {
		log.Info().Msg("generating app secret")

		return uniuri.NewLen(appSecretLen), nil
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to load app secret")
	}

	return secret, nil
}
