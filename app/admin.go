package app

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mediatekformation/mediatekformation/internal/auth"
	"github.com/mediatekformation/mediatekformation/internal/daemon"
	"github.com/mediatekformation/mediatekformation/internal/db/models"
)

var (
	adminEmail    string
	adminPassword string
)

func init() { //nolint: gochecknoinits
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "admin@mediatekformation.fr", "login of the account")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", daemon.DefaultAdminPassword, "password of the account")

	rootCmd.AddCommand(createAdminCmd)
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account, or reset its password and roles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := daemon.OpenDB(&cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err = models.AutoMigrate(db); err != nil {
			return errors.Wrap(err, "failed to migrate database")
		}

		user, err := auth.NewLocalProvider(db).
			UpsertUser(context.Background(), adminEmail, adminPassword, []string{models.RoleAdmin})
		if err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Printf("admin %s saved (id %d)\n", user.Email, user.ID)

		return nil
	},
}
