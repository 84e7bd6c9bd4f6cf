// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mediatekformation/mediatekformation/internal/config"
)

// EnvPrefix prefixes the environment variables bound to flags,
// e.g. MEDIATEK_CONFIG or MEDIATEK_DEV.
const EnvPrefix = "MEDIATEK"

const keyConfig = "config"

var (
	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "mediatekformation",
		Short: "MediaTek Formation publishes free video trainings",
		Long: `MediaTek Formation publishes free video trainings grouped in playlists
and tagged with categories, with a back-office to manage the catalog.`,
		Args:              cobra.OnlyValidArgs,
		PersistentPreRunE: readConfig,
		SilenceUsage:      true,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String(keyConfig, "./etc/", "directory holding main.toml and .env")

	if err := viper.BindPFlag(keyConfig, rootCmd.PersistentFlags().Lookup(keyConfig)); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
}

func readConfig(_ *cobra.Command, _ []string) error {
	var err error

	cfg, err = config.ReadConfig(viper.GetString(keyConfig))

	return err //nolint:wrapcheck
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
