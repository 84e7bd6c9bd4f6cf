package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mediatekformation/mediatekformation/internal/daemon"
	"github.com/mediatekformation/mediatekformation/internal/logger"
)

const (
	keyDev    = "dev"
	keyBrowse = "browse"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().Bool(keyDev, false, "Enable dev mode")

	startCmd.Flags().Bool(
		keyBrowse,
		false,
		"Enable static file browsing (for development purposes only)",
	)

	for _, key := range []string{keyDev, keyBrowse} {
		if err := viper.BindPFlag(key, startCmd.Flags().Lookup(key)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the MediaTek Formation web service",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if viper.GetBool(keyDev) {
			cfg.DevMode = true
		}

		if viper.GetBool(keyBrowse) {
			cfg.Webserver.BrowseStatic = true
		}

		return logger.Init(cfg.Log) //nolint:wrapcheck
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		d, err := daemon.New(&cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return d.Start() //nolint:wrapcheck
	},
}
