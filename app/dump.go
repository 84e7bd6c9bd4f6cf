package app

import (
	"github.com/spf13/cobra"

	"github.com/mediatekformation/mediatekformation/internal/config"
)

var dumpJSON bool

func init() { //nolint: gochecknoinits
	dumpConfigCmd.Flags().BoolVar(&dumpJSON, "json", false, "dump as JSON, the format of MEDIATEK_CONFIG_JSON")

	rootCmd.AddCommand(dumpConfigCmd)
}

var dumpConfigCmd = &cobra.Command{
	Use:   "dump-config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dump := config.DumpConfig
		if dumpJSON {
			dump = config.DumpConfigJSON
		}

		out, err := dump(&cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Print(out)

		return nil
	},
}
