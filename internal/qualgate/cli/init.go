package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qualgate/qualgate/internal/qualgate/config"
)

var initPath string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default qualgate.yml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(initPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", initPath)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initPath, "path", config.DefaultFileName, "Where to write the config file")
}
