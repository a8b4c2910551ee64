package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lsalehar/aero-data-fe/internal/core/config"
	"github.com/lsalehar/aero-data-fe/pkg/pprint"
)

// NewInitCmd scaffolds a release.yaml in the current directory.
func NewInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter release.yaml in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			const path = "release.yaml"

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := os.WriteFile(path, []byte(config.DefaultConfigTemplate), 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			pprint.Success("Wrote %s", path)
			pprint.Info("Edit it to match your project, then run `aero-release check`.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing release.yaml")
	return cmd
}
