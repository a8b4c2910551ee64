package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/lsalehar/aero-data-fe/internal/core/config"
	"github.com/lsalehar/aero-data-fe/internal/manifest"
	"github.com/lsalehar/aero-data-fe/pkg/pprint"
)

// Build-time variables, set via -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// NewVersionCmd prints build information and, when run inside a project, the
// current manifest version.
func NewVersionCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print aero-release version and build information",
		Run: func(cmd *cobra.Command, args []string) {
			current, inProject := currentManifestVersion()

			if jsonOut {
				info := map[string]string{
					"version":    Version,
					"commit":     Commit,
					"build_date": BuildDate,
					"go_version": runtime.Version(),
					"platform":   runtime.GOOS + "/" + runtime.GOARCH,
				}
				if inProject {
					info["manifest_version"] = current
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				_ = enc.Encode(info)
				return
			}

			pprint.PrintBannerSmall()
			fmt.Println()
			pprint.KV("Version", Version)
			pprint.KV("Commit", Commit)
			pprint.KV("Built", BuildDate)
			pprint.KV("Go", runtime.Version())
			pprint.KV("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH))
			if inProject {
				pprint.KV("Current", current)
			}
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// currentManifestVersion reads the project version from the configured
// manifest. The version command works outside a project too, so every failure
// here just means there is nothing to report.
func currentManifestVersion() (string, bool) {
	path := "pyproject.toml"
	if cfg, err := config.Load(""); err == nil && cfg.Manifest != "" {
		path = cfg.Manifest
	}

	m, err := manifest.Load(path)
	if err != nil {
		return "", false
	}
	v, err := m.Version()
	if err != nil {
		return "", false
	}
	return v.String(), true
}
