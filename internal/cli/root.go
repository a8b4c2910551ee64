// Package cli defines the root Cobra command and global flag/context setup.
// The root command itself is the release driver; subcommands cover the
// auxiliary surfaces (version, history, init, check).
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lsalehar/aero-data-fe/internal/cli/commands"
	"github.com/lsalehar/aero-data-fe/internal/core/config"
	"github.com/lsalehar/aero-data-fe/internal/core/logger"
	"github.com/lsalehar/aero-data-fe/internal/core/state"
	"github.com/lsalehar/aero-data-fe/pkg/errs"
	"github.com/lsalehar/aero-data-fe/pkg/pprint"
)

// globalFlags holds values bound to persistent global flags.
var globalFlags struct {
	configFile string
	debug      bool
	jsonOutput bool
}

// releaseFlags holds values bound to the root (release) command's own flags.
var releaseFlags struct {
	deployOnly bool
	dryRun     bool
	noDeploy   bool
	noPush     bool
	version    string
	bump       string
	yes        bool
}

// rootCmd is the base command: running it performs a release.
var rootCmd = &cobra.Command{
	Use:   "aero-release",
	Short: "aero-release — release and deploy driver for the aero-data web app",
	Example: `  aero-release --bump patch
  aero-release --version 1.4.0 --no-deploy
  aero-release --dry-run
  aero-release --deploy-only`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return commands.RunRelease(cmd, commands.ReleaseArgs{
			DeployOnly: releaseFlags.deployOnly,
			DryRun:     releaseFlags.dryRun,
			NoDeploy:   releaseFlags.noDeploy,
			NoPush:     releaseFlags.noPush,
			Version:    releaseFlags.version,
			Bump:       releaseFlags.bump,
			Yes:        releaseFlags.yes,
		})
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "completion" {
			return nil
		}
		return initRuntime(cmd)
	},
}

// Execute runs the CLI. Called by main().
func Execute() {
	// Show banner before every help screen
	origHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		pprint.PrintBanner(commands.Version, commands.BuildDate)
		origHelp(cmd, args)
	})

	if err := rootCmd.Execute(); err != nil {
		if re := errs.AsRelease(err); re != nil {
			pprint.Error("%s", re.UserMessage())
		} else {
			pprint.Error("%s", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.configFile, "config", "c", "", "Path to release.yaml (defaults to auto-discovery)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.debug, "debug", false, "Enable debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.jsonOutput, "json", false, "Output in machine-readable JSON")

	rootCmd.Flags().BoolVar(&releaseFlags.deployOnly, "deploy-only", false, "Run only the deploy step")
	rootCmd.Flags().BoolVar(&releaseFlags.dryRun, "dry-run", false, "Print planned actions without executing them")
	rootCmd.Flags().BoolVar(&releaseFlags.noDeploy, "no-deploy", false, "Skip the deploy step")
	rootCmd.Flags().BoolVar(&releaseFlags.noPush, "no-push", false, "Never push the release commit and tag")
	rootCmd.Flags().StringVar(&releaseFlags.version, "version", "", "Explicit next version (X.Y.Z)")
	rootCmd.Flags().StringVar(&releaseFlags.bump, "bump", "", "Derive the next version: patch | minor | major")
	rootCmd.Flags().BoolVarP(&releaseFlags.yes, "yes", "y", false, "Skip the confirmation prompt")

	// Register all subcommands
	rootCmd.AddCommand(
		commands.NewInitCmd(),
		commands.NewCheckCmd(),
		commands.NewHistoryCmd(),
		commands.NewVersionCmd(),
	)
}

// initRuntime loads config, logger, and the release journal before each command runs.
func initRuntime(cmd *cobra.Command) error {
	cfg, err := config.Load(globalFlags.configFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	home := config.ReleaseHome()
	logFile := filepath.Join(home, "logs", "aero-release.log")
	if err := os.MkdirAll(filepath.Dir(logFile), 0750); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	log, err := logger.Init(cfg.Log.Level, cfg.Log.Format, logFile, home, globalFlags.debug)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}

	dbPath := filepath.Join(home, "journal.db")
	if err := os.MkdirAll(home, 0750); err != nil {
		return fmt.Errorf("create aero-release home: %w", err)
	}
	journal, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("journal db: %w", err)
	}

	cmd.SetContext(commands.NewContext(cmd.Context(), &commands.Runtime{
		Config:  cfg,
		Log:     log,
		Journal: journal,
		Flags: commands.GlobalFlags{
			Debug:      globalFlags.debug,
			JSONOutput: globalFlags.jsonOutput,
		},
	}))

	return nil
}
