package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lsalehar/aero-data-fe/internal/git"
	"github.com/lsalehar/aero-data-fe/internal/manifest"
	"github.com/lsalehar/aero-data-fe/pkg/execx"
	"github.com/lsalehar/aero-data-fe/pkg/pprint"
)

// NewCheckCmd validates the environment without changing anything: config,
// required tools, git state, and the manifest version.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the project is ready to release, without making changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			ctx := cmd.Context()
			runner := execx.NewLocal()
			failures := 0

			check := func(name string, fn func() error) {
				if err := fn(); err != nil {
					pprint.Error("%s: %s", name, err)
					failures++
					return
				}
				pprint.Success("%s", name)
			}

			pprint.Header("Preflight — " + rt.Config.Project.Name)

			lockCmd, err := execx.Split(rt.Config.Commands.Lock)
			if err != nil {
				return fmt.Errorf("commands.lock: %w", err)
			}
			deployCmd, err := execx.Split(rt.Config.Commands.Deploy)
			if err != nil {
				return fmt.Errorf("commands.deploy: %w", err)
			}

			for _, tool := range []string{"git", lockCmd.Name, deployCmd.Name} {
				tool := tool
				check("tool on PATH: "+tool, func() error { return runner.LookPath(tool) })
			}

			gc := git.NewClient("", runner)
			if v, err := gc.Version(ctx); err == nil {
				pprint.KV("Git", v)
			}
			check("inside a git working tree", func() error {
				if !gc.IsWorkTree(ctx) {
					return fmt.Errorf("not a git working tree")
				}
				return nil
			})
			check("working tree is clean", func() error {
				clean, err := gc.IsClean(ctx)
				if err != nil {
					return err
				}
				if !clean {
					return fmt.Errorf("uncommitted changes present")
				}
				return nil
			})
			check("branch has an upstream", func() error {
				_, err := gc.Upstream(ctx)
				return err
			})

			check("manifest version parses: "+rt.Config.Manifest, func() error {
				m, err := manifest.Load(rt.Config.Manifest)
				if err != nil {
					return err
				}
				v, err := m.Version()
				if err != nil {
					return err
				}
				pprint.KV("Current", v.String())
				return nil
			})

			check("lockfile present: "+rt.Config.LockFile, func() error {
				_, err := os.Stat(rt.Config.LockFile)
				return err
			})
			check("requirements present: "+rt.Config.RequirementsFile, func() error {
				_, err := os.Stat(rt.Config.RequirementsFile)
				return err
			})

			fmt.Println()
			if failures > 0 {
				return fmt.Errorf("%d check(s) failed", failures)
			}
			pprint.Success("All checks passed — ready to release")
			return nil
		},
	}
}
