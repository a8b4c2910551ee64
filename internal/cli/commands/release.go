// aero-release root run — drive the release pipeline.
package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lsalehar/aero-data-fe/internal/core/hooks"
	"github.com/lsalehar/aero-data-fe/internal/deps"
	"github.com/lsalehar/aero-data-fe/internal/git"
	"github.com/lsalehar/aero-data-fe/internal/health"
	"github.com/lsalehar/aero-data-fe/internal/release"
	"github.com/lsalehar/aero-data-fe/internal/tui"
	"github.com/lsalehar/aero-data-fe/pkg/execx"
	"github.com/lsalehar/aero-data-fe/pkg/pprint"
)

// ReleaseArgs carries the root command's parsed flags.
type ReleaseArgs struct {
	DeployOnly bool
	DryRun     bool
	NoDeploy   bool
	NoPush     bool
	Version    string
	Bump       string
	Yes        bool
}

// RunRelease wires the pipeline engine from the runtime bundle and executes it.
func RunRelease(cmd *cobra.Command, args ReleaseArgs) error {
	rt := FromContext(cmd.Context())

	if args.DeployOnly && (args.NoDeploy || args.Version != "" || args.Bump != "") {
		return fmt.Errorf("--deploy-only cannot be combined with --no-deploy, --version, or --bump")
	}

	title := "Release — " + rt.Config.Project.Name
	if args.DeployOnly {
		title = "Deploy — " + rt.Config.Project.Name
	}
	pprint.Header(title)
	pprint.KV("Manifest", rt.Config.Manifest)
	pprint.KV("Remote", rt.Config.Remote)
	pprint.KV("Deploy", rt.Config.Commands.Deploy)
	if args.DryRun {
		pprint.Warn("DRY RUN — no changes will be made")
	}
	pprint.Rule(60)

	if !args.DryRun && !args.Yes {
		if !confirm(fmt.Sprintf("Proceed with %s?", strings.ToLower(title))) {
			pprint.Info("aborted")
			return nil
		}
	}

	runner := execx.NewLocal()

	reg, err := deps.New("", rt.Config.Commands.Lock, rt.Config.Commands.Compile, runner, rt.Log)
	if err != nil {
		return err
	}

	var prompt release.PromptFunc
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		prompt = tui.PromptVersion
	}

	engine, err := release.NewEngine(
		rt.Config,
		git.NewClient("", runner),
		reg,
		hooks.NewHost(rt.Config.Hooks, runner, rt.Log),
		health.NewChecker(rt.Log),
		rt.Journal,
		runner,
		rt.Log,
		prompt,
	)
	if err != nil {
		return err
	}

	rec, err := engine.Run(cmd.Context(), release.Options{
		DeployOnly: args.DeployOnly,
		DryRun:     args.DryRun,
		NoDeploy:   args.NoDeploy,
		NoPush:     args.NoPush,
		Explicit:   args.Version,
		BumpPart:   args.Bump,
	})
	if err != nil {
		return err
	}

	fmt.Println()
	switch {
	case args.DryRun:
		pprint.Success("Dry run complete — nothing was changed")
	case args.DeployOnly:
		pprint.Success("Deploy complete")
	default:
		pprint.Success("Released %s (%s → %s)", rec.Tag, rec.OldVersion, rec.NewVersion)
		if args.NoPush {
			pprint.Warn("Push was skipped — run `git push --follow-tags %s` when ready", rt.Config.Remote)
		}
	}
	return nil
}

// confirm asks a y/N question on stdin.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
