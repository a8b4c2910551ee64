// Package release implements the guarded release pipeline: validate git
// state, bump the manifest version, regenerate dependencies, commit and tag,
// deploy, and push. Steps run strictly in order and the first failure aborts
// the run. The one deliberate ordering guarantee: the release commit and tag
// are pushed only after the deploy step (and its health check) succeed, so a
// broken deploy is never perceived as released.
package release

import (
	"context"
	"fmt"
	"os/user"
	"time"

	v1 "github.com/lsalehar/aero-data-fe/api/v1"
	"github.com/lsalehar/aero-data-fe/internal/core/config"
	"github.com/lsalehar/aero-data-fe/internal/core/hooks"
	"github.com/lsalehar/aero-data-fe/internal/core/logger"
	"github.com/lsalehar/aero-data-fe/internal/core/state"
	"github.com/lsalehar/aero-data-fe/internal/deps"
	"github.com/lsalehar/aero-data-fe/internal/git"
	"github.com/lsalehar/aero-data-fe/internal/health"
	"github.com/lsalehar/aero-data-fe/internal/manifest"
	"github.com/lsalehar/aero-data-fe/internal/semver"
	"github.com/lsalehar/aero-data-fe/pkg/errs"
	"github.com/lsalehar/aero-data-fe/pkg/execx"
	"github.com/lsalehar/aero-data-fe/pkg/pprint"
)

// PromptFunc resolves the next version interactively when no flag provided one.
type PromptFunc func(current semver.Version) (semver.Version, error)

// Options holds per-run settings parsed from the command line.
type Options struct {
	DeployOnly bool
	DryRun     bool
	NoDeploy   bool
	NoPush     bool
	Explicit   string // --version X.Y.Z
	BumpPart   string // --bump patch|minor|major
}

// Engine sequences the release pipeline.
type Engine struct {
	cfg     *config.Config
	git     *git.Client
	deps    *deps.Regenerator
	hooks   *hooks.Host
	checker *health.Checker
	journal *state.DB
	runner  execx.Runner
	log     *logger.Logger
	prompt  PromptFunc

	deploy execx.Command
}

// NewEngine wires a release engine from its collaborators. prompt may be nil
// when interactive resolution is unavailable (non-TTY runs).
func NewEngine(
	cfg *config.Config,
	gitc *git.Client,
	reg *deps.Regenerator,
	hookHost *hooks.Host,
	checker *health.Checker,
	journal *state.DB,
	runner execx.Runner,
	log *logger.Logger,
	prompt PromptFunc,
) (*Engine, error) {
	deployCmd, err := execx.Split(cfg.Commands.Deploy)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrConfig, "release.deploy_command")
	}
	return &Engine{
		cfg:     cfg,
		git:     gitc,
		deps:    reg,
		hooks:   hookHost,
		checker: checker,
		journal: journal,
		runner:  runner,
		log:     log,
		prompt:  prompt,
		deploy:  deployCmd,
	}, nil
}

// run carries the mutable state of one pipeline execution.
type run struct {
	opts    Options
	steps   []v1.StepResult
	stepN   int
	total   int
	record  v1.ReleaseRecord
	current semver.Version
	next    semver.Version
}

// step executes fn as the next numbered pipeline step and records its outcome.
func (e *Engine) step(r *run, name string, fn func() error) error {
	r.stepN++
	start := time.Now()
	pprint.Step(r.stepN, r.total, "%s", name)

	err := fn()
	res := v1.StepResult{Name: name, Status: v1.StepOK, Duration: time.Since(start)}
	if err != nil {
		res.Status = v1.StepFailed
		res.Err = err.Error()
		r.record.FailureStep = name
	}
	r.steps = append(r.steps, res)
	return err
}

// skip records a step that was gated off by a flag.
func (e *Engine) skip(r *run, name, reason string) {
	r.stepN++
	pprint.Skip(r.stepN, r.total, "%s — %s", name, reason)
	r.steps = append(r.steps, v1.StepResult{Name: name, Status: v1.StepSkipped})
}

// Run executes the pipeline and returns the journaled record. Any returned
// error has already been recorded on the journal (except in dry-run mode,
// which never touches the journal).
func (e *Engine) Run(ctx context.Context, opts Options) (*v1.ReleaseRecord, error) {
	r := &run{
		opts:  opts,
		total: e.countSteps(opts),
		record: v1.ReleaseRecord{
			Project:    e.cfg.Project.Name,
			DeployOnly: opts.DeployOnly,
			StartedAt:  time.Now().UTC(),
		},
	}

	err := e.runSteps(ctx, r)

	r.record.Steps = r.steps
	r.record.FinishedAt = time.Now().UTC()
	switch {
	case err != nil:
		r.record.Result = v1.ResultFailure
	case opts.DryRun:
		r.record.Result = v1.ResultDryRun
	default:
		r.record.Result = v1.ResultSuccess
	}

	e.audit(&r.record)

	// Dry runs leave no trace in the journal.
	if !opts.DryRun && e.journal != nil {
		if _, jerr := e.journal.AppendRelease(r.record); jerr != nil {
			e.log.Warn("journal append failed", "err", jerr)
		}
	}

	if err != nil {
		return &r.record, err
	}
	return &r.record, nil
}

// countSteps precomputes the number of visible pipeline steps for [n/total]
// output, counting gated steps because they are shown as skipped.
func (e *Engine) countSteps(opts Options) int {
	if opts.DeployOnly {
		return 3 // preflight, deploy, health check
	}
	return 10
}

func (e *Engine) runSteps(ctx context.Context, r *run) error {
	if r.opts.DeployOnly {
		return e.runDeployOnly(ctx, r)
	}

	if err := e.step(r, "Preflight checks", func() error { return e.preflight(r.opts) }); err != nil {
		return err
	}

	if r.opts.DryRun && e.hooks.Count(v1.HookPreRelease) > 0 {
		e.skip(r, "Pre-release hooks", "dry run")
	} else if err := e.step(r, "Pre-release hooks", func() error {
		return e.hooks.Dispatch(ctx, v1.HookPreRelease)
	}); err != nil {
		return err
	}

	if err := e.step(r, "Validate git state", func() error { return e.validateGit(ctx, r) }); err != nil {
		return err
	}

	if err := e.step(r, "Resolve version", func() error { return e.resolveVersion(ctx, r) }); err != nil {
		return err
	}

	tag := r.next.Tag(e.cfg.TagPrefix)
	if r.opts.DryRun {
		e.skip(r, "Write manifest", "dry run")
		e.skip(r, "Regenerate dependencies", "dry run")
		e.skip(r, "Commit and tag "+tag, "dry run")
		e.printDryRunPlan(r, tag)
	} else {
		if err := e.step(r, "Write manifest", func() error { return e.writeManifest(r) }); err != nil {
			return err
		}
		if err := e.step(r, "Regenerate dependencies", func() error {
			sp := pprint.NewSpinner("Regenerating " + e.cfg.LockFile + " and " + e.cfg.RequirementsFile)
			sp.Start()
			err := e.deps.Lock(ctx)
			if err == nil {
				err = e.deps.Compile(ctx)
			}
			sp.Stop(err == nil)
			if err != nil {
				return err
			}
			if n, err := deps.CountPins(e.cfg.RequirementsFile); err == nil {
				pprint.Info("%d pinned dependencies in %s", n, e.cfg.RequirementsFile)
			}
			return nil
		}); err != nil {
			return err
		}
		if err := e.step(r, "Commit and tag "+tag, func() error { return e.commitAndTag(ctx, r, tag) }); err != nil {
			return err
		}
	}

	if err := e.deployAndPush(ctx, r, tag); err != nil {
		return err
	}

	return nil
}

func (e *Engine) runDeployOnly(ctx context.Context, r *run) error {
	if err := e.step(r, "Preflight checks", func() error { return e.preflight(r.opts) }); err != nil {
		return err
	}
	if r.opts.DryRun {
		e.skip(r, "Deploy", "dry run")
		e.skip(r, "Post-deploy health check", "dry run")
		pprint.Info("would run: %s", e.deploy.String())
		return nil
	}
	if err := e.step(r, "Deploy", func() error { return e.runDeploy(ctx) }); err != nil {
		return err
	}
	if err := e.step(r, "Post-deploy health check", func() error {
		return e.healthCheck(ctx)
	}); err != nil {
		return err
	}
	return nil
}

// deployAndPush runs the tail of the pipeline. Push strictly follows a
// successful deploy (and health check) — never the other way around.
func (e *Engine) deployAndPush(ctx context.Context, r *run, tag string) error {
	switch {
	case r.opts.NoDeploy:
		e.skip(r, "Deploy", "--no-deploy")
		e.skip(r, "Post-deploy health check", "--no-deploy")
	case r.opts.DryRun:
		e.skip(r, "Deploy", "dry run")
		e.skip(r, "Post-deploy health check", "dry run")
	default:
		if err := e.step(r, "Deploy", func() error { return e.runDeploy(ctx) }); err != nil {
			pprint.Warn("Deploy failed — the release commit and tag were NOT pushed.")
			pprint.Info("Fix the deploy and run `aero-release --deploy-only`, or reset the commit and tag.")
			return err
		}
		if err := e.step(r, "Post-deploy health check", func() error {
			return e.healthCheck(ctx)
		}); err != nil {
			return err
		}
	}

	switch {
	case r.opts.NoPush:
		e.skip(r, "Push "+tag, "--no-push")
	case r.opts.DryRun:
		e.skip(r, "Push "+tag, "dry run")
	default:
		if err := e.step(r, "Push "+tag, func() error { return e.push(ctx) }); err != nil {
			return err
		}
		if err := e.hooks.Dispatch(ctx, v1.HookPostPush); err != nil {
			return err
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Individual steps
// ─────────────────────────────────────────────────────────────────────────────

// preflight verifies every external tool the run will need exists up front,
// so a missing deploy command cannot strand a half-finished release.
func (e *Engine) preflight(opts Options) error {
	if !opts.DeployOnly {
		if err := e.git.EnsureInstalled(); err != nil {
			return errs.New(errs.ErrGitMissing, "release.preflight", err).
				WithAdvice("Install git and ensure it is on PATH")
		}
		if err := e.runner.LookPath(e.deps.Tool()); err != nil {
			return errs.New(errs.ErrPreflight, "release.preflight", err).
				WithResource(e.deps.Tool()).
				WithAdvice("The dependency manager is required to regenerate the lockfile")
		}
	}
	if !opts.NoDeploy {
		if err := e.runner.LookPath(e.deploy.Name); err != nil {
			return errs.New(errs.ErrPreflight, "release.preflight", err).
				WithResource(e.deploy.Name).
				WithAdvice("The deploy command must be installed before releasing")
		}
	}
	return nil
}

// validateGit enforces the clean-and-synchronized precondition. Under
// --dry-run violations degrade to warnings so a release can be previewed
// from a work-in-progress tree.
func (e *Engine) validateGit(ctx context.Context, r *run) error {
	fail := func(re *errs.ReleaseError) error {
		if r.opts.DryRun {
			pprint.Warn("%s (ignored: dry run)", re.UserMessage())
			return nil
		}
		return re
	}

	if !e.git.IsWorkTree(ctx) {
		return errs.Newf(errs.ErrGitNotRepo, "release.git", "not inside a git working tree")
	}

	branch, err := e.git.CurrentBranch(ctx)
	if err != nil {
		return errs.Wrap(err, errs.ErrGitNotRepo, "release.git.branch")
	}
	r.record.Branch = branch

	clean, err := e.git.IsClean(ctx)
	if err != nil {
		return errs.Wrap(err, errs.ErrGitDirty, "release.git.status")
	}
	if !clean {
		if err := fail(errs.Newf(errs.ErrGitDirty, "release.git",
			"working tree has uncommitted changes").
			WithAdvice("Commit or stash your changes before releasing")); err != nil {
			return err
		}
	}

	upstream, err := e.git.Upstream(ctx)
	if err != nil {
		if ferr := fail(errs.New(errs.ErrGitNoUpstream, "release.git", err).
			WithAdvice(fmt.Sprintf("Run: git branch --set-upstream-to=%s/%s", e.cfg.Remote, branch))); ferr != nil {
			return ferr
		}
		return nil // no upstream to compare against in dry run
	}

	if err := e.git.Fetch(ctx, e.cfg.Remote); err != nil {
		return errs.Wrap(err, errs.ErrGitDiverged, "release.git.fetch")
	}

	ahead, behind, err := e.git.AheadBehind(ctx)
	if err != nil {
		return errs.Wrap(err, errs.ErrGitDiverged, "release.git.aheadbehind")
	}
	if ahead != 0 || behind != 0 {
		if err := fail(errs.Newf(errs.ErrGitDiverged, "release.git",
			"branch %s is %d ahead / %d behind %s", branch, ahead, behind, upstream).
			WithAdvice("Sync with the upstream (git pull / git push) before releasing")); err != nil {
			return err
		}
	}
	return nil
}

// resolveVersion reads the current manifest version and determines the next
// one from --version, --bump, or the interactive prompt.
func (e *Engine) resolveVersion(_ context.Context, r *run) error {
	m, err := manifest.Load(e.cfg.Manifest)
	if err != nil {
		return errs.Wrap(err, errs.ErrManifestRead, "release.version.load").WithResource(e.cfg.Manifest)
	}

	current, err := m.Version()
	if err != nil {
		return errs.Wrap(err, errs.ErrVersionParse, "release.version.current")
	}
	r.current = current
	r.record.OldVersion = current.String()

	var next semver.Version
	switch {
	case r.opts.Explicit != "":
		next, err = semver.Parse(r.opts.Explicit)
		if err != nil {
			return errs.Wrap(err, errs.ErrVersionParse, "release.version.explicit")
		}
	case r.opts.BumpPart != "":
		next, err = current.Bump(r.opts.BumpPart)
		if err != nil {
			return errs.Wrap(err, errs.ErrVersionParse, "release.version.bump")
		}
	case e.prompt != nil:
		next, err = e.prompt(current)
		if err != nil {
			return errs.Wrap(err, errs.ErrVersionPrompt, "release.version.prompt")
		}
	default:
		return errs.Newf(errs.ErrVersionPrompt, "release.version",
			"no version given and no terminal to prompt on").
			WithAdvice("Pass --version X.Y.Z or --bump patch|minor|major")
	}

	if semver.Compare(next, current) <= 0 {
		return errs.Newf(errs.ErrVersionNotAhead, "release.version",
			"new version %s is not greater than current %s", next, current)
	}

	r.next = next
	r.record.NewVersion = next.String()
	r.record.Tag = next.Tag(e.cfg.TagPrefix)

	pprint.KV("Current", current.String())
	pprint.KV("Next", next.String())
	return nil
}

func (e *Engine) writeManifest(r *run) error {
	m, err := manifest.Load(e.cfg.Manifest)
	if err != nil {
		return errs.Wrap(err, errs.ErrManifestRead, "release.manifest.load").WithResource(e.cfg.Manifest)
	}
	if err := m.WriteVersion(r.next); err != nil {
		return errs.Wrap(err, errs.ErrManifestWrite, "release.manifest.write").WithResource(e.cfg.Manifest)
	}
	return nil
}

func (e *Engine) commitAndTag(ctx context.Context, r *run, tag string) error {
	exists, err := e.git.TagExists(ctx, tag)
	if err != nil {
		return errs.Wrap(err, errs.ErrGitTag, "release.tag.exists")
	}
	if exists {
		return errs.Newf(errs.ErrGitTag, "release.tag", "tag %s already exists", tag).
			WithAdvice("Pick a higher version or delete the stale tag")
	}

	files := []string{e.cfg.Manifest, e.cfg.LockFile, e.cfg.RequirementsFile}
	if err := e.git.Add(ctx, files...); err != nil {
		return errs.Wrap(err, errs.ErrGitCommit, "release.commit.add")
	}
	if err := e.git.Commit(ctx, "release: "+tag); err != nil {
		return errs.Wrap(err, errs.ErrGitCommit, "release.commit")
	}
	if err := e.git.Tag(ctx, tag, "release "+tag); err != nil {
		return errs.Wrap(err, errs.ErrGitTag, "release.tag")
	}

	head, err := e.git.Head(ctx)
	if err == nil {
		r.record.Commit = head
	}

	return e.hooks.Dispatch(ctx, v1.HookPostTag)
}

func (e *Engine) runDeploy(ctx context.Context) error {
	e.log.Info("deploy.start", "cmd", e.deploy.String())
	sp := pprint.NewSpinner("Running " + e.deploy.String())
	sp.Start()
	out, err := e.runner.Run(ctx, "", e.deploy.Name, e.deploy.Args...)
	sp.Stop(err == nil)
	if err != nil {
		return errs.New(errs.ErrDeployFailed, "release.deploy", err).
			WithResource(e.deploy.String()).
			WithAdvice("Deploy output:\n" + out)
	}
	return e.hooks.Dispatch(ctx, v1.HookPostDeploy)
}

func (e *Engine) healthCheck(ctx context.Context) error {
	if e.cfg.HealthCheck == nil {
		return nil
	}
	if err := e.checker.WaitHealthy(ctx, e.cfg.HealthCheck); err != nil {
		return errs.New(errs.ErrDeployHealth, "release.healthcheck", err).
			WithAdvice("The deployed site never became healthy — the release was not pushed")
	}
	return nil
}

func (e *Engine) push(ctx context.Context) error {
	if err := e.git.PushFollowTags(ctx, e.cfg.Remote); err != nil {
		return errs.Wrap(err, errs.ErrGitPush, "release.push").WithResource(e.cfg.Remote)
	}
	return nil
}

func (e *Engine) printDryRunPlan(r *run, tag string) {
	pprint.Info("would write version %s to %s", r.next, e.cfg.Manifest)
	pprint.Info("would run: %s", e.cfg.Commands.Lock)
	pprint.Info("would run: %s", e.cfg.Commands.Compile)
	pprint.Info("would commit %s, %s, %s and tag %s",
		e.cfg.Manifest, e.cfg.LockFile, e.cfg.RequirementsFile, tag)
	if !r.opts.NoDeploy {
		pprint.Info("would run: %s", e.cfg.Commands.Deploy)
	}
	if !r.opts.NoPush {
		pprint.Info("would push %s to %s", tag, e.cfg.Remote)
	}
}

func (e *Engine) audit(rec *v1.ReleaseRecord) {
	username := "unknown"
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	op := "release"
	if rec.DeployOnly {
		op = "deploy-only"
	}
	e.log.Audit(logger.AuditEntry{
		Timestamp: rec.FinishedAt,
		Op:        op,
		User:      username,
		Version:   rec.NewVersion,
		Tag:       rec.Tag,
		Result:    string(rec.Result),
	})
}
