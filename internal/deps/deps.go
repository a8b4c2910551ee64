// Package deps regenerates the dependency lockfile and the compiled
// requirements list via the configured package-manager commands.
package deps

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/lsalehar/aero-data-fe/internal/core/logger"
	"github.com/lsalehar/aero-data-fe/pkg/errs"
	"github.com/lsalehar/aero-data-fe/pkg/execx"
)

// Regenerator runs the lock and compile commands for the project.
type Regenerator struct {
	dir     string
	lock    execx.Command
	compile execx.Command
	runner  execx.Runner
	log     *logger.Logger
}

// New parses the configured command lines and returns a Regenerator.
func New(dir, lockLine, compileLine string, runner execx.Runner, log *logger.Logger) (*Regenerator, error) {
	lock, err := execx.Split(lockLine)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrConfig, "deps.lock_command")
	}
	compile, err := execx.Split(compileLine)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrConfig, "deps.compile_command")
	}
	return &Regenerator{dir: dir, lock: lock, compile: compile, runner: runner, log: log}, nil
}

// Tool returns the executable name of the lock command, for preflight checks.
func (r *Regenerator) Tool() string {
	return r.lock.Name
}

// Lock regenerates the lockfile.
func (r *Regenerator) Lock(ctx context.Context) error {
	r.log.Info("deps.lock", "cmd", r.lock.String())
	out, err := r.runner.Run(ctx, r.dir, r.lock.Name, r.lock.Args...)
	if err != nil {
		return errs.New(errs.ErrDepLock, "deps.lock", err).
			WithResource(r.lock.String()).
			WithAdvice("Lockfile regeneration failed. Output:\n" + out)
	}
	return nil
}

// Compile regenerates the plain requirements list.
func (r *Regenerator) Compile(ctx context.Context) error {
	r.log.Info("deps.compile", "cmd", r.compile.String())
	out, err := r.runner.Run(ctx, r.dir, r.compile.Name, r.compile.Args...)
	if err != nil {
		return errs.New(errs.ErrDepCompile, "deps.compile", err).
			WithResource(r.compile.String()).
			WithAdvice("Requirements compilation failed. Output:\n" + out)
	}
	return nil
}

// CountPins counts the pinned dependency lines in a compiled requirements
// file, ignoring blank lines, comments, and option lines.
func CountPins(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		count++
	}
	return count, scanner.Err()
}
