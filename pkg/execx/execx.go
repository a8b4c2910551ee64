// Package execx provides shell command execution for the release pipeline.
// Every external tool (git, uv, reflex, hooks) is invoked through the Runner
// interface so that tests can substitute a fake and assert command sequences.
package execx

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner executes external commands.
type Runner interface {
	// Run executes name with args in dir (empty dir means the current working
	// directory) and returns combined stdout+stderr output.
	Run(ctx context.Context, dir, name string, args ...string) (string, error)

	// LookPath reports whether name resolves to an executable on PATH.
	LookPath(name string) error
}

// Local runs commands on the local machine via os/exec.
type Local struct{}

// NewLocal returns a Runner backed by os/exec.
func NewLocal() *Local {
	return &Local{}
}

// Run executes the named command and returns combined stdout+stderr output.
// The output is returned even on failure so callers can surface diagnostics.
func (l *Local) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	slog.Debug("executing",
		"cmd", name,
		"args", strings.Join(args, " "),
		"dir", dir,
	)

	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf(
			"executing command: %s %s: %w",
			name, strings.Join(args, " "), err,
		)
	}

	return string(out), nil
}

// LookPath reports whether name resolves to an executable on PATH.
func (l *Local) LookPath(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%q not found on PATH: %w", name, err)
	}
	return nil
}

// Command is a parsed command line: the executable plus its arguments.
type Command struct {
	Name string
	Args []string
}

// Split parses a whitespace-separated command line from configuration.
// It performs no quoting; release commands are simple tool invocations.
func Split(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command line")
	}
	return Command{Name: fields[0], Args: fields[1:]}, nil
}

// String renders the command for display and logging.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}
