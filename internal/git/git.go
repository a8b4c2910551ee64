// Package git is a thin client over the git binary. The release driver only
// needs a handful of read operations plus commit/tag/push, all of which are
// shelled out through an injectable runner.
package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lsalehar/aero-data-fe/pkg/execx"
)

// Client runs git commands in a fixed working directory.
type Client struct {
	dir    string
	runner execx.Runner
}

// NewClient returns a Client rooted at dir (empty means the process CWD).
func NewClient(dir string, runner execx.Runner) *Client {
	return &Client{dir: dir, runner: runner}
}

// EnsureInstalled verifies the git binary is available.
func (c *Client) EnsureInstalled() error {
	return c.runner.LookPath("git")
}

// Version returns the installed git version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	return c.run(ctx, "--version")
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	out, err := c.runner.Run(ctx, c.dir, "git", args...)
	return strings.TrimSpace(out), err
}

// IsWorkTree reports whether dir is inside a git working tree.
func (c *Client) IsWorkTree(ctx context.Context) bool {
	out, err := c.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Status returns the porcelain status output. Empty output means clean.
func (c *Client) Status(ctx context.Context) (string, error) {
	return c.run(ctx, "status", "--porcelain")
}

// IsClean reports whether the working tree has no staged, unstaged, or
// untracked changes.
func (c *Client) IsClean(ctx context.Context) (bool, error) {
	out, err := c.Status(ctx)
	if err != nil {
		return false, err
	}
	return out == "", nil
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	return c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// Upstream returns the remote-tracking ref of the current branch, e.g.
// "origin/main". Errors when no upstream is configured.
func (c *Client) Upstream(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	if err != nil {
		return "", fmt.Errorf("no upstream configured for the current branch: %w", err)
	}
	return out, nil
}

// Fetch updates the remote-tracking refs for the given remote.
func (c *Client) Fetch(ctx context.Context, remote string) error {
	_, err := c.run(ctx, "fetch", remote)
	return err
}

// AheadBehind returns how many commits the current branch is ahead of and
// behind its upstream.
func (c *Client) AheadBehind(ctx context.Context) (ahead, behind int, err error) {
	out, err := c.run(ctx, "rev-list", "--left-right", "--count", "HEAD...@{u}")
	if err != nil {
		return 0, 0, err
	}

	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	if ahead, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, fmt.Errorf("parse ahead count %q: %w", fields[0], err)
	}
	if behind, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, fmt.Errorf("parse behind count %q: %w", fields[1], err)
	}
	return ahead, behind, nil
}

// Head returns the abbreviated commit hash of HEAD.
func (c *Client) Head(ctx context.Context) (string, error) {
	return c.run(ctx, "rev-parse", "--short", "HEAD")
}

// Add stages the given paths.
func (c *Client) Add(ctx context.Context, paths ...string) error {
	_, err := c.run(ctx, append([]string{"add", "--"}, paths...)...)
	return err
}

// Commit creates a commit with the given message.
func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.run(ctx, "commit", "-m", message)
	return err
}

// Tag creates an annotated tag at HEAD.
func (c *Client) Tag(ctx context.Context, tag, message string) error {
	_, err := c.run(ctx, "tag", "-a", tag, "-m", message)
	return err
}

// TagExists reports whether tag already exists.
func (c *Client) TagExists(ctx context.Context, tag string) (bool, error) {
	out, err := c.run(ctx, "tag", "--list", tag)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// PushFollowTags pushes the current branch and any annotated tags that point
// at pushed commits.
func (c *Client) PushFollowTags(ctx context.Context, remote string) error {
	_, err := c.run(ctx, "push", "--follow-tags", remote)
	return err
}
