// Package hooks dispatches user-configured shell commands at named lifecycle
// points of the release pipeline. Hooks are declared in release.yaml; a
// failing hook aborts the release like any other step.
package hooks

import (
	"context"
	"fmt"

	v1 "github.com/lsalehar/aero-data-fe/api/v1"
	"github.com/lsalehar/aero-data-fe/internal/core/logger"
	"github.com/lsalehar/aero-data-fe/pkg/errs"
	"github.com/lsalehar/aero-data-fe/pkg/execx"
)

// Host dispatches hooks registered per lifecycle point.
type Host struct {
	hooks  map[string][]v1.HookSpec // point → ordered list
	runner execx.Runner
	log    *logger.Logger
}

// NewHost creates a hook host from the configured hook map.
func NewHost(hooks map[string][]v1.HookSpec, runner execx.Runner, log *logger.Logger) *Host {
	if hooks == nil {
		hooks = map[string][]v1.HookSpec{}
	}
	return &Host{hooks: hooks, runner: runner, log: log}
}

// Count returns the number of hooks registered at point.
func (h *Host) Count(point string) int {
	return len(h.hooks[point])
}

// Dispatch runs every hook registered at point, in declaration order. The
// first failure stops dispatch and is returned.
func (h *Host) Dispatch(ctx context.Context, point string) error {
	specs := h.hooks[point]
	for _, spec := range specs {
		name := spec.Name
		if name == "" {
			name = spec.Command
		}

		h.log.Info("hook.run", "point", point, "hook", name)

		out, err := h.runner.Run(ctx, spec.Dir, spec.Command, spec.Args...)
		if err != nil {
			h.log.Warn("hook.failed", "point", point, "hook", name, "err", err)
			return errs.New(errs.ErrHookFailed, "hooks."+point, fmt.Errorf("%s: %w", name, err)).
				WithResource(spec.Command).
				WithAdvice(fmt.Sprintf("Hook output:\n%s", out))
		}
	}
	return nil
}
