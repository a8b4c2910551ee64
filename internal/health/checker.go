// Package health provides the post-deploy probe that gates the push step.
// The deployed aero-data site is checked over HTTP or TCP with retries; a
// probe that never passes leaves the release commit and tag unpushed.
package health

import (
	"context"
	"fmt"
	"time"

	v1 "github.com/lsalehar/aero-data-fe/api/v1"
	"github.com/lsalehar/aero-data-fe/internal/core/logger"
)

// DefaultInterval is used when spec.Interval is zero.
const DefaultInterval = 5 * time.Second

// DefaultTimeout is used when spec.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// DefaultRetries is the total number of probe attempts when spec.Retries is
// zero. Retries counts attempts, so retries: 1 configures a single probe.
const DefaultRetries = 3

// Checker dispatches health probes for a HealthCheckSpec.
type Checker struct {
	log *logger.Logger
}

// NewChecker constructs a Checker.
func NewChecker(log *logger.Logger) *Checker {
	return &Checker{log: log}
}

// Check performs a single probe and returns nil if healthy.
func (c *Checker) Check(ctx context.Context, spec *v1.HealthCheckSpec) error {
	if spec == nil {
		return nil // No health check configured — assume healthy
	}

	switch spec.Type {
	case "http":
		return CheckHTTP(ctx, spec.URL, spec.ExpectedCode, spec.Timeout)
	case "tcp":
		host := spec.Host
		if host == "" {
			host = "localhost"
		}
		return CheckTCP(ctx, host, spec.Port, spec.Timeout)
	default:
		return fmt.Errorf("unknown health check type %q", spec.Type)
	}
}

// WaitHealthy polls the probe until it passes, retries are exhausted, or ctx
// is cancelled.
func (c *Checker) WaitHealthy(ctx context.Context, spec *v1.HealthCheckSpec) error {
	if spec == nil {
		return nil
	}

	interval := spec.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	attempts := spec.Retries
	if attempts <= 0 {
		attempts = DefaultRetries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if attempt > 1 {
			timer := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		lastErr = c.Check(ctx, spec)
		if lastErr == nil {
			c.log.Info("health check passed", "type", spec.Type, "attempt", attempt)
			return nil
		}

		c.log.Debug("health check attempt failed",
			"type", spec.Type,
			"attempt", attempt,
			"of", attempts,
			"err", lastErr,
		)
	}

	return fmt.Errorf("health check failed after %d attempts: %w", attempts, lastErr)
}
