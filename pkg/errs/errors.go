// Package errs provides structured, user-friendly errors with machine-parseable codes.
package errs

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-parseable error identifier.
type ErrorCode string

const (
	// General
	ErrUnknown    ErrorCode = "ERR-000"
	ErrInternal   ErrorCode = "ERR-001"
	ErrConfig     ErrorCode = "ERR-002"
	ErrValidation ErrorCode = "ERR-003"
	ErrPreflight  ErrorCode = "ERR-004"

	// Git errors
	ErrGitMissing    ErrorCode = "ERR-GIT-001"
	ErrGitNotRepo    ErrorCode = "ERR-GIT-002"
	ErrGitDirty      ErrorCode = "ERR-GIT-003"
	ErrGitNoUpstream ErrorCode = "ERR-GIT-004"
	ErrGitDiverged   ErrorCode = "ERR-GIT-005"
	ErrGitCommit     ErrorCode = "ERR-GIT-006"
	ErrGitTag        ErrorCode = "ERR-GIT-007"
	ErrGitPush       ErrorCode = "ERR-GIT-008"

	// Version errors
	ErrVersionParse    ErrorCode = "ERR-VER-001"
	ErrVersionNotAhead ErrorCode = "ERR-VER-002"
	ErrVersionPrompt   ErrorCode = "ERR-VER-003"

	// Manifest errors
	ErrManifestRead  ErrorCode = "ERR-MANIFEST-001"
	ErrManifestWrite ErrorCode = "ERR-MANIFEST-002"
	ErrManifestField ErrorCode = "ERR-MANIFEST-003"

	// Dependency regeneration errors
	ErrDepLock    ErrorCode = "ERR-DEP-001"
	ErrDepCompile ErrorCode = "ERR-DEP-002"

	// Deploy errors
	ErrDeployFailed ErrorCode = "ERR-DEPLOY-001"
	ErrDeployHealth ErrorCode = "ERR-DEPLOY-002"

	// Hook errors
	ErrHookFailed ErrorCode = "ERR-HOOK-001"

	// State errors
	ErrStateRead  ErrorCode = "ERR-STATE-001"
	ErrStateWrite ErrorCode = "ERR-STATE-002"
)

// ReleaseError is the standard structured error type used across all packages.
type ReleaseError struct {
	Code     ErrorCode // Machine-parseable error code
	Op       string    // Operation chain, e.g., "release.git.aheadbehind"
	Resource string    // Resource identifier (file path, tag, command name, etc.)
	Cause    error     // Wrapped upstream error
	Advice   string    // Human-readable remediation hint
}

func (e *ReleaseError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("[%s] %s (%s): %v", e.Code, e.Op, e.Resource, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Op, e.Cause)
}

func (e *ReleaseError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the formatted user-facing error message with remediation advice.
func (e *ReleaseError) UserMessage() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Op)
	if e.Resource != "" {
		msg += fmt.Sprintf(" (resource: %s)", e.Resource)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Advice != "" {
		msg += fmt.Sprintf("\n  → %s", e.Advice)
	}
	return msg
}

// New creates a new ReleaseError.
func New(code ErrorCode, op string, cause error) *ReleaseError {
	return &ReleaseError{Code: code, Op: op, Cause: cause}
}

// Newf creates a new ReleaseError with a formatted message as the cause.
func Newf(code ErrorCode, op, format string, args ...any) *ReleaseError {
	return &ReleaseError{Code: code, Op: op, Cause: fmt.Errorf(format, args...)}
}

// WithResource sets the resource identifier on a ReleaseError.
func (e *ReleaseError) WithResource(resource string) *ReleaseError {
	e.Resource = resource
	return e
}

// WithAdvice sets the human-readable remediation hint on a ReleaseError.
func (e *ReleaseError) WithAdvice(advice string) *ReleaseError {
	e.Advice = advice
	return e
}

// Wrap wraps an existing error as a ReleaseError at a new operation boundary.
func Wrap(err error, code ErrorCode, op string) *ReleaseError {
	if err == nil {
		return nil
	}
	return &ReleaseError{Code: code, Op: op, Cause: err}
}

// IsCode reports whether err is a ReleaseError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var re *ReleaseError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// AsRelease extracts the *ReleaseError from err, or returns nil.
func AsRelease(err error) *ReleaseError {
	var re *ReleaseError
	if errors.As(err, &re) {
		return re
	}
	return nil
}
