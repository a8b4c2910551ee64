// Package v1 defines the public data types shared across all aero-release layers.
package v1

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Status enumerations
// ─────────────────────────────────────────────────────────────────────────────

// ReleaseResult is the terminal outcome of a release run.
type ReleaseResult string

const (
	ResultSuccess ReleaseResult = "success"
	ResultFailure ReleaseResult = "failure"
	ResultDryRun  ReleaseResult = "dry-run"
)

// StepStatus is the outcome of a single pipeline step.
type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// ─────────────────────────────────────────────────────────────────────────────
// Specification types (derived from release.yaml)
// ─────────────────────────────────────────────────────────────────────────────

// HealthCheckSpec configures the optional post-deploy probe that gates the push.
type HealthCheckSpec struct {
	Type         string        `yaml:"type"          mapstructure:"type"` // http | tcp
	URL          string        `yaml:"url"           mapstructure:"url"`
	Host         string        `yaml:"host"          mapstructure:"host"`
	Port         int           `yaml:"port"          mapstructure:"port"`
	Timeout      time.Duration `yaml:"timeout"       mapstructure:"timeout"`
	Interval     time.Duration `yaml:"interval"      mapstructure:"interval"`
	Retries      int           `yaml:"retries"       mapstructure:"retries"` // total probe attempts; 0 = default, 1 = single probe
	ExpectedCode int           `yaml:"expected_code" mapstructure:"expected_code"`
}

// HookSpec is a shell command bound to a named lifecycle point.
type HookSpec struct {
	Name    string   `yaml:"name"    mapstructure:"name"`
	Command string   `yaml:"command" mapstructure:"command"`
	Args    []string `yaml:"args"    mapstructure:"args"`
	Dir     string   `yaml:"dir"     mapstructure:"dir"`
}

// Lifecycle points at which hooks may run.
const (
	HookPreRelease = "pre_release"
	HookPostTag    = "post_tag"
	HookPostDeploy = "post_deploy"
	HookPostPush   = "post_push"
)

// HookPoints lists every valid lifecycle point, in pipeline order.
var HookPoints = []string{HookPreRelease, HookPostTag, HookPostDeploy, HookPostPush}

// ─────────────────────────────────────────────────────────────────────────────
// Journal types (persisted in the state DB)
// ─────────────────────────────────────────────────────────────────────────────

// StepResult records the outcome of one pipeline step for the journal.
type StepResult struct {
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	Err      string        `json:"err,omitempty"`
	Duration time.Duration `json:"duration"`
}

// ReleaseRecord is one journaled release run.
type ReleaseRecord struct {
	ID          string        `json:"id"` // zero-padded journal sequence
	Project     string        `json:"project"`
	OldVersion  string        `json:"old_version,omitempty"`
	NewVersion  string        `json:"new_version,omitempty"`
	Tag         string        `json:"tag,omitempty"`
	Branch      string        `json:"branch,omitempty"`
	Commit      string        `json:"commit,omitempty"`
	Result      ReleaseResult `json:"result"`
	DeployOnly  bool          `json:"deploy_only,omitempty"`
	Steps       []StepResult  `json:"steps,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
	FailureStep string        `json:"failure_step,omitempty"`
}
