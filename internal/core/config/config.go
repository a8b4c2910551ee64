// Package config provides the aero-release configuration loader.
// Config is loaded by merging release.yaml → ~/.aero-release/config.yaml →
// AERO_* env vars.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	v1 "github.com/lsalehar/aero-data-fe/api/v1"
)

// sensitiveKeyRegex matches config keys that should be redacted in log output.
var sensitiveKeyRegex = regexp.MustCompile(`(?i)(password|token|secret|key|passphrase)`)

// Defaults contains factory-default values applied before any config file is loaded.
var Defaults = map[string]any{
	"project.name":      "aero-data",
	"manifest":          "pyproject.toml",
	"tag_prefix":        "v",
	"remote":            "origin",
	"commands.lock":     "uv lock",
	"commands.compile":  "uv pip compile pyproject.toml -o requirements.txt",
	"commands.deploy":   "reflex deploy --no-interactive",
	"requirements_file": "requirements.txt",
	"lock_file":         "uv.lock",
	"log.level":         "info",
	"log.format":        "text",
}

// ─────────────────────────────────────────────────────────────────────────────
// Config types
// ─────────────────────────────────────────────────────────────────────────────

// Config is the fully-decoded release configuration.
type Config struct {
	Project          ProjectConfig            `mapstructure:"project"`
	Manifest         string                   `mapstructure:"manifest"`
	TagPrefix        string                   `mapstructure:"tag_prefix"`
	Remote           string                   `mapstructure:"remote"`
	Commands         CommandsConfig           `mapstructure:"commands"`
	LockFile         string                   `mapstructure:"lock_file"`
	RequirementsFile string                   `mapstructure:"requirements_file"`
	HealthCheck      *v1.HealthCheckSpec      `mapstructure:"health_check"`
	Hooks            map[string][]v1.HookSpec `mapstructure:"hooks"`
	Log              LogConfig                `mapstructure:"log"`
}

// ProjectConfig holds project-level metadata.
type ProjectConfig struct {
	Name string `mapstructure:"name"`
}

// CommandsConfig holds the external command lines the pipeline shells out to.
type CommandsConfig struct {
	Lock    string `mapstructure:"lock"`
	Compile string `mapstructure:"compile"`
	Deploy  string `mapstructure:"deploy"`
}

// LogConfig controls logging behaviour.
type LogConfig struct {
	Level  string `mapstructure:"level"` // debug | info | warn | error
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"` // json | text
}

// ─────────────────────────────────────────────────────────────────────────────
// Loader
// ─────────────────────────────────────────────────────────────────────────────

// Load discovers and loads the configuration, walking up directories to find
// release.yaml, then merging it with the global config and environment variables.
func Load(explicitPath string) (*Config, error) {
	v := viper.New()

	for k, val := range Defaults {
		v.SetDefault(k, val)
	}

	// Environment variable binding: AERO_LOG_LEVEL → log.level
	v.SetEnvPrefix("AERO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load global config (~/.aero-release/config.yaml) if it exists
	globalCfg := filepath.Join(releaseHome(), "config.yaml")
	if _, err := os.Stat(globalCfg); err == nil {
		v.SetConfigFile(globalCfg)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read global config: %w", err)
		}
	}

	// Load project config
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		path, err := discoverProjectConfig()
		if err == nil {
			v.SetConfigFile(path)
		}
	}

	if v.ConfigFileUsed() != "" || explicitPath != "" {
		if err := v.MergeInConfig(); err != nil && explicitPath != "" {
			return nil, fmt.Errorf("read project config %q: %w", explicitPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	expandEnvInConfig(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// HooksAt returns the hooks configured for the given lifecycle point.
func (c *Config) HooksAt(point string) []v1.HookSpec {
	if c.Hooks == nil {
		return nil
	}
	return c.Hooks[point]
}

// IsSensitiveKey returns true if key matches a known sensitive pattern.
func IsSensitiveKey(key string) bool {
	return sensitiveKeyRegex.MatchString(key)
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

// discoverProjectConfig walks up from the CWD looking for release.yaml.
func discoverProjectConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, "release.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("release.yaml not found (searched up from the working directory)")
}

// expandEnvInConfig resolves ${VAR} placeholders in command strings, so
// deploy credentials never have to live in the file itself.
func expandEnvInConfig(cfg *Config) {
	cfg.Commands.Lock = os.ExpandEnv(cfg.Commands.Lock)
	cfg.Commands.Compile = os.ExpandEnv(cfg.Commands.Compile)
	cfg.Commands.Deploy = os.ExpandEnv(cfg.Commands.Deploy)
	for point, hooks := range cfg.Hooks {
		for i := range hooks {
			hooks[i].Command = os.ExpandEnv(hooks[i].Command)
		}
		cfg.Hooks[point] = hooks
	}
}

// validate performs semantic validation on the loaded config.
func validate(cfg *Config) error {
	if cfg.Manifest == "" {
		return fmt.Errorf("manifest path must not be empty")
	}
	if cfg.Remote == "" {
		return fmt.Errorf("remote must not be empty")
	}
	for _, field := range []struct{ name, val string }{
		{"commands.lock", cfg.Commands.Lock},
		{"commands.compile", cfg.Commands.Compile},
		{"commands.deploy", cfg.Commands.Deploy},
	} {
		if strings.TrimSpace(field.val) == "" {
			return fmt.Errorf("%s must not be empty", field.name)
		}
	}

	valid := map[string]bool{}
	for _, p := range v1.HookPoints {
		valid[p] = true
	}
	for point, hooks := range cfg.Hooks {
		if !valid[point] {
			return fmt.Errorf("unknown hook point %q (valid: %s)", point, strings.Join(v1.HookPoints, ", "))
		}
		for _, h := range hooks {
			if strings.TrimSpace(h.Command) == "" {
				return fmt.Errorf("hook %q at %s: command must not be empty", h.Name, point)
			}
		}
	}

	if hc := cfg.HealthCheck; hc != nil {
		switch hc.Type {
		case "http":
			if hc.URL == "" {
				return fmt.Errorf("health_check: url is required for type http")
			}
		case "tcp":
			if hc.Host == "" || hc.Port == 0 {
				return fmt.Errorf("health_check: host and port are required for type tcp")
			}
		default:
			return fmt.Errorf("health_check: unknown type %q (want http or tcp)", hc.Type)
		}
	}

	return nil
}

// releaseHome returns the aero-release home directory (~/.aero-release).
func releaseHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aero-release"
	}
	return filepath.Join(home, ".aero-release")
}

// ReleaseHome is the exported variant for use by other packages.
func ReleaseHome() string {
	return releaseHome()
}

// DefaultConfigTemplate is the content written by `aero-release init`.
const DefaultConfigTemplate = `# release.yaml — aero-release project configuration
project:
  name: aero-data

# Manifest holding the semantic version (rewritten on every release).
manifest: pyproject.toml
tag_prefix: v
remote: origin

commands:
  lock: uv lock
  compile: uv pip compile pyproject.toml -o requirements.txt
  deploy: reflex deploy --no-interactive

# Optional post-deploy probe; push only happens if it passes.
# health_check:
#   type: http
#   url: https://aero-data.example.com/
#   retries: 5    # total probe attempts (0 = default 3, 1 = single probe)
#   interval: 5s  # wait between attempts (0 = default 5s)
#   timeout: 10s  # per-attempt timeout (0 = default 5s)

# Optional lifecycle hooks (pre_release, post_tag, post_deploy, post_push).
# hooks:
#   post_push:
#     - name: notify
#       command: ./scripts/notify-release.sh

log:
  level: info
  format: text
`
