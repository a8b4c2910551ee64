package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "release.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "project:\n  name: aero-data\n"))
	require.NoError(t, err)

	assert.Equal(t, "pyproject.toml", cfg.Manifest)
	assert.Equal(t, "v", cfg.TagPrefix)
	assert.Equal(t, "origin", cfg.Remote)
	assert.Equal(t, "uv lock", cfg.Commands.Lock)
	assert.Equal(t, "uv pip compile pyproject.toml -o requirements.txt", cfg.Commands.Compile)
	assert.Equal(t, "reflex deploy --no-interactive", cfg.Commands.Deploy)
	assert.Equal(t, "requirements.txt", cfg.RequirementsFile)
	assert.Equal(t, "uv.lock", cfg.LockFile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Nil(t, cfg.HealthCheck)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
project:
  name: aero-data
tag_prefix: release-
remote: upstream
commands:
  deploy: reflex deploy --env prod
health_check:
  type: http
  url: https://aero-data.example.com/
  retries: 5
hooks:
  post_push:
    - name: notify
      command: ./scripts/notify.sh
`))
	require.NoError(t, err)

	assert.Equal(t, "release-", cfg.TagPrefix)
	assert.Equal(t, "upstream", cfg.Remote)
	assert.Equal(t, "reflex deploy --env prod", cfg.Commands.Deploy)
	// Untouched commands keep their defaults after a partial override.
	assert.Equal(t, "uv lock", cfg.Commands.Lock)

	require.NotNil(t, cfg.HealthCheck)
	assert.Equal(t, "http", cfg.HealthCheck.Type)
	assert.Equal(t, 5, cfg.HealthCheck.Retries)

	hooks := cfg.HooksAt("post_push")
	require.Len(t, hooks, 1)
	assert.Equal(t, "notify", hooks[0].Name)
	assert.Empty(t, cfg.HooksAt("pre_release"))
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("DEPLOY_ENV", "staging")

	cfg, err := Load(writeConfig(t, `
commands:
  deploy: reflex deploy --env ${DEPLOY_ENV}
`))
	require.NoError(t, err)
	assert.Equal(t, "reflex deploy --env staging", cfg.Commands.Deploy)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty deploy command", yaml: "commands:\n  deploy: \"\"\n"},
		{name: "unknown hook point", yaml: "hooks:\n  mid_release:\n    - name: x\n      command: ./x.sh\n"},
		{name: "hook without command", yaml: "hooks:\n  post_push:\n    - name: x\n"},
		{name: "http health without url", yaml: "health_check:\n  type: http\n"},
		{name: "tcp health without port", yaml: "health_check:\n  type: tcp\n  host: example.com\n"},
		{name: "unknown health type", yaml: "health_check:\n  type: icmp\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestIsSensitiveKey(t *testing.T) {
	assert.True(t, IsSensitiveKey("deploy_token"))
	assert.True(t, IsSensitiveKey("API_SECRET"))
	assert.False(t, IsSensitiveKey("tag_prefix"))
}
