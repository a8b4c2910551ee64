package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsalehar/aero-data-fe/internal/semver"
)

const samplePyproject = `# aero-data project manifest
[project]
name = "aero_data"
version = "0.4.2"
description = "Airport data tooling for flight planning files"
dependencies = [
    "reflex>=0.6.0",
    "toml>=0.10",
]

[tool.uv]
dev-dependencies = [
    "pytest>=8.0",
]

[tool.other]
version = "9.9.9"
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	m, err := Load(writeSample(t, samplePyproject))
	require.NoError(t, err)

	assert.Equal(t, "aero_data", m.Project.Name)
	assert.Equal(t, "0.4.2", m.Project.Version)
	assert.Len(t, m.Project.Dependencies, 2)

	v, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, "0.4.2", v.String())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadMissingName(t *testing.T) {
	_, err := Load(writeSample(t, "[project]\nversion = \"1.0.0\"\n"))
	require.Error(t, err)
}

func TestVersionMissing(t *testing.T) {
	m, err := Load(writeSample(t, "[project]\nname = \"x\"\n"))
	require.NoError(t, err)
	_, err = m.Version()
	require.Error(t, err)
}

func TestVersionMalformed(t *testing.T) {
	m, err := Load(writeSample(t, "[project]\nname = \"x\"\nversion = \"1.2\"\n"))
	require.NoError(t, err)
	_, err = m.Version()
	require.Error(t, err)
}

func TestWriteVersionPreservesFormatting(t *testing.T) {
	path := writeSample(t, samplePyproject)
	m, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, m.WriteVersion(semver.Version{Major: 0, Minor: 5, Patch: 0}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `version = "0.5.0"`)
	assert.NotContains(t, out, `version = "0.4.2"`)
	// Untouched: comments, dependency list, and the unrelated version in [tool.other].
	assert.Contains(t, out, "# aero-data project manifest")
	assert.Contains(t, out, `"reflex>=0.6.0",`)
	assert.Contains(t, out, `version = "9.9.9"`)
	assert.Equal(t, "0.5.0", m.Project.Version)
}

func TestWriteVersionNoField(t *testing.T) {
	path := writeSample(t, "[project]\nname = \"x\"\n")
	m := &Manifest{Path: path}
	m.Project.Name = "x"

	err := m.WriteVersion(semver.Version{Major: 1, Minor: 0, Patch: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no version field")
}

func TestWriteVersionDuplicateField(t *testing.T) {
	path := writeSample(t, "[project]\nname = \"x\"\nversion = \"1.0.0\"\nversion = \"1.0.1\"\n")
	m := &Manifest{Path: path}

	err := m.WriteVersion(semver.Version{Major: 1, Minor: 1, Patch: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want exactly one")
}
