// Package manifest reads and rewrites the project manifest (pyproject.toml).
// Reads go through a real TOML parse; the version write is a targeted
// line-level replacement so comments and formatting in the rest of the file
// survive a release untouched.
package manifest

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/lsalehar/aero-data-fe/internal/semver"
)

// versionLineRE matches the version assignment inside the [project] table.
var versionLineRE = regexp.MustCompile(`^(\s*version\s*=\s*")(\d+\.\d+\.\d+)(")\s*$`)

// Manifest is the decoded subset of pyproject.toml the release driver needs.
type Manifest struct {
	Path    string
	Project struct {
		Name         string   `toml:"name"`
		Version      string   `toml:"version"`
		Description  string   `toml:"description"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

// Load parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %q: %w", path, err)
	}

	m := &Manifest{Path: path}
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest %q: %w", path, err)
	}
	if m.Project.Name == "" {
		return nil, fmt.Errorf("manifest %q: [project] name is missing", path)
	}
	return m, nil
}

// Version parses the manifest's version field.
func (m *Manifest) Version() (semver.Version, error) {
	if m.Project.Version == "" {
		return semver.Version{}, fmt.Errorf("manifest %q: [project] version is missing", m.Path)
	}
	v, err := semver.Parse(m.Project.Version)
	if err != nil {
		return semver.Version{}, fmt.Errorf("manifest %q: %w", m.Path, err)
	}
	return v, nil
}

// WriteVersion rewrites the version field in place, preserving all other
// content. Exactly one matching version line must exist.
func (m *Manifest) WriteVersion(v semver.Version) error {
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return fmt.Errorf("read manifest %q: %w", m.Path, err)
	}

	lines := strings.Split(string(data), "\n")
	matched := 0
	inProject := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			inProject = trimmed == "[project]"
			continue
		}
		if !inProject {
			continue
		}
		if sub := versionLineRE.FindStringSubmatch(line); sub != nil {
			lines[i] = sub[1] + v.String() + sub[3]
			matched++
		}
	}

	if matched == 0 {
		return fmt.Errorf("manifest %q: no version field found in [project]", m.Path)
	}
	if matched > 1 {
		return fmt.Errorf("manifest %q: %d version fields found in [project], want exactly one", m.Path, matched)
	}

	info, err := os.Stat(m.Path)
	if err != nil {
		return fmt.Errorf("stat manifest %q: %w", m.Path, err)
	}
	if err := os.WriteFile(m.Path, []byte(strings.Join(lines, "\n")), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write manifest %q: %w", m.Path, err)
	}

	m.Project.Version = v.String()
	return nil
}
