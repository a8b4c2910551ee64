// Package semver handles the three-integer version scheme used by the
// aero-data manifest. The manifest stores plain "X.Y.Z" with no prerelease or
// build metadata; tags are formed by applying a configurable prefix.
package semver

import (
	"fmt"
	"regexp"
	"strconv"

	xsemver "golang.org/x/mod/semver"
)

// versionRE matches a strict dot-separated three-integer version.
var versionRE = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// Version is a parsed manifest version.
type Version struct {
	Major, Minor, Patch uint64
}

// Parse parses a strict "X.Y.Z" version string. Leading zeros are accepted
// and renormalised; anything else (prerelease, build metadata, missing
// components) is rejected.
func Parse(s string) (Version, error) {
	m := versionRE.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version %q: want three dot-separated non-negative integers", s)
	}

	var v Version
	var err error
	if v.Major, err = strconv.ParseUint(m[1], 10, 64); err != nil {
		return Version{}, fmt.Errorf("invalid major component in %q: %w", s, err)
	}
	if v.Minor, err = strconv.ParseUint(m[2], 10, 64); err != nil {
		return Version{}, fmt.Errorf("invalid minor component in %q: %w", s, err)
	}
	if v.Patch, err = strconv.ParseUint(m[3], 10, 64); err != nil {
		return Version{}, fmt.Errorf("invalid patch component in %q: %w", s, err)
	}
	return v, nil
}

// String renders the canonical "X.Y.Z" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag renders the version as a git tag with the given prefix (usually "v").
func (v Version) Tag(prefix string) string {
	return prefix + v.String()
}

// Compare returns -1, 0, or +1 when v is less than, equal to, or greater
// than w under semantic-version ordering.
func Compare(v, w Version) int {
	return xsemver.Compare("v"+v.String(), "v"+w.String())
}

// Bump returns a copy of v with the named part incremented and lower parts
// reset. Valid parts are "major", "minor", and "patch".
func (v Version) Bump(part string) (Version, error) {
	switch part {
	case "major":
		return Version{Major: v.Major + 1}, nil
	case "minor":
		return Version{Major: v.Major, Minor: v.Minor + 1}, nil
	case "patch":
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	default:
		return Version{}, fmt.Errorf("unknown bump part %q: want major, minor, or patch", part)
	}
}

// Suggestions returns the patch, minor, and major bumps of v, in that order.
// Used by the interactive prompt.
func (v Version) Suggestions() [3]Version {
	patch, _ := v.Bump("patch")
	minor, _ := v.Bump("minor")
	major, _ := v.Bump("major")
	return [3]Version{patch, minor, major}
}
