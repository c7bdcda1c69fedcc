// Package version reports the build's version and checks version
// constraints against it.
package version

import (
	"runtime"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the current release, without the leading "v".
const Version = "0.1.0"

// Info describes the running binary.
type Info struct {
	// Version is the release string.
	Version string

	// Algorithm names the happens-before algorithm the auditor uses.
	Algorithm string

	// GoVersion is the toolchain the binary was built with.
	GoVersion string
}

// Get returns information about the running binary.
//
// Example:
//
//	info := version.Get()
//	fmt.Printf("forkjoin %s (%s)\n", info.Version, info.Algorithm)
func Get() Info {
	return Info{
		Version:   Version,
		Algorithm: "FastTrack (PLDI 2009)",
		GoVersion: runtime.Version(),
	}
}

// Canonical returns v in the "vMAJOR.MINOR.PATCH" form semver expects, or
// "" if v is not a valid semantic version. The leading "v" is optional.
func Canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

// AtLeast reports whether current >= required. Both must be valid versions.
func AtLeast(current, required string) bool {
	c, r := Canonical(current), Canonical(required)
	if c == "" || r == "" {
		return false
	}
	return semver.Compare(c, r) >= 0
}
