package cargo

import (
	"fmt"
	"regexp"
	"strings"
)

// versionPattern matches a semantic version with optional pre-release or
// build suffix, e.g. 0.15.6 or 1.0.0-alpha.1.
var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(?:[-+][0-9A-Za-z.-]+)?$`)

// ParseVersion extracts the version string from cargo pkgid output.
//
// Observed pkgid formats:
//
//	path+file:///home/user/ndarray#0.15.6
//	registry+https://github.com/rust-lang/crates.io-index#ndarray:0.15.6
//
// The version is the suffix after the last '#', and after the last ':'
// within that suffix when the crate name is included. Splitting on the last
// ':' keeps registry URLs with embedded colons intact. The result must look
// like a semantic version; anything else is an explicit error rather than a
// silently wrong substring.
func ParseVersion(pkgid string) (string, error) {
	id := strings.TrimSpace(pkgid)
	if id == "" {
		return "", fmt.Errorf("empty pkgid output")
	}

	last := id
	if i := strings.LastIndex(last, "#"); i >= 0 {
		last = last[i+1:]
	}
	if i := strings.LastIndex(last, ":"); i >= 0 {
		last = last[i+1:]
	}

	if !versionPattern.MatchString(last) {
		return "", fmt.Errorf("unexpected pkgid format %q: %q is not a version", id, last)
	}
	return last, nil
}
