package npm

import (
	"strings"

	"golang.org/x/mod/semver"
)

// canonical prefixes "v" as x/mod/semver requires.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// IsNewer reports whether latest is a strictly greater semantic version than
// current. Invalid versions never compare as newer.
func IsNewer(current, latest string) bool {
	c, l := canonical(current), canonical(latest)
	if !semver.IsValid(c) || !semver.IsValid(l) {
		return false
	}
	return semver.Compare(l, c) > 0
}
