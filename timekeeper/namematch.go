package timekeeper

import "strings"

// matchName reports whether name satisfies the configured --filter pattern.
// Ring names come straight off the filesystem (shmqueue.LatencyPath/
// TimingPath), not arbitrary structured keys, so discovery only ever needs
// two cases: an exact name, or a "prefix-*" wildcard for a family of
// related timers (e.g. "checkout-*"). Anything fancier (middle wildcards,
// regex) would be solving a problem this domain doesn't have.
func matchName(pattern, name string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(name, prefix)
	}
	return pattern == name
}
