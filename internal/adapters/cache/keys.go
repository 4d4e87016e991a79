package cache

import "strings"

// NormalizeAddress collapses whitespace and case so equivalent inputs share
// a cache entry.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
