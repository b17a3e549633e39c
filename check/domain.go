package check

import (
	"strings"

	"github.com/optimode/mxprobe/internal/levenshtein"
)

// Suggest returns the provider domain closest to domain when it is within
// maxDistance edits, e.g. "gmail.com" for "gmial.com". It returns "" when
// domain is itself a known provider domain or nothing is close enough.
// The hint is informational and never changes a verdict.
func (t ProviderTable) Suggest(domain string, maxDistance int) string {
	domain = strings.ToLower(strings.TrimSuffix(domain, "."))
	if domain == "" || maxDistance <= 0 {
		return ""
	}

	var known []string
	for _, p := range t {
		known = append(known, p.Domains...)
	}

	match, dist, ok := levenshtein.Closest(domain, known, maxDistance)
	if !ok || dist == 0 {
		return ""
	}
	return match
}
