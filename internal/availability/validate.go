package availability

import (
	"regexp"
	"strings"
)

// maxDomainLength is the RFC 1035 ceiling for a full domain name.
const maxDomainLength = 253

// domainRegex accepts lowercase labels of alphanumerics and inner hyphens
// (max 63 chars each), at least one dot, and an alphabetic TLD of length >= 2.
// Inputs are normalized to lowercase before matching.
var domainRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)*\.[a-z]{2,}$`)

// Normalize trims surrounding whitespace and lowercases a domain name.
func Normalize(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// IsValidDomainName reports whether the (normalized) domain has plausible
// registration syntax. Invalid names are rejected before any network call.
func IsValidDomainName(domain string) bool {
	if len(domain) == 0 || len(domain) > maxDomainLength {
		return false
	}
	return domainRegex.MatchString(domain)
}
