package registry

import "strings"

// rdapEndpoints maps a TLD to the base URL of its registry operator's RDAP
// service. Deliberately small: only the TLDs the generator proposes by
// default. Unknown TLDs fall back to the .com operator; lookups against the
// wrong operator typically answer 404 and read as available.
var rdapEndpoints = map[string]string{
	"com": "https://rdap.verisign.com/com/v1",
	"net": "https://rdap.verisign.com/net/v1",
	"org": "https://rdap.publicinterestregistry.org/rdap",
	"io":  "https://rdap.identitydigital.services/rdap",
	"co":  "https://rdap.centralnic.com/co",
	"ai":  "https://rdap.identitydigital.services/rdap",
	"dev": "https://pubapi.registry.google/rdap",
	"app": "https://pubapi.registry.google/rdap",
	"me":  "https://rdap.centralnic.com/me",
	"xyz": "https://rdap.centralnic.com/xyz",
}

const rdapFallbackEndpoint = "https://rdap.verisign.com/com/v1"

// endpointFor derives the TLD (the label after the last dot) and resolves the
// RDAP base URL for it.
func endpointFor(endpoints map[string]string, fallback, domain string) string {
	tld := domain
	if i := strings.LastIndex(domain, "."); i >= 0 {
		tld = domain[i+1:]
	}
	if base, ok := endpoints[strings.ToLower(tld)]; ok {
		return base
	}
	return fallback
}
