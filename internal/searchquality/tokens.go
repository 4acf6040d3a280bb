package searchquality

import (
	"net/url"
	"regexp"
	"strings"
)

// tokenPattern matches alphanumeric runs of length >= 2 in lowercased text.
// Single characters carry no topical signal and inflate overlap counts.
var tokenPattern = regexp.MustCompile(`[a-z0-9]{2,}`)

// Tokenize lowercases text and returns its unique tokens as a set.
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

// HasOverlap reports whether text shares at least one token with the topic.
func HasOverlap(topicTokens map[string]struct{}, text string) bool {
	return overlapCount(topicTokens, text) > 0
}

// overlapCount reports how many topic tokens appear in text.
func overlapCount(topicTokens map[string]struct{}, text string) int {
	n := 0
	for tok := range Tokenize(text) {
		if _, ok := topicTokens[tok]; ok {
			n++
		}
	}
	return n
}

// ExtractDomain resolves a value to a lowercase host with any leading www.
// stripped. A value with a scheme is parsed as a URL and reduced to its
// host; anything else is treated as already being a host.
func ExtractDomain(value string) string {
	domain := strings.ToLower(strings.TrimSpace(value))
	if strings.Contains(domain, "://") {
		u, err := url.Parse(domain)
		if err != nil {
			return ""
		}
		domain = u.Host
	}
	return strings.TrimPrefix(domain, "www.")
}

// NormalizeURL produces the deduplication key for a URL: lowercase host
// without www., plus the path with trailing slashes removed. Path case is
// preserved because many sites treat paths case-sensitively. Query strings
// and fragments are dropped. Unparseable input falls back to the raw string.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	path := strings.TrimRight(u.Path, "/")
	return host + path
}

// ParseDomainList splits a comma-separated domain list into a set,
// lowercasing and trimming each entry and dropping empties.
func ParseDomainList(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		d := strings.ToLower(strings.TrimSpace(part))
		if d != "" {
			set[d] = struct{}{}
		}
	}
	return set
}

// DomainAllowed applies the domain policy to a single domain. An empty
// domain is always rejected. The blocklist wins over everything; when an
// allowlist is present, only its members pass.
func DomainAllowed(domain string, allowlist, blocklist map[string]struct{}) bool {
	if domain == "" {
		return false
	}
	if _, blocked := blocklist[domain]; blocked {
		return false
	}
	if len(allowlist) > 0 {
		_, ok := allowlist[domain]
		return ok
	}
	return true
}
