// Package searchquality holds the ranking and filtering pipeline shared by
// the web-search and news-search services: normalization, domain policy,
// deduplication, recency windowing, scoring, and ranking. Every function is
// pure over its inputs, so concurrent searches never contend.
package searchquality

import "time"

// Record is the unified shape every provider adapter produces and the
// pipeline consumes. Published may be absent; every pipeline step tolerates
// that. Source, once resolved, is a lowercase host without a www. prefix.
type Record struct {
	Title     string
	URL       string
	Snippet   string
	Source    string
	Published *time.Time
}

// Weights configure the composite score. The four positive weights
// conventionally sum to at most 1.0; the penalty is an independent term
// subtracted in strict mode on zero topical overlap.
type Weights struct {
	Relevance              float64
	Recency                float64
	Snippet                float64
	Domain                 float64
	StrictNoOverlapPenalty float64
}

func DefaultWeights() Weights {
	return Weights{
		Relevance:              0.60,
		Recency:                0.20,
		Snippet:                0.10,
		Domain:                 0.10,
		StrictNoOverlapPenalty: 0.35,
	}
}

// Config is the process-wide quality configuration: domain sets plus score
// weights, built once at startup and passed into each pipeline call.
type Config struct {
	Allowlist      map[string]struct{}
	Blocklist      map[string]struct{}
	TrustedDomains map[string]struct{}
	Weights        Weights
}

func NewConfig(allowlist, blocklist, trusted string, weights Weights) Config {
	return Config{
		Allowlist:      ParseDomainList(allowlist),
		Blocklist:      ParseDomainList(blocklist),
		TrustedDomains: ParseDomainList(trusted),
		Weights:        weights,
	}
}
