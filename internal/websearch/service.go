// Package websearch turns a topic into ranked web results and a prompt
// context block.
package websearch

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Uokoroafor/hot-take-generator/internal/config"
	"github.com/Uokoroafor/hot-take-generator/internal/provider"
	"github.com/Uokoroafor/hot-take-generator/internal/searchquality"
)

const (
	// webRecencyDays is the scoring horizon for web results. Web search has
	// no hard recency window, so this only shapes the recency component.
	webRecencyDays = 30
	// strictMinSnippetLen is the strict-mode floor on snippet length.
	strictMinSnippetLen = 80
	// maxFetch caps how many raw results are requested regardless of
	// overfetch multipliers.
	maxFetch = 20
)

// Service runs web searches through the quality pipeline. Search failures
// degrade to empty results rather than failing a generation.
type Service struct {
	providers []provider.Provider
	quality   searchquality.Config
	log       *logrus.Logger
	now       func() time.Time
}

func NewService(cfg config.Config, providers []provider.Provider, log *logrus.Logger) *Service {
	return &Service{
		providers: providers,
		quality: searchquality.NewConfig(
			cfg.SearchDomainAllowlist,
			cfg.SearchDomainBlocklist,
			cfg.SearchTrustedDomains,
			searchquality.Weights{
				Relevance:              cfg.ScoreWeightRelevance,
				Recency:                cfg.ScoreWeightRecency,
				Snippet:                cfg.ScoreWeightSnippet,
				Domain:                 cfg.ScoreWeightDomain,
				StrictNoOverlapPenalty: cfg.ScoreStrictNoOverlapPenalty,
			},
		),
		log: log,
		now: time.Now,
	}
}

// AvailableProviders lists every registered provider name.
func (s *Service) AvailableProviders() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return names
}

// ConfiguredProviders lists the providers that have credentials.
func (s *Service) ConfiguredProviders() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		if p.IsConfigured() {
			names = append(names, p.Name())
		}
	}
	return names
}

// selectProvider picks the named provider, or the first configured one when
// name is empty. It returns nil when nothing usable matches.
func (s *Service) selectProvider(name string) provider.Provider {
	if name != "" {
		for _, p := range s.providers {
			if p.Name() == name && p.IsConfigured() {
				return p
			}
		}
		return nil
	}
	for _, p := range s.providers {
		if p.IsConfigured() {
			return p
		}
	}
	return nil
}

// Search fetches, filters, and ranks web results for a topic. providerName
// pins a specific backend; empty means first configured. The returned slice
// is empty, never nil on success, when no provider is usable or the upstream
// call fails.
func (s *Service) Search(ctx context.Context, topic string, maxResults int, strict bool, providerName string) []searchquality.Record {
	p := s.selectProvider(providerName)
	if p == nil {
		s.log.WithField("provider", providerName).Warn("no configured web search provider")
		return []searchquality.Record{}
	}

	// Overfetch so filtering and deduplication still leave enough to rank.
	multiplier := 2
	if strict {
		multiplier = 3
	}
	fetch := maxResults * multiplier
	if fetch > maxFetch {
		fetch = maxFetch
	}

	raw, err := p.Search(ctx, topic, fetch)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"provider": p.Name(),
			"query":    topic,
		}).WithError(err).Warn("web search failed")
		return []searchquality.Record{}
	}

	topicTokens := searchquality.Tokenize(topic)
	kept := make([]searchquality.Record, 0, len(raw))
	for _, rec := range raw {
		if rec.Title == "" || rec.URL == "" {
			continue
		}
		domain := searchquality.ExtractDomain(rec.URL)
		if !searchquality.DomainAllowed(domain, s.quality.Allowlist, s.quality.Blocklist) {
			continue
		}
		if strict {
			if len(strings.TrimSpace(rec.Snippet)) < strictMinSnippetLen {
				continue
			}
			if !searchquality.HasOverlap(topicTokens, rec.Title+" "+rec.Snippet) {
				continue
			}
		}
		rec.Source = domain
		kept = append(kept, rec)
	}

	kept = searchquality.Dedupe(kept)
	return searchquality.RankAndTruncate(kept, searchquality.ScoreInput{
		TopicTokens:    topicTokens,
		TopicText:      topic,
		TrustedDomains: s.quality.TrustedDomains,
		RecencyDays:    webRecencyDays,
		StrictMode:     strict,
		Weights:        s.quality.Weights,
		Now:            s.now(),
	}, maxResults)
}

// SearchAndFormat runs Search and renders the prompt context block.
func (s *Service) SearchAndFormat(ctx context.Context, topic string, maxResults int, strict bool, providerName string) string {
	return FormatContext(s.Search(ctx, topic, maxResults, strict, providerName))
}
