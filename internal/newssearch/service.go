// Package newssearch turns a topic into ranked recent headlines and a
// prompt context block.
package newssearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Uokoroafor/hot-take-generator/internal/config"
	"github.com/Uokoroafor/hot-take-generator/internal/newsclient"
	"github.com/Uokoroafor/hot-take-generator/internal/searchquality"
)

const (
	// strictMinSnippetLen is the strict-mode floor on description length.
	// News descriptions run longer than web snippets, so the bar is higher.
	strictMinSnippetLen = 90
	// maxPageSize is the largest page NewsAPI serves per request.
	maxPageSize = 100
)

// Service runs news searches through the quality pipeline. Failures degrade
// to empty results rather than failing a generation.
type Service struct {
	client          *newsclient.Client
	quality         searchquality.Config
	defaultDaysBack int
	log             *logrus.Logger
	now             func() time.Time
}

func NewService(cfg config.Config, client *newsclient.Client, log *logrus.Logger) *Service {
	return &Service{
		client: client,
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
		defaultDaysBack: cfg.SearchNewsDaysDefault,
		log:             log,
		now:             time.Now,
	}
}

func (s *Service) IsConfigured() bool { return s.client.IsConfigured() }

// buildNewsQuery shapes the NewsAPI query. Strict mode quotes multi-word
// topics as an exact phrase and requires a freshness term; single-word
// topics get the plain form because an AND clause would over-constrain them.
func buildNewsQuery(topic string, strict bool) string {
	topic = strings.TrimSpace(topic)
	if strict && strings.Contains(topic, " ") {
		return fmt.Sprintf("%q AND (latest OR update OR announcement)", topic)
	}
	return topic + " latest"
}

// SearchRecentNews fetches, filters, and ranks news articles for a topic.
// daysBack <= 0 uses the configured default window.
func (s *Service) SearchRecentNews(ctx context.Context, topic string, maxResults, daysBack int, strict bool) []searchquality.Record {
	if !s.client.IsConfigured() {
		s.log.Warn("news search requested without a NewsAPI key")
		return []searchquality.Record{}
	}
	if daysBack <= 0 {
		daysBack = s.defaultDaysBack
	}

	multiplier := 2
	if strict {
		multiplier = 3
	}
	pageSize := maxResults * multiplier
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	now := s.now()
	resp, err := s.client.Everything(ctx, newsclient.EverythingParams{
		Query:    buildNewsQuery(topic, strict),
		Language: "en",
		SortBy:   "publishedAt",
		PageSize: pageSize,
		From:     now.UTC().Add(-time.Duration(daysBack) * 24 * time.Hour),
	})
	if err != nil {
		s.log.WithField("query", topic).WithError(err).Warn("news search failed")
		return []searchquality.Record{}
	}
	if resp.Status != "ok" {
		s.log.WithFields(logrus.Fields{"query": topic, "status": resp.Status}).Warn("news search returned non-ok status")
		return []searchquality.Record{}
	}

	topicTokens := searchquality.Tokenize(topic)
	kept := make([]searchquality.Record, 0, len(resp.Articles))
	for _, art := range resp.Articles {
		if art.Title == "" || art.URL == "" {
			continue
		}
		domain := searchquality.ExtractDomain(art.URL)
		if !searchquality.DomainAllowed(domain, s.quality.Allowlist, s.quality.Blocklist) {
			continue
		}
		snippet := art.Description
		if snippet == "" {
			snippet = art.Content
		}
		if strict {
			if len(strings.TrimSpace(snippet)) < strictMinSnippetLen {
				continue
			}
			if !searchquality.HasOverlap(topicTokens, art.Title+" "+snippet) {
				continue
			}
		}
		rec := searchquality.Record{
			Title:   art.Title,
			URL:     art.URL,
			Snippet: snippet,
			Source:  art.Source.Name,
		}
		if rec.Source == "" {
			rec.Source = domain
		}
		if ts, ok := searchquality.ParseDateString(art.PublishedAt, now); ok {
			rec.Published = &ts
		}
		kept = append(kept, rec)
	}

	kept = searchquality.Dedupe(kept)
	kept = searchquality.ApplyRecencyWindow(kept, daysBack, now)
	return searchquality.RankAndTruncate(kept, searchquality.ScoreInput{
		TopicTokens:    topicTokens,
		TopicText:      topic,
		TrustedDomains: s.quality.TrustedDomains,
		RecencyDays:    daysBack,
		StrictMode:     strict,
		Weights:        s.quality.Weights,
		Now:            now,
	}, maxResults)
}

// SearchAndFormat runs SearchRecentNews and renders the prompt context block.
func (s *Service) SearchAndFormat(ctx context.Context, topic string, maxResults, daysBack int, strict bool) string {
	return FormatContext(s.SearchRecentNews(ctx, topic, maxResults, daysBack, strict))
}
