// Package hottake orchestrates generation: cache lookup, agent selection,
// concurrent search enrichment, and the LLM call.
package hottake

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Uokoroafor/hot-take-generator/internal/agent"
	"github.com/Uokoroafor/hot-take-generator/internal/config"
	"github.com/Uokoroafor/hot-take-generator/internal/newssearch"
	"github.com/Uokoroafor/hot-take-generator/internal/searchquality"
	"github.com/Uokoroafor/hot-take-generator/internal/variantcache"
	"github.com/Uokoroafor/hot-take-generator/internal/websearch"
)

var (
	ErrEmptyTopic         = errors.New("hottake: topic is required")
	ErrUnknownAgent       = errors.New("hottake: unknown agent type")
	ErrAgentNotConfigured = errors.New("hottake: agent is not configured")
	ErrNoConfiguredAgent  = errors.New("hottake: no agent is configured")
)

const defaultMaxArticles = 5

// WebSearcher supplies ranked web results for prompt enrichment.
type WebSearcher interface {
	Search(ctx context.Context, topic string, maxResults int, strict bool, providerName string) []searchquality.Record
}

// NewsSearcher supplies ranked news results for prompt enrichment.
type NewsSearcher interface {
	SearchRecentNews(ctx context.Context, topic string, maxResults, daysBack int, strict bool) []searchquality.Record
}

// Request carries everything a generation needs.
type Request struct {
	Topic             string
	Style             string
	AgentType         string
	UseWebSearch      bool
	UseNewsSearch     bool
	MaxArticles       int
	DaysBack          int
	StrictQuality     bool
	WebSearchProvider string
}

// Response is the result of one generation.
type Response struct {
	ID             string `json:"id"`
	HotTake        string `json:"hot_take"`
	Topic          string `json:"topic"`
	Style          string `json:"style"`
	AgentUsed      string `json:"agent_used"`
	WebSearchUsed  bool   `json:"web_search_used"`
	NewsSearchUsed bool   `json:"news_search_used"`
	NewsContext    string `json:"news_context,omitempty"`
	Cached         bool   `json:"cached"`
	VariantCount   int    `json:"variant_count"`
}

// AgentInfo describes one registered agent for the API surface.
type AgentInfo struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Model      string `json:"model"`
	Configured bool   `json:"configured"`
}

// Service generates hot takes.
type Service struct {
	agents             map[string]agent.Agent
	store              variantcache.Store
	web                WebSearcher
	news               NewsSearcher
	searchTimeout      time.Duration
	defaultWebProvider string
	log                *logrus.Logger

	newID func() string
	pick  func(n int) int
}

func NewService(cfg config.Config, agents map[string]agent.Agent, store variantcache.Store, web WebSearcher, news NewsSearcher, log *logrus.Logger) *Service {
	return &Service{
		agents:             agents,
		store:              store,
		web:                web,
		news:               news,
		searchTimeout:      cfg.SearchTimeout,
		defaultWebProvider: cfg.WebSearchProvider,
		log:                log,
		newID:              uuid.NewString,
		pick:               rand.Intn,
	}
}

// AvailableAgents lists registered agents sorted by type.
func (s *Service) AvailableAgents() []AgentInfo {
	infos := make([]AgentInfo, 0, len(s.agents))
	for typ, ag := range s.agents {
		infos = append(infos, AgentInfo{
			Type:       typ,
			Name:       ag.Name(),
			Model:      ag.Model(),
			Configured: ag.Configured(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Type < infos[j].Type })
	return infos
}

// AvailableStyles lists every supported style.
func (s *Service) AvailableStyles() []string { return agent.AvailableStyles() }

// normalize applies request defaults in place and validates the topic.
func (s *Service) normalize(req *Request) error {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return ErrEmptyTopic
	}
	if req.Style == "" {
		req.Style = agent.DefaultStyle
	}
	if req.MaxArticles <= 0 {
		req.MaxArticles = defaultMaxArticles
	}
	if req.WebSearchProvider == "" {
		req.WebSearchProvider = s.defaultWebProvider
	}
	return nil
}

func (s *Service) selectAgent(agentType string) (agent.Agent, error) {
	if agentType != "" {
		ag, ok := s.agents[agentType]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAgent, agentType)
		}
		if !ag.Configured() {
			return nil, fmt.Errorf("%w: %q", ErrAgentNotConfigured, agentType)
		}
		return ag, nil
	}

	types := make([]string, 0, len(s.agents))
	for typ, ag := range s.agents {
		if ag.Configured() {
			types = append(types, typ)
		}
	}
	if len(types) == 0 {
		return nil, ErrNoConfiguredAgent
	}
	sort.Strings(types)
	return s.agents[types[s.pick(len(types))]], nil
}

// gatherContext runs the requested searches concurrently and returns the
// combined prompt block, the news block alone, and whether each source
// contributed at least one record. Search failures yield empty blocks.
func (s *Service) gatherContext(ctx context.Context, req Request) (combined, newsBlock string, webUsed, newsUsed bool) {
	var (
		wg       sync.WaitGroup
		webText  string
		newsText string
	)

	if req.UseWebSearch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, s.searchTimeout)
			defer cancel()
			records := s.web.Search(sctx, req.Topic, req.MaxArticles, req.StrictQuality, req.WebSearchProvider)
			if len(records) > 0 {
				webText = websearch.FormatContext(records)
			}
		}()
	}
	if req.UseNewsSearch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, s.searchTimeout)
			defer cancel()
			records := s.news.SearchRecentNews(sctx, req.Topic, req.MaxArticles, req.DaysBack, req.StrictQuality)
			if len(records) > 0 {
				newsText = newssearch.FormatContext(records)
			}
		}()
	}
	wg.Wait()

	blocks := make([]string, 0, 2)
	if webText != "" {
		blocks = append(blocks, webText)
	}
	if newsText != "" {
		blocks = append(blocks, newsText)
	}
	return strings.Join(blocks, "\n\n"), newsText, webText != "", newsText != ""
}

// Generate produces a hot take for the request. When no enrichment is
// requested, the variant pool is consulted first and fresh takes are added
// back to it.
func (s *Service) Generate(ctx context.Context, req Request) (Response, error) {
	if err := s.normalize(&req); err != nil {
		return Response{}, err
	}

	enriched := req.UseWebSearch || req.UseNewsSearch
	key := variantcache.Key(req.Topic, req.Style, req.AgentType)

	if !enriched {
		if v, n, err := s.store.GetRandom(ctx, key); err == nil {
			return Response{
				ID:           s.newID(),
				HotTake:      v.HotTake,
				Topic:        req.Topic,
				Style:        req.Style,
				AgentUsed:    v.AgentUsed,
				Cached:       true,
				VariantCount: n,
			}, nil
		} else if !errors.Is(err, variantcache.ErrMiss) {
			s.log.WithError(err).Warn("variant cache lookup failed")
		}
	}

	ag, err := s.selectAgent(req.AgentType)
	if err != nil {
		return Response{}, err
	}

	combined, newsBlock, webUsed, newsUsed := s.gatherContext(ctx, req)

	take, err := ag.GenerateHotTake(ctx, req.Topic, req.Style, combined)
	if err != nil {
		return Response{}, fmt.Errorf("generate hot take: %w", err)
	}

	resp := Response{
		ID:             s.newID(),
		HotTake:        take,
		Topic:          req.Topic,
		Style:          req.Style,
		AgentUsed:      ag.Name(),
		WebSearchUsed:  webUsed,
		NewsSearchUsed: newsUsed,
		NewsContext:    newsBlock,
	}

	if !enriched {
		n, err := s.store.Add(ctx, key, variantcache.Variant{HotTake: take, AgentUsed: ag.Name()})
		if err != nil {
			s.log.WithError(err).Warn("variant cache store failed")
		} else {
			resp.VariantCount = n
		}
	}
	return resp, nil
}

// Stream produces a hot take incrementally, calling onDelta for each text
// fragment. The returned Response carries the completed take. A cached
// variant is delivered as a single delta.
func (s *Service) Stream(ctx context.Context, req Request, onDelta func(string) error) (Response, error) {
	if err := s.normalize(&req); err != nil {
		return Response{}, err
	}

	enriched := req.UseWebSearch || req.UseNewsSearch
	key := variantcache.Key(req.Topic, req.Style, req.AgentType)

	if !enriched {
		if v, n, err := s.store.GetRandom(ctx, key); err == nil {
			if err := onDelta(v.HotTake); err != nil {
				return Response{}, err
			}
			return Response{
				ID:           s.newID(),
				HotTake:      v.HotTake,
				Topic:        req.Topic,
				Style:        req.Style,
				AgentUsed:    v.AgentUsed,
				Cached:       true,
				VariantCount: n,
			}, nil
		} else if !errors.Is(err, variantcache.ErrMiss) {
			s.log.WithError(err).Warn("variant cache lookup failed")
		}
	}

	ag, err := s.selectAgent(req.AgentType)
	if err != nil {
		return Response{}, err
	}

	combined, newsBlock, webUsed, newsUsed := s.gatherContext(ctx, req)

	var take strings.Builder
	err = ag.StreamHotTake(ctx, req.Topic, req.Style, combined, func(delta string) error {
		take.WriteString(delta)
		return onDelta(delta)
	})
	if err != nil {
		return Response{}, fmt.Errorf("stream hot take: %w", err)
	}

	resp := Response{
		ID:             s.newID(),
		HotTake:        strings.TrimSpace(take.String()),
		Topic:          req.Topic,
		Style:          req.Style,
		AgentUsed:      ag.Name(),
		WebSearchUsed:  webUsed,
		NewsSearchUsed: newsUsed,
		NewsContext:    newsBlock,
	}

	if !enriched && resp.HotTake != "" {
		n, err := s.store.Add(ctx, key, variantcache.Variant{HotTake: resp.HotTake, AgentUsed: ag.Name()})
		if err != nil {
			s.log.WithError(err).Warn("variant cache store failed")
		} else {
			resp.VariantCount = n
		}
	}
	return resp, nil
}
