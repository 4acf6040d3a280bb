package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort             = "8000"
	defaultOpenAIModel      = "gpt-4o-mini"
	defaultAnthropicModel   = "claude-3-5-haiku-latest"
	defaultBraveBaseURL     = "https://api.search.brave.com/res/v1"
	defaultSerperBaseURL    = "https://google.serper.dev"
	defaultNewsAPIBaseURL   = "https://newsapi.org/v2"
	defaultNewsDaysBack     = 14
	defaultSearchTimeoutSec = 12
	defaultCacheTTLSeconds  = 3600
	defaultVariantPoolSize  = 3
	defaultCacheBackend     = "memory"
)

// Scoring profile defaults: four positive weights that together stay at or
// below 1.0, plus the strict-mode penalty applied on zero topical overlap.
const (
	defaultRelevanceWeight  = 0.60
	defaultRecencyWeight    = 0.20
	defaultSnippetWeight    = 0.10
	defaultDomainWeight     = 0.10
	defaultNoOverlapPenalty = 0.35
)

type Config struct {
	Port           string
	Environment    string
	AllowedOrigins []string

	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string

	BraveAPIKey       string
	BraveBaseURL      string
	SerperAPIKey      string
	SerperBaseURL     string
	NewsAPIKey        string
	NewsAPIBaseURL    string
	WebSearchProvider string

	SearchDomainAllowlist string
	SearchDomainBlocklist string
	SearchTrustedDomains  string
	SearchNewsDaysDefault int
	SearchTimeout         time.Duration

	ScoreWeightRelevance        float64
	ScoreWeightRecency          float64
	ScoreWeightSnippet          float64
	ScoreWeightDomain           float64
	ScoreStrictNoOverlapPenalty float64

	CacheBackend         string
	RedisURL             string
	CachePath            string
	CacheTTL             time.Duration
	CacheVariantPoolSize int
}

func (c Config) ListenAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// HasLLMProvider reports whether at least one agent can generate takes.
// The service starts without keys but answers 503 on the readiness probe.
func (c Config) HasLLMProvider() bool {
	return c.OpenAIAPIKey != "" || c.AnthropicAPIKey != ""
}

func Load() (Config, error) {
	cfg := Config{
		Port:        envOrDefault("PORT", defaultPort),
		Environment: envOrDefault("APP_ENV", "development"),

		OpenAIAPIKey:    strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:     envOrDefault("OPENAI_MODEL", defaultOpenAIModel),
		AnthropicAPIKey: strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		AnthropicModel:  envOrDefault("ANTHROPIC_MODEL", defaultAnthropicModel),

		BraveAPIKey:       strings.TrimSpace(os.Getenv("BRAVE_API_KEY")),
		BraveBaseURL:      envOrDefault("BRAVE_BASE_URL", defaultBraveBaseURL),
		SerperAPIKey:      strings.TrimSpace(os.Getenv("SERPER_API_KEY")),
		SerperBaseURL:     envOrDefault("SERPER_BASE_URL", defaultSerperBaseURL),
		NewsAPIKey:        strings.TrimSpace(os.Getenv("NEWSAPI_API_KEY")),
		NewsAPIBaseURL:    envOrDefault("NEWSAPI_BASE_URL", defaultNewsAPIBaseURL),
		WebSearchProvider: strings.ToLower(strings.TrimSpace(os.Getenv("WEB_SEARCH_PROVIDER"))),

		SearchDomainAllowlist: strings.TrimSpace(os.Getenv("SEARCH_DOMAIN_ALLOWLIST")),
		SearchDomainBlocklist: strings.TrimSpace(os.Getenv("SEARCH_DOMAIN_BLOCKLIST")),
		SearchTrustedDomains:  strings.TrimSpace(os.Getenv("SEARCH_TRUSTED_DOMAINS")),
		SearchNewsDaysDefault: intOrDefault("SEARCH_NEWS_DAYS_DEFAULT", defaultNewsDaysBack),

		ScoreWeightRelevance:        floatOrDefault("SEARCH_SCORE_WEIGHT_RELEVANCE", defaultRelevanceWeight),
		ScoreWeightRecency:          floatOrDefault("SEARCH_SCORE_WEIGHT_RECENCY", defaultRecencyWeight),
		ScoreWeightSnippet:          floatOrDefault("SEARCH_SCORE_WEIGHT_SNIPPET", defaultSnippetWeight),
		ScoreWeightDomain:           floatOrDefault("SEARCH_SCORE_WEIGHT_DOMAIN", defaultDomainWeight),
		ScoreStrictNoOverlapPenalty: floatOrDefault("SEARCH_SCORE_STRICT_NO_OVERLAP_PENALTY", defaultNoOverlapPenalty),

		CacheBackend: strings.ToLower(envOrDefault("CACHE_BACKEND", defaultCacheBackend)),
		RedisURL:     strings.TrimSpace(os.Getenv("REDIS_URL")),
		CachePath:    envOrDefault("CACHE_SQLITE_PATH", "hot_take_cache.db"),
	}

	timeoutSecs := intOrDefault("SEARCH_TIMEOUT_SECONDS", defaultSearchTimeoutSec)
	if timeoutSecs <= 0 {
		return Config{}, errors.New("SEARCH_TIMEOUT_SECONDS must be > 0")
	}
	cfg.SearchTimeout = time.Duration(timeoutSecs) * time.Second

	ttlSecs := intOrDefault("CACHE_TTL_SECONDS", defaultCacheTTLSeconds)
	if ttlSecs <= 0 {
		return Config{}, errors.New("CACHE_TTL_SECONDS must be > 0")
	}
	cfg.CacheTTL = time.Duration(ttlSecs) * time.Second

	cfg.CacheVariantPoolSize = intOrDefault("CACHE_VARIANT_POOL_SIZE", defaultVariantPoolSize)
	if cfg.CacheVariantPoolSize < 1 {
		cfg.CacheVariantPoolSize = 1
	}

	switch cfg.CacheBackend {
	case "memory", "redis", "sqlite":
	default:
		return Config{}, fmt.Errorf("CACHE_BACKEND must be one of memory, redis, sqlite (got %q)", cfg.CacheBackend)
	}
	if cfg.CacheBackend == "redis" && cfg.RedisURL == "" {
		return Config{}, errors.New("REDIS_URL is required when CACHE_BACKEND=redis")
	}

	origins := parseList(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"))
	if len(origins) == 0 {
		return Config{}, errors.New("CORS_ALLOWED_ORIGINS must include at least one origin")
	}
	cfg.AllowedOrigins = origins

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func intOrDefault(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func floatOrDefault(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseList(raw string) []string {
	items := strings.Split(raw, ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
