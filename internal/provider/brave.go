package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Uokoroafor/hot-take-generator/internal/config"
	"github.com/Uokoroafor/hot-take-generator/internal/searchquality"
)

// braveMaxCount is the largest page the Brave web search API serves.
const braveMaxCount = 20

// Brave queries the Brave Search web API.
type Brave struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewBrave builds a Brave client from configuration. A nil httpClient falls
// back to http.DefaultClient.
func NewBrave(cfg config.Config, httpClient *http.Client) *Brave {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Brave{
		apiKey:     cfg.BraveAPIKey,
		baseURL:    cfg.BraveBaseURL,
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (b *Brave) Name() string       { return "brave" }
func (b *Brave) IsConfigured() bool { return b.apiKey != "" }

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Age         string `json:"age"`
			PageAge     string `json:"page_age"`
		} `json:"results"`
	} `json:"web"`
}

func (b *Brave) Search(ctx context.Context, query string, maxResults int) ([]searchquality.Record, error) {
	if !b.IsConfigured() {
		return nil, ErrMissingAPIKey
	}
	count := maxResults
	if count > braveMaxCount {
		count = braveMaxCount
	}
	if count < 1 {
		count = 1
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("count", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/web/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build brave request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(b.Name(), resp)
	}

	var parsed braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode brave response: %w", err)
	}

	now := b.now()
	records := make([]searchquality.Record, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		rec := searchquality.Record{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Description,
		}
		age := r.Age
		if age == "" {
			age = r.PageAge
		}
		if ts, ok := searchquality.ParseDateString(age, now); ok {
			rec.Published = &ts
		}
		records = append(records, rec)
	}
	return records, nil
}
