package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Uokoroafor/hot-take-generator/internal/config"
	"github.com/Uokoroafor/hot-take-generator/internal/searchquality"
)

// serperMaxNum is the largest result count requested from Serper.
const serperMaxNum = 10

// Serper queries the Serper.dev Google search API.
type Serper struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func NewSerper(cfg config.Config, httpClient *http.Client) *Serper {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Serper{
		apiKey:     cfg.SerperAPIKey,
		baseURL:    cfg.SerperBaseURL,
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (s *Serper) Name() string       { return "serper" }
func (s *Serper) IsConfigured() bool { return s.apiKey != "" }

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Date    string `json:"date"`
	} `json:"organic"`
}

func (s *Serper) Search(ctx context.Context, query string, maxResults int) ([]searchquality.Record, error) {
	if !s.IsConfigured() {
		return nil, ErrMissingAPIKey
	}
	num := maxResults
	if num > serperMaxNum {
		num = serperMaxNum
	}
	if num < 1 {
		num = 1
	}

	payload, err := json.Marshal(map[string]any{"q": query, "num": num})
	if err != nil {
		return nil, fmt.Errorf("encode serper request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build serper request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(s.Name(), resp)
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode serper response: %w", err)
	}

	now := s.now()
	records := make([]searchquality.Record, 0, len(parsed.Organic))
	for _, r := range parsed.Organic {
		rec := searchquality.Record{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: r.Snippet,
		}
		if ts, ok := searchquality.ParseDateString(r.Date, now); ok {
			rec.Published = &ts
		}
		records = append(records, rec)
	}
	return records, nil
}
