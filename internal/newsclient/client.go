// Package newsclient is a thin client for the NewsAPI "everything" endpoint.
package newsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrMissingAPIKey is returned when the client is used without credentials.
var ErrMissingAPIKey = errors.New("newsclient: missing API key")

const maxErrorBodyBytes = 8 << 10

// Client calls NewsAPI.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a NewsAPI client. A nil httpClient falls back to
// http.DefaultClient.
func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

func (c *Client) IsConfigured() bool { return c.apiKey != "" }

// APIError is a non-2xx response from NewsAPI.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsapi error: status %d: %s", e.StatusCode, e.Body)
}

// EverythingParams are the query parameters for the everything endpoint.
// Zero values are omitted from the request.
type EverythingParams struct {
	Query    string
	Language string
	SortBy   string
	PageSize int
	// From bounds article publication dates; only the date part is sent.
	From time.Time
}

// Article is a single NewsAPI result.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// EverythingResponse is the everything endpoint payload.
type EverythingResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// Everything searches all indexed articles matching the params.
func (c *Client) Everything(ctx context.Context, params EverythingParams) (EverythingResponse, error) {
	if !c.IsConfigured() {
		return EverythingResponse{}, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("q", params.Query)
	if params.Language != "" {
		q.Set("language", params.Language)
	}
	if params.SortBy != "" {
		q.Set("sortBy", params.SortBy)
	}
	if params.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(params.PageSize))
	}
	if !params.From.IsZero() {
		q.Set("from", params.From.UTC().Format("2006-01-02"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything?"+q.Encode(), nil)
	if err != nil {
		return EverythingResponse{}, fmt.Errorf("build newsapi request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return EverythingResponse{}, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return EverythingResponse{}, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed EverythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return EverythingResponse{}, fmt.Errorf("decode newsapi response: %w", err)
	}
	return parsed, nil
}
