// Package provider contains the web search provider clients. Each client
// maps its upstream response into searchquality.Record so the rest of the
// pipeline never sees provider-specific shapes.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Uokoroafor/hot-take-generator/internal/searchquality"
)

// ErrMissingAPIKey is returned when a client is used without credentials.
var ErrMissingAPIKey = errors.New("provider: missing API key")

// maxErrorBodyBytes caps how much of an upstream error body is retained.
const maxErrorBodyBytes = 8 << 10

// Provider is a web search backend.
type Provider interface {
	// Search runs a query and returns up to maxResults raw records.
	Search(ctx context.Context, query string, maxResults int) ([]searchquality.Record, error)
	// IsConfigured reports whether the client has credentials.
	IsConfigured() bool
	// Name is the stable identifier used for provider selection.
	Name() string
}

// APIError is a non-2xx response from an upstream search API.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func newAPIError(name string, resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return &APIError{Provider: name, StatusCode: resp.StatusCode, Body: string(body)}
}
