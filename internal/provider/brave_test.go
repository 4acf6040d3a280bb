package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Uokoroafor/hot-take-generator/internal/config"
)

func braveConfig(key, baseURL string) config.Config {
	return config.Config{BraveAPIKey: key, BraveBaseURL: baseURL}
}

func TestBraveSearch(t *testing.T) {
	var gotToken, gotQuery, gotCount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/web/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotToken = r.Header.Get("X-Subscription-Token")
		gotQuery = r.URL.Query().Get("q")
		gotCount = r.URL.Query().Get("count")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"web":{"results":[
			{"title":"First","url":"https://a.example/1","description":"desc one","age":"2026-08-20T00:00:00Z"},
			{"title":"Second","url":"https://a.example/2","description":"desc two","page_age":"not a date"}
		]}}`))
	}))
	defer srv.Close()

	client := NewBrave(braveConfig("token-123", srv.URL), srv.Client())
	records, err := client.Search(context.Background(), "some topic", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotToken != "token-123" {
		t.Errorf("token header = %q", gotToken)
	}
	if gotQuery != "some topic" || gotCount != "5" {
		t.Errorf("query params = %q, %q", gotQuery, gotCount)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].Published == nil || !records[0].Published.Equal(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("published = %v", records[0].Published)
	}
	if records[1].Published != nil {
		t.Errorf("unparseable age produced timestamp %v", records[1].Published)
	}
}

func TestBraveSearchCapsCount(t *testing.T) {
	var gotCount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCount = r.URL.Query().Get("count")
		w.Write([]byte(`{"web":{"results":[]}}`))
	}))
	defer srv.Close()

	client := NewBrave(braveConfig("k", srv.URL), srv.Client())
	if _, err := client.Search(context.Background(), "q", 50); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotCount != "20" {
		t.Errorf("count = %q, want capped at 20", gotCount)
	}
}

func TestBraveSearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewBrave(braveConfig("k", srv.URL), srv.Client())
	_, err := client.Search(context.Background(), "q", 3)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
}

func TestBraveSearchMissingKey(t *testing.T) {
	client := NewBrave(braveConfig("", "http://unused"), nil)
	if client.IsConfigured() {
		t.Error("IsConfigured = true without key")
	}
	if _, err := client.Search(context.Background(), "q", 3); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}
