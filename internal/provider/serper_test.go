package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Uokoroafor/hot-take-generator/internal/config"
)

func TestSerperSearch(t *testing.T) {
	var gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("X-API-KEY")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"organic":[
			{"title":"Hit","link":"https://b.example/x","snippet":"snippet text","date":"Aug 20, 2026"},
			{"title":"Undated","link":"https://b.example/y","snippet":"more text"}
		]}`))
	}))
	defer srv.Close()

	client := NewSerper(config.Config{SerperAPIKey: "sk", SerperBaseURL: srv.URL}, srv.Client())
	records, err := client.Search(context.Background(), "topic here", 25)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotKey != "sk" {
		t.Errorf("key header = %q", gotKey)
	}
	if gotBody["q"] != "topic here" {
		t.Errorf("query sent = %v", gotBody["q"])
	}
	if n, _ := gotBody["num"].(float64); n != 10 {
		t.Errorf("num sent = %v, want capped at 10", gotBody["num"])
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].Published == nil {
		t.Error("dated record lost timestamp")
	}
	if records[1].Published != nil {
		t.Error("undated record gained timestamp")
	}
}

func TestSerperSearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewSerper(config.Config{SerperAPIKey: "sk", SerperBaseURL: srv.URL}, srv.Client())
	_, err := client.Search(context.Background(), "q", 3)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Provider != "serper" || apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestSerperSearchMissingKey(t *testing.T) {
	client := NewSerper(config.Config{}, nil)
	if _, err := client.Search(context.Background(), "q", 3); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}
