package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Uokoroafor/hot-take-generator/internal/config"
	"github.com/Uokoroafor/hot-take-generator/internal/hottake"
)

// Generator is the generation service consumed by the handlers.
type Generator interface {
	Generate(ctx context.Context, req hottake.Request) (hottake.Response, error)
	Stream(ctx context.Context, req hottake.Request, onDelta func(string) error) (hottake.Response, error)
	AvailableAgents() []hottake.AgentInfo
	AvailableStyles() []string
}

// ProviderLister exposes the web search provider roster.
type ProviderLister interface {
	AvailableProviders() []string
	ConfiguredProviders() []string
}

type Handler struct {
	cfg       config.Config
	generator Generator
	providers ProviderLister
}

func NewHandler(cfg config.Config, generator Generator, providers ProviderLister) Handler {
	return Handler{cfg: cfg, generator: generator, providers: providers}
}

func (h Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready reports whether the service can actually generate: at least one LLM
// provider key must be present.
func (h Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	if !h.cfg.HasLLMProvider() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"missing_configuration": []string{
				"At least one AI provider API key (OPENAI_API_KEY or ANTHROPIC_API_KEY) is required",
			},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type generateRequest struct {
	Topic             string `json:"topic"`
	Style             string `json:"style"`
	AgentType         string `json:"agent_type"`
	UseWebSearch      bool   `json:"use_web_search"`
	UseNewsSearch     bool   `json:"use_news_search"`
	MaxArticles       int    `json:"max_articles"`
	DaysBack          int    `json:"days_back"`
	StrictQuality     bool   `json:"strict_quality"`
	WebSearchProvider string `json:"web_search_provider"`
}

func (r generateRequest) toServiceRequest() hottake.Request {
	return hottake.Request{
		Topic:             r.Topic,
		Style:             r.Style,
		AgentType:         r.AgentType,
		UseWebSearch:      r.UseWebSearch,
		UseNewsSearch:     r.UseNewsSearch,
		MaxArticles:       r.MaxArticles,
		DaysBack:          r.DaysBack,
		StrictQuality:     r.StrictQuality,
		WebSearchProvider: r.WebSearchProvider,
	}
}

func (h Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	resp, err := h.generator.Generate(r.Context(), req.toServiceRequest())
	if err != nil {
		writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GenerateStream streams a generation as SSE message events: token events
// carrying deltas, then a done event carrying the full response. Errors
// after the stream opens become error events because the status is already
// committed.
func (h Handler) GenerateStream(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, codeStreamingUnsupported, "server does not support streaming")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	writeEvent := func(event map[string]any) {
		payload, _ := json.Marshal(event)
		_, _ = fmt.Fprintf(w, "event: message\ndata: %s\n\n", payload)
		flusher.Flush()
	}

	resp, err := h.generator.Stream(r.Context(), req.toServiceRequest(), func(delta string) error {
		writeEvent(map[string]any{"type": "token", "delta": delta})
		return nil
	})
	if err != nil {
		writeEvent(map[string]any{"type": "error", "message": err.Error()})
		return
	}
	writeEvent(map[string]any{"type": "done", "response": resp})
}

func (h Handler) Agents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": h.generator.AvailableAgents()})
}

func (h Handler) Styles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"styles": h.generator.AvailableStyles()})
}

func (h Handler) Providers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"providers":  h.providers.AvailableProviders(),
		"configured": h.providers.ConfiguredProviders(),
	})
}
