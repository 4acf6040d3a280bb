package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Uokoroafor/hot-take-generator/internal/config"
)

// throttleLimit bounds concurrent in-flight requests; generation holds an
// upstream LLM connection for seconds at a time.
const throttleLimit = 100

func NewRouter(cfg config.Config, generator Generator, providers ProviderLister) http.Handler {
	h := NewHandler(cfg, generator, providers)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Throttle(throttleLimit))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/api", func(api chi.Router) {
		api.Post("/generate", h.Generate)
		api.Post("/generate/stream", h.GenerateStream)
		api.Get("/agents", h.Agents)
		api.Get("/styles", h.Styles)
		api.Get("/providers", h.Providers)
	})

	return r
}
