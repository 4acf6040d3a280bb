package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Uokoroafor/hot-take-generator/internal/agent"
	"github.com/Uokoroafor/hot-take-generator/internal/config"
	"github.com/Uokoroafor/hot-take-generator/internal/hottake"
	"github.com/Uokoroafor/hot-take-generator/internal/httpapi"
	"github.com/Uokoroafor/hot-take-generator/internal/newsclient"
	"github.com/Uokoroafor/hot-take-generator/internal/newssearch"
	"github.com/Uokoroafor/hot-take-generator/internal/provider"
	"github.com/Uokoroafor/hot-take-generator/internal/variantcache"
	"github.com/Uokoroafor/hot-take-generator/internal/websearch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logrus.New()
	if cfg.Environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	store, err := variantcache.NewStore(cfg)
	if err != nil {
		log.Fatalf("open variant cache: %v", err)
	}
	defer store.Close()

	webService := websearch.NewService(cfg, []provider.Provider{
		provider.NewBrave(cfg, nil),
		provider.NewSerper(cfg, nil),
	}, logger)
	newsService := newssearch.NewService(cfg, newsclient.NewClient(cfg.NewsAPIKey, cfg.NewsAPIBaseURL, nil), logger)

	agents := map[string]agent.Agent{
		"openai":    agent.NewOpenAI(cfg),
		"anthropic": agent.NewAnthropic(cfg),
	}
	generator := hottake.NewService(cfg, agents, store, webService, newsService, logger)

	handler := httpapi.NewRouter(cfg, generator, webService)

	srv := &http.Server{
		Addr:         cfg.ListenAddress(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 130 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api listening on %s", cfg.ListenAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
