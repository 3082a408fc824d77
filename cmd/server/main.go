package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tgo/gridsense/internal/artifact"
	"github.com/tgo/gridsense/internal/config"
	"github.com/tgo/gridsense/internal/eino/llm"
	"github.com/tgo/gridsense/internal/eino/narrator"
	"github.com/tgo/gridsense/internal/eino/tool"
	"github.com/tgo/gridsense/internal/forecast"
	"github.com/tgo/gridsense/internal/geo"
	"github.com/tgo/gridsense/internal/handler"
	"github.com/tgo/gridsense/internal/pipeline"
	"github.com/tgo/gridsense/internal/pkg/db"
	"github.com/tgo/gridsense/internal/repository"
	"github.com/tgo/gridsense/internal/trace"
	"github.com/tgo/gridsense/internal/weather"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	httpTimeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	// Trace eino model/tool calls (no-op unless configured)
	closeTrace := trace.Init(cfg.CozeLoopWorkspaceID, cfg.CozeLoopAPIToken)
	defer closeTrace(context.Background())

	// Init database
	database, err := db.NewGormDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	repo := repository.NewDemandRepository(database)

	// Geocoding: Google Maps first when a key is configured, then the
	// free Open-Meteo geocoder
	var providers []geo.Provider
	if cfg.GoogleMapsAPIKey != "" {
		providers = append(providers, geo.NewGoogleMapsProvider(cfg.GoogleMapsAPIKey, httpTimeout))
	}
	providers = append(providers, geo.NewOpenMeteoProvider(httpTimeout))
	geocoder := geo.NewChain(providers...)

	// Artifact store: Redis when configured, in-memory otherwise
	var artifacts artifact.Store
	if cfg.RedisURL != "" {
		store, err := artifact.NewRedisStoreFromURL(cfg.RedisURL, time.Duration(cfg.ArtifactTTLMinutes)*time.Minute)
		if err != nil {
			log.Fatalf("Failed to connect redis: %v", err)
		}
		artifacts = store
	} else {
		artifacts = artifact.NewInMemoryStore()
	}

	// Chart narration model (optional; summarize reports an error kind
	// when no provider is configured)
	var chartNarrator pipeline.Narrator
	if providerCfg := narratorConfig(cfg); providerCfg != nil {
		chatModel, err := llm.NewFactory().CreateChatModel(context.Background(), providerCfg)
		if err != nil {
			log.Fatalf("Failed to create chat model: %v", err)
		}
		chartNarrator = narrator.New(chatModel)
	} else {
		log.Println("No LLM provider configured; chart summarization disabled")
	}

	engine := pipeline.NewEngine(geocoder, weather.NewOpenMeteoClient(httpTimeout), artifacts, chartNarrator)
	forecaster := forecast.NewForecaster(repo)
	registry := tool.NewRegistry(engine, forecaster, repo, httpTimeout)

	// Setup router
	router := handler.SetupRouter(cfg, handler.Deps{
		Engine:     engine,
		Forecaster: forecaster,
		Repo:       repo,
		Tools:      registry,
	})

	// Create server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func narratorConfig(cfg *config.Config) *llm.ProviderConfig {
	switch cfg.LLMProvider {
	case "ark":
		if cfg.ArkAPIKey == "" {
			return nil
		}
		return &llm.ProviderConfig{Kind: llm.ProviderArk, APIKey: cfg.ArkAPIKey, Model: cfg.ArkModel}
	default:
		if cfg.OpenAIAPIKey == "" {
			return nil
		}
		return &llm.ProviderConfig{Kind: llm.ProviderOpenAI, APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel}
	}
}
