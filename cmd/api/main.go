// Package main is the entry point for the agent server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pulsetrack/whatsapp-agent/internal/config"
	"github.com/pulsetrack/whatsapp-agent/internal/greenapi"
	"github.com/pulsetrack/whatsapp-agent/internal/handler"
	"github.com/pulsetrack/whatsapp-agent/internal/llm"
	"github.com/pulsetrack/whatsapp-agent/internal/middleware"
	natsclient "github.com/pulsetrack/whatsapp-agent/internal/nats"
	"github.com/pulsetrack/whatsapp-agent/internal/prompt"
	"github.com/pulsetrack/whatsapp-agent/internal/service"
	"github.com/pulsetrack/whatsapp-agent/internal/store"
	"github.com/pulsetrack/whatsapp-agent/pkg/logger"
	"github.com/pulsetrack/whatsapp-agent/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting agent server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "whatsapp-agent", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Open the store. Without a DATABASE_URL the server falls back to the
	// in-memory store, which only makes sense for local development.
	var st store.Store
	if cfg.DatabaseURL != "" {
		gormStore, err := store.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", zap.Error(err))
			os.Exit(1)
		}
		st = gormStore
	} else {
		log.Warn("DATABASE_URL not set, using in-memory store")
		st = store.NewMemoryStore()
	}

	// Connect to NATS for lead events. The pipeline works without it.
	var nc *natsclient.Client
	var events service.EventPublisher
	if cfg.NATSURL != "" {
		nc, err = natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("failed to connect to NATS, lead events disabled", zap.Error(err))
		} else {
			defer nc.Close()
			publisher := natsclient.NewEventPublisher(nc)
			if err := publisher.EnsureStream(ctx); err != nil {
				log.Warn("failed to ensure lead stream, lead events disabled", zap.Error(err))
			} else {
				events = publisher
			}
		}
	}

	// Initialize LLM client
	var llmClient llm.Client
	switch {
	case cfg.DefaultLLM == string(llm.ProviderOpenAI) && cfg.OpenAIAPIKey != "":
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	case cfg.AnthropicAPIKey != "":
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	case cfg.OpenAIAPIKey != "":
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	default:
		log.Error("no LLM API key configured")
		os.Exit(1)
	}
	if err != nil {
		log.Error("failed to create LLM client", zap.Error(err))
		os.Exit(1)
	}
	log.Info("LLM client ready", zap.String("provider", llmClient.Name()))

	// Outbound gateway client
	sender := greenapi.NewClient(cfg.GreenAPIBaseURL, log)

	// Initialize services
	composer := prompt.NewComposer(cfg.PromptRegisters)
	conversationSvc := service.NewConversationService(st, log)
	catalogSvc := service.NewCatalogService(st)
	webhookSvc := service.NewWebhookService(st, conversationSvc, catalogSvc, composer, llmClient, sender, events, log, service.WebhookConfig{
		CatalogLimit:      cfg.CatalogLimit,
		CompletionModel:   cfg.CompletionModel,
		MaxTokens:         cfg.CompletionMaxTokens,
		CompletionTimeout: cfg.CompletionTimeout,
	})

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(st, nc)
	webhookHandler := handler.NewWebhookHandler(webhookSvc, log)
	adminHandler := handler.NewAdminHandler(st, conversationSvc, sender, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Gateway webhook. The pipeline only acts on events whose instance
	// identifier matches an active tenant.
	r.Post("/webhook/{instanceID}", webhookHandler.Receive)

	// Admin routes with authentication
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/tenants", adminHandler.UpsertTenant)
		r.Put("/tenants/{id}/properties", adminHandler.ReplaceProperties)
		r.Get("/tenants/{id}/conversations", adminHandler.ListConversations)
		r.Get("/conversations/{id}", adminHandler.GetConversation)
		r.Post("/send", adminHandler.Send)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout. In-flight webhook pipelines run on
	// their own goroutines and finish independently.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
