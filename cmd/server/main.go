package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	specpkg "github.com/profilehub/backend/api"
	"github.com/profilehub/backend/internal/api"
	"github.com/profilehub/backend/internal/auth"
	"github.com/profilehub/backend/internal/config"
	"github.com/profilehub/backend/internal/database"
	"github.com/profilehub/backend/internal/expense"
	"github.com/profilehub/backend/internal/invite"
	"github.com/profilehub/backend/internal/organization"
	"github.com/profilehub/backend/internal/project"
	"github.com/profilehub/backend/internal/provider"
	"github.com/profilehub/backend/internal/provider/local"
	"github.com/profilehub/backend/internal/provider/openai"
	"github.com/profilehub/backend/internal/rag"
	"github.com/profilehub/backend/internal/reconciler"
	"github.com/profilehub/backend/internal/todo"
	"github.com/profilehub/backend/internal/trip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	pool := db.Pool()
	userRepo := auth.NewRepository(pool)
	settingsRepo := auth.NewSettingsRepository(pool)

	keyCache := auth.NewKeyCache(settingsRepo, cfg.KeyCacheTTL, nil)
	authService := auth.NewService(userRepo, settingsRepo, keyCache, auth.ServiceConfig{
		KeyTTL:     cfg.APIKeyTTL,
		BcryptCost: cfg.BcryptCost,
	})

	if _, err := authService.BootstrapSuperuser(ctx); err != nil {
		slog.Error("failed to bootstrap superuser key", "error", err)
		os.Exit(1)
	}

	go reconciler.New(authService, cfg.KeyReconcileInterval).Start(ctx)

	model, err := selectProvider(cfg)
	if err != nil {
		slog.Error("failed to select model provider", "error", err)
		os.Exit(1)
	}

	ragService := rag.NewService(rag.NewRepository(pool), model, rag.NewSynthesizer(model), rag.Config{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		TopK:         cfg.TopK,
	})

	router := api.NewRouter(api.RouterDeps{
		DBPinger:         db,
		Version:          cfg.Version,
		OpenAPISpec:      specpkg.OpenAPISpec,
		AuthService:      authService,
		UserRepo:         userRepo,
		InviteRepo:       invite.NewRepository(pool),
		OrganizationRepo: organization.NewRepository(pool),
		ProjectRepo:      project.NewRepository(pool),
		TodoRepo:         todo.NewRepository(pool),
		TripRepo:         trip.NewRepository(pool),
		ExpenseRepo:      expense.NewRepository(pool),
		RAG:              ragService,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// selectProvider registers the available model backends and returns the
// configured one. The local backend is always available and is only used when
// MODEL_PROVIDER=local; "openai" without an API key is a startup error.
func selectProvider(cfg *config.Config) (provider.Provider, error) {
	registry := provider.NewRegistry()
	registry.Register("local", local.New())

	client, err := openai.New(openai.Config{
		BaseURL:         cfg.OpenAIBaseURL,
		APIKey:          cfg.OpenAIAPIKey,
		EmbeddingModel:  cfg.EmbeddingModel,
		CompletionModel: cfg.CompletionModel,
		Timeout:         cfg.ModelTimeout,
	})
	switch {
	case err == nil:
		registry.Register("openai", client)
	case errors.Is(err, openai.ErrMissingAPIKey) && cfg.ModelProvider == "openai":
		return nil, fmt.Errorf("MODEL_PROVIDER=openai requires OPENAI_API_KEY: %w", err)
	case !errors.Is(err, openai.ErrMissingAPIKey):
		return nil, err
	}

	p, err := registry.Select(cfg.ModelProvider)
	if err != nil {
		return nil, err
	}
	slog.Info("model provider selected", "provider", cfg.ModelProvider, "available", registry.Names())
	return p, nil
}
