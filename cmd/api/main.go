package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mirelio/api-console/internal/analytics"
	"github.com/mirelio/api-console/internal/auth"
	"github.com/mirelio/api-console/internal/charts"
	"github.com/mirelio/api-console/internal/config"
	"github.com/mirelio/api-console/internal/fixture"
	"github.com/mirelio/api-console/internal/flags"
	"github.com/mirelio/api-console/internal/handlers"
	"github.com/mirelio/api-console/internal/keys"
	"github.com/mirelio/api-console/internal/models"
	"github.com/mirelio/api-console/internal/store"
	"github.com/mirelio/api-console/pkg/ratelimit"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Str("environment", cfg.Environment).Msg("Starting API Console")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the bundled usage dataset
	fx, err := fixture.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load usage dataset")
	}
	log.Info().Int("days", fx.Len()).Msg("Usage dataset loaded")

	// Open the persistence backend
	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer st.Close()
	log.Info().Str("backend", cfg.StorageBackend).Msg("Store opened")

	// Seed the key collection on first run
	if err := seedKeys(ctx, st, fx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed key collection")
	}

	// Services
	keySvc, err := keys.NewService(ctx, st, keys.Delays{
		Create:     cfg.CreateDelay,
		Regenerate: cfg.RegenerateDelay,
		Revoke:     cfg.RevokeDelay,
		Delete:     cfg.DeleteDelay,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize key service")
	}

	authSvc := auth.NewService(cfg.JWTSecret, cfg.SessionTTL, st)
	engine := analytics.NewEngine(fx)
	projector := analytics.NewProjector(fx, keySvc)
	registry := flags.NewRegistry(cfg.ChartV2, cfg.ModernColors)
	renderer := charts.NewRenderer()
	faults := handlers.NewFaultInjector(cfg.SimulateFailures, cfg.FailureRate)

	// Rate limiter: Redis when configured, in-process otherwise
	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		limiter, err = ratelimit.NewRedisLimiter(cfg.RedisURL, cfg.MutationRateLimit, "console:rate_limit")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect rate limiter")
		}
		log.Info().Msg("Using Redis rate limiter")
	} else {
		limiter = ratelimit.NewLocalLimiter(cfg.MutationRateLimit)
	}
	defer limiter.Close()

	r := handlers.NewRouter(handlers.Deps{
		Auth:      handlers.NewAuthHandler(authSvc),
		AuthSvc:   authSvc,
		Keys:      handlers.NewKeyHandler(keySvc),
		Usage:     handlers.NewUsageHandler(engine, renderer, registry, faults),
		Dashboard: handlers.NewDashboardHandler(projector),
		Flags:     handlers.NewFlagHandler(registry),
		Docs:      handlers.NewDocsHandler(),
		Live:      handlers.NewLiveHandler(projector),
		Limiter:   limiter,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
		cancel()
	}()

	log.Info().Str("port", cfg.Port).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server error")
	}

	log.Info().Msg("Server stopped")
}

// seedKeys writes the dataset's seed keys into an empty store so a
// fresh install starts with a populated key table.
func seedKeys(ctx context.Context, st store.Store, fx *fixture.Store) error {
	existing, err := st.LoadKeys(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	seeds := fx.SeedKeys()
	if len(seeds) == 0 {
		return nil
	}

	seeded := make([]models.APIKey, 0, len(seeds))
	for _, s := range seeds {
		secret, err := keys.GenerateSecret()
		if err != nil {
			return err
		}
		seeded = append(seeded, models.APIKey{
			ID:         s.ID,
			Name:       s.Name,
			Secret:     secret,
			CreatedOn:  s.Created,
			LastUsedOn: s.LastUsed,
			Status:     s.Status,
		})
	}

	log.Info().Int("count", len(seeded)).Msg("Seeding key collection")
	return st.SaveKeys(ctx, seeded)
}
