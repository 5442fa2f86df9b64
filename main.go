package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"travellingsaasman/grocerytracker/api"
	"travellingsaasman/grocerytracker/config"
	"travellingsaasman/grocerytracker/internal/catalog"
	"travellingsaasman/grocerytracker/internal/crawler"
	"travellingsaasman/grocerytracker/internal/pricestore"
	"travellingsaasman/grocerytracker/logger"
	"travellingsaasman/grocerytracker/services/cache"
	"travellingsaasman/grocerytracker/services/publisher"
	"travellingsaasman/grocerytracker/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("source", cfg.Source).
		Dur("crawl_interval", cfg.CrawlInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(ctx, cfg)
	defer services.Cleanup()

	// Restore persisted state; a corrupt file is fatal and carries its
	// own remediation hint
	cat := catalog.New(cfg.Source)
	if err := cat.LoadArtifacts(cfg.DataDir); err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog artifacts")
	}

	store := pricestore.New(filepath.Join(cfg.DataDir, "prices.json"))
	if err := store.Load(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load price store")
	}

	stats := cat.Stats()
	log.Info().
		Int("products", stats.TotalProducts).
		Int("brands", stats.TotalBrands).
		Int("categories", stats.TotalCategories).
		Int("tracked_prices", store.TotalTracked()).
		Msg("Persisted state restored")

	// Create the crawler and worker
	cr := crawler.New(cfg, services.Cache)
	w := worker.NewWorker(ctx, cfg, cr, cat, store, services.Publisher)

	// Start the read API
	handler := api.NewHandler(cat, store, w)
	server := &http.Server{
		Addr:    cfg.APIAddr,
		Handler: api.SetupRouter(cfg, handler),
	}
	go func() {
		log.Info().Str("addr", cfg.APIAddr).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("API server exited")
		}
	}()

	// Start worker in a goroutine
	workerDone := make(chan struct{})
	go func() {
		w.Start()
		close(workerDone)
	}()

	// Wait for shutdown signal or worker exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case <-workerDone:
		log.Info().Msg("Worker exited")
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API server shutdown failed")
	}
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes the cache and the publisher. Without a
// memcache address the in-memory cache backs the rate-limit block keys.
func initializeServices(ctx context.Context, cfg config.Config) *Services {
	services := &Services{}

	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	} else {
		services.Cache = cache.NewMemoryCache()
		logger.Info("Using in-memory cache")
	}

	services.Publisher = publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	return services
}
