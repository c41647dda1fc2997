package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rtvk-001/FilmHive/internal/cache"
	"github.com/Rtvk-001/FilmHive/internal/catalog"
	"github.com/Rtvk-001/FilmHive/internal/config"
	"github.com/Rtvk-001/FilmHive/internal/database"
	"github.com/Rtvk-001/FilmHive/internal/handler"
	"github.com/Rtvk-001/FilmHive/internal/queue"
	appredis "github.com/Rtvk-001/FilmHive/internal/redis"
	"github.com/Rtvk-001/FilmHive/internal/repository"
	"github.com/Rtvk-001/FilmHive/internal/service"
	"github.com/Rtvk-001/FilmHive/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// Run wires the whole application together and serves until interrupted.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Postgres and apply the schema
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. Connect to Redis
	redisClient, err := appredis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	watchRepo := repository.NewWatchRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// 5. Infrastructure
	txRunner := database.NewTxRunner(db)
	feedCache := cache.NewFeedCache(redisClient.Client)
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)
	catalogClient := catalog.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey)

	// 6. Services
	userService := service.NewUserService(userRepo, followRepo, watchRepo, activityRepo)
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	followService := service.NewFollowService(txRunner, followRepo, userRepo, activityRepo, publisher)
	watchService := service.NewWatchService(txRunner, watchRepo, userRepo, activityRepo, publisher)
	searchService := service.NewSearchService(userRepo, catalogClient)
	feedService := service.NewFeedService(feedCache, activityRepo, followRepo)

	// Profile picture storage is optional; without R2 config, registration
	// falls back to the default avatar and uploads are rejected.
	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		log.Printf("[Server] Media uploads disabled: %v", err)
		mediaService = nil
	}

	// 7. Feed fan-out workers
	feedWorkers := worker.NewManager(
		consumer,
		worker.NewHandler(feedCache, followRepo, activityRepo),
		worker.DefaultManagerConfig(),
	)
	if err := feedWorkers.Start(ctx); err != nil {
		return fmt.Errorf("failed to start feed workers: %w", err)
	}
	defer feedWorkers.Stop()

	// 8. HTTP surface
	router := NewRouter(RouterConfig{
		AuthHandler:   handler.NewAuthHandler(userService, authService, mediaService, cfg),
		UserHandler:   handler.NewUserHandler(userService, followService),
		FollowHandler: handler.NewFollowHandler(followService),
		WatchHandler:  handler.NewWatchHandler(watchService),
		SearchHandler: handler.NewSearchHandler(searchService),
		FeedHandler:   handler.NewFeedHandler(feedService),
		JWTSecret:     cfg.JWTSecret,
	})

	srv := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("[Server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
