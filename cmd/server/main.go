package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"workspace/internal/auth"
	"workspace/internal/config"
	"workspace/internal/domain/services"
	"workspace/internal/handler"
	"workspace/internal/middleware"
	"workspace/internal/repository/postgres"
	"workspace/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, closeLog, err := config.NewLogger(cfg, "workspace-api")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"identity_provider", cfg.IdentityProvider,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.DefaultPoolOptions)
	if err != nil {
		logger.Error("failed to create connection pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", postgres.DefaultPoolOptions.MaxConns,
		"min_conns", postgres.DefaultPoolOptions.MinConns,
	)

	resolver, closeResolver, err := newIdentityResolver(cfg, logger)
	if err != nil {
		logger.Error("failed to set up identity resolver", "error", err)
		os.Exit(1)
	}
	defer closeResolver()

	// Repositories
	repoConfig := &postgres.RepositoryConfig{Pool: pool, Logger: logger}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	itemRepo := postgres.NewFolderItemRepository(repoConfig)
	catalogRepo := postgres.NewCatalogServiceRepository(repoConfig)

	// Services
	folderService := service.NewFolderService(folderRepo, logger)
	itemService := service.NewFolderItemService(itemRepo, folderRepo, logger)
	catalogService := service.NewCatalogService(catalogRepo, logger)

	handlers := &handler.Handlers{
		Root:       handler.NewRootHandler(pool, logger),
		Folder:     handler.NewFolderHandler(folderService, logger),
		FolderItem: handler.NewFolderItemHandler(itemService, logger),
		Catalog:    handler.NewCatalogHandler(catalogService, logger),
	}

	mux := http.NewServeMux()
	handlers.Register(mux)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → RequestLog → Recovery → Ownership → Routes
	var h http.Handler = mux
	h = middleware.Ownership(resolver, logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLog(logger)(h)
	h = middleware.RequestID(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("server shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// newIdentityResolver builds the configured resolver, wrapped in the Redis
// cache when REDIS_ADDR is set. The returned func releases its resources.
func newIdentityResolver(cfg *config.Config, logger *slog.Logger) (services.IdentityResolver, func(), error) {
	var (
		resolver services.IdentityResolver
		closers  []func()
	)

	switch cfg.IdentityProvider {
	case config.IdentityProviderJWKS:
		jwtResolver, err := auth.NewJWTResolver(auth.JWTOptions{
			JWKSURL:  cfg.JWKSURL,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = jwtResolver.Close() })
		resolver = jwtResolver
	default:
		resolver = auth.NewZulipResolver(cfg.ZulipURL, cfg.IdentityTimeout, logger)
	}

	if cfg.RedisAddr != "" {
		client := auth.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		closers = append(closers, func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close failed", "error", err)
			}
		})
		resolver = auth.NewCachedResolver(resolver, client, cfg.IdentityCacheTTL, logger)
		logger.Info("identity cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.IdentityCacheTTL.String())
	}

	return resolver, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}
