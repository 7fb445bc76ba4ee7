package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"workspace/internal/config"
	"workspace/internal/repository/postgres"
	"workspace/internal/worker"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, closeLog, err := config.NewLogger(cfg, worker.BuilderAgentName)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: 2, MinConns: 1})
	if err != nil {
		logger.Error("failed to create connection pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	agent := worker.NewBuilderAgent(postgres.NewTransactionManager(pool, logger), logger)
	looper := &worker.Looper{IterMinPeriod: cfg.BuilderIterMinPeriod, Logger: logger}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return looper.Run(gctx, worker.BuilderAgentName, agent.Iteration)
	})

	if err := g.Wait(); err != nil {
		logger.Error("builder stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("builder stopped")
}
