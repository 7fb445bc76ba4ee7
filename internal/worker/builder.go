package worker

import (
	"context"
	"log/slog"

	"workspace/internal/domain/repositories"
)

// BuilderAgentName identifies the builder in logs.
const BuilderAgentName = "builder_agent"

// BuilderAgent is the builder's per-iteration work. Every iteration runs in a
// fresh transaction scope so nothing carries over between runs.
type BuilderAgent struct {
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

func NewBuilderAgent(txManager repositories.TransactionManager, logger *slog.Logger) *BuilderAgent {
	return &BuilderAgent{txManager: txManager, logger: logger}
}

func (a *BuilderAgent) Iteration(ctx context.Context) error {
	return a.txManager.ExecTx(ctx, func(ctx context.Context) error {
		a.logger.InfoContext(ctx, "builder iteration", "in_tx", repositories.GetTx(ctx) != nil)
		return nil
	})
}
