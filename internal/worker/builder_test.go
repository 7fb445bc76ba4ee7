package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"workspace/internal/domain/repositories"
	"workspace/internal/repository/postgres"
)

type countingTxManager struct {
	calls int
	err   error
}

func (m *countingTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

func TestBuilderAgent_IterationOpensScope(t *testing.T) {
	tm := &countingTxManager{}
	agent := NewBuilderAgent(tm, discardLogger())

	for i := 0; i < 3; i++ {
		if err := agent.Iteration(context.Background()); err != nil {
			t.Fatalf("Iteration: %v", err)
		}
	}
	if tm.calls != 3 {
		t.Errorf("ExecTx calls = %d, want 3", tm.calls)
	}
}

func TestBuilderAgent_ScopeFailure(t *testing.T) {
	want := errors.New("begin failed")
	agent := NewBuilderAgent(&countingTxManager{err: want}, discardLogger())

	if err := agent.Iteration(context.Background()); !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
}

func TestBuilderAgent_CommitsTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	agent := NewBuilderAgent(postgres.NewTransactionManager(mock, discardLogger()), discardLogger())
	if err := agent.Iteration(context.Background()); err != nil {
		t.Fatalf("Iteration: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
