package parallel

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/gitrdm/gokanquery/pkg/logic"
)

// Result holds the answers to one query of a batch.
type Result struct {
	Goals   []logic.Term
	Answers []logic.Answer
}

// AnswerAll answers every query with eng, running up to workers queries at
// once, and returns the results in query order. limit caps the answers
// collected per query; zero collects all of them.
//
// The store behind eng must not change until AnswerAll returns.
func AnswerAll(ctx context.Context, eng *logic.Engine, queries [][]logic.Term, limit, workers int, logger *zap.Logger) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pool := NewWorkerPool(workers)
	defer pool.Shutdown()

	logger.Debug("answering queries",
		zap.Int("queries", len(queries)),
		zap.Int("workers", pool.Workers()))

	results := make([]Result, len(queries))
	var wg sync.WaitGroup
	for i, goals := range queries {
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			results[i] = Result{
				Goals:   goals,
				Answers: logic.Take(eng.Query(ctx, goals), limit),
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
