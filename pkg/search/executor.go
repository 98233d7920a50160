package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Sacxy/codegraph/pkg/driver"
	"github.com/Sacxy/codegraph/pkg/types"
)

// SearchOutcome holds the two ranked hit lists produced by a parallel
// search, plus a record of any branch that degraded to an empty list.
type SearchOutcome struct {
	Lexical      []types.SearchHit
	Vector       []types.SearchHit
	Degradations []string
}

// ParallelSearchExecutor runs the lexical and vector searches as
// independent tasks and joins both, bounded by a per-call timeout.
// A failing branch degrades to an empty list instead of aborting
// retrieval.
type ParallelSearchExecutor struct {
	lexical driver.LexicalSearcher
	vector  driver.VectorSearcher
	timeout time.Duration
	logger  *slog.Logger
}

// NewParallelSearchExecutor creates an executor over the given store.
func NewParallelSearchExecutor(store driver.GraphStore, timeout time.Duration, logger *slog.Logger) *ParallelSearchExecutor {
	if timeout <= 0 {
		timeout = DefaultSearchTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ParallelSearchExecutor{
		lexical: store,
		vector:  store,
		timeout: timeout,
		logger:  logger,
	}
}

// Search issues both searches concurrently and joins the results.
// An empty term set or embedding skips the corresponding branch.
func (e *ParallelSearchExecutor) Search(ctx context.Context, terms *types.ExtractedTerms, embedding []float32, limit int) *SearchOutcome {
	searchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	outcome := &SearchOutcome{
		Lexical: []types.SearchHit{},
		Vector:  []types.SearchHit{},
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	if !terms.IsEmpty() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := e.lexical.LexicalSearch(searchCtx, terms, limit)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				e.logger.Warn("lexical search degraded to empty result", "error", err)
				outcome.Degradations = append(outcome.Degradations, "lexical_search_failed")
				return
			}
			outcome.Lexical = hits
		}()
	}

	if len(embedding) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := e.vector.VectorSearch(searchCtx, embedding, limit)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				e.logger.Warn("vector search degraded to empty result", "error", err)
				outcome.Degradations = append(outcome.Degradations, "vector_search_failed")
				return
			}
			outcome.Vector = hits
		}()
	}

	wg.Wait()
	return outcome
}
