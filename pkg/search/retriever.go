package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/Sacxy/codegraph/pkg/driver"
	"github.com/Sacxy/codegraph/pkg/types"
)

// HybridRetriever composes the retrieval stages into one operation:
// search → combine → threshold+limit → expand → score → re-rank →
// assemble.
//
// The final per-node score blends the fused search score with the
// NodeScorer output for seeds; surviving expansion-only nodes receive a
// further discount marking them lower-confidence. Confidence is never
// derived from a single signal alone. Given identical inputs and store
// state, two runs produce identical seed orderings and scores.
type HybridRetriever struct {
	executor *ParallelSearchExecutor
	combiner *ResultCombiner
	expander *GraphExpander
	scorer   *NodeScorer
	reranker *ReRanker
	config   *RetrievalConfig
	logger   *slog.Logger
}

// NewHybridRetriever wires the retrieval stages over a graph store.
func NewHybridRetriever(store driver.GraphStore, config *RetrievalConfig, logger *slog.Logger) *HybridRetriever {
	config = config.WithDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &HybridRetriever{
		executor: NewParallelSearchExecutor(store, config.SearchTimeout, logger),
		combiner: NewResultCombiner(config.LexicalWeight, config.VectorWeight, config.SingleSignalDiscount),
		expander: NewGraphExpander(store, config.ExpansionDepth, config.ExpansionNodeCap, logger),
		scorer:   NewNodeScorer(),
		reranker: NewReRanker(config.RerankFloor, logger),
		config:   config,
		logger:   logger,
	}
}

// Config returns the effective retrieval configuration.
func (r *HybridRetriever) Config() *RetrievalConfig {
	return r.config
}

// Retrieve runs the full hybrid retrieval pipeline for one query.
func (r *HybridRetriever) Retrieve(ctx context.Context, terms *types.ExtractedTerms, queryEmbedding []float32) (*types.RetrievalResult, error) {
	start := time.Now()

	outcome := r.executor.Search(ctx, terms, queryEmbedding, r.config.ResultLimit*2)
	ranked := r.combiner.Combine(outcome.Lexical, outcome.Vector)

	seeds := make([]types.RankedResult, 0, r.config.ResultLimit)
	for _, result := range ranked {
		if result.CombinedScore < r.config.ScoreThreshold {
			continue
		}
		seeds = append(seeds, result)
		if len(seeds) >= r.config.ResultLimit {
			break
		}
	}

	expansion := r.expander.Expand(ctx, seeds)

	scores := r.scorer.Score(expansion.SubGraph, seeds, expansion.Hops)

	seedIDs := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		seedIDs[seed.NodeID] = true
	}
	subGraph, _ := r.reranker.Rerank(expansion.SubGraph, seedIDs, queryEmbedding)

	final := r.blendScores(subGraph, seeds, scores)

	seedOrder := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		if subGraph.HasNode(seed.NodeID) {
			seedOrder = append(seedOrder, seed.NodeID)
		}
	}

	metadata := map[string]interface{}{
		"lexical_hits":   len(outcome.Lexical),
		"vector_hits":    len(outcome.Vector),
		"fused_results":  len(ranked),
		"expanded_nodes": len(expansion.SubGraph.Nodes),
		"final_nodes":    len(subGraph.Nodes),
		"retrieval_time": time.Since(start).String(),
	}
	if len(outcome.Degradations) > 0 {
		metadata["degradations"] = outcome.Degradations
	}
	if expansion.Partial {
		metadata["partial_expansion"] = true
	}

	r.logger.Debug("retrieval complete",
		"seeds", len(seedOrder),
		"nodes", len(subGraph.Nodes),
		"edges", len(subGraph.Edges),
		"elapsed", time.Since(start))

	return &types.RetrievalResult{
		SeedNodeIDs: seedOrder,
		SubGraph:    subGraph,
		Scores:      final,
		Metadata:    metadata,
	}, nil
}

// blendScores computes the final per-node score. Seeds blend their
// fused score with the importance score; expansion-only nodes carry
// their importance score scaled by the expansion discount.
func (r *HybridRetriever) blendScores(sg *types.SubGraph, seeds []types.RankedResult, importance map[string]float64) map[string]float64 {
	combined := make(map[string]float64, len(seeds))
	for _, seed := range seeds {
		combined[seed.NodeID] = seed.CombinedScore
	}

	blendTotal := r.config.SeedBlendWeight + r.config.ImportanceWeight
	final := make(map[string]float64, len(sg.Nodes))
	for id := range sg.Nodes {
		if seedScore, ok := combined[id]; ok {
			final[id] = (r.config.SeedBlendWeight*seedScore + r.config.ImportanceWeight*importance[id]) / blendTotal
			continue
		}
		final[id] = importance[id] * r.config.ExpansionDiscount
	}
	return final
}
