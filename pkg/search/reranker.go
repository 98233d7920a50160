package search

import (
	"log/slog"

	"github.com/Sacxy/codegraph/pkg/types"
)

// ReRanker prunes expansion noise from a subgraph using query-to-node
// semantic similarity.
//
// Expansion is breadth-oriented and pulls in weakly related nodes;
// re-ranking is precision-oriented. Expansion-only nodes whose
// embedding falls below the relevance floor are removed, together with
// their edges. Seed nodes always survive regardless of score. Nodes
// without an embedding are retained: absence of evidence is not treated
// as irrelevance.
type ReRanker struct {
	floor  float64
	logger *slog.Logger
}

// NewReRanker creates a re-ranker with the given relevance floor.
func NewReRanker(floor float64, logger *slog.Logger) *ReRanker {
	if floor <= 0 {
		floor = DefaultRerankFloor
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReRanker{floor: floor, logger: logger}
}

// Rerank filters the subgraph in place semantics-wise but returns a new
// SubGraph, plus the measured similarity per surviving node. seedIDs
// identifies the nodes exempt from pruning.
func (r *ReRanker) Rerank(sg *types.SubGraph, seedIDs map[string]bool, queryEmbedding []float32) (*types.SubGraph, map[string]float64) {
	similarities := make(map[string]float64, len(sg.Nodes))
	result := types.NewSubGraph()

	pruned := 0
	for id, node := range sg.Nodes {
		similarity := 0.0
		measured := false
		if len(queryEmbedding) > 0 && len(node.Embedding) > 0 {
			similarity = CosineSimilarity(queryEmbedding, node.Embedding)
			measured = true
		}

		if !seedIDs[id] && measured && similarity < r.floor {
			pruned++
			continue
		}
		result.AddNode(node)
		similarities[id] = similarity
	}

	for _, edge := range sg.Edges {
		// Drops edges touching pruned nodes.
		_ = result.AddEdge(edge)
	}

	if pruned > 0 {
		r.logger.Debug("pruned low-relevance expansion nodes",
			"pruned", pruned, "floor", r.floor, "remaining", len(result.Nodes))
	}
	return result, similarities
}
