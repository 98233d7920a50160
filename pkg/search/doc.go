// Package search implements the hybrid retrieval engine.
//
// Retrieval proceeds in stages: ParallelSearchExecutor issues lexical and
// vector searches concurrently, ResultCombiner fuses the two hit lists
// into one deterministic ranking, GraphExpander grows a bounded subgraph
// around the top results, NodeScorer assigns importance scores, and
// ReRanker prunes weakly related expansion nodes. HybridRetriever
// composes the stages into a RetrievalResult.
//
// All stages are deterministic for fixed inputs and store state: ties are
// broken by node id, map iterations are sorted, and expansion processes
// seeds in score order.
package search
