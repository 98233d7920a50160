package codegraph

import (
	"context"

	"github.com/Sacxy/codegraph/pkg/types"
)

// This file defines focused interfaces following the Interface
// Segregation Principle. Consumers should depend on the smallest
// interface that meets their needs.

// QueryAnswerer answers natural-language questions about the codebase.
type QueryAnswerer interface {
	// Answer runs the full query pipeline. It always returns a result;
	// failures are reported inside it, never as an error.
	Answer(ctx context.Context, query string) *types.QueryResult
}

// GraphRetriever exposes raw hybrid retrieval without answer
// generation, for callers that want the scored subgraph itself.
type GraphRetriever interface {
	Retrieve(ctx context.Context, query string) (*types.RetrievalResult, error)
}

// CodeGraph is the full client surface.
type CodeGraph interface {
	QueryAnswerer
	GraphRetriever

	// Close releases the graph store and model clients.
	Close(ctx context.Context) error
}

// Compile-time check that Client satisfies the full interface.
var _ CodeGraph = (*Client)(nil)
