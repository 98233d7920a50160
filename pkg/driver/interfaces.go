package driver

import (
	"context"

	"github.com/Sacxy/codegraph/pkg/types"
)

// This file defines focused interfaces following the Interface Segregation
// Principle. GraphStore composes them for convenience; consumers should
// depend on the smallest interface that meets their needs.

// LexicalSearcher performs keyword search over node names, signatures and
// text content (exact, prefix, wildcard and fuzzy matching).
type LexicalSearcher interface {
	// LexicalSearch returns hits for the given terms, best first.
	LexicalSearch(ctx context.Context, terms *types.ExtractedTerms, limit int) ([]types.SearchHit, error)
}

// VectorSearcher performs nearest-neighbor search over node embeddings.
type VectorSearcher interface {
	// VectorSearch returns the top-limit hits by cosine similarity.
	VectorSearch(ctx context.Context, embedding []float32, limit int) ([]types.SearchHit, error)
}

// Traverser navigates the graph structure outward from known nodes.
type Traverser interface {
	// Neighborhood returns the one-hop neighbors of the given nodes,
	// together with the connecting edges. Both endpoints of every
	// returned edge appear either in nodeIDs or in the returned nodes.
	Neighborhood(ctx context.Context, nodeIDs []string) ([]*types.GraphNode, []*types.GraphEdge, error)

	// GetNodes fetches nodes by id, skipping ids that do not exist.
	GetNodes(ctx context.Context, nodeIDs []string) ([]*types.GraphNode, error)
}

// EdgeChecker answers existence questions about typed relationships.
// Components are addressed by name because generated claims reference
// components by name, not by graph id.
type EdgeChecker interface {
	// EdgeExists reports whether an edge of the given type connects the
	// two named components, in either direction.
	EdgeExists(ctx context.Context, fromName, toName string, relType types.EdgeType) (bool, error)
}

// GraphStore composes all read operations the retrieval and verification
// paths need.
type GraphStore interface {
	LexicalSearcher
	VectorSearcher
	Traverser
	EdgeChecker

	// Close releases the underlying connection pool.
	Close(ctx context.Context) error
}

// Compile-time check that the Neo4j implementation satisfies GraphStore.
var _ GraphStore = (*Neo4jStore)(nil)
