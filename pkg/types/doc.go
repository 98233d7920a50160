// Package types defines the shared data model for the codegraph system.
//
// It contains the graph primitives (GraphNode, GraphEdge, SubGraph), the
// retrieval model (SearchHit, RankedResult, RetrievalResult), and the
// query-answering model (RelationshipClaim, QueryResult). All other
// packages depend on types; types depends on nothing but the standard
// library.
package types
