package types

// SearchSignal identifies which retrieval channel produced a hit.
type SearchSignal string

const (
	// LexicalSignal marks hits from keyword/fulltext search.
	LexicalSignal SearchSignal = "lexical"
	// VectorSignal marks hits from embedding similarity search.
	VectorSignal SearchSignal = "vector"
)

// SearchHit is a single scored result from one search channel.
type SearchHit struct {
	NodeID string       `json:"node_id"`
	Score  float64      `json:"score"`
	Signal SearchSignal `json:"signal"`
}

// RankedResult is a fused search result keyed by node id.
// CombinedScore is monotonic in both component scores.
type RankedResult struct {
	NodeID        string  `json:"node_id"`
	LexicalScore  float64 `json:"lexical_score"`
	VectorScore   float64 `json:"vector_score"`
	CombinedScore float64 `json:"combined_score"`
}

// ExtractedTerms holds the structured terms pulled from a raw query
// by an EntityExtractor.
type ExtractedTerms struct {
	ClassNames   []string `json:"class_names,omitempty"`
	MethodNames  []string `json:"method_names,omitempty"`
	PackageNames []string `json:"package_names,omitempty"`
	FreeTerms    []string `json:"free_terms,omitempty"`
}

// All returns every extracted term as a flat list, names first.
func (t *ExtractedTerms) All() []string {
	out := make([]string, 0, len(t.ClassNames)+len(t.MethodNames)+len(t.PackageNames)+len(t.FreeTerms))
	out = append(out, t.ClassNames...)
	out = append(out, t.MethodNames...)
	out = append(out, t.PackageNames...)
	out = append(out, t.FreeTerms...)
	return out
}

// IsEmpty reports whether no terms were extracted.
func (t *ExtractedTerms) IsEmpty() bool {
	return t == nil || len(t.ClassNames)+len(t.MethodNames)+len(t.PackageNames)+len(t.FreeTerms) == 0
}

// RetrievalResult is the output of the hybrid retrieval engine.
type RetrievalResult struct {
	// SeedNodeIDs are direct search hits ordered by combined score descending.
	SeedNodeIDs []string `json:"seed_node_ids"`
	// SubGraph is the expanded, re-ranked structural context.
	SubGraph *SubGraph `json:"sub_graph"`
	// Scores maps every subgraph node id to its final blended score.
	Scores map[string]float64 `json:"scores"`
	// Metadata carries retrieval diagnostics (timings, degradations).
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// IsSeed reports whether the given node id is a seed (direct search hit).
func (r *RetrievalResult) IsSeed(id string) bool {
	for _, s := range r.SeedNodeIDs {
		if s == id {
			return true
		}
	}
	return false
}
