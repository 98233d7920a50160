package search

import (
	"sort"

	"github.com/Sacxy/codegraph/pkg/types"
)

// ResultCombiner fuses the lexical and vector hit lists into a single
// deduplicated ranking keyed by node id.
//
// Scores are max-normalized per signal before fusion, so weights compare
// like with like. A node present in both lists gets the weighted sum of
// its normalized scores; a node in only one list gets that score scaled
// by the single-signal discount. Output ordering is deterministic:
// combined score descending, node id ascending on ties.
type ResultCombiner struct {
	lexicalWeight        float64
	vectorWeight         float64
	singleSignalDiscount float64
}

// NewResultCombiner creates a combiner. Weights are normalized to sum
// to 1; non-positive inputs fall back to the defaults.
func NewResultCombiner(lexicalWeight, vectorWeight, singleSignalDiscount float64) *ResultCombiner {
	if lexicalWeight <= 0 && vectorWeight <= 0 {
		lexicalWeight = DefaultLexicalWeight
		vectorWeight = DefaultVectorWeight
	}
	total := lexicalWeight + vectorWeight
	if singleSignalDiscount <= 0 || singleSignalDiscount > 1 {
		singleSignalDiscount = DefaultSingleSignalDiscount
	}
	return &ResultCombiner{
		lexicalWeight:        lexicalWeight / total,
		vectorWeight:         vectorWeight / total,
		singleSignalDiscount: singleSignalDiscount,
	}
}

// Combine fuses two hit lists into a ranked result list.
func (c *ResultCombiner) Combine(lexical, vector []types.SearchHit) []types.RankedResult {
	lexicalScores := make([]float64, len(lexical))
	for i, hit := range lexical {
		lexicalScores[i] = hit.Score
	}
	vectorScores := make([]float64, len(vector))
	for i, hit := range vector {
		vectorScores[i] = hit.Score
	}
	lexicalMax := maxScore(lexicalScores)
	vectorMax := maxScore(vectorScores)

	byID := make(map[string]*types.RankedResult)
	for _, hit := range lexical {
		score := normalize(hit.Score, lexicalMax)
		if existing, ok := byID[hit.NodeID]; ok {
			if score > existing.LexicalScore {
				existing.LexicalScore = score
			}
			continue
		}
		byID[hit.NodeID] = &types.RankedResult{NodeID: hit.NodeID, LexicalScore: score}
	}
	for _, hit := range vector {
		score := normalize(hit.Score, vectorMax)
		if existing, ok := byID[hit.NodeID]; ok {
			if score > existing.VectorScore {
				existing.VectorScore = score
			}
			continue
		}
		byID[hit.NodeID] = &types.RankedResult{NodeID: hit.NodeID, VectorScore: score}
	}

	results := make([]types.RankedResult, 0, len(byID))
	for _, r := range byID {
		r.CombinedScore = c.combinedScore(r)
		results = append(results, *r)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		return results[i].NodeID < results[j].NodeID
	})
	return results
}

// combinedScore fuses the normalized component scores of one node.
func (c *ResultCombiner) combinedScore(r *types.RankedResult) float64 {
	hasLexical := r.LexicalScore > 0
	hasVector := r.VectorScore > 0
	switch {
	case hasLexical && hasVector:
		return c.lexicalWeight*r.LexicalScore + c.vectorWeight*r.VectorScore
	case hasLexical:
		return c.singleSignalDiscount * r.LexicalScore
	case hasVector:
		return c.singleSignalDiscount * r.VectorScore
	default:
		return 0
	}
}

// normalize maps a raw score into [0,1] relative to the list maximum.
func normalize(score, max float64) float64 {
	if max <= 0 {
		return 0
	}
	if score < 0 {
		return 0
	}
	return score / max
}
