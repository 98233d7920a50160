package search

import (
	"github.com/Sacxy/codegraph/pkg/types"
)

// expansionScoreBase replaces the seed floor when every seed carries a
// zero score, keeping expansion scores positive but negligible.
const expansionScoreBase = 0.01

// NodeScorer assigns an importance score to every node of an expanded
// subgraph.
//
// Seed nodes use their fused search score directly. Expansion-only
// nodes are scored from structural signals alone: proximity to the
// nearest seed (1/(1+hops)) and local degree. By construction every
// expansion-only score is strictly below the lowest seed score, so
// direct search evidence always outranks inferred context.
type NodeScorer struct{}

// NewNodeScorer creates a scorer.
func NewNodeScorer() *NodeScorer {
	return &NodeScorer{}
}

// Score computes importance for every node in the subgraph. seeds must
// be ordered best first; hops maps node ids to their distance from the
// nearest seed (0 for seeds).
func (s *NodeScorer) Score(sg *types.SubGraph, seeds []types.RankedResult, hops map[string]int) map[string]float64 {
	scores := make(map[string]float64, len(sg.Nodes))

	seedScores := make(map[string]float64, len(seeds))
	minSeed := 0.0
	for i, seed := range seeds {
		seedScores[seed.NodeID] = seed.CombinedScore
		if i == 0 || seed.CombinedScore < minSeed {
			minSeed = seed.CombinedScore
		}
	}
	if minSeed <= 0 {
		minSeed = expansionScoreBase
	}

	for id := range sg.Nodes {
		if seedScore, ok := seedScores[id]; ok {
			scores[id] = seedScore
			continue
		}
		scores[id] = minSeed * s.structuralWeight(sg, id, hops[id])
	}
	return scores
}

// structuralWeight combines seed proximity and local degree into a
// factor strictly below 1. Hop distance is at least 1 for
// expansion-only nodes, capping the factor at 0.5.
func (s *NodeScorer) structuralWeight(sg *types.SubGraph, id string, hop int) float64 {
	if hop < 1 {
		hop = 1
	}
	proximity := 1.0 / float64(1+hop)

	degree := sg.Degree(id)
	degreeFactor := 0.5 + 0.5*float64(degree)/float64(degree+1)

	return proximity * degreeFactor
}
