package search

import (
	"testing"

	"github.com/Sacxy/codegraph/pkg/types"
)

func lexHit(id string, score float64) types.SearchHit {
	return types.SearchHit{NodeID: id, Score: score, Signal: types.LexicalSignal}
}

func vecHit(id string, score float64) types.SearchHit {
	return types.SearchHit{NodeID: id, Score: score, Signal: types.VectorSignal}
}

func TestCombineDisjointListsKeepsEveryNode(t *testing.T) {
	c := NewResultCombiner(0.5, 0.5, 0.7)

	lexical := []types.SearchHit{lexHit("a", 4.0), lexHit("b", 2.0)}
	vector := []types.SearchHit{vecHit("c", 0.9), vecHit("d", 0.3)}

	results := c.Combine(lexical, vector)
	if len(results) != 4 {
		t.Fatalf("expected 4 results for disjoint lists, got %d", len(results))
	}

	for _, r := range results {
		var normalized float64
		switch r.NodeID {
		case "a":
			normalized = 1.0
		case "b":
			normalized = 0.5
		case "c":
			normalized = 1.0
		case "d":
			normalized = 0.3 / 0.9
		}
		want := 0.7 * normalized
		if diff := r.CombinedScore - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("node %s: expected discounted score %f, got %f", r.NodeID, want, r.CombinedScore)
		}
	}
}

func TestCombineBothSignalsUsesWeightedSum(t *testing.T) {
	c := NewResultCombiner(0.5, 0.5, 0.7)

	results := c.Combine(
		[]types.SearchHit{lexHit("a", 4.0), lexHit("b", 2.0)},
		[]types.SearchHit{vecHit("a", 0.8), vecHit("b", 0.4)},
	)

	scores := make(map[string]float64)
	for _, r := range results {
		scores[r.NodeID] = r.CombinedScore
	}

	// a is the max on both signals: 0.5*1.0 + 0.5*1.0.
	if diff := scores["a"] - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected a=1.0, got %f", scores["a"])
	}
	// b is half the max on both signals: 0.5*0.5 + 0.5*0.5.
	if diff := scores["b"] - 0.5; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected b=0.5, got %f", scores["b"])
	}
}

func TestCombineMonotonicInEachSignal(t *testing.T) {
	c := NewResultCombiner(0.5, 0.5, 0.7)

	// Vary node b's raw lexical score while a stays the lexical max, so
	// b's normalized score strictly rises with its raw score.
	base := c.Combine(
		[]types.SearchHit{lexHit("a", 4.0), lexHit("b", 1.0)},
		[]types.SearchHit{vecHit("a", 0.8), vecHit("b", 0.4)},
	)
	raised := c.Combine(
		[]types.SearchHit{lexHit("a", 4.0), lexHit("b", 2.0)},
		[]types.SearchHit{vecHit("a", 0.8), vecHit("b", 0.4)},
	)

	scoreOf := func(results []types.RankedResult, id string) float64 {
		for _, r := range results {
			if r.NodeID == id {
				return r.CombinedScore
			}
		}
		t.Fatalf("node %s missing from results", id)
		return 0
	}

	if scoreOf(raised, "b") <= scoreOf(base, "b") {
		t.Errorf("combined score must strictly increase with lexical score: %f vs %f",
			scoreOf(base, "b"), scoreOf(raised, "b"))
	}

	// Same property for the vector signal.
	baseV := c.Combine(
		[]types.SearchHit{lexHit("a", 4.0), lexHit("b", 2.0)},
		[]types.SearchHit{vecHit("a", 0.8), vecHit("b", 0.2)},
	)
	raisedV := c.Combine(
		[]types.SearchHit{lexHit("a", 4.0), lexHit("b", 2.0)},
		[]types.SearchHit{vecHit("a", 0.8), vecHit("b", 0.4)},
	)
	if scoreOf(raisedV, "b") <= scoreOf(baseV, "b") {
		t.Errorf("combined score must strictly increase with vector score: %f vs %f",
			scoreOf(baseV, "b"), scoreOf(raisedV, "b"))
	}
}

func TestCombineDeterministicTieBreak(t *testing.T) {
	c := NewResultCombiner(0.5, 0.5, 0.7)

	lexical := []types.SearchHit{lexHit("z", 1.0), lexHit("a", 1.0), lexHit("m", 1.0)}

	first := c.Combine(lexical, nil)
	second := c.Combine(lexical, nil)

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 results, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].NodeID != second[i].NodeID {
			t.Fatalf("orderings differ at %d: %s vs %s", i, first[i].NodeID, second[i].NodeID)
		}
	}
	// Equal scores break ties by node id ascending.
	if first[0].NodeID != "a" || first[1].NodeID != "m" || first[2].NodeID != "z" {
		t.Errorf("expected id-ascending tie break, got %s %s %s",
			first[0].NodeID, first[1].NodeID, first[2].NodeID)
	}
}

func TestCombineDeduplicatesWithinOneSignal(t *testing.T) {
	c := NewResultCombiner(0.5, 0.5, 0.7)

	results := c.Combine([]types.SearchHit{lexHit("a", 4.0), lexHit("a", 2.0)}, nil)
	if len(results) != 1 {
		t.Fatalf("expected 1 deduplicated result, got %d", len(results))
	}
	if results[0].LexicalScore != 1.0 {
		t.Errorf("expected the best duplicate to win, got %f", results[0].LexicalScore)
	}
}
