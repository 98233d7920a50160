package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sacxy/codegraph/pkg/types"
)

func TestSearchJoinsBothBranches(t *testing.T) {
	m := loginGraphStore()
	e := NewParallelSearchExecutor(m, time.Second, nil)

	outcome := e.Search(context.Background(), loginTerms(), []float32{1, 0, 0}, 10)

	if len(outcome.Lexical) != 3 {
		t.Errorf("expected 3 lexical hits, got %d", len(outcome.Lexical))
	}
	if len(outcome.Vector) != 2 {
		t.Errorf("expected 2 vector hits, got %d", len(outcome.Vector))
	}
	if len(outcome.Degradations) != 0 {
		t.Errorf("expected no degradations, got %v", outcome.Degradations)
	}
}

func TestSearchFailingBranchDegradesToEmpty(t *testing.T) {
	m := loginGraphStore()
	m.lexicalErr = errors.New("fulltext index rebuilding")
	e := NewParallelSearchExecutor(m, time.Second, nil)

	outcome := e.Search(context.Background(), loginTerms(), []float32{1, 0, 0}, 10)

	if len(outcome.Lexical) != 0 {
		t.Errorf("failed branch must degrade to empty, got %d hits", len(outcome.Lexical))
	}
	if len(outcome.Vector) != 2 {
		t.Errorf("healthy branch must still return, got %d hits", len(outcome.Vector))
	}
	if len(outcome.Degradations) != 1 || outcome.Degradations[0] != "lexical_search_failed" {
		t.Errorf("expected lexical_search_failed, got %v", outcome.Degradations)
	}
}

func TestSearchSkipsEmptyInputs(t *testing.T) {
	m := loginGraphStore()
	e := NewParallelSearchExecutor(m, time.Second, nil)

	outcome := e.Search(context.Background(), &types.ExtractedTerms{}, nil, 10)

	if len(outcome.Lexical) != 0 || len(outcome.Vector) != 0 {
		t.Errorf("empty inputs must skip both branches, got %d/%d hits",
			len(outcome.Lexical), len(outcome.Vector))
	}
	if len(outcome.Degradations) != 0 {
		t.Errorf("skipping is not a degradation, got %v", outcome.Degradations)
	}
}
