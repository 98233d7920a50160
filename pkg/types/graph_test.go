package types

import (
	"errors"
	"testing"
)

func TestSubGraphRejectsDanglingEdges(t *testing.T) {
	sg := NewSubGraph()
	sg.AddNode(&GraphNode{ID: "a", Name: "a"})

	err := sg.AddEdge(&GraphEdge{FromID: "a", ToID: "missing", Type: CallsEdgeType})
	if !errors.Is(err, ErrDanglingEdge) {
		t.Fatalf("expected ErrDanglingEdge, got %v", err)
	}
	if len(sg.Edges) != 0 {
		t.Error("rejected edge must not be stored")
	}
}

func TestSubGraphValidate(t *testing.T) {
	sg := NewSubGraph()
	sg.AddNode(&GraphNode{ID: "a", Name: "a"})
	sg.AddNode(&GraphNode{ID: "b", Name: "b"})
	if err := sg.AddEdge(&GraphEdge{FromID: "a", ToID: "b", Type: ContainsEdgeType}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sg.Validate(); err != nil {
		t.Errorf("valid subgraph failed validation: %v", err)
	}

	// Removing a node behind Validate's back must be caught.
	delete(sg.Nodes, "b")
	if err := sg.Validate(); !errors.Is(err, ErrDanglingEdge) {
		t.Errorf("expected ErrDanglingEdge after node removal, got %v", err)
	}
}

func TestSubGraphDegree(t *testing.T) {
	sg := NewSubGraph()
	for _, id := range []string{"a", "b", "c"} {
		sg.AddNode(&GraphNode{ID: id, Name: id})
	}
	if err := sg.AddEdge(&GraphEdge{FromID: "a", ToID: "b", Type: CallsEdgeType}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sg.AddEdge(&GraphEdge{FromID: "c", ToID: "a", Type: UsesEdgeType}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := sg.Degree("a"); got != 2 {
		t.Errorf("expected degree 2 for a, got %d", got)
	}
	if got := sg.Degree("b"); got != 1 {
		t.Errorf("expected degree 1 for b, got %d", got)
	}
	if got := sg.Degree("absent"); got != 0 {
		t.Errorf("expected degree 0 for unknown node, got %d", got)
	}
}

func TestExtractedTermsAll(t *testing.T) {
	terms := &ExtractedTerms{
		ClassNames:  []string{"AuthService"},
		MethodNames: []string{"login"},
		FreeTerms:   []string{"credentials"},
	}
	all := terms.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 terms, got %d", len(all))
	}
	if all[0] != "AuthService" {
		t.Errorf("names must come first, got %v", all)
	}
	if terms.IsEmpty() {
		t.Error("non-empty terms reported empty")
	}

	var empty *ExtractedTerms
	if !empty.IsEmpty() {
		t.Error("nil terms must report empty")
	}
}

func TestGraphNodeProperty(t *testing.T) {
	node := &GraphNode{
		ID:         "n",
		Properties: map[string]interface{}{"signature": "login(user)", "line": 42},
	}
	if got := node.Property("signature"); got != "login(user)" {
		t.Errorf("expected signature, got %q", got)
	}
	if got := node.Property("line"); got != "" {
		t.Errorf("non-string property must yield empty string, got %q", got)
	}
	if got := node.Property("absent"); got != "" {
		t.Errorf("missing property must yield empty string, got %q", got)
	}
}
