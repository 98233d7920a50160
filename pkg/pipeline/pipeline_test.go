package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sacxy/codegraph/pkg/types"
)

type stubExtractor struct {
	err error
}

func (s *stubExtractor) Extract(_ context.Context, query string) (*types.ExtractedTerms, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.ExtractedTerms{FreeTerms: []string{query}}, nil
}

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) EmbedSingle(context.Context, string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float32{1, 0, 0}, nil
}

type stubRetriever struct {
	err    error
	result *types.RetrievalResult
}

func (s *stubRetriever) Retrieve(context.Context, *types.ExtractedTerms, []float32) (*types.RetrievalResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubDistiller struct {
	err error
}

func (s *stubDistiller) Distill(context.Context, *types.RetrievalResult) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "distilled context", nil
}

type stubGenerator struct {
	calls    int
	panics   bool
	feedback [][]string
}

func (s *stubGenerator) Generate(_ context.Context, _, _ string, feedback []string) *GeneratedAnswer {
	s.calls++
	if s.panics {
		panic("generator exploded")
	}
	s.feedback = append(s.feedback, feedback)
	return &GeneratedAnswer{
		Summary: "the login method validates credentials",
		Claims: []*types.RelationshipClaim{
			{FromComponent: "AuthService", ToComponent: "login", RelationshipType: "CONTAINS"},
		},
	}
}

type stubVerifier struct {
	calls  int
	passes bool
}

func (s *stubVerifier) Verify(_ context.Context, claims []*types.RelationshipClaim) *VerificationOutcome {
	s.calls++
	if s.passes {
		for _, claim := range claims {
			claim.Verified = true
		}
		return &VerificationOutcome{Verified: true, SuccessRate: 1.0}
	}
	return &VerificationOutcome{
		Verified:    false,
		SuccessRate: 0,
		Errors:      []string{"AuthService -CONTAINS-> login: no such relationship in the graph"},
	}
}

func testRetrieval() *types.RetrievalResult {
	sg := types.NewSubGraph()
	sg.AddNode(&types.GraphNode{ID: "m1", Type: types.MethodNodeType, Name: "login"})
	sg.AddNode(&types.GraphNode{ID: "c1", Type: types.ClassNodeType, Name: "AuthService"})
	return &types.RetrievalResult{
		SeedNodeIDs: []string{"m1"},
		SubGraph:    sg,
		Scores:      map[string]float64{"m1": 0.9, "c1": 0.3},
	}
}

func newTestPipeline(gen *stubGenerator, ver *stubVerifier, maxRefinements int) *QueryPipeline {
	return NewQueryPipeline(
		&stubExtractor{},
		&stubEmbedder{},
		&stubRetriever{result: testRetrieval()},
		&stubDistiller{},
		gen,
		ver,
		&Options{MaxRefinements: maxRefinements, StepTimeout: 5 * time.Second},
		nil,
	)
}

func TestPipelineVerifiedOnFirstPass(t *testing.T) {
	gen := &stubGenerator{}
	ver := &stubVerifier{passes: true}
	p := newTestPipeline(gen, ver, 2)

	result := p.Execute(context.Background(), "How does login validate credentials?")

	if result.Error {
		t.Fatalf("unexpected error result: %s", result.ErrorReason)
	}
	if !result.Metadata.Verified {
		t.Error("expected verified result")
	}
	if result.Metadata.RefinementCount != 0 {
		t.Errorf("expected 0 refinements, got %d", result.Metadata.RefinementCount)
	}
	if gen.calls != 1 || ver.calls != 1 {
		t.Errorf("expected 1 generate and 1 verify call, got %d/%d", gen.calls, ver.calls)
	}

	steps := result.Metadata.CompletedSteps
	want := []string{StepRetrieve, StepDistill, StepGenerate, StepVerify, StepFinalize}
	if len(steps) != len(want) {
		t.Fatalf("expected steps %v, got %v", want, steps)
	}
	for i, step := range want {
		if steps[i] != step {
			t.Errorf("step %d: expected %s, got %s", i, step, steps[i])
		}
	}
	if result.Confidence <= 0 {
		t.Errorf("expected positive confidence, got %f", result.Confidence)
	}
}

func TestPipelineRefinementLoopIsBounded(t *testing.T) {
	gen := &stubGenerator{}
	ver := &stubVerifier{passes: false}
	p := newTestPipeline(gen, ver, 2)

	done := make(chan *types.QueryResult, 1)
	go func() {
		done <- p.Execute(context.Background(), "What calls the billing service?")
	}()

	var result *types.QueryResult
	select {
	case result = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("pipeline did not terminate")
	}

	if gen.calls != 3 {
		t.Errorf("expected exactly 3 generate calls, got %d", gen.calls)
	}
	if ver.calls != 3 {
		t.Errorf("expected exactly 3 verify calls, got %d", ver.calls)
	}
	if result.Metadata.RefinementCount != 2 {
		t.Errorf("expected refinement count 2, got %d", result.Metadata.RefinementCount)
	}
	if result.Metadata.Verified {
		t.Error("expected unverified result")
	}

	// Later generations must see the verification feedback.
	if len(gen.feedback) != 3 {
		t.Fatalf("expected 3 recorded feedback lists, got %d", len(gen.feedback))
	}
	if len(gen.feedback[0]) != 0 {
		t.Errorf("first generation should have no feedback, got %v", gen.feedback[0])
	}
	if len(gen.feedback[1]) == 0 || len(gen.feedback[2]) == 0 {
		t.Error("refined generations should carry verification feedback")
	}
}

func TestPipelineRetrievalFailureIsTerminal(t *testing.T) {
	p := NewQueryPipeline(
		&stubExtractor{},
		&stubEmbedder{},
		&stubRetriever{err: errors.New("store unreachable")},
		&stubDistiller{},
		&stubGenerator{},
		&stubVerifier{passes: true},
		&Options{MaxRefinements: 1, StepTimeout: 5 * time.Second},
		nil,
	)

	result := p.Execute(context.Background(), "anything")
	if !result.Error {
		t.Fatal("expected terminal error result")
	}
	if result.ErrorReason == "" {
		t.Error("expected a populated error reason")
	}
}

func TestPipelineDistillFailureDegrades(t *testing.T) {
	gen := &stubGenerator{}
	p := NewQueryPipeline(
		&stubExtractor{},
		&stubEmbedder{},
		&stubRetriever{result: testRetrieval()},
		&stubDistiller{err: errors.New("formatting blew up")},
		gen,
		&stubVerifier{passes: true},
		&Options{MaxRefinements: 1, StepTimeout: 5 * time.Second},
		nil,
	)

	result := p.Execute(context.Background(), "How does login work?")
	if result.Error {
		t.Fatalf("distill failure should degrade, not fail: %s", result.ErrorReason)
	}
	if gen.calls != 1 {
		t.Errorf("expected generation to run, got %d calls", gen.calls)
	}

	found := false
	for _, d := range result.Metadata.Degradations {
		if d == "distillation_failed" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected distillation_failed degradation, got %v", result.Metadata.Degradations)
	}
}

func TestPipelineGeneratorPanicIsContained(t *testing.T) {
	p := newTestPipeline(&stubGenerator{panics: true}, &stubVerifier{passes: true}, 0)

	result := p.Execute(context.Background(), "What implements PaymentGateway?")
	if result == nil {
		t.Fatal("expected a result despite the panic")
	}
	if result.Error {
		t.Fatalf("generation panic should degrade, not terminate: %s", result.ErrorReason)
	}
	if result.Summary == "" {
		t.Error("expected a substituted default summary")
	}
	if result.Confidence > 0.5 {
		t.Errorf("degraded answer should cap confidence, got %f", result.Confidence)
	}
}

func TestPipelineRejectsEmptyQuery(t *testing.T) {
	p := newTestPipeline(&stubGenerator{}, &stubVerifier{passes: true}, 1)

	result := p.Execute(context.Background(), "   ")
	if !result.Error {
		t.Fatal("expected error result for empty query")
	}
}

func TestPipelineEmbeddingFailureDegradesToLexical(t *testing.T) {
	gen := &stubGenerator{}
	p := NewQueryPipeline(
		&stubExtractor{},
		&stubEmbedder{err: errors.New("embedding service down")},
		&stubRetriever{result: testRetrieval()},
		&stubDistiller{},
		gen,
		&stubVerifier{passes: true},
		&Options{MaxRefinements: 1, StepTimeout: 5 * time.Second},
		nil,
	)

	result := p.Execute(context.Background(), "How does login work?")
	if result.Error {
		t.Fatalf("embedding failure should degrade, not fail: %s", result.ErrorReason)
	}

	found := false
	for _, d := range result.Metadata.Degradations {
		if d == "query_embedding_failed" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected query_embedding_failed degradation, got %v", result.Metadata.Degradations)
	}
}
