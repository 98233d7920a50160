package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Sacxy/codegraph/pkg/extractor"
	"github.com/Sacxy/codegraph/pkg/types"
)

const (
	defaultMaxRefinements = 2
	defaultStepTimeout    = 30 * time.Second
)

// Retriever produces a scored subgraph for extracted terms plus a query
// embedding.
type Retriever interface {
	Retrieve(ctx context.Context, terms *types.ExtractedTerms, queryEmbedding []float32) (*types.RetrievalResult, error)
}

// QueryEmbedder embeds the raw query text for vector search.
type QueryEmbedder interface {
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
}

// ContextDistiller condenses a retrieval result into generation context.
type ContextDistiller interface {
	Distill(ctx context.Context, retrieval *types.RetrievalResult) (string, error)
}

// AnswerGenerator produces an answer from query, context and feedback.
type AnswerGenerator interface {
	Generate(ctx context.Context, query, distilledContext string, feedback []string) *GeneratedAnswer
}

// Options tunes pipeline execution.
type Options struct {
	// MaxRefinements bounds the refine loop; the pipeline runs at most
	// MaxRefinements+1 generate/verify cycles.
	MaxRefinements int `json:"max_refinements" mapstructure:"max_refinements"`
	// StepTimeout caps the wall-clock time of each pipeline step.
	StepTimeout time.Duration `json:"step_timeout" mapstructure:"step_timeout"`
}

// DefaultOptions returns conservative pipeline defaults.
func DefaultOptions() *Options {
	return &Options{
		MaxRefinements: defaultMaxRefinements,
		StepTimeout:    defaultStepTimeout,
	}
}

// QueryPipeline drives one query through retrieval, distillation,
// generation, verification, a bounded refinement loop, and
// finalization. Execute always returns a QueryResult; step errors
// either degrade the result or terminate it with an error flag, they
// are never raised.
type QueryPipeline struct {
	extractor extractor.Extractor
	embedder  QueryEmbedder
	retriever Retriever
	distiller ContextDistiller
	generator AnswerGenerator
	verifier  Verifier

	maxRefinements int
	stepTimeout    time.Duration
	logger         *slog.Logger
}

// NewQueryPipeline wires the pipeline steps.
func NewQueryPipeline(
	termExtractor extractor.Extractor,
	embedder QueryEmbedder,
	retriever Retriever,
	distiller ContextDistiller,
	generator AnswerGenerator,
	verifier Verifier,
	opts *Options,
	logger *slog.Logger,
) *QueryPipeline {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.MaxRefinements < 0 {
		opts.MaxRefinements = 0
	}
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = defaultStepTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryPipeline{
		extractor:      termExtractor,
		embedder:       embedder,
		retriever:      retriever,
		distiller:      distiller,
		generator:      generator,
		verifier:       verifier,
		maxRefinements: opts.MaxRefinements,
		stepTimeout:    opts.StepTimeout,
		logger:         logger,
	}
}

// Execute runs the full pipeline for one query. The returned result is
// never nil and no error is ever raised to the caller.
func (p *QueryPipeline) Execute(ctx context.Context, query string) *types.QueryResult {
	ec := NewExecutionContext(query, p.maxRefinements)
	result := p.run(ctx, ec)

	p.logger.Info("query pipeline finished",
		"execution_id", ec.ExecutionID,
		"error", result.Error,
		"verified", result.Metadata.Verified,
		"refinements", result.Metadata.RefinementCount,
		"elapsed", result.Metadata.ProcessingTime)
	return result
}

func (p *QueryPipeline) run(ctx context.Context, ec *ExecutionContext) (result *types.QueryResult) {
	// Outer boundary: any escaped panic becomes a terminal result.
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline panic", "execution_id", ec.ExecutionID, "panic", r)
			result = p.errorResult(ec, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if strings.TrimSpace(ec.Query) == "" {
		return p.errorResult(ec, "query cannot be empty")
	}

	if err := p.runStep(ctx, ec, StepRetrieve, p.retrieve); err != nil {
		return p.errorResult(ec, fmt.Sprintf("retrieval failed: %v", err))
	}

	if err := p.runStep(ctx, ec, StepDistill, p.distill); err != nil {
		// A thin context is still a context; keep going.
		ec.AddDegradation("distillation_failed")
		ec.DistilledContext = fallbackContext(ec.Retrieval)
	}

	// Bounded generate/verify loop: at most maxRefinements+1 cycles.
	for {
		if err := p.runStep(ctx, ec, StepGenerate, p.generate); err != nil {
			ec.AddDegradation("generation_failed")
			ec.Answer = &GeneratedAnswer{Summary: degradedSummary, Degraded: true}
		}
		if err := p.runStep(ctx, ec, StepVerify, p.verify); err != nil {
			// Fail closed: an unfinished verification never passes.
			ec.AddDegradation("verification_failed")
			ec.Verified = false
			ec.VerificationErrors = append(ec.VerificationErrors, "verification step failed")
		}

		if ec.Verified || ec.RefinementCount >= ec.MaxRefinements {
			break
		}
		if ctx.Err() != nil {
			ec.AddDegradation("refinement_cancelled")
			break
		}
		ec.RefinementCount++
		ec.MarkStep(StepRefine)
	}

	return p.finalize(ec)
}

// runStep executes one state transition asynchronously under the step
// timeout, converting panics into errors and joining before returning.
func (p *QueryPipeline) runStep(ctx context.Context, ec *ExecutionContext, name string, fn func(ctx context.Context, ec *ExecutionContext) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, p.stepTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("step %s panicked: %v", name, r)
			}
		}()
		done <- fn(stepCtx, ec)
	}()

	select {
	case err := <-done:
		if err != nil {
			p.logger.Warn("pipeline step failed",
				"execution_id", ec.ExecutionID, "step", name, "error", err)
			return err
		}
		ec.MarkStep(name)
		return nil
	case <-stepCtx.Done():
		p.logger.Warn("pipeline step timed out",
			"execution_id", ec.ExecutionID, "step", name)
		return fmt.Errorf("step %s: %w", name, stepCtx.Err())
	}
}

func (p *QueryPipeline) retrieve(ctx context.Context, ec *ExecutionContext) error {
	terms, err := p.extractor.Extract(ctx, ec.Query)
	if err != nil {
		return fmt.Errorf("extracting terms: %w", err)
	}

	embedding, err := p.embedder.EmbedSingle(ctx, ec.Query)
	if err != nil {
		// Retrieval still works lexically without an embedding.
		p.logger.Warn("query embedding failed", "execution_id", ec.ExecutionID, "error", err)
		ec.AddDegradation("query_embedding_failed")
		embedding = nil
	}

	retrieval, err := p.retriever.Retrieve(ctx, terms, embedding)
	if err != nil {
		return err
	}
	ec.Retrieval = retrieval
	return nil
}

func (p *QueryPipeline) distill(ctx context.Context, ec *ExecutionContext) error {
	distilled, err := p.distiller.Distill(ctx, ec.Retrieval)
	if err != nil {
		return err
	}
	ec.DistilledContext = distilled
	return nil
}

func (p *QueryPipeline) generate(ctx context.Context, ec *ExecutionContext) error {
	ec.Answer = p.generator.Generate(ctx, ec.Query, ec.DistilledContext, ec.VerificationErrors)
	if ec.Answer.Degraded {
		ec.AddDegradation("generation_degraded")
	}
	return nil
}

func (p *QueryPipeline) verify(ctx context.Context, ec *ExecutionContext) error {
	outcome := p.verifier.Verify(ctx, ec.Answer.Claims)
	ec.Verified = outcome.Verified
	ec.VerificationErrors = outcome.Errors
	ec.SuccessRate = outcome.SuccessRate
	return nil
}

// finalize always runs, stamping diagnostics and assembling the result.
func (p *QueryPipeline) finalize(ec *ExecutionContext) *types.QueryResult {
	ec.MarkStep(StepFinalize)

	answer := ec.Answer
	if answer == nil {
		answer = &GeneratedAnswer{Summary: degradedSummary, Degraded: true}
	}

	return &types.QueryResult{
		Query:      ec.Query,
		Summary:    answer.Summary,
		Components: p.components(ec, answer),
		Claims:     answer.Claims,
		Confidence: p.confidence(ec, answer),
		Metadata:   p.metadata(ec),
	}
}

func (p *QueryPipeline) errorResult(ec *ExecutionContext, reason string) *types.QueryResult {
	return &types.QueryResult{
		Query:       ec.Query,
		Error:       true,
		ErrorReason: reason,
		Metadata:    p.metadata(ec),
	}
}

func (p *QueryPipeline) metadata(ec *ExecutionContext) types.QueryMetadata {
	return types.QueryMetadata{
		ExecutionID:     ec.ExecutionID,
		CompletedSteps:  ec.CompletedSteps(),
		RefinementCount: ec.RefinementCount,
		Verified:        ec.Verified,
		ProcessingTime:  ec.Elapsed(),
		Degradations:    ec.Degradations(),
	}
}

// components surfaces the answer's components with relevance scores
// from retrieval, falling back to the top retrieved nodes when the
// answer named none.
func (p *QueryPipeline) components(ec *ExecutionContext, answer *GeneratedAnswer) []types.RelevantComponent {
	if ec.Retrieval == nil {
		return answer.Components
	}

	scoreByName := make(map[string]float64, len(ec.Retrieval.SubGraph.Nodes))
	for id, node := range ec.Retrieval.SubGraph.Nodes {
		if score := ec.Retrieval.Scores[id]; score > scoreByName[node.Name] {
			scoreByName[node.Name] = score
		}
	}

	if len(answer.Components) > 0 {
		out := make([]types.RelevantComponent, len(answer.Components))
		for i, c := range answer.Components {
			c.Relevance = scoreByName[c.Name]
			out[i] = c
		}
		return out
	}

	return topComponents(ec.Retrieval, 5)
}

func topComponents(retrieval *types.RetrievalResult, limit int) []types.RelevantComponent {
	ids := make([]string, 0, len(retrieval.SubGraph.Nodes))
	for id := range retrieval.SubGraph.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := retrieval.Scores[ids[i]], retrieval.Scores[ids[j]]
		if si != sj {
			return si > sj
		}
		return ids[i] < ids[j]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]types.RelevantComponent, 0, len(ids))
	for _, id := range ids {
		node := retrieval.SubGraph.Nodes[id]
		out = append(out, types.RelevantComponent{
			Type:      node.Type,
			Name:      node.Name,
			Signature: node.Property("signature"),
			Relevance: retrieval.Scores[id],
		})
	}
	return out
}

// confidence blends retrieval strength with the claim success rate.
// Degraded answers are capped low; confidence never comes from a single
// signal.
func (p *QueryPipeline) confidence(ec *ExecutionContext, answer *GeneratedAnswer) float64 {
	strength := retrievalStrength(ec.Retrieval)
	confidence := 0.5*strength + 0.5*ec.SuccessRate
	if answer.Degraded {
		confidence *= 0.5
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// retrievalStrength averages the final seed scores.
func retrievalStrength(retrieval *types.RetrievalResult) float64 {
	if retrieval == nil || len(retrieval.SeedNodeIDs) == 0 {
		return 0
	}
	total := 0.0
	for _, id := range retrieval.SeedNodeIDs {
		total += retrieval.Scores[id]
	}
	return total / float64(len(retrieval.SeedNodeIDs))
}

// fallbackContext is the minimal context used when distillation fails.
func fallbackContext(retrieval *types.RetrievalResult) string {
	if retrieval == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("RELEVANT CODE COMPONENTS:\n")
	for _, c := range topComponents(retrieval, 10) {
		fmt.Fprintf(&b, "- [%s] %s\n", c.Type, c.Name)
	}
	return b.String()
}
