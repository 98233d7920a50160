package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sacxy/codegraph/pkg/types"
)

// Pipeline step names, recorded in the completed-step trail.
const (
	StepRetrieve = "RETRIEVE"
	StepDistill  = "DISTILL"
	StepGenerate = "GENERATE"
	StepVerify   = "VERIFY"
	StepRefine   = "REFINE"
	StepFinalize = "FINALIZE"
)

// ExecutionContext is the state threaded through one pipeline run. It
// is created per query, mutated by each step, and discarded after the
// final result is returned. The step trail and degradation list are
// guarded because async step completions append to them.
type ExecutionContext struct {
	Query       string
	ExecutionID string
	StartTime   time.Time

	Retrieval        *types.RetrievalResult
	DistilledContext string
	Answer           *GeneratedAnswer

	Verified           bool
	SuccessRate        float64
	VerificationErrors []string

	RefinementCount int
	MaxRefinements  int

	mu             sync.Mutex
	completedSteps []string
	degradations   []string
}

// NewExecutionContext creates the state for one pipeline run.
func NewExecutionContext(query string, maxRefinements int) *ExecutionContext {
	if maxRefinements < 0 {
		maxRefinements = 0
	}
	return &ExecutionContext{
		Query:          query,
		ExecutionID:    uuid.New().String(),
		StartTime:      time.Now(),
		MaxRefinements: maxRefinements,
	}
}

// MarkStep appends a step name to the completed-step trail.
func (ec *ExecutionContext) MarkStep(name string) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.completedSteps = append(ec.completedSteps, name)
}

// CompletedSteps returns a copy of the completed-step trail.
func (ec *ExecutionContext) CompletedSteps() []string {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	steps := make([]string, len(ec.completedSteps))
	copy(steps, ec.completedSteps)
	return steps
}

// AddDegradation records a partial-failure note for the final metadata.
func (ec *ExecutionContext) AddDegradation(reason string) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.degradations = append(ec.degradations, reason)
}

// Degradations returns a copy of the recorded degradations.
func (ec *ExecutionContext) Degradations() []string {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	if len(ec.degradations) == 0 {
		return nil
	}
	out := make([]string, len(ec.degradations))
	copy(out, ec.degradations)
	return out
}

// Elapsed returns the wall time since the run started.
func (ec *ExecutionContext) Elapsed() time.Duration {
	return time.Since(ec.StartTime)
}
