package types

import "time"

// RelationshipClaim is an assertion, produced during answer generation,
// that two named components stand in a given relationship. Verification
// sets Verified against the graph store; claims default to unverified.
type RelationshipClaim struct {
	FromComponent    string `json:"from_component"`
	ToComponent      string `json:"to_component"`
	RelationshipType string `json:"relationship_type"`
	Verified         bool   `json:"verified"`
}

// RelevantComponent is a code element surfaced to the caller as part of
// an answer, with its final relevance score.
type RelevantComponent struct {
	Type      NodeType `json:"type"`
	Name      string   `json:"name"`
	Signature string   `json:"signature,omitempty"`
	Relevance float64  `json:"relevance"`
}

// QueryResult is the final object returned for every query. Callers
// always receive one; degraded quality is reported through Confidence
// and Metadata, never through an error.
type QueryResult struct {
	Query       string               `json:"query"`
	Summary     string               `json:"summary"`
	Components  []RelevantComponent  `json:"components,omitempty"`
	Claims      []*RelationshipClaim `json:"claims,omitempty"`
	Confidence  float64              `json:"confidence"`
	Error       bool                 `json:"error,omitempty"`
	ErrorReason string               `json:"error_reason,omitempty"`

	Metadata QueryMetadata `json:"metadata"`
}

// QueryMetadata carries execution diagnostics for a query.
type QueryMetadata struct {
	ExecutionID     string        `json:"execution_id"`
	CompletedSteps  []string      `json:"completed_steps"`
	RefinementCount int           `json:"refinement_count"`
	Verified        bool          `json:"verified"`
	ProcessingTime  time.Duration `json:"processing_time"`
	Degradations    []string      `json:"degradations,omitempty"`
}

// Role identifies the author of a chat message.
type Role string

// Message is a single chat message exchanged with a language model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Response is a language model completion.
type Response struct {
	Content      string `json:"content"`
	Model        string `json:"model,omitempty"`
	TokensUsed   int    `json:"tokens_used,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
}
