// Package pipeline orchestrates query answering as a state machine:
// RETRIEVE, DISTILL, GENERATE, VERIFY, a bounded REFINE loop, and
// FINALIZE. Every execution produces a QueryResult; failures degrade or
// become a terminal error result, never a raised error.
package pipeline
