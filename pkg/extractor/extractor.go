// Package extractor derives structured search terms from natural
// language questions about a codebase. The primary implementation asks
// a language model to pull out likely identifiers; a heuristic fallback
// keeps retrieval working when the model is unavailable.
package extractor

import (
	"context"

	"github.com/Sacxy/codegraph/pkg/types"
)

// Extractor derives search terms from a natural language query.
type Extractor interface {
	Extract(ctx context.Context, query string) (*types.ExtractedTerms, error)
}
