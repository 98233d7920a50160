package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"

	"github.com/Sacxy/codegraph/pkg/llm"
	"github.com/Sacxy/codegraph/pkg/prompts"
	"github.com/Sacxy/codegraph/pkg/types"
)

// LLMExtractor asks a language model to pull identifiers out of the
// query, falling back to the heuristic extractor when the model call or
// its response parsing fails. Extraction is best-effort; retrieval
// should not die because term extraction did.
type LLMExtractor struct {
	client   llm.Client
	fallback *HeuristicExtractor
	logger   *slog.Logger
}

var _ Extractor = (*LLMExtractor)(nil)

// NewLLMExtractor creates a model-backed extractor.
func NewLLMExtractor(client llm.Client, logger *slog.Logger) *LLMExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMExtractor{
		client:   client,
		fallback: NewHeuristicExtractor(),
		logger:   logger,
	}
}

// Extract implements the Extractor interface.
func (e *LLMExtractor) Extract(ctx context.Context, query string) (*types.ExtractedTerms, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.ErrEmptyQuery
	}

	response, err := e.client.Chat(ctx, prompts.ExtractTerms(query))
	if err != nil {
		e.logger.Warn("term extraction via model failed, using heuristics", "error", err)
		return e.fallback.Extract(ctx, query)
	}

	terms, err := parseTermsResponse(response.Content)
	if err != nil {
		e.logger.Warn("unparseable extraction response, using heuristics", "error", err)
		return e.fallback.Extract(ctx, query)
	}
	if terms.IsEmpty() {
		return e.fallback.Extract(ctx, query)
	}
	return terms, nil
}

func parseTermsResponse(content string) (*types.ExtractedTerms, error) {
	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		repaired = content
	}

	var payload struct {
		ClassNames   []string `json:"class_names"`
		MethodNames  []string `json:"method_names"`
		PackageNames []string `json:"package_names"`
		FreeTerms    []string `json:"free_terms"`
	}
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return nil, fmt.Errorf("parsing extraction response: %w", err)
	}

	return &types.ExtractedTerms{
		ClassNames:   payload.ClassNames,
		MethodNames:  payload.MethodNames,
		PackageNames: payload.PackageNames,
		FreeTerms:    payload.FreeTerms,
	}, nil
}
