package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/Sacxy/codegraph/pkg/types"
)

var (
	pascalCasePattern = regexp.MustCompile(`\b[A-Z][a-z0-9]+(?:[A-Z][a-z0-9]+)+\b`)
	camelCasePattern  = regexp.MustCompile(`\b[a-z][a-z0-9]*(?:[A-Z][a-z0-9]+)+\b`)
	packagePattern    = regexp.MustCompile(`\b[a-z][a-z0-9_]*(?:\.[a-z][a-z0-9_]*)+\b`)
	wordPattern       = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9]{2,}\b`)
)

// Filler words that carry no search signal.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "how": true,
	"does": true, "what": true, "where": true, "which": true, "when": true,
	"why": true, "who": true, "that": true, "this": true, "with": true,
	"from": true, "into": true, "can": true, "its": true, "has": true,
	"have": true, "was": true, "were": true, "will": true, "show": true,
	"all": true, "any": true, "use": true, "used": true, "uses": true,
}

// HeuristicExtractor derives terms from surface patterns in the query.
// PascalCase tokens become class names, camelCase tokens become method
// names, dotted lowercase paths become package names, and the remaining
// content words become free terms.
type HeuristicExtractor struct{}

var _ Extractor = (*HeuristicExtractor)(nil)

// NewHeuristicExtractor creates a pattern-based extractor.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// Extract implements the Extractor interface.
func (e *HeuristicExtractor) Extract(_ context.Context, query string) (*types.ExtractedTerms, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.ErrEmptyQuery
	}

	terms := &types.ExtractedTerms{}
	claimed := make(map[string]bool)

	for _, match := range pascalCasePattern.FindAllString(query, -1) {
		if !claimed[match] {
			claimed[match] = true
			terms.ClassNames = append(terms.ClassNames, match)
		}
	}
	for _, match := range camelCasePattern.FindAllString(query, -1) {
		if !claimed[match] {
			claimed[match] = true
			terms.MethodNames = append(terms.MethodNames, match)
		}
	}
	for _, match := range packagePattern.FindAllString(query, -1) {
		if !claimed[match] {
			claimed[match] = true
			terms.PackageNames = append(terms.PackageNames, match)
		}
	}

	for _, word := range wordPattern.FindAllString(query, -1) {
		lower := strings.ToLower(word)
		if claimed[word] || stopWords[lower] {
			continue
		}
		claimed[word] = true
		terms.FreeTerms = append(terms.FreeTerms, lower)
	}

	return terms, nil
}
