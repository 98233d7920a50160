package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/Sacxy/codegraph/pkg/types"
)

func TestHeuristicExtractorClassifiesIdentifiers(t *testing.T) {
	e := NewHeuristicExtractor()

	terms, err := e.Extract(context.Background(), "How does UserService call validateCredentials in com.example.auth?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(terms.ClassNames) != 1 || terms.ClassNames[0] != "UserService" {
		t.Errorf("expected class name UserService, got %v", terms.ClassNames)
	}
	if len(terms.MethodNames) != 1 || terms.MethodNames[0] != "validateCredentials" {
		t.Errorf("expected method name validateCredentials, got %v", terms.MethodNames)
	}
	if len(terms.PackageNames) != 1 || terms.PackageNames[0] != "com.example.auth" {
		t.Errorf("expected package name com.example.auth, got %v", terms.PackageNames)
	}
}

func TestHeuristicExtractorDropsStopWords(t *testing.T) {
	e := NewHeuristicExtractor()

	terms, err := e.Extract(context.Background(), "what does the login flow use")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, term := range terms.FreeTerms {
		if stopWords[term] {
			t.Errorf("stop word %q leaked into free terms", term)
		}
	}
	if len(terms.FreeTerms) == 0 {
		t.Error("expected content words like 'login' and 'flow' as free terms")
	}
}

func TestHeuristicExtractorRejectsEmptyQuery(t *testing.T) {
	e := NewHeuristicExtractor()

	if _, err := e.Extract(context.Background(), "   "); !errors.Is(err, types.ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestParseTermsResponseRepairsMalformedJSON(t *testing.T) {
	terms, err := parseTermsResponse("```json\n{\"class_names\": [\"OrderService\"], \"method_names\": [], \"package_names\": [], \"free_terms\": [\"checkout\"],}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(terms.ClassNames) != 1 || terms.ClassNames[0] != "OrderService" {
		t.Errorf("expected OrderService, got %v", terms.ClassNames)
	}
}
