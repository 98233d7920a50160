package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Sacxy/codegraph/pkg/types"
)

type mockEdgeChecker struct {
	edges map[string]bool
	err   error
}

func (m *mockEdgeChecker) EdgeExists(_ context.Context, fromName, toName string, relType types.EdgeType) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.edges[fromName+"|"+toName+"|"+string(relType)], nil
}

func TestVerifyZeroClaimsIsVacuouslyTrue(t *testing.T) {
	s := NewVerificationService(&mockEdgeChecker{}, time.Second, nil)

	outcome := s.Verify(context.Background(), nil)
	if !outcome.Verified {
		t.Error("expected verified with zero claims")
	}
	if outcome.SuccessRate != 1.0 {
		t.Errorf("expected success rate 1.0, got %f", outcome.SuccessRate)
	}
	if len(outcome.Errors) != 0 {
		t.Errorf("expected no errors, got %v", outcome.Errors)
	}
}

func TestVerifyMarksClaimsAgainstGraph(t *testing.T) {
	checker := &mockEdgeChecker{edges: map[string]bool{
		"AuthService|login|CONTAINS": true,
	}}
	s := NewVerificationService(checker, time.Second, nil)

	claims := []*types.RelationshipClaim{
		{FromComponent: "AuthService", ToComponent: "login", RelationshipType: "CONTAINS"},
		{FromComponent: "AuthService", ToComponent: "chargeCard", RelationshipType: "CALLS"},
	}

	outcome := s.Verify(context.Background(), claims)
	if outcome.Verified {
		t.Error("expected unverified outcome")
	}
	if outcome.SuccessRate != 0.5 {
		t.Errorf("expected success rate 0.5, got %f", outcome.SuccessRate)
	}
	if !claims[0].Verified {
		t.Error("expected first claim verified")
	}
	if claims[1].Verified {
		t.Error("expected second claim unverified")
	}
	if len(outcome.Errors) != 1 || !strings.Contains(outcome.Errors[0], "chargeCard") {
		t.Errorf("expected one error naming chargeCard, got %v", outcome.Errors)
	}
}

func TestVerifyCheckErrorFailsClosed(t *testing.T) {
	s := NewVerificationService(&mockEdgeChecker{err: errors.New("connection reset")}, time.Second, nil)

	claims := []*types.RelationshipClaim{
		{FromComponent: "A", ToComponent: "B", RelationshipType: "CALLS", Verified: true},
	}

	outcome := s.Verify(context.Background(), claims)
	if outcome.Verified {
		t.Error("check error must fail closed")
	}
	if claims[0].Verified {
		t.Error("claim must be reset to unverified on check error")
	}
	if len(outcome.Errors) != 1 || !strings.Contains(outcome.Errors[0], "check failed") {
		t.Errorf("expected a check-failed error, got %v", outcome.Errors)
	}
}

func TestVerifyPreservesClaimOrderInErrors(t *testing.T) {
	s := NewVerificationService(&mockEdgeChecker{edges: map[string]bool{}}, time.Second, nil)

	claims := []*types.RelationshipClaim{
		{FromComponent: "A", ToComponent: "B", RelationshipType: "CALLS"},
		{FromComponent: "C", ToComponent: "D", RelationshipType: "USES"},
		{FromComponent: "E", ToComponent: "F", RelationshipType: "EXTENDS"},
	}

	outcome := s.Verify(context.Background(), claims)
	if len(outcome.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(outcome.Errors))
	}
	for i, prefix := range []string{"A", "C", "E"} {
		if !strings.HasPrefix(outcome.Errors[i], prefix) {
			t.Errorf("error %d: expected prefix %s, got %q", i, prefix, outcome.Errors[i])
		}
	}
}
