package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sacxy/codegraph/pkg/driver"
	"github.com/Sacxy/codegraph/pkg/types"
)

const (
	defaultClaimTimeout    = 3 * time.Second
	defaultVerifierWorkers = 4
)

// VerificationOutcome is the result of checking one answer's claims.
type VerificationOutcome struct {
	// Verified is true when every claim checked out.
	Verified bool
	// SuccessRate is verified/total, vacuously 1.0 with zero claims.
	SuccessRate float64
	// Errors describes each failed claim, in claim order.
	Errors []string
}

// Verifier checks relationship claims against the graph.
type Verifier interface {
	Verify(ctx context.Context, claims []*types.RelationshipClaim) *VerificationOutcome
}

// VerificationService verifies claims through edge-existence checks.
// Checks run concurrently on a bounded pool, each under its own
// timeout. A check error marks the claim unverified; verification is
// fail-closed and never fails the pipeline step.
type VerificationService struct {
	checker      driver.EdgeChecker
	claimTimeout time.Duration
	workers      int
	logger       *slog.Logger
}

var _ Verifier = (*VerificationService)(nil)

// NewVerificationService creates a verifier over the given edge checker.
func NewVerificationService(checker driver.EdgeChecker, claimTimeout time.Duration, logger *slog.Logger) *VerificationService {
	if claimTimeout <= 0 {
		claimTimeout = defaultClaimTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VerificationService{
		checker:      checker,
		claimTimeout: claimTimeout,
		workers:      defaultVerifierWorkers,
		logger:       logger,
	}
}

// Verify implements the Verifier interface. It mutates each claim's
// Verified flag in place and reports the aggregate outcome.
func (s *VerificationService) Verify(ctx context.Context, claims []*types.RelationshipClaim) *VerificationOutcome {
	if len(claims) == 0 {
		return &VerificationOutcome{Verified: true, SuccessRate: 1.0}
	}

	failures := make([]string, len(claims))
	forEachLimit(ctx, len(claims), s.workers, func(ctx context.Context, i int) {
		failures[i] = s.checkClaim(ctx, claims[i])
	})

	verified := 0
	errors := make([]string, 0)
	for i, claim := range claims {
		if claim.Verified {
			verified++
			continue
		}
		if failures[i] != "" {
			errors = append(errors, failures[i])
		} else {
			errors = append(errors, describeClaim(claims[i])+": not checked")
		}
	}

	return &VerificationOutcome{
		Verified:    verified == len(claims),
		SuccessRate: float64(verified) / float64(len(claims)),
		Errors:      errors,
	}
}

// checkClaim verifies one claim, returning a failure description or ""
// on success.
func (s *VerificationService) checkClaim(ctx context.Context, claim *types.RelationshipClaim) string {
	claim.Verified = false

	checkCtx, cancel := context.WithTimeout(ctx, s.claimTimeout)
	defer cancel()

	exists, err := s.checker.EdgeExists(checkCtx, claim.FromComponent, claim.ToComponent, types.EdgeType(claim.RelationshipType))
	if err != nil {
		s.logger.Warn("claim check failed", "claim", describeClaim(claim), "error", err)
		return describeClaim(claim) + ": check failed"
	}
	if !exists {
		return describeClaim(claim) + ": no such relationship in the graph"
	}

	claim.Verified = true
	return ""
}

func describeClaim(claim *types.RelationshipClaim) string {
	return fmt.Sprintf("%s -%s-> %s", claim.FromComponent, claim.RelationshipType, claim.ToComponent)
}
