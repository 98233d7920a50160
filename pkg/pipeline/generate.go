package pipeline

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

const degradedSummary = "Unable to generate a reliable answer for this query. " +
	"The retrieved components are listed below; inspect them directly."

// GeneratedAnswer is the parsed output of one generation attempt.
type GeneratedAnswer struct {
	Summary    string
	Components []types.RelevantComponent
	Claims     []*types.RelationshipClaim

	// Degraded marks answers substituted after a model failure or an
	// unparsable response.
	Degraded bool
}

// Generator produces answers from the distilled context. Model failures
// and unparsable output degrade to a flagged default answer instead of
// failing the pipeline.
type Generator struct {
	client llm.Client
	logger *slog.Logger
}

// NewGenerator creates a generator over the given model client.
func NewGenerator(client llm.Client, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{client: client, logger: logger}
}

// Generate asks the model for an answer. feedback carries verification
// errors from earlier refinement iterations, empty on the first pass.
func (g *Generator) Generate(ctx context.Context, query, distilledContext string, feedback []string) *GeneratedAnswer {
	response, err := g.client.Chat(ctx, prompts.GenerateAnswer(query, distilledContext, feedback))
	if err != nil {
		g.logger.Warn("answer generation failed", "error", err)
		return &GeneratedAnswer{Summary: degradedSummary, Degraded: true}
	}

	answer, err := parseAnswer(response.Content)
	if err != nil {
		g.logger.Warn("unparsable generation response", "error", err)
		return &GeneratedAnswer{
			Summary:  strings.TrimSpace(response.Content),
			Degraded: true,
		}
	}
	return answer
}

func parseAnswer(content string) (*GeneratedAnswer, error) {
	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		repaired = content
	}

	var payload struct {
		Summary    string `json:"summary"`
		Components []struct {
			Type      string `json:"type"`
			Name      string `json:"name"`
			Signature string `json:"signature"`
		} `json:"components"`
		Claims []struct {
			FromComponent    string `json:"from_component"`
			ToComponent      string `json:"to_component"`
			RelationshipType string `json:"relationship_type"`
		} `json:"claims"`
	}
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return nil, fmt.Errorf("parsing generation response: %w", err)
	}
	if strings.TrimSpace(payload.Summary) == "" {
		return nil, fmt.Errorf("generation response missing summary")
	}

	answer := &GeneratedAnswer{Summary: payload.Summary}
	for _, c := range payload.Components {
		answer.Components = append(answer.Components, types.RelevantComponent{
			Type:      types.NodeType(strings.ToLower(c.Type)),
			Name:      c.Name,
			Signature: c.Signature,
		})
	}
	for _, claim := range payload.Claims {
		if claim.FromComponent == "" || claim.ToComponent == "" {
			continue
		}
		answer.Claims = append(answer.Claims, &types.RelationshipClaim{
			FromComponent:    claim.FromComponent,
			ToComponent:      claim.ToComponent,
			RelationshipType: strings.ToUpper(claim.RelationshipType),
		})
	}
	return answer, nil
}
