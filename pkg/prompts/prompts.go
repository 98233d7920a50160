// Package prompts builds the message sequences sent to the language
// model. Keeping them in one place makes the model-facing surface easy
// to review and version.
package prompts

import (
	"fmt"
	"strings"

	"github.com/Sacxy/codegraph/pkg/llm"
	"github.com/Sacxy/codegraph/pkg/types"
)

const extractTermsSystem = `You extract code identifiers from questions about a codebase.
Given a question, identify likely class names, method names, package names,
and remaining free-text search terms. Respond with JSON only:
{"class_names": [], "method_names": [], "package_names": [], "free_terms": []}`

const generateAnswerSystem = `You answer questions about a codebase using only the provided context.
Respond with JSON only, in this shape:
{
  "summary": "...",
  "components": [{"type": "class|method|interface|field|package", "name": "...", "signature": "..."}],
  "claims": [{"from_component": "...", "to_component": "...", "relationship_type": "CONTAINS|CALLS|EXTENDS|IMPLEMENTS|USES"}]
}
Only claim relationships the context supports.`

// ExtractTerms builds the messages asking the model to pull search
// terms out of a raw query.
func ExtractTerms(query string) []types.Message {
	return []types.Message{
		llm.NewSystemMessage(extractTermsSystem),
		llm.NewUserMessage(query),
	}
}

// GenerateAnswer builds the messages asking the model for an answer.
// feedback carries verification errors from earlier refinement
// iterations; pass nil on the first attempt.
func GenerateAnswer(query, distilledContext string, feedback []string) []types.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "QUESTION: %s\n\nCONTEXT:\n%s\n", query, distilledContext)
	if len(feedback) > 0 {
		b.WriteString("\nYour previous answer asserted relationships the code graph does not contain:\n")
		for _, item := range feedback {
			fmt.Fprintf(&b, "- %s\n", item)
		}
		b.WriteString("Correct the answer so every claim is supported by the context.\n")
	}

	return []types.Message{
		llm.NewSystemMessage(generateAnswerSystem),
		llm.NewUserMessage(b.String()),
	}
}
