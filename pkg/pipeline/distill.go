package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Sacxy/codegraph/pkg/types"
)

// defaultDistillWorkers bounds the fan-out used to format node snippets.
const defaultDistillWorkers = 8

// Distiller condenses a retrieval result into the textual context fed
// to answer generation. Node snippets are rendered on a bounded worker
// pool and assembled in deterministic score order.
type Distiller struct {
	workers      int
	maxNodes     int
	snippetLimit int
}

// NewDistiller creates a distiller. maxNodes bounds how many nodes make
// it into the context; zero means all.
func NewDistiller(workers, maxNodes int) *Distiller {
	if workers <= 0 {
		workers = defaultDistillWorkers
	}
	return &Distiller{
		workers:      workers,
		maxNodes:     maxNodes,
		snippetLimit: 400,
	}
}

// Distill renders the retrieval result as a context string: components
// ordered by final score, then the relationships connecting them.
func (d *Distiller) Distill(ctx context.Context, retrieval *types.RetrievalResult) (string, error) {
	if retrieval == nil || retrieval.SubGraph == nil || len(retrieval.SubGraph.Nodes) == 0 {
		return "", fmt.Errorf("nothing to distill: empty retrieval result")
	}

	ordered := orderedNodeIDs(retrieval)
	if d.maxNodes > 0 && len(ordered) > d.maxNodes {
		ordered = ordered[:d.maxNodes]
	}

	snippets := make([]string, len(ordered))
	forEachLimit(ctx, len(ordered), d.workers, func(_ context.Context, i int) {
		snippets[i] = d.nodeSnippet(retrieval, ordered[i])
	})
	if err := ctx.Err(); err != nil {
		return "", err
	}

	kept := make(map[string]bool, len(ordered))
	for _, id := range ordered {
		kept[id] = true
	}

	var b strings.Builder
	b.WriteString("RELEVANT CODE COMPONENTS:\n")
	for _, snippet := range snippets {
		b.WriteString(snippet)
	}

	relationships := relationshipLines(retrieval.SubGraph, kept)
	if len(relationships) > 0 {
		b.WriteString("\nRELATIONSHIPS:\n")
		for _, line := range relationships {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// orderedNodeIDs lists node ids by final score descending, ties broken
// by id so the context is stable across runs.
func orderedNodeIDs(retrieval *types.RetrievalResult) []string {
	ids := make([]string, 0, len(retrieval.SubGraph.Nodes))
	for id := range retrieval.SubGraph.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := retrieval.Scores[ids[i]], retrieval.Scores[ids[j]]
		if si != sj {
			return si > sj
		}
		return ids[i] < ids[j]
	})
	return ids
}

func (d *Distiller) nodeSnippet(retrieval *types.RetrievalResult, id string) string {
	node := retrieval.SubGraph.Nodes[id]

	var b strings.Builder
	fmt.Fprintf(&b, "- [%s] %s (relevance %.2f)\n", node.Type, node.Name, retrieval.Scores[id])
	if signature := node.Property("signature"); signature != "" {
		fmt.Fprintf(&b, "  signature: %s\n", signature)
	}
	if doc := node.Property("doc"); doc != "" {
		if len(doc) > d.snippetLimit {
			doc = doc[:d.snippetLimit] + "..."
		}
		fmt.Fprintf(&b, "  doc: %s\n", doc)
	}
	return b.String()
}

func relationshipLines(sg *types.SubGraph, kept map[string]bool) []string {
	lines := make([]string, 0, len(sg.Edges))
	for _, edge := range sg.Edges {
		if !kept[edge.FromID] || !kept[edge.ToID] {
			continue
		}
		from, to := sg.Nodes[edge.FromID], sg.Nodes[edge.ToID]
		lines = append(lines, fmt.Sprintf("- %s %s %s", from.Name, edge.Type, to.Name))
	}
	sort.Strings(lines)
	return lines
}
