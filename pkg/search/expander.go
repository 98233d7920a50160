package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/Sacxy/codegraph/pkg/driver"
	"github.com/Sacxy/codegraph/pkg/types"
)

// Expansion is the output of a graph expansion: the collected subgraph,
// the hop distance of every node from its nearest seed, and whether the
// traversal was cut short by a store failure.
type Expansion struct {
	SubGraph *types.SubGraph
	Hops     map[string]int
	Partial  bool
}

// GraphExpander grows a bounded subgraph around seed nodes by
// breadth-first traversal.
//
// Seeds are processed in score order so that, when the node cap is hit,
// nodes reachable from higher-scored seeds win. Traversal terminates for
// any topology and any depth ≥ 0: each node is visited once and the hop
// loop is bounded. A mid-traversal store failure yields the partial
// subgraph collected so far, flagged Partial, never an error.
type GraphExpander struct {
	store    driver.Traverser
	maxDepth int
	nodeCap  int
	logger   *slog.Logger
}

// NewGraphExpander creates an expander with the given bounds.
func NewGraphExpander(store driver.Traverser, maxDepth, nodeCap int, logger *slog.Logger) *GraphExpander {
	if nodeCap <= 0 {
		nodeCap = DefaultExpansionNodeCap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphExpander{
		store:    store,
		maxDepth: maxDepth,
		nodeCap:  nodeCap,
		logger:   logger,
	}
}

// frontierEntry tracks a node awaiting expansion along with the rank of
// the best seed that reached it. Lower rank means a higher-scored seed.
type frontierEntry struct {
	id       string
	seedRank int
}

// Expand traverses outward from the given seeds, ordered best first.
func (x *GraphExpander) Expand(ctx context.Context, seeds []types.RankedResult) *Expansion {
	expansion := &Expansion{
		SubGraph: types.NewSubGraph(),
		Hops:     make(map[string]int),
	}
	if len(seeds) == 0 {
		return expansion
	}

	seedIDs := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		if len(seedIDs) >= x.nodeCap {
			break
		}
		seedIDs = append(seedIDs, seed.NodeID)
	}

	seedNodes, err := x.store.GetNodes(ctx, seedIDs)
	if err != nil {
		x.logger.Warn("seed fetch failed, returning empty subgraph", "error", err)
		expansion.Partial = true
		return expansion
	}
	for _, node := range seedNodes {
		expansion.SubGraph.AddNode(node)
		expansion.Hops[node.ID] = 0
	}

	visited := make(map[string]bool, len(seedIDs))
	frontier := make([]frontierEntry, 0, len(seedIDs))
	for rank, id := range seedIDs {
		if expansion.SubGraph.HasNode(id) && !visited[id] {
			visited[id] = true
			frontier = append(frontier, frontierEntry{id: id, seedRank: rank})
		}
	}

	var pendingEdges []*types.GraphEdge

	for hop := 1; hop <= x.maxDepth && len(frontier) > 0; hop++ {
		if len(expansion.SubGraph.Nodes) >= x.nodeCap {
			break
		}

		// Within a hop level, higher-scored origins go first so the cap
		// favors their neighborhoods. Ties break on node id.
		sort.Slice(frontier, func(i, j int) bool {
			if frontier[i].seedRank != frontier[j].seedRank {
				return frontier[i].seedRank < frontier[j].seedRank
			}
			return frontier[i].id < frontier[j].id
		})

		next := make([]frontierEntry, 0)
		for _, group := range groupByRank(frontier) {
			if len(expansion.SubGraph.Nodes) >= x.nodeCap {
				break
			}

			ids := make([]string, len(group))
			for i, entry := range group {
				ids[i] = entry.id
			}
			nodes, edges, err := x.store.Neighborhood(ctx, ids)
			if err != nil {
				x.logger.Warn("traversal interrupted, keeping partial subgraph",
					"hop", hop, "error", err)
				expansion.Partial = true
				x.attachEdges(expansion.SubGraph, pendingEdges)
				return expansion
			}
			pendingEdges = append(pendingEdges, edges...)

			rank := group[0].seedRank
			sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
			for _, node := range nodes {
				if visited[node.ID] {
					continue
				}
				if len(expansion.SubGraph.Nodes) >= x.nodeCap {
					break
				}
				visited[node.ID] = true
				expansion.SubGraph.AddNode(node)
				expansion.Hops[node.ID] = hop
				next = append(next, frontierEntry{id: node.ID, seedRank: rank})
			}
		}
		frontier = next
	}

	x.attachEdges(expansion.SubGraph, pendingEdges)
	return expansion
}

// attachEdges adds collected edges whose endpoints both made it into the
// subgraph, deduplicated, preserving referential integrity.
func (x *GraphExpander) attachEdges(sg *types.SubGraph, edges []*types.GraphEdge) {
	seen := make(map[[3]string]bool, len(edges))
	for _, edge := range edges {
		key := [3]string{edge.FromID, edge.ToID, string(edge.Type)}
		if seen[key] {
			continue
		}
		seen[key] = true
		// AddEdge rejects edges with a pruned endpoint.
		_ = sg.AddEdge(edge)
	}
}

// groupByRank splits a rank-sorted frontier into runs of equal seed rank.
func groupByRank(frontier []frontierEntry) [][]frontierEntry {
	var groups [][]frontierEntry
	start := 0
	for i := 1; i <= len(frontier); i++ {
		if i == len(frontier) || frontier[i].seedRank != frontier[start].seedRank {
			groups = append(groups, frontier[start:i])
			start = i
		}
	}
	return groups
}
