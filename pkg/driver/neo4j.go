package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/Sacxy/codegraph/pkg/types"
)

// Index names expected on the target database.
const (
	fulltextIndexName = "code_search"
	vectorIndexName   = "code_embeddings"
)

// Neo4jStore implements GraphStore against a Neo4j database holding the
// code property graph.
type Neo4jStore struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore creates a store from connection parameters.
func NewNeo4jStore(uri, username, password, database string) (*Neo4jStore, error) {
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Neo4jStore{client: client, database: database}, nil
}

// VerifyConnectivity checks the connection to the database.
func (s *Neo4jStore) VerifyConnectivity(ctx context.Context) error {
	return s.client.VerifyConnectivity(ctx)
}

// Close releases the connection pool.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

// LexicalSearch runs a fulltext query built from the extracted terms.
// Exact names are boosted over free terms; fuzzy matching is applied to
// free terms only.
func (s *Neo4jStore) LexicalSearch(ctx context.Context, terms *types.ExtractedTerms, limit int) ([]types.SearchHit, error) {
	if terms.IsEmpty() {
		return []types.SearchHit{}, nil
	}
	if limit <= 0 {
		return nil, types.ErrInvalidLimit
	}

	fulltext := buildFulltextQuery(terms)
	if fulltext == "" {
		return []types.SearchHit{}, nil
	}

	records, err := s.readRecords(ctx, `
		CALL db.index.fulltext.queryNodes($index, $query)
		YIELD node, score
		RETURN node.id AS id, score
		ORDER BY score DESC
		LIMIT $limit
	`, map[string]any{
		"index": fulltextIndexName,
		"query": fulltext,
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("lexical search failed: %w", err)
	}

	hits := make([]types.SearchHit, 0, len(records))
	for _, record := range records {
		id, score, ok := hitFromRecord(record)
		if !ok {
			continue
		}
		hits = append(hits, types.SearchHit{NodeID: id, Score: score, Signal: types.LexicalSignal})
	}
	return hits, nil
}

// VectorSearch runs a cosine top-K query against the vector index.
func (s *Neo4jStore) VectorSearch(ctx context.Context, embedding []float32, limit int) ([]types.SearchHit, error) {
	if len(embedding) == 0 {
		return nil, types.ErrEmptyEmbedding
	}
	if limit <= 0 {
		return nil, types.ErrInvalidLimit
	}

	records, err := s.readRecords(ctx, `
		CALL db.index.vector.queryNodes($index, $limit, $embedding)
		YIELD node, score
		RETURN node.id AS id, score
		ORDER BY score DESC
	`, map[string]any{
		"index":     vectorIndexName,
		"limit":     limit,
		"embedding": embedding,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	hits := make([]types.SearchHit, 0, len(records))
	for _, record := range records {
		id, score, ok := hitFromRecord(record)
		if !ok {
			continue
		}
		hits = append(hits, types.SearchHit{NodeID: id, Score: score, Signal: types.VectorSignal})
	}
	return hits, nil
}

// Neighborhood returns the one-hop neighbors of the given nodes along
// with the connecting edges.
func (s *Neo4jStore) Neighborhood(ctx context.Context, nodeIDs []string) ([]*types.GraphNode, []*types.GraphEdge, error) {
	if len(nodeIDs) == 0 {
		return []*types.GraphNode{}, []*types.GraphEdge{}, nil
	}

	records, err := s.readRecords(ctx, `
		UNWIND $ids AS origin_id
		MATCH (origin {id: origin_id})-[r]-(n)
		RETURN DISTINCT
			n AS node,
			startNode(r).id AS from_id,
			endNode(r).id AS to_id,
			type(r) AS rel_type,
			properties(r) AS rel_props
	`, map[string]any{"ids": nodeIDs})
	if err != nil {
		return nil, nil, fmt.Errorf("neighborhood query failed: %w", err)
	}

	seen := make(map[string]bool, len(records))
	nodes := make([]*types.GraphNode, 0, len(records))
	edges := make([]*types.GraphEdge, 0, len(records))
	for _, record := range records {
		node := nodeFromRecord(record, "node")
		if node != nil && !seen[node.ID] {
			seen[node.ID] = true
			nodes = append(nodes, node)
		}
		if edge := edgeFromRecord(record); edge != nil {
			edges = append(edges, edge)
		}
	}
	return nodes, edges, nil
}

// GetNodes fetches nodes by id, skipping missing ids.
func (s *Neo4jStore) GetNodes(ctx context.Context, nodeIDs []string) ([]*types.GraphNode, error) {
	if len(nodeIDs) == 0 {
		return []*types.GraphNode{}, nil
	}

	records, err := s.readRecords(ctx, `
		UNWIND $ids AS node_id
		MATCH (n {id: node_id})
		RETURN n AS node
	`, map[string]any{"ids": nodeIDs})
	if err != nil {
		return nil, fmt.Errorf("get nodes failed: %w", err)
	}

	nodes := make([]*types.GraphNode, 0, len(records))
	for _, record := range records {
		if node := nodeFromRecord(record, "node"); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// EdgeExists checks for an edge of the claimed type between two named
// components, in either direction. Relationship type is interpolated
// after a whitelist check because Cypher cannot parameterize it.
func (s *Neo4jStore) EdgeExists(ctx context.Context, fromName, toName string, relType types.EdgeType) (bool, error) {
	if fromName == "" || toName == "" {
		return false, types.ErrEmptyID
	}
	if !isKnownEdgeType(relType) {
		return false, fmt.Errorf("%w: %s", types.ErrUnknownNodeType, relType)
	}

	query := fmt.Sprintf(`
		MATCH (a {name: $from})-[r:%s]-(b {name: $to})
		RETURN count(r) > 0 AS exists
	`, string(relType))

	records, err := s.readRecords(ctx, query, map[string]any{
		"from": fromName,
		"to":   toName,
	})
	if err != nil {
		return false, fmt.Errorf("edge existence check failed: %w", err)
	}
	if len(records) == 0 {
		return false, nil
	}
	value, found := records[0].Get("exists")
	if !found {
		return false, nil
	}
	exists, ok := value.(bool)
	return ok && exists, nil
}

// readRecords runs a read transaction and collects all records.
func (s *Neo4jStore) readRecords(ctx context.Context, query string, params map[string]any) ([]*db.Record, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	records, ok := AsRecordSlice(result)
	if !ok {
		return nil, NewTypeConversionError("[]*db.Record", fmt.Sprintf("%T", result), "")
	}
	return records, nil
}

func isKnownEdgeType(t types.EdgeType) bool {
	switch t {
	case types.ContainsEdgeType, types.CallsEdgeType, types.ExtendsEdgeType,
		types.ImplementsEdgeType, types.UsesEdgeType:
		return true
	}
	return false
}

// buildFulltextQuery turns extracted terms into a Lucene query. Exact
// identifiers are boosted; free terms get fuzzy matching.
func buildFulltextQuery(terms *types.ExtractedTerms) string {
	var parts []string
	for _, name := range terms.ClassNames {
		if q := sanitizeLucene(name); q != "" {
			parts = append(parts, fmt.Sprintf("name:%s^3", q))
		}
	}
	for _, name := range terms.MethodNames {
		if q := sanitizeLucene(name); q != "" {
			parts = append(parts, fmt.Sprintf("name:%s^3 signature:%s", q, q))
		}
	}
	for _, name := range terms.PackageNames {
		if q := sanitizeLucene(name); q != "" {
			parts = append(parts, fmt.Sprintf("name:%s*^2", q))
		}
	}
	for _, term := range terms.FreeTerms {
		if q := sanitizeLucene(term); q != "" {
			parts = append(parts, fmt.Sprintf("%s~", q))
		}
	}
	return strings.Join(parts, " OR ")
}

// sanitizeLucene escapes Lucene special characters in a term.
func sanitizeLucene(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	replacer := strings.NewReplacer(
		"+", "\\+",
		"-", "\\-",
		"&&", "\\&&",
		"||", "\\||",
		"!", "\\!",
		"(", "\\(",
		")", "\\)",
		"{", "\\{",
		"}", "\\}",
		"[", "\\[",
		"]", "\\]",
		"^", "\\^",
		"~", "\\~",
		"*", "\\*",
		"?", "\\?",
		":", "\\:",
		"\"", "\\\"",
	)
	return replacer.Replace(term)
}
