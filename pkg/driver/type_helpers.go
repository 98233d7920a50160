package driver

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/Sacxy/codegraph/pkg/types"
)

// TypeConversionError represents an error converting database values.
type TypeConversionError struct {
	Expected string
	Actual   string
	Field    string
}

func (e *TypeConversionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("type conversion error for field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("type conversion error: expected %s, got %s", e.Expected, e.Actual)
}

// NewTypeConversionError creates a new TypeConversionError.
func NewTypeConversionError(expected, actual, field string) *TypeConversionError {
	return &TypeConversionError{Expected: expected, Actual: actual, Field: field}
}

// AsRecordSlice safely converts an interface{} to []*db.Record.
func AsRecordSlice(v any) ([]*db.Record, bool) {
	if v == nil {
		return nil, false
	}
	records, ok := v.([]*db.Record)
	return records, ok
}

// hitFromRecord extracts (id, score) from a search record.
func hitFromRecord(record *db.Record) (string, float64, bool) {
	idValue, found := record.Get("id")
	if !found {
		return "", 0, false
	}
	id, ok := idValue.(string)
	if !ok || id == "" {
		return "", 0, false
	}
	score := 0.0
	if scoreValue, found := record.Get("score"); found {
		switch v := scoreValue.(type) {
		case float64:
			score = v
		case int64:
			score = float64(v)
		}
	}
	return id, score, true
}

// nodeFromRecord converts a dbtype.Node record field into a GraphNode.
func nodeFromRecord(record *db.Record, key string) *types.GraphNode {
	value, found := record.Get(key)
	if !found {
		return nil
	}
	dbNode, ok := value.(dbtype.Node)
	if !ok {
		return nil
	}
	return nodeFromDBNode(dbNode)
}

func nodeFromDBNode(dbNode dbtype.Node) *types.GraphNode {
	node := &types.GraphNode{
		Labels:     dbNode.Labels,
		Properties: make(map[string]interface{}),
	}
	for key, value := range dbNode.Props {
		switch key {
		case "id":
			if s, ok := value.(string); ok {
				node.ID = s
			}
		case "name":
			if s, ok := value.(string); ok {
				node.Name = s
			}
		case "type":
			if s, ok := value.(string); ok {
				node.Type = types.NodeType(s)
			}
		case "embedding":
			node.Embedding = asFloat32Slice(value)
		default:
			node.Properties[key] = value
		}
	}
	if node.ID == "" {
		return nil
	}
	return node
}

// edgeFromRecord converts the flattened edge columns of a neighborhood
// record into a GraphEdge.
func edgeFromRecord(record *db.Record) *types.GraphEdge {
	fromValue, foundFrom := record.Get("from_id")
	toValue, foundTo := record.Get("to_id")
	typeValue, foundType := record.Get("rel_type")
	if !foundFrom || !foundTo || !foundType {
		return nil
	}
	fromID, okFrom := fromValue.(string)
	toID, okTo := toValue.(string)
	relType, okType := typeValue.(string)
	if !okFrom || !okTo || !okType || fromID == "" || toID == "" {
		return nil
	}

	edge := &types.GraphEdge{
		FromID: fromID,
		ToID:   toID,
		Type:   types.EdgeType(relType),
	}
	if propsValue, found := record.Get("rel_props"); found {
		if props, ok := propsValue.(map[string]interface{}); ok {
			edge.Properties = props
		}
	}
	return edge
}

// asFloat32Slice converts database list values into a []float32.
func asFloat32Slice(v any) []float32 {
	switch val := v.(type) {
	case []float32:
		return val
	case []float64:
		out := make([]float32, len(val))
		for i, f := range val {
			out[i] = float32(f)
		}
		return out
	case []interface{}:
		out := make([]float32, 0, len(val))
		for _, item := range val {
			switch f := item.(type) {
			case float64:
				out = append(out, float32(f))
			case float32:
				out = append(out, f)
			case int64:
				out = append(out, float32(f))
			}
		}
		return out
	}
	return nil
}
