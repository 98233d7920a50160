package types

import "errors"

// Validation errors
var (
	ErrEmptyID         = errors.New("id cannot be empty")
	ErrEmptyQuery      = errors.New("query cannot be empty")
	ErrDanglingEdge    = errors.New("edge endpoint missing from subgraph")
	ErrInvalidLimit    = errors.New("limit must be positive")
	ErrInvalidMaxHops  = errors.New("max hops cannot be negative")
	ErrInvalidCap      = errors.New("node cap must be positive")
	ErrEmptyEmbedding  = errors.New("embedding cannot be empty")
	ErrUnknownNodeType = errors.New("unknown node type")
)

// NodeType classifies a node in the code property graph.
type NodeType string

const (
	// ClassNodeType represents a class or type declaration.
	ClassNodeType NodeType = "class"
	// MethodNodeType represents a method or function declaration.
	MethodNodeType NodeType = "method"
	// InterfaceNodeType represents an interface declaration.
	InterfaceNodeType NodeType = "interface"
	// FieldNodeType represents a field or constant declaration.
	FieldNodeType NodeType = "field"
	// PackageNodeType represents a package or namespace.
	PackageNodeType NodeType = "package"
)

// EdgeType classifies a relationship between two code elements.
type EdgeType string

const (
	// ContainsEdgeType links a container (package, class) to its members.
	ContainsEdgeType EdgeType = "CONTAINS"
	// CallsEdgeType links a method to a method it invokes.
	CallsEdgeType EdgeType = "CALLS"
	// ExtendsEdgeType links a class to its superclass.
	ExtendsEdgeType EdgeType = "EXTENDS"
	// ImplementsEdgeType links a class to an interface it implements.
	ImplementsEdgeType EdgeType = "IMPLEMENTS"
	// UsesEdgeType links a code element to a type it references.
	UsesEdgeType EdgeType = "USES"
)

// GraphNode is a single element of the code property graph.
type GraphNode struct {
	ID         string                 `json:"id" mapstructure:"id"`
	Type       NodeType               `json:"type" mapstructure:"type"`
	Name       string                 `json:"name" mapstructure:"name"`
	Labels     []string               `json:"labels,omitempty" mapstructure:"labels"`
	Properties map[string]interface{} `json:"properties,omitempty" mapstructure:"properties"`

	// Embedding of the node's text (name, signature, doc) when vectorized.
	Embedding []float32 `json:"embedding,omitempty" mapstructure:"embedding"`
}

// Validate checks that the node carries its required fields.
func (n *GraphNode) Validate() error {
	if n.ID == "" {
		return ErrEmptyID
	}
	return nil
}

// Property returns a string property, or "" when absent.
func (n *GraphNode) Property(key string) string {
	if n.Properties == nil {
		return ""
	}
	if v, ok := n.Properties[key].(string); ok {
		return v
	}
	return ""
}

// HasLabel reports whether the node carries the given label.
func (n *GraphNode) HasLabel(label string) bool {
	for _, l := range n.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// GraphEdge is a typed, directed relationship between two graph nodes.
type GraphEdge struct {
	FromID     string                 `json:"from_id" mapstructure:"from_id"`
	ToID       string                 `json:"to_id" mapstructure:"to_id"`
	Type       EdgeType               `json:"type" mapstructure:"type"`
	Properties map[string]interface{} `json:"properties,omitempty" mapstructure:"properties"`
}

// Validate checks that the edge carries its required fields.
func (e *GraphEdge) Validate() error {
	if e.FromID == "" || e.ToID == "" {
		return ErrEmptyID
	}
	return nil
}

// SubGraph is a self-contained slice of the code property graph.
//
// Invariant: both endpoints of every edge in Edges are present in Nodes.
// Use AddEdge to keep the invariant; it rejects dangling edges.
type SubGraph struct {
	Nodes map[string]*GraphNode `json:"nodes"`
	Edges []*GraphEdge          `json:"edges"`
}

// NewSubGraph creates an empty SubGraph.
func NewSubGraph() *SubGraph {
	return &SubGraph{
		Nodes: make(map[string]*GraphNode),
		Edges: make([]*GraphEdge, 0),
	}
}

// AddNode inserts or replaces a node.
func (sg *SubGraph) AddNode(node *GraphNode) {
	if node == nil || node.ID == "" {
		return
	}
	sg.Nodes[node.ID] = node
}

// AddEdge appends an edge if both endpoints exist in the node set.
// Returns ErrDanglingEdge otherwise, leaving the subgraph unchanged.
func (sg *SubGraph) AddEdge(edge *GraphEdge) error {
	if edge == nil {
		return nil
	}
	if _, ok := sg.Nodes[edge.FromID]; !ok {
		return ErrDanglingEdge
	}
	if _, ok := sg.Nodes[edge.ToID]; !ok {
		return ErrDanglingEdge
	}
	sg.Edges = append(sg.Edges, edge)
	return nil
}

// HasNode reports whether a node id is present.
func (sg *SubGraph) HasNode(id string) bool {
	_, ok := sg.Nodes[id]
	return ok
}

// Validate verifies the referential-integrity invariant.
func (sg *SubGraph) Validate() error {
	for _, e := range sg.Edges {
		if !sg.HasNode(e.FromID) || !sg.HasNode(e.ToID) {
			return ErrDanglingEdge
		}
	}
	return nil
}

// Degree returns the number of edges touching the given node.
func (sg *SubGraph) Degree(id string) int {
	degree := 0
	for _, e := range sg.Edges {
		if e.FromID == id || e.ToID == id {
			degree++
		}
	}
	return degree
}
