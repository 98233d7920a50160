package search

import "time"

// Default tuning values. Conservative: shallow expansion, equal fusion
// weights.
const (
	DefaultScoreThreshold       = 0.1
	DefaultResultLimit          = 10
	DefaultExpansionDepth       = 2
	DefaultExpansionNodeCap     = 50
	DefaultLexicalWeight        = 0.5
	DefaultVectorWeight         = 0.5
	DefaultSingleSignalDiscount = 0.7
	DefaultSeedBlendWeight      = 0.6
	DefaultImportanceWeight     = 0.4
	DefaultExpansionDiscount    = 0.3
	DefaultRerankFloor          = 0.3
	DefaultSearchTimeout        = 5 * time.Second
)

// RetrievalConfig holds every tunable of the hybrid retrieval engine.
type RetrievalConfig struct {
	// ScoreThreshold drops fused results below this combined score
	// before expansion.
	ScoreThreshold float64 `json:"score_threshold" mapstructure:"score_threshold"`
	// ResultLimit caps the number of seed nodes taken from the fused
	// ranking.
	ResultLimit int `json:"result_limit" mapstructure:"result_limit"`
	// ExpansionDepth is the maximum hop distance of graph expansion.
	ExpansionDepth int `json:"expansion_depth" mapstructure:"expansion_depth"`
	// ExpansionNodeCap bounds the total node count of the expanded
	// subgraph, seeds included.
	ExpansionNodeCap int `json:"expansion_node_cap" mapstructure:"expansion_node_cap"`
	// LexicalWeight and VectorWeight control score fusion. They are
	// normalized to sum to 1 before use.
	LexicalWeight float64 `json:"lexical_weight" mapstructure:"lexical_weight"`
	VectorWeight  float64 `json:"vector_weight" mapstructure:"vector_weight"`
	// SingleSignalDiscount scales the score of nodes found by only one
	// search channel.
	SingleSignalDiscount float64 `json:"single_signal_discount" mapstructure:"single_signal_discount"`
	// SeedBlendWeight and ImportanceWeight blend the fused score with
	// the NodeScorer output for seed nodes.
	SeedBlendWeight  float64 `json:"seed_blend_weight" mapstructure:"seed_blend_weight"`
	ImportanceWeight float64 `json:"importance_weight" mapstructure:"importance_weight"`
	// ExpansionDiscount further scales surviving expansion-only nodes,
	// marking them lower-confidence than any direct hit.
	ExpansionDiscount float64 `json:"expansion_discount" mapstructure:"expansion_discount"`
	// RerankFloor is the minimum query similarity an expansion-only
	// node needs to survive re-ranking.
	RerankFloor float64 `json:"rerank_floor" mapstructure:"rerank_floor"`
	// SearchTimeout bounds each external search call.
	SearchTimeout time.Duration `json:"search_timeout" mapstructure:"search_timeout"`
}

// WithDefaults returns a copy with zero values replaced by defaults.
func (c *RetrievalConfig) WithDefaults() *RetrievalConfig {
	if c == nil {
		c = &RetrievalConfig{}
	}
	out := *c
	if out.ScoreThreshold == 0 {
		out.ScoreThreshold = DefaultScoreThreshold
	}
	if out.ResultLimit <= 0 {
		out.ResultLimit = DefaultResultLimit
	}
	if out.ExpansionDepth < 0 {
		out.ExpansionDepth = DefaultExpansionDepth
	}
	if out.ExpansionNodeCap <= 0 {
		out.ExpansionNodeCap = DefaultExpansionNodeCap
	}
	if out.LexicalWeight <= 0 && out.VectorWeight <= 0 {
		out.LexicalWeight = DefaultLexicalWeight
		out.VectorWeight = DefaultVectorWeight
	}
	if out.SingleSignalDiscount <= 0 || out.SingleSignalDiscount > 1 {
		out.SingleSignalDiscount = DefaultSingleSignalDiscount
	}
	if out.SeedBlendWeight <= 0 {
		out.SeedBlendWeight = DefaultSeedBlendWeight
	}
	if out.ImportanceWeight <= 0 {
		out.ImportanceWeight = DefaultImportanceWeight
	}
	if out.ExpansionDiscount <= 0 || out.ExpansionDiscount > 1 {
		out.ExpansionDiscount = DefaultExpansionDiscount
	}
	if out.RerankFloor <= 0 {
		out.RerankFloor = DefaultRerankFloor
	}
	if out.SearchTimeout <= 0 {
		out.SearchTimeout = DefaultSearchTimeout
	}
	return &out
}

// QueryIntent classifies what kind of retrieval a query calls for.
type QueryIntent string

const (
	// GeneralIntent is the default balanced retrieval.
	GeneralIntent QueryIntent = "general"
	// StructuralIntent favors lexical matches and deeper expansion, for
	// questions about how components relate.
	StructuralIntent QueryIntent = "structural"
	// ConceptualIntent favors vector similarity and shallow expansion,
	// for questions phrased without identifier names.
	ConceptualIntent QueryIntent = "conceptual"
)

// intentRecipes maps each intent to a precomputed configuration record.
// Built once; looked up at query time instead of branching on intent
// throughout the engine.
var intentRecipes = map[QueryIntent]*RetrievalConfig{
	GeneralIntent: {
		LexicalWeight:  0.5,
		VectorWeight:   0.5,
		ExpansionDepth: 2,
	},
	StructuralIntent: {
		LexicalWeight:    0.65,
		VectorWeight:     0.35,
		ExpansionDepth:   3,
		ExpansionNodeCap: 80,
	},
	ConceptualIntent: {
		LexicalWeight:  0.35,
		VectorWeight:   0.65,
		ExpansionDepth: 1,
		RerankFloor:    0.4,
	},
}

// RecipeFor returns the retrieval configuration for an intent, falling
// back to the general recipe for unknown intents. The returned config
// has defaults applied.
func RecipeFor(intent QueryIntent) *RetrievalConfig {
	recipe, ok := intentRecipes[intent]
	if !ok {
		recipe = intentRecipes[GeneralIntent]
	}
	return recipe.WithDefaults()
}

// ListIntents returns the known query intents.
func ListIntents() []QueryIntent {
	return []QueryIntent{GeneralIntent, StructuralIntent, ConceptualIntent}
}
