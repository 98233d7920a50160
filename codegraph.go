package codegraph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sacxy/codegraph/pkg/config"
	"github.com/Sacxy/codegraph/pkg/driver"
	"github.com/Sacxy/codegraph/pkg/embedder"
	"github.com/Sacxy/codegraph/pkg/extractor"
	"github.com/Sacxy/codegraph/pkg/llm"
	"github.com/Sacxy/codegraph/pkg/pipeline"
	"github.com/Sacxy/codegraph/pkg/search"
	"github.com/Sacxy/codegraph/pkg/types"
)

// Client is the main entry point. It owns the graph store and model
// clients and wires them into the retrieval engine and query pipeline.
type Client struct {
	config *config.Config
	logger *slog.Logger

	store     driver.GraphStore
	llmClient llm.Client
	embedder  embedder.Client
	extractor extractor.Extractor

	retriever *search.HybridRetriever
	pipeline  *pipeline.QueryPipeline
}

// NewClient builds a fully wired client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	store, err := driver.NewNeo4jStore(
		cfg.Database.URI,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Database,
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to graph store: %w", err)
	}

	llmClient := buildLLMClient(cfg, logger)
	embedderClient := embedder.NewOpenAIEmbedder(&embedder.Config{
		Model:   cfg.Embedding.Model,
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
	})
	termExtractor := extractor.NewLLMExtractor(llmClient, logger)

	retriever := search.NewHybridRetriever(store, retrievalConfig(cfg), logger)

	verifier := pipeline.NewVerificationService(store, cfg.Pipeline.ClaimTimeout, logger)
	queryPipeline := pipeline.NewQueryPipeline(
		termExtractor,
		embedderClient,
		retriever,
		pipeline.NewDistiller(0, 0),
		pipeline.NewGenerator(llmClient, logger),
		verifier,
		&pipeline.Options{
			MaxRefinements: cfg.Pipeline.MaxRefinements,
			StepTimeout:    cfg.Pipeline.StepTimeout,
		},
		logger,
	)

	return &Client{
		config:    cfg,
		logger:    logger,
		store:     store,
		llmClient: llmClient,
		embedder:  embedderClient,
		extractor: termExtractor,
		retriever: retriever,
		pipeline:  queryPipeline,
	}, nil
}

// buildLLMClient stacks retry and, when enabled, circuit breaking on
// top of the base model client.
func buildLLMClient(cfg *config.Config, logger *slog.Logger) llm.Client {
	var client llm.Client = llm.NewOpenAIClient(&llm.Config{
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	client = llm.NewRetryClient(client, llm.DefaultRetryConfig(), logger)

	if cfg.CircuitBreaker.Enabled {
		breakerCfg := llm.DefaultCircuitBreakerConfig()
		breakerCfg.MaxRequests = cfg.CircuitBreaker.MaxRequests
		breakerCfg.Interval = time.Duration(cfg.CircuitBreaker.Interval) * time.Second
		breakerCfg.Timeout = time.Duration(cfg.CircuitBreaker.Timeout) * time.Second
		breakerCfg.FailureRatio = cfg.CircuitBreaker.ReadyToTripRatio
		client = llm.NewCircuitBreakerClient(client, breakerCfg, logger)
	}
	return client
}

func retrievalConfig(cfg *config.Config) *search.RetrievalConfig {
	return &search.RetrievalConfig{
		ScoreThreshold:       cfg.Retrieval.ScoreThreshold,
		ResultLimit:          cfg.Retrieval.ResultLimit,
		ExpansionDepth:       cfg.Retrieval.ExpansionDepth,
		ExpansionNodeCap:     cfg.Retrieval.ExpansionNodeCap,
		LexicalWeight:        cfg.Retrieval.LexicalWeight,
		VectorWeight:         cfg.Retrieval.VectorWeight,
		SingleSignalDiscount: cfg.Retrieval.SingleSignalDiscount,
		RerankFloor:          cfg.Retrieval.RerankFloor,
		SearchTimeout:        cfg.Retrieval.SearchTimeout,
	}
}

// Answer runs the full query pipeline for one question.
func (c *Client) Answer(ctx context.Context, query string) *types.QueryResult {
	return c.pipeline.Execute(ctx, query)
}

// Retrieve runs hybrid retrieval only, returning the scored subgraph.
func (c *Client) Retrieve(ctx context.Context, query string) (*types.RetrievalResult, error) {
	terms, err := c.extractor.Extract(ctx, query)
	if err != nil {
		return nil, err
	}

	embedding, err := c.embedder.EmbedSingle(ctx, query)
	if err != nil {
		c.logger.Warn("query embedding failed, retrieval is lexical only", "error", err)
		embedding = nil
	}

	return c.retriever.Retrieve(ctx, terms, embedding)
}

// Ping verifies connectivity to the graph store.
func (c *Client) Ping(ctx context.Context) error {
	if p, ok := c.store.(interface{ VerifyConnectivity(context.Context) error }); ok {
		return p.VerifyConnectivity(ctx)
	}
	return nil
}

// Close releases the graph store and model clients.
func (c *Client) Close(ctx context.Context) error {
	var firstErr error
	if err := c.llmClient.Close(); err != nil {
		firstErr = err
	}
	if err := c.embedder.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.store.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
