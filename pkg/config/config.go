// Package config loads application configuration from file and
// environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// LLM configuration
	LLM LLMConfig `mapstructure:"llm" yaml:"llm"`

	// Embedding configuration
	Embedding EmbeddingConfig `mapstructure:"embedding" yaml:"embedding"`

	// Retrieval configuration
	Retrieval RetrievalConfig `mapstructure:"retrieval" yaml:"retrieval"`

	// Pipeline configuration
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker" yaml:"circuit_breaker"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
	Mode string `mapstructure:"mode" yaml:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig holds graph database configuration
type DatabaseConfig struct {
	URI      string `mapstructure:"uri" yaml:"uri"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	Database string `mapstructure:"database" yaml:"database"`
}

// LLMConfig holds language model configuration
type LLMConfig struct {
	Model       string  `mapstructure:"model" yaml:"model"`
	APIKey      string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string  `mapstructure:"base_url" yaml:"base_url"`
	Temperature float32 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// EmbeddingConfig holds embedding configuration
type EmbeddingConfig struct {
	Model   string `mapstructure:"model" yaml:"model"`
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// RetrievalConfig holds the hybrid retrieval tunables
type RetrievalConfig struct {
	ScoreThreshold       float64       `mapstructure:"score_threshold" yaml:"score_threshold"`
	ResultLimit          int           `mapstructure:"result_limit" yaml:"result_limit"`
	ExpansionDepth       int           `mapstructure:"expansion_depth" yaml:"expansion_depth"`
	ExpansionNodeCap     int           `mapstructure:"expansion_node_cap" yaml:"expansion_node_cap"`
	LexicalWeight        float64       `mapstructure:"lexical_weight" yaml:"lexical_weight"`
	VectorWeight         float64       `mapstructure:"vector_weight" yaml:"vector_weight"`
	SingleSignalDiscount float64       `mapstructure:"single_signal_discount" yaml:"single_signal_discount"`
	RerankFloor          float64       `mapstructure:"rerank_floor" yaml:"rerank_floor"`
	SearchTimeout        time.Duration `mapstructure:"search_timeout" yaml:"search_timeout"`
}

// PipelineConfig holds the query pipeline tunables
type PipelineConfig struct {
	MaxRefinements int           `mapstructure:"max_refinements" yaml:"max_refinements"`
	StepTimeout    time.Duration `mapstructure:"step_timeout" yaml:"step_timeout"`
	ClaimTimeout   time.Duration `mapstructure:"claim_timeout" yaml:"claim_timeout"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled" yaml:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests" yaml:"max_requests"`
	Interval         int     `mapstructure:"interval" yaml:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout" yaml:"timeout"`   // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio" yaml:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")

	// Database defaults
	viper.SetDefault("database.uri", "bolt://localhost:7687")
	viper.SetDefault("database.username", "neo4j")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.database", "neo4j")

	// LLM defaults
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.max_tokens", 1024)

	// Embedding defaults
	viper.SetDefault("embedding.model", "text-embedding-3-small")

	// Retrieval defaults: shallow expansion, equal fusion weights
	viper.SetDefault("retrieval.score_threshold", 0.1)
	viper.SetDefault("retrieval.result_limit", 10)
	viper.SetDefault("retrieval.expansion_depth", 2)
	viper.SetDefault("retrieval.expansion_node_cap", 50)
	viper.SetDefault("retrieval.lexical_weight", 0.5)
	viper.SetDefault("retrieval.vector_weight", 0.5)
	viper.SetDefault("retrieval.single_signal_discount", 0.7)
	viper.SetDefault("retrieval.rerank_floor", 0.3)
	viper.SetDefault("retrieval.search_timeout", "5s")

	// Pipeline defaults
	viper.SetDefault("pipeline.max_refinements", 2)
	viper.SetDefault("pipeline.step_timeout", "30s")
	viper.SetDefault("pipeline.claim_timeout", "3s")

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 3)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		if config.LLM.APIKey == "" {
			config.LLM.APIKey = apiKey
		}
		if config.Embedding.APIKey == "" {
			config.Embedding.APIKey = apiKey
		}
	}

	// Database credentials
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Database.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Database.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Database.Password = pass
	}
	if db := os.Getenv("NEO4J_DATABASE"); db != "" {
		config.Database.Database = db
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		viper.Set("server.port", port)
	}
}

// String renders the configuration as YAML with secrets redacted.
func (c *Config) String() string {
	clone := *c
	if clone.Database.Password != "" {
		clone.Database.Password = "***"
	}
	if clone.LLM.APIKey != "" {
		clone.LLM.APIKey = "***"
	}
	if clone.Embedding.APIKey != "" {
		clone.Embedding.APIKey = "***"
	}

	out, err := yaml.Marshal(&clone)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(out)
}
