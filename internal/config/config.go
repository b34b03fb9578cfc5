package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	LLM      LLMConfig
	Search   SearchConfig
	Pipeline PipelineConfig
	Ranking  RankingConfig
	Logging  LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int    `env:"SERVER_PORT" envDefault:"8080"`
	Host           string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	GinMode        string `env:"GIN_MODE" envDefault:"release"`
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	AllowedMethods string `env:"CORS_ALLOWED_METHODS" envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders string `env:"CORS_ALLOWED_HEADERS" envDefault:"Content-Type,Authorization"`
}

// DatabaseConfig holds PostgreSQL configuration. An empty DSN with no host
// disables persistence.
type DatabaseConfig struct {
	DSN                string `env:"DATABASE_URL"`
	Host               string `env:"PG_HOST"`
	Port               int    `env:"PG_PORT" envDefault:"5432"`
	User               string `env:"PG_USER" envDefault:"postgres"`
	Password           string `env:"PG_PASSWORD"`
	Database           string `env:"PG_DATABASE" envDefault:"stylelens"`
	SSLMode            string `env:"PG_SSLMODE" envDefault:"disable"`
	MaxConnections     int    `env:"PG_MAX_CONNECTIONS" envDefault:"25"`
	MaxIdleConnections int    `env:"PG_MAX_IDLE_CONNECTIONS" envDefault:"5"`
}

// RedisConfig holds search cache configuration. An empty address disables caching.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	Prefix   string        `env:"REDIS_PREFIX" envDefault:"stylelens:"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"30m"`
}

// LLMConfig holds the stylist chat-completion configuration
type LLMConfig struct {
	APIKey      string  `env:"LLM_API_KEY"`
	APIBase     string  `env:"LLM_API_BASE" envDefault:"https://api.openai.com/v1"`
	Model       string  `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	Temperature float64 `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	TopP        float64 `env:"LLM_TOP_P" envDefault:"0.9"`
	MaxTokens   int     `env:"LLM_MAX_TOKENS" envDefault:"2048"`
	// ExtraBody is a JSON object merged into every request, e.g. {"chat_template_kwargs":{"thinking":true}}
	ExtraBody string        `env:"LLM_EXTRA_BODY"`
	Timeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
}

// Enabled reports whether a stylist can be constructed
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// SearchConfig holds the web product search configuration
type SearchConfig struct {
	Endpoint          string        `env:"SEARCH_ENDPOINT" envDefault:"https://google.serper.dev/search"`
	APIKey            string        `env:"SEARCH_API_KEY"`
	Country           string        `env:"SEARCH_COUNTRY" envDefault:"in"`
	Language          string        `env:"SEARCH_LANGUAGE" envDefault:"en"`
	ResultsPerQuery   int           `env:"SEARCH_RESULTS_PER_QUERY" envDefault:"10"`
	QueriesPerTerm    int           `env:"SEARCH_QUERIES_PER_TERM" envDefault:"2"`
	MaxTerms          int           `env:"SEARCH_MAX_TERMS" envDefault:"5"`
	MaxConcurrent     int           `env:"SEARCH_MAX_CONCURRENT" envDefault:"4"`
	RequestsPerSecond float64       `env:"SEARCH_RPS" envDefault:"5"`
	Timeout           time.Duration `env:"SEARCH_TIMEOUT" envDefault:"15s"`
	MaxResults        int           `env:"SEARCH_MAX_RESULTS" envDefault:"40"`
}

// Enabled reports whether a search client can be constructed
func (c SearchConfig) Enabled() bool {
	return c.APIKey != ""
}

// PipelineConfig holds the analyzer thresholds and limits
type PipelineConfig struct {
	TablesFile           string `env:"KEYWORD_TABLES_FILE"`
	FreeTextThreshold    int    `env:"FREE_TEXT_THRESHOLD" envDefault:"5"`
	SearchQueryThreshold int    `env:"SEARCH_QUERY_THRESHOLD" envDefault:"8"`
	MaxCandidates        int    `env:"MAX_CANDIDATES" envDefault:"30"`
	MaxQueriesPerTerm    int    `env:"MAX_QUERIES_PER_TERM" envDefault:"25"`
	MinConfidence        int    `env:"MIN_CONFIDENCE" envDefault:"30"`
}

// RankingConfig holds ranking weights configuration
type RankingConfig struct {
	WeightRelevance  float64 `env:"RANK_WEIGHT_RELEVANCE" envDefault:"0.5"`
	WeightConfidence float64 `env:"RANK_WEIGHT_CONFIDENCE" envDefault:"0.3"`
	WeightBudget     float64 `env:"RANK_WEIGHT_BUDGET" envDefault:"0.2"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads configuration from the environment, after an optional .env file
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads configuration from the environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects limits and thresholds that would disable the pipeline
func (c *Config) Validate() error {
	var errs []error
	positive := map[string]int{
		"SERVER_PORT":              c.Server.Port,
		"FREE_TEXT_THRESHOLD":      c.Pipeline.FreeTextThreshold,
		"SEARCH_QUERY_THRESHOLD":   c.Pipeline.SearchQueryThreshold,
		"MAX_CANDIDATES":           c.Pipeline.MaxCandidates,
		"MAX_QUERIES_PER_TERM":     c.Pipeline.MaxQueriesPerTerm,
		"SEARCH_RESULTS_PER_QUERY": c.Search.ResultsPerQuery,
		"SEARCH_MAX_CONCURRENT":    c.Search.MaxConcurrent,
	}
	for _, key := range slices.Sorted(maps.Keys(positive)) {
		if positive[key] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", key, positive[key]))
		}
	}
	if c.Pipeline.MinConfidence < 0 || c.Pipeline.MinConfidence > 100 {
		errs = append(errs, fmt.Errorf("MIN_CONFIDENCE must be within 0..100, got %d", c.Pipeline.MinConfidence))
	}
	if c.Search.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("SEARCH_RPS must be positive, got %g", c.Search.RequestsPerSecond))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DatabaseEnabled reports whether persistence is configured
func (c *Config) DatabaseEnabled() bool {
	return c.Database.DSN != "" || c.Database.Host != ""
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// CORSList splits a comma separated CORS setting
func CORSList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
