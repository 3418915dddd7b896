// Package config loads application configuration from environment variables.
// A local .env file is honored when present.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`

	LLMAPIKey    string `env:"LLM_API_KEY"`
	LLMModel     string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	RateLimitRPS int    `env:"RATE_LIMIT_RPS" envDefault:"1"`

	TriageTopK          int           `env:"TRIAGE_TOP_K" envDefault:"50"`
	BatchSize           int           `env:"LLM_BATCH_SIZE" envDefault:"10"`
	BatchConcurrency    int           `env:"LLM_BATCH_CONCURRENCY" envDefault:"5"`
	BatchPause          time.Duration `env:"LLM_BATCH_PAUSE" envDefault:"500ms"`
	RunDeadline         time.Duration `env:"RUN_DEADLINE" envDefault:"0"`
	StageWorkers        int           `env:"STAGE_WORKERS" envDefault:"8"`
	ApplyWorkers        int           `env:"APPLY_WORKERS" envDefault:"1"`
	ApplyRetryBackoff   time.Duration `env:"APPLY_RETRY_BACKOFF" envDefault:"200ms"`
	QueryLimit          int           `env:"QUERY_LIMIT" envDefault:"0"`
	QueryMinWeight      float64       `env:"QUERY_MIN_WEIGHT" envDefault:"0"`
	ReportPath          string        `env:"REPORT_PATH" envDefault:"./run_report.json"`
	MetricsPort         int           `env:"METRICS_PORT" envDefault:"8080"`
	BaselineTokens      int           `env:"BASELINE_TOKENS_PER_RECORD" envDefault:"200"`
	TokenCostUSD        float64       `env:"TOKEN_COST_USD" envDefault:"0.0001"`
	TitleTruncateChars  int           `env:"TITLE_TRUNCATE_CHARS" envDefault:"100"`
	DryRun              bool          `env:"DRY_RUN" envDefault:"false"`
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"4"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

// Load reads configuration from the environment, honoring a .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.TriageTopK < 0 {
		return fmt.Errorf("TRIAGE_TOP_K must be >= 0, got %d", c.TriageTopK)
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("LLM_BATCH_SIZE must be > 0, got %d", c.BatchSize)
	}

	if c.BatchConcurrency <= 0 {
		return fmt.Errorf("LLM_BATCH_CONCURRENCY must be > 0, got %d", c.BatchConcurrency)
	}

	if c.StageWorkers <= 0 {
		return fmt.Errorf("STAGE_WORKERS must be > 0, got %d", c.StageWorkers)
	}

	if c.ApplyWorkers <= 0 {
		return fmt.Errorf("APPLY_WORKERS must be > 0, got %d", c.ApplyWorkers)
	}

	return nil
}

// IsLocal reports whether the app runs in the local environment.
func (c *Config) IsLocal() bool {
	return c.AppEnv == "local"
}
