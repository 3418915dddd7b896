// Package app wires the sweeper's dependencies and runs one cleanup pass:
// query active records, run the deterministic and LLM stages, apply changes
// and persist the run ledger.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ametelin/record-sweeper/internal/core/llm"
	"github.com/ametelin/record-sweeper/internal/pipeline"
	"github.com/ametelin/record-sweeper/internal/platform/config"
	"github.com/ametelin/record-sweeper/internal/process/apply"
	"github.com/ametelin/record-sweeper/internal/process/ledger"
	"github.com/ametelin/record-sweeper/internal/process/llmbatch"
	"github.com/ametelin/record-sweeper/internal/process/rules"
	"github.com/ametelin/record-sweeper/internal/storage"
)

// App holds the application dependencies.
type App struct {
	cfg      *config.Config
	database *storage.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *storage.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// RunOnce executes a single sweep over the active records.
func (a *App) RunOnce(ctx context.Context) error {
	records, err := a.database.Query(ctx, storage.Filter{
		MinWeight: a.cfg.QueryMinWeight,
		Limit:     a.cfg.QueryLimit,
	})
	if err != nil {
		return fmt.Errorf("query records: %w", err)
	}

	if len(records) == 0 {
		a.logger.Info().Msg("no active records to sweep")
		return nil
	}

	a.logger.Info().Int("records", len(records)).Msg("starting sweep")

	engine := rules.NewEngine(rules.DefaultRuleSet(), a.logger)

	processor := llmbatch.NewProcessor(a.newLLMClient(), llmbatch.Config{
		BatchSize:     a.cfg.BatchSize,
		Concurrency:   a.cfg.BatchConcurrency,
		Pause:         a.cfg.BatchPause,
		TitleTruncate: a.cfg.TitleTruncateChars,
	}, a.logger)

	applier := apply.NewApplier(a.database, apply.Config{
		Workers:      a.cfg.ApplyWorkers,
		RetryBackoff: a.cfg.ApplyRetryBackoff,
		DryRun:       a.cfg.DryRun,
	}, a.logger)

	runLedger := ledger.New(a.database, ledger.Config{
		BaselineTokensPerRecord: a.cfg.BaselineTokens,
		TokenCostUSD:            a.cfg.TokenCostUSD,
		ReportPath:              a.cfg.ReportPath,
	}, a.logger)

	p := pipeline.New(engine, processor, applier, runLedger, pipeline.Options{
		TopK:         a.cfg.TriageTopK,
		StageWorkers: a.cfg.StageWorkers,
		Deadline:     a.cfg.RunDeadline,
	}, a.logger)

	stats, err := p.Run(ctx, records)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	a.logger.Info().
		Str("run_id", stats.RunID).
		Int("updated", stats.Updated).
		Int("deleted", stats.Deleted).
		Int("tokens_used", stats.TokensUsed).
		Int("saved_tokens", stats.Economics.SavedTokens).
		Msg("sweep finished")

	return nil
}

// newLLMClient returns the OpenAI-backed client, or a mock when no API key
// is configured so local dry runs never hit the network.
func (a *App) newLLMClient() llm.Client {
	if a.cfg.LLMAPIKey == "" {
		a.logger.Warn().Msg("LLM_API_KEY not set, using mock LLM client")
		return llm.NewMockClient()
	}

	return llm.NewOpenAI(a.cfg, a.logger)
}
