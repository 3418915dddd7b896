// Package ledger aggregates per-method and per-rule success statistics after
// a run and derives the token-economics report. Summaries are persisted for
// the next run's rule tuning; they are surfaced, never applied automatically.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/platform/observability"
)

// successThreshold: a result with confidence at or above this counts as
// successful for learning purposes.
const successThreshold = 0.8

// Defaults for the naive "every record through the LLM individually"
// baseline, from observed per-record prompt sizes.
const (
	DefaultBaselineTokensPerRecord = 200
	DefaultTokenCostUSD            = 0.0001
)

// MethodStats is the per-processing-method success aggregate.
type MethodStats struct {
	Processed   int     `json:"processed"`
	Successful  int     `json:"successful"`
	SuccessRate float64 `json:"success_rate"`
}

// Report is the persisted artifact of one run: full statistics for audit
// plus the summary used for future rule confidence tuning.
type Report struct {
	GeneratedAt time.Time                               `json:"generated_at"`
	Stats       domain.RunStatistics                    `json:"stats"`
	Methods     map[domain.ProcessingMethod]MethodStats `json:"methods"`
	RuleUsage   []domain.RuleUsage                      `json:"rule_usage"`
}

// Store persists run reports and accumulates rule usage across runs.
type Store interface {
	SaveRun(ctx context.Context, report Report) error
	BumpRuleUsage(ctx context.Context, usage []domain.RuleUsage) error
}

// Config tunes the economics baseline and the audit artifact location.
type Config struct {
	BaselineTokensPerRecord int
	TokenCostUSD            float64
	ReportPath              string
}

type Ledger struct {
	store  Store
	logger *zerolog.Logger
	cfg    Config
}

func New(store Store, cfg Config, logger *zerolog.Logger) *Ledger {
	if cfg.BaselineTokensPerRecord <= 0 {
		cfg.BaselineTokensPerRecord = DefaultBaselineTokensPerRecord
	}

	if cfg.TokenCostUSD <= 0 {
		cfg.TokenCostUSD = DefaultTokenCostUSD
	}

	return &Ledger{store: store, logger: logger, cfg: cfg}
}

// Build aggregates the run's results into a report and fills in the
// economics projection on the statistics.
func (l *Ledger) Build(stats domain.RunStatistics, results []domain.ProcessingResult) Report {
	methods := make(map[domain.ProcessingMethod]MethodStats)
	ruleCounts := make(map[string]*domain.RuleUsage)

	var ruleOrder []string

	for _, result := range results {
		ms := methods[result.Method]
		ms.Processed++

		success := result.Confidence >= successThreshold
		if success {
			ms.Successful++
		}

		methods[result.Method] = ms

		for _, ruleID := range result.RuleIDs {
			usage, ok := ruleCounts[ruleID]
			if !ok {
				usage = &domain.RuleUsage{RuleID: ruleID}
				ruleCounts[ruleID] = usage
				ruleOrder = append(ruleOrder, ruleID)
			}

			usage.UsageCount++

			if success {
				usage.SuccessCount++
			}
		}
	}

	for method, ms := range methods {
		if ms.Processed > 0 {
			ms.SuccessRate = float64(ms.Successful) / float64(ms.Processed)
		}

		methods[method] = ms
	}

	ruleUsage := make([]domain.RuleUsage, 0, len(ruleOrder))

	for _, ruleID := range ruleOrder {
		usage := ruleCounts[ruleID]
		if usage.UsageCount > 0 {
			usage.SuccessRate = float64(usage.SuccessCount) / float64(usage.UsageCount)
		}

		ruleUsage = append(ruleUsage, *usage)
	}

	stats.Economics = l.economics(stats)

	observability.TokensSaved.Set(float64(stats.Economics.SavedTokens))

	return Report{
		GeneratedAt: time.Now().UTC(),
		Stats:       stats,
		Methods:     methods,
		RuleUsage:   ruleUsage,
	}
}

// economics compares actual spend against sending every record through the
// LLM individually.
func (l *Ledger) economics(stats domain.RunStatistics) domain.Economics {
	baseline := stats.TotalRecords * l.cfg.BaselineTokensPerRecord
	saved := baseline - stats.TokensUsed

	if saved < 0 {
		saved = 0
	}

	return domain.Economics{
		BaselineTokens: baseline,
		ActualTokens:   stats.TokensUsed,
		SavedTokens:    saved,
		SavedCostUSD:   float64(saved) * l.cfg.TokenCostUSD,
	}
}

// Persist saves the report to the store and writes the JSON audit artifact.
// Persistence failures are logged, never raised: a run that processed
// records should not be reported as failed because bookkeeping stumbled.
func (l *Ledger) Persist(ctx context.Context, report Report) {
	if l.store != nil {
		if err := l.store.SaveRun(ctx, report); err != nil {
			l.logger.Error().Err(err).Msg("failed to persist run report")
		}

		if len(report.RuleUsage) > 0 {
			if err := l.store.BumpRuleUsage(ctx, report.RuleUsage); err != nil {
				l.logger.Error().Err(err).Msg("failed to persist rule usage")
			}
		}
	}

	if l.cfg.ReportPath == "" {
		return
	}

	if err := l.writeArtifact(report); err != nil {
		l.logger.Error().Err(err).Str("path", l.cfg.ReportPath).Msg("failed to write report artifact")
	}
}

func (l *Ledger) writeArtifact(report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(l.cfg.ReportPath, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
