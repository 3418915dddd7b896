// Package pipeline drives one cleanup run stage by stage: feature
// extraction, deterministic rules and scoring in a bounded worker pool,
// priority triage, batched LLM escalation, change application and the
// statistics ledger. No error aborts a run; partial completion with accurate
// statistics is always the fallback.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/platform/observability"
	"github.com/ametelin/record-sweeper/internal/process/apply"
	"github.com/ametelin/record-sweeper/internal/process/extract"
	"github.com/ametelin/record-sweeper/internal/process/ledger"
	"github.com/ametelin/record-sweeper/internal/process/llmbatch"
	"github.com/ametelin/record-sweeper/internal/process/rules"
	"github.com/ametelin/record-sweeper/internal/process/triage"
)

const (
	// DefaultTopK is the single lever controlling LLM spend per run.
	DefaultTopK = 50

	// DefaultStageWorkers bounds record-level parallelism in the
	// rule/scoring stage.
	DefaultStageWorkers = 8
)

// Options tunes one pipeline run.
type Options struct {
	TopK         int
	StageWorkers int
	// Deadline bounds the whole run; zero means no deadline. When it
	// expires mid-run, in-flight batches complete, no new ones start, and
	// accumulated results are still applied.
	Deadline time.Duration
}

type Pipeline struct {
	engine    *rules.Engine
	processor *llmbatch.Processor
	applier   *apply.Applier
	ledger    *ledger.Ledger
	logger    *zerolog.Logger
	opts      Options
}

func New(engine *rules.Engine, processor *llmbatch.Processor, applier *apply.Applier, runLedger *ledger.Ledger, opts Options, logger *zerolog.Logger) *Pipeline {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}

	if opts.StageWorkers <= 0 {
		opts.StageWorkers = DefaultStageWorkers
	}

	return &Pipeline{
		engine:    engine,
		processor: processor,
		applier:   applier,
		ledger:    runLedger,
		logger:    logger,
		opts:      opts,
	}
}

// recordOutcome is the per-record output of the deterministic stage.
// Exactly one of result/candidate is set for valid records.
type recordOutcome struct {
	result      *domain.ProcessingResult
	candidate   *triage.Candidate
	skipped     bool
	rulesFired  int
	rulesBroken int
}

// Run executes one full cleanup run over the given records and returns its
// statistics. Errors inside stages are absorbed into counters; the returned
// error is reserved for a canceled context before any work happened.
func (p *Pipeline) Run(ctx context.Context, records []domain.Record) (domain.RunStatistics, error) {
	if err := ctx.Err(); err != nil {
		return domain.RunStatistics{}, err
	}

	if p.opts.Deadline > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.opts.Deadline)
		defer cancel()
	}

	start := time.Now()

	stats := domain.RunStatistics{
		RunID:        uuid.NewString(),
		StartedAt:    start.UTC(),
		TotalRecords: len(records),
	}

	p.logger.Info().
		Str("run_id", stats.RunID).
		Int("records", len(records)).
		Msg("starting cleanup run")

	outcomes := p.deterministicStage(ctx, records)

	var (
		results    []domain.ProcessingResult
		candidates []triage.Candidate
	)

	for _, outcome := range outcomes {
		stats.RulesApplied += outcome.rulesFired
		stats.RulesSkipped += outcome.rulesBroken

		switch {
		case outcome.skipped:
			stats.SkippedInvalid++

			observability.RecordsSkipped.Inc()
		case outcome.result != nil:
			results = append(results, *outcome.result)
		case outcome.candidate != nil:
			candidates = append(candidates, *outcome.candidate)
		}
	}

	selected := triage.SelectTopK(candidates, p.opts.TopK)
	stats.Escalated = len(selected)

	observability.RecordsEscalated.Add(float64(len(selected)))

	items := make([]llmbatch.Item, 0, len(selected))
	for _, candidate := range selected {
		items = append(items, llmbatch.Item{Record: candidate.Record, Features: candidate.Features})
	}

	batchOut := p.processor.Process(ctx, items)
	stats.BatchesIssued = batchOut.BatchesIssued
	stats.BatchesFailed = batchOut.BatchesFailed
	stats.TokensUsed = batchOut.TokensUsed
	results = append(results, batchOut.Results...)

	for _, result := range results {
		observability.RecordsProcessed.WithLabelValues(string(result.Method)).Inc()

		switch result.Method {
		case domain.MethodDeterministic:
			stats.AutoProcessed++
		case domain.MethodMediaAnalysis:
			stats.MediaProcessed++
		case domain.MethodLLMBatch:
			stats.LLMProcessed++
		}
	}

	// Results already paid for are applied even if the deadline expired.
	applyCtx := context.WithoutCancel(ctx)

	summary := p.applier.Apply(applyCtx, recordsByID(records), results)
	stats.Updated = summary.Updated
	stats.Deleted = summary.Deleted
	stats.ApplyFailures = summary.Failures

	stats.FinishedAt = time.Now().UTC()

	report := p.ledger.Build(stats, results)
	stats = report.Stats

	p.ledger.Persist(applyCtx, report)

	observability.RunDuration.Observe(time.Since(start).Seconds())

	p.logger.Info().
		Str("run_id", stats.RunID).
		Int("auto_processed", stats.AutoProcessed).
		Int("media_processed", stats.MediaProcessed).
		Int("llm_processed", stats.LLMProcessed).
		Int("escalated", stats.Escalated).
		Int("unresolved", stats.Unresolved()).
		Int("tokens_used", stats.TokensUsed).
		Int("updated", stats.Updated).
		Int("deleted", stats.Deleted).
		Int("apply_failures", stats.ApplyFailures).
		Msg("cleanup run finished")

	return stats, nil
}

// deterministicStage runs extraction, rules and scoring per record with a
// bounded worker pool. Work is independent; each worker writes only its own
// index, and candidate order follows ingestion order.
func (p *Pipeline) deterministicStage(ctx context.Context, records []domain.Record) []recordOutcome {
	outcomes := make([]recordOutcome, len(records))

	indexes := make(chan int)

	done := make(chan struct{})

	workers := p.opts.StageWorkers
	for w := 0; w < workers; w++ {
		go func() {
			for i := range indexes {
				outcomes[i] = p.processRecord(records[i])
			}

			done <- struct{}{}
		}()
	}

	for i := range records {
		select {
		case <-ctx.Done():
			// Leftover records stay unresolved and carry over.
		case indexes <- i:
			continue
		}

		break
	}

	close(indexes)

	for w := 0; w < workers; w++ {
		<-done
	}

	return outcomes
}

func (p *Pipeline) processRecord(rec domain.Record) recordOutcome {
	if rec.ID == "" {
		p.logger.Warn().Str("title", rec.Title).Msg("skipping record without id")

		return recordOutcome{skipped: true}
	}

	features := extract.Extract(rec)

	outcome := p.engine.Process(rec, features)
	if outcome.Result != nil {
		return recordOutcome{
			result:      outcome.Result,
			rulesFired:  outcome.RulesApplied,
			rulesBroken: outcome.RulesSkipped,
		}
	}

	return recordOutcome{
		candidate: &triage.Candidate{
			Record:      rec,
			Features:    features,
			Controversy: triage.Controversy(rec, features),
		},
		rulesFired:  outcome.RulesApplied,
		rulesBroken: outcome.RulesSkipped,
	}
}

func recordsByID(records []domain.Record) map[string]domain.Record {
	byID := make(map[string]domain.Record, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	return byID
}
