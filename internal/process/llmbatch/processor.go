package llmbatch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/core/llm"
	"github.com/ametelin/record-sweeper/internal/platform/observability"
)

const (
	// llmConfidence is the fixed confidence of an LLM batch result; the
	// reply is never verified, so it stays below the deterministic rules.
	llmConfidence = 0.85

	// DefaultConcurrency bounds simultaneous batch calls to avoid
	// rate-limit errors on the LLM API.
	DefaultConcurrency = 5

	// DefaultPause is the inter-batch pause used for sequential runs.
	DefaultPause = 500 * time.Millisecond

	metricStatusOK     = "ok"
	metricStatusFailed = "failed"
)

// Config tunes the processor. Zero values fall back to package defaults.
type Config struct {
	BatchSize     int
	Concurrency   int
	Pause         time.Duration
	TitleTruncate int
}

// Result is the aggregate outcome of processing all escalated items.
type Result struct {
	Results       []domain.ProcessingResult
	BatchesIssued int
	BatchesFailed int
	TokensUsed    int
}

// Processor groups escalated records into batches and resolves them through
// the completion client.
type Processor struct {
	client llm.Client
	logger *zerolog.Logger
	cfg    Config
}

func NewProcessor(client llm.Client, cfg Config, logger *zerolog.Logger) *Processor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	if cfg.Pause <= 0 {
		cfg.Pause = DefaultPause
	}

	if cfg.TitleTruncate <= 0 {
		cfg.TitleTruncate = DefaultTitleTruncate
	}

	return &Processor{client: client, logger: logger, cfg: cfg}
}

// Process issues one completion per batch, up to the concurrency limit.
// When the context expires, in-flight batches are allowed to complete but no
// new batches are started; their records simply stay unresolved for the run.
func (p *Processor) Process(ctx context.Context, items []Item) Result {
	batches := BuildBatches(items, p.cfg.BatchSize, p.cfg.TitleTruncate)
	if len(batches) == 0 {
		return Result{}
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out Result
	)

	sem := make(chan struct{}, p.cfg.Concurrency)

	for i, batch := range batches {
		if ctx.Err() != nil {
			p.logger.Warn().
				Int("batches_remaining", len(batches)-i).
				Msg("deadline reached, not starting new batches")

			break
		}

		if p.cfg.Concurrency == 1 && i > 0 {
			time.Sleep(p.cfg.Pause)
		}

		sem <- struct{}{}

		wg.Add(1)

		go func(batch Batch) {
			defer wg.Done()
			defer func() { <-sem }()

			results, tokens, err := p.processBatch(ctx, batch)

			mu.Lock()
			defer mu.Unlock()

			out.BatchesIssued++
			out.TokensUsed += tokens

			if err != nil {
				out.BatchesFailed++

				observability.LLMBatches.WithLabelValues(metricStatusFailed).Inc()
				p.logger.Warn().
					Err(err).
					Str("category", batch.Category).
					Int("items", len(batch.Items)).
					Msg("batch failed, records stay unresolved this run")

				return
			}

			observability.LLMBatches.WithLabelValues(metricStatusOK).Inc()

			out.Results = append(out.Results, results...)
		}(batch)
	}

	wg.Wait()

	observability.LLMTokensUsed.Add(float64(out.TokensUsed))

	return out
}

// processBatch runs a single batch to completion. The call itself is shielded
// from cancellation so a batch in flight at the deadline still finishes.
func (p *Processor) processBatch(ctx context.Context, batch Batch) ([]domain.ProcessingResult, int, error) {
	start := time.Now()

	completion, err := p.client.Complete(context.WithoutCancel(ctx), batch.Prompt)

	observability.LLMRequestDuration.WithLabelValues(batch.Category).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, 0, err
	}

	answers, err := parseReply(completion.Text, len(batch.Items))
	if err != nil {
		// Fail closed: the whole batch is rejected, tokens are still billed.
		return nil, completion.TokensUsed, err
	}

	results := make([]domain.ProcessingResult, 0, len(batch.Items))

	perItem, remainder := splitTokens(completion.TokensUsed, len(batch.Items))

	for i, it := range batch.Items {
		tokens := perItem
		if i == 0 {
			tokens += remainder
		}

		result := domain.ProcessingResult{
			RecordID:            it.Record.ID,
			OriginalTitle:       it.Record.Title,
			OriginalDescription: it.Record.Description,
			ActionTaken:         domain.ActionLLMBatch,
			Confidence:          llmConfidence,
			Method:              domain.MethodLLMBatch,
			TokensUsed:          tokens,
		}

		if answers[i] != it.Record.Title {
			result.NewTitle = answers[i]
		}

		results = append(results, result)
	}

	return results, completion.TokensUsed, nil
}

// splitTokens attributes batch tokens per item; the remainder goes to the
// first item so batch totals still sum. Approximate accounting is acceptable.
func splitTokens(total, items int) (perItem, remainder int) {
	if items <= 0 {
		return 0, 0
	}

	return total / items, total % items
}
