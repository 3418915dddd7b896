// Package apply pushes accumulated processing results into the record store.
// Every apply is independent: one failing record never blocks the rest.
package apply

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/platform/observability"
)

// DefaultRetryBackoff is the pause before the single retry of a failed apply.
const DefaultRetryBackoff = 200 * time.Millisecond

// Store is the slice of the record store the applier needs. Update and
// Archive are idempotent by construction: same properties in, no additional
// change out.
type Store interface {
	Update(ctx context.Context, id string, patch domain.RecordPatch) error
	Archive(ctx context.Context, id string) error
}

// Config tunes the applier.
type Config struct {
	// Workers bounds parallel applies; 1 means sequential. Each record
	// has exactly one result per run, so workers never conflict.
	Workers      int
	RetryBackoff time.Duration
	// DryRun plans and counts changes without touching the store.
	DryRun bool
}

// Summary reports what the applier did.
type Summary struct {
	Updated  int
	Deleted  int
	Skipped  int // results carrying no effective change
	Failures int // applies that failed after retry
}

type Applier struct {
	store  Store
	logger *zerolog.Logger
	cfg    Config
}

func NewApplier(store Store, cfg Config, logger *zerolog.Logger) *Applier {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}

	return &Applier{store: store, logger: logger, cfg: cfg}
}

// Apply pushes each result to the store: delete results archive the record,
// everything else becomes a typed patch. A transient failure is retried once
// with backoff; a failure after retry is counted and skipped.
func (a *Applier) Apply(ctx context.Context, records map[string]domain.Record, results []domain.ProcessingResult) Summary {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		summary Summary
	)

	sem := make(chan struct{}, a.cfg.Workers)

	for _, result := range results {
		sem <- struct{}{}

		wg.Add(1)

		go func(result domain.ProcessingResult) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := a.applyOne(ctx, records, result)

			mu.Lock()
			defer mu.Unlock()

			switch outcome {
			case outcomeUpdated:
				summary.Updated++
			case outcomeDeleted:
				summary.Deleted++
			case outcomeSkipped:
				summary.Skipped++
			case outcomeFailed:
				summary.Failures++
			}
		}(result)
	}

	wg.Wait()

	return summary
}

type applyOutcome int

const (
	outcomeSkipped applyOutcome = iota
	outcomeUpdated
	outcomeDeleted
	outcomeFailed
)

func (a *Applier) applyOne(ctx context.Context, records map[string]domain.Record, result domain.ProcessingResult) applyOutcome {
	if result.ActionTaken == domain.ActionDelete {
		if a.cfg.DryRun {
			return outcomeDeleted
		}

		if err := a.withRetry(ctx, func() error { return a.store.Archive(ctx, result.RecordID) }); err != nil {
			a.logger.Error().Err(err).Str("record_id", result.RecordID).Msg("archive failed after retry")
			observability.ApplyFailures.Inc()

			return outcomeFailed
		}

		observability.RecordsArchived.Inc()

		return outcomeDeleted
	}

	patch := buildPatch(records[result.RecordID], result)
	if patch.IsZero() {
		return outcomeSkipped
	}

	if a.cfg.DryRun {
		return outcomeUpdated
	}

	if err := a.withRetry(ctx, func() error { return a.store.Update(ctx, result.RecordID, patch) }); err != nil {
		a.logger.Error().Err(err).Str("record_id", result.RecordID).Msg("update failed after retry")
		observability.ApplyFailures.Inc()

		return outcomeFailed
	}

	return outcomeUpdated
}

// withRetry runs fn and retries exactly once after a short backoff.
func (a *Applier) withRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return err
	case <-time.After(a.cfg.RetryBackoff):
	}

	return fn()
}

// buildPatch turns a result into the typed patch handed to the store. The
// tag set is the full replacement: current tags, plus additions, minus
// removals, duplicates dropped, order preserved.
func buildPatch(rec domain.Record, result domain.ProcessingResult) domain.RecordPatch {
	patch := domain.RecordPatch{}

	if result.NewTitle != "" && result.NewTitle != rec.Title {
		title := result.NewTitle
		patch.Title = &title
	}

	if result.NewDescription != "" && result.NewDescription != rec.Description {
		description := result.NewDescription
		patch.Description = &description
	}

	if len(result.TagsAdded) > 0 || len(result.TagsRemoved) > 0 {
		merged := mergeTags(rec.Tags, result.TagsAdded, result.TagsRemoved)
		if !sameTags(merged, rec.Tags) {
			patch.Tags = merged
		}
	}

	return patch
}

func mergeTags(current, added, removed []string) []string {
	removedSet := make(map[string]bool, len(removed))
	for _, tag := range removed {
		removedSet[tag] = true
	}

	seen := make(map[string]bool, len(current)+len(added))
	merged := make([]string, 0, len(current)+len(added))

	for _, tag := range append(append([]string{}, current...), added...) {
		if removedSet[tag] || seen[tag] {
			continue
		}

		seen[tag] = true

		merged = append(merged, tag)
	}

	return merged
}

func sameTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
