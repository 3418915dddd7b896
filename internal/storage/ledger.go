package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/core/errors"
	"github.com/ametelin/record-sweeper/internal/process/ledger"
)

// SaveRun stores the full run report as a jsonb document keyed by run id.
func (db *DB) SaveRun(ctx context.Context, report ledger.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}

	query := `INSERT INTO runs (id, started_at, finished_at, report)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET finished_at = EXCLUDED.finished_at, report = EXCLUDED.report`

	_, err = db.Pool.Exec(ctx, query,
		report.Stats.RunID, report.Stats.StartedAt, report.Stats.FinishedAt, payload)
	if err != nil {
		return errors.NewStoreUnavailableError(err)
	}

	return nil
}

// BumpRuleUsage accumulates per-rule usage counters across runs. Success
// rate is derived on read so the counters stay additive.
func (db *DB) BumpRuleUsage(ctx context.Context, usage []domain.RuleUsage) error {
	query := `INSERT INTO rule_usage (rule_id, usage_count, success_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (rule_id) DO UPDATE SET
			usage_count = rule_usage.usage_count + EXCLUDED.usage_count,
			success_count = rule_usage.success_count + EXCLUDED.success_count,
			updated_at = now()`

	for _, u := range usage {
		if _, err := db.Pool.Exec(ctx, query, u.RuleID, u.UsageCount, u.SuccessCount); err != nil {
			return errors.NewStoreUnavailableError(err)
		}
	}

	return nil
}

// RuleUsage returns accumulated rule counters, most used first. The report
// surfaces these for prompt and rule tuning between runs.
func (db *DB) RuleUsage(ctx context.Context) ([]domain.RuleUsage, error) {
	query := `SELECT rule_id, usage_count, success_count FROM rule_usage ORDER BY usage_count DESC`

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}
	defer rows.Close()

	var out []domain.RuleUsage

	for rows.Next() {
		var u domain.RuleUsage

		if err := rows.Scan(&u.RuleID, &u.UsageCount, &u.SuccessCount); err != nil {
			return nil, fmt.Errorf("scan rule usage: %w", err)
		}

		if u.UsageCount > 0 {
			u.SuccessRate = float64(u.SuccessCount) / float64(u.UsageCount)
		}

		out = append(out, u)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}

	return out, nil
}
