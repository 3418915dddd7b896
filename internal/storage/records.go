package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/ametelin/record-sweeper/internal/core/domain"
	"github.com/ametelin/record-sweeper/internal/core/errors"
)

// Filter narrows the set of records returned by Query.
type Filter struct {
	MinWeight float64
	Limit     int
}

// Query returns active records ordered by ingestion time.
func (db *DB) Query(ctx context.Context, filter Filter) ([]domain.Record, error) {
	query := `SELECT id, title, description, tags, links, files, weight, status
		FROM records
		WHERE status = $1`

	args := []interface{}{string(domain.StatusActive)}

	if filter.MinWeight > 0 {
		args = append(args, filter.MinWeight)
		query += fmt.Sprintf(" AND weight >= $%d", len(args))
	}

	query += " ORDER BY created_at"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}
	defer rows.Close()

	var records []domain.Record

	for rows.Next() {
		var rec domain.Record

		var status string

		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.Tags, &rec.Links, &rec.Files, &rec.Weight, &status); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		rec.Status = domain.RecordStatus(status)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}

	return records, nil
}

// Update applies a patch to a record. Only the fields set in the patch are
// written; calling with an identical patch again is a no-op at the row level.
func (db *DB) Update(ctx context.Context, id string, patch domain.RecordPatch) error {
	if patch.IsZero() {
		return errors.ErrEmptyPatch
	}

	var (
		sets []string
		args []interface{}
	)

	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}

	if patch.Description != nil {
		args = append(args, *patch.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}

	if patch.Tags != nil {
		args = append(args, patch.Tags)
		sets = append(sets, fmt.Sprintf("tags = $%d", len(args)))
	}

	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE records SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return errors.NewStoreUnavailableError(err)
	}

	if tag.RowsAffected() == 0 {
		return errors.NewRecordNotFoundError(id)
	}

	return nil
}

// Archive flips a record to archived status. Archiving an already archived
// record succeeds without touching the row.
func (db *DB) Archive(ctx context.Context, id string) error {
	query := `UPDATE records SET status = $1, updated_at = now() WHERE id = $2 AND status <> $1`

	_, err := db.Pool.Exec(ctx, query, string(domain.StatusArchived), id)
	if err != nil {
		return errors.NewStoreUnavailableError(err)
	}

	var exists bool
	if err := db.Pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM records WHERE id = $1)", id).Scan(&exists); err != nil {
		return errors.NewStoreUnavailableError(err)
	}

	if !exists {
		return errors.NewRecordNotFoundError(id)
	}

	return nil
}
