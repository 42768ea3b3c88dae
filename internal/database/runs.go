package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateRun inserts a new price_update_runs row in the received state and
// returns its id.
func CreateRun(ctx context.Context, series, source string, effectiveDate time.Time, filename *string) (string, error) {
	pool := Pool()

	runID := "run_" + uuid.New().String()
	now := time.Now()

	_, err := pool.Exec(ctx, `
		INSERT INTO price_update_runs (id, series, status, source, effective_date, filename, started_at, created_at)
		VALUES ($1, $2, 'received', $3, $4, $5, $6, $6)
	`, runID, series, source, effectiveDate, filename, now)
	if err != nil {
		return "", fmt.Errorf("failed to create update run: %w", err)
	}
	return runID, nil
}

// SetRunStatusTx advances a run through the update state machine inside the
// update's own transaction, so a rollback also erases the intermediate
// states and an observer never reads staged or applied off a failed run.
func SetRunStatusTx(ctx context.Context, tx pgx.Tx, runID, status string) error {
	_, err := tx.Exec(ctx, `
		UPDATE price_update_runs SET status = $2 WHERE id = $1
	`, runID, status)
	return err
}

// FinishRun records the terminal state and counters of a run.
func FinishRun(ctx context.Context, runID, status string, accepted, rejected, newProducts, futurePrices int, errorMessage *string) error {
	_, err := Pool().Exec(ctx, `
		UPDATE price_update_runs
		SET status = $2, accepted = $3, rejected = $4, new_products = $5,
		    future_prices = $6, error_message = $7, completed_at = NOW()
		WHERE id = $1
	`, runID, status, accepted, rejected, newProducts, futurePrices, errorMessage)
	return err
}

// SetRunArchivePath records where the uploaded workbook was archived.
func SetRunArchivePath(ctx context.Context, runID, archivePath string) error {
	_, err := Pool().Exec(ctx, `
		UPDATE price_update_runs SET archive_path = $2 WHERE id = $1
	`, runID, archivePath)
	return err
}

// GetRun fetches one run by id.
func GetRun(ctx context.Context, runID string) (*PriceUpdateRun, error) {
	var run PriceUpdateRun
	err := Pool().QueryRow(ctx, `
		SELECT id, series, status, source, effective_date, filename, archive_path,
		       accepted, rejected, new_products, future_prices, error_message,
		       started_at, completed_at, created_at
		FROM price_update_runs
		WHERE id = $1
	`, runID).Scan(
		&run.ID, &run.Series, &run.Status, &run.Source, &run.EffectiveDate,
		&run.Filename, &run.ArchivePath, &run.Accepted, &run.Rejected,
		&run.NewProducts, &run.FuturePrices, &run.ErrorMessage,
		&run.StartedAt, &run.CompletedAt, &run.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns recent runs, optionally filtered by series.
func ListRuns(ctx context.Context, series string, limit int) ([]PriceUpdateRun, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, series, status, source, effective_date, filename, archive_path,
		       accepted, rejected, new_products, future_prices, error_message,
		       started_at, completed_at, created_at
		FROM price_update_runs
	`
	args := []interface{}{}
	if series != "" {
		query += ` WHERE series = $1`
		args = append(args, series)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]PriceUpdateRun, 0)
	for rows.Next() {
		var run PriceUpdateRun
		if err := rows.Scan(
			&run.ID, &run.Series, &run.Status, &run.Source, &run.EffectiveDate,
			&run.Filename, &run.ArchivePath, &run.Accepted, &run.Rejected,
			&run.NewProducts, &run.FuturePrices, &run.ErrorMessage,
			&run.StartedAt, &run.CompletedAt, &run.CreatedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// MarkInterruptedRuns fails runs left in a non-terminal state by a previous
// process, so a crashed update never looks in-flight forever. Staged work
// lives in a transaction-scoped temp table, so nothing needs undoing here.
func MarkInterruptedRuns(ctx context.Context) (int, error) {
	tag, err := Pool().Exec(ctx, `
		UPDATE price_update_runs
		SET status = 'rolled_back',
		    error_message = 'interrupted by service restart',
		    completed_at = NOW()
		WHERE status IN ('received', 'staged', 'applied')
	`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// CleanupOldRuns deletes terminal runs older than the retention window.
func CleanupOldRuns(ctx context.Context, daysToKeep int) (int, error) {
	tag, err := Pool().Exec(ctx, `
		DELETE FROM price_update_runs
		WHERE status IN ('committed', 'rolled_back')
		  AND created_at < NOW() - make_interval(days => $1)
	`, daysToKeep)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// CustomerIDsForSeries lists every customer holding an arrangement that a
// price change in the series can affect.
func CustomerIDsForSeries(ctx context.Context, series string) ([]int64, error) {
	rows, err := Pool().Query(ctx, `
		SELECT DISTINCT customer_id FROM (
			SELECT mgd.customer_id
			FROM material_group_discounts mgd
			UNION
			SELECT snp.customer_id
			FROM special_net_prices snp
			JOIN vendor_products vp ON vp.model_number = snp.model_number
			WHERE vp.series = $1
		) c
		ORDER BY customer_id
	`, series)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
