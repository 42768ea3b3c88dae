package update

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/shupe-carboni/pricebook-service/internal/database"
	"github.com/shupe-carboni/pricebook-service/internal/taskqueue"
	"github.com/shupe-carboni/pricebook-service/internal/telemetry"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// Engine applies staged price updates. One Apply call is one all-or-nothing
// transaction; the run row records the state machine, with the intermediate
// states written inside the transaction so a rolled-back run never exposes
// them.
type Engine struct {
	pool  *pgxpool.Pool
	queue *taskqueue.TaskQueue
}

func NewEngine(pool *pgxpool.Pool, queue *taskqueue.TaskQueue) *Engine {
	return &Engine{pool: pool, queue: queue}
}

// Apply stages the parsed sheet into a transaction-scoped scratch table,
// derives newly seen products, inserts future-effective price rows, and
// commits. Any failure rolls the whole transaction back; current prices are
// never touched. After commit it enqueues per-customer reprice tasks and
// returns without waiting for them.
func (e *Engine) Apply(ctx context.Context, runID string, sheet *ParsedSheet, effectiveDate time.Time) (*types.UpdateResult, error) {
	result := &types.UpdateResult{
		RunID:         runID,
		Series:        sheet.Series,
		Accepted:      len(sheet.Rows),
		Rejected:      sheet.Rejected,
		EffectiveDate: effectiveDate,
	}

	if len(sheet.Rows) == 0 {
		return e.fail(ctx, runID, result, fmt.Errorf("price sheet for %s contained no usable rows", sheet.Series))
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return e.fail(ctx, runID, result, fmt.Errorf("begin update transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	if err := e.stage(ctx, tx, sheet); err != nil {
		return e.fail(ctx, runID, result, err)
	}
	result.Status = types.UpdateStaged
	_ = database.SetRunStatusTx(ctx, tx, runID, "staged")

	newProducts, futurePrices, err := e.applyStaged(ctx, tx, sheet.Series, effectiveDate)
	if err != nil {
		return e.fail(ctx, runID, result, err)
	}
	result.NewProducts = newProducts
	result.FuturePrices = futurePrices
	result.Status = types.UpdateApplied
	_ = database.SetRunStatusTx(ctx, tx, runID, "applied")

	if err := tx.Commit(ctx); err != nil {
		return e.fail(ctx, runID, result, fmt.Errorf("commit update transaction: %w", err))
	}

	result.Status = types.UpdateCommitted
	telemetry.UpdateRuns.WithLabelValues("committed").Inc()
	if err := database.FinishRun(ctx, runID, "committed",
		result.Accepted, result.Rejected, result.NewProducts, result.FuturePrices, nil); err != nil {
		log.Error().Str("run_id", runID).Err(err).Msg("Failed to finish update run record")
	}

	// Customer net prices are recomputed in the background, one transaction
	// per customer. Requests arriving before the recompute finishes may read
	// stale customer figures; this window is accepted, not remediated.
	e.enqueueReprices(ctx, sheet.Series, runID)

	return result, nil
}

// stage creates the transaction-scoped scratch table and bulk-loads the
// sheet rows into it. ON COMMIT DROP ties the table's lifetime to the
// transaction, so neither commit nor rollback leaves it behind.
func (e *Engine) stage(ctx context.Context, tx pgx.Tx, sheet *ParsedSheet) error {
	_, err := tx.Exec(ctx, `
		CREATE TEMP TABLE price_update_staging (
			model_number TEXT NOT NULL,
			key          TEXT NOT NULL,
			price        INTEGER NOT NULL
		) ON COMMIT DROP
	`)
	if err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"price_update_staging"},
		[]string{"model_number", "key", "price"},
		pgx.CopyFromSlice(len(sheet.Rows), func(i int) ([]interface{}, error) {
			r := sheet.Rows[i]
			return []interface{}{r.ModelNumber, r.Key, r.PriceCents}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("stage price rows: %w", err)
	}
	return nil
}

// applyStaged derives new products and inserts future price rows from the
// scratch table. An existing pending future row for a key is replaced; the
// current row is never written.
func (e *Engine) applyStaged(ctx context.Context, tx pgx.Tx, seriesID string, effectiveDate time.Time) (newProducts, futurePrices int, err error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO vendor_products (series, model_number, key, created_at, updated_at)
		SELECT $1, s.model_number, s.key, NOW(), NOW()
		FROM price_update_staging s
		WHERE NOT EXISTS (
			SELECT 1 FROM vendor_products vp
			WHERE vp.series = $1 AND vp.model_number = s.model_number
		)
	`, seriesID)
	if err != nil {
		return 0, 0, fmt.Errorf("derive new products: %w", err)
	}
	newProducts = int(tag.RowsAffected())

	tag, err = tx.Exec(ctx, `
		INSERT INTO vendor_base_prices (series, key, stage, price, effective_date, created_at, updated_at)
		SELECT DISTINCT ON (s.key) $1, s.key, 'future', s.price, $2, NOW(), NOW()
		FROM price_update_staging s
		ORDER BY s.key, s.model_number
		ON CONFLICT (series, key, stage) DO UPDATE SET
			price = EXCLUDED.price,
			effective_date = EXCLUDED.effective_date,
			updated_at = NOW()
	`, seriesID, effectiveDate)
	if err != nil {
		return 0, 0, fmt.Errorf("insert future prices: %w", err)
	}
	futurePrices = int(tag.RowsAffected())

	return newProducts, futurePrices, nil
}

// fail records the rolled-back terminal state and surfaces the error.
func (e *Engine) fail(ctx context.Context, runID string, result *types.UpdateResult, cause error) (*types.UpdateResult, error) {
	result.Status = types.UpdateRolledBack
	telemetry.UpdateRuns.WithLabelValues("rolled_back").Inc()

	message := cause.Error()
	if err := database.FinishRun(ctx, runID, "rolled_back",
		result.Accepted, result.Rejected, 0, 0, &message); err != nil {
		log.Error().Str("run_id", runID).Err(err).Msg("Failed to record rolled back run")
	}

	log.Error().Str("run_id", runID).Str("series", result.Series).Err(cause).
		Msg("Price update rolled back")
	return result, cause
}
