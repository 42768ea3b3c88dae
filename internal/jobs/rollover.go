package jobs

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/shupe-carboni/pricebook-service/internal/taskqueue"
)

// rolloverDuePricesImpl promotes future price rows whose effective date has
// arrived into the current stage, then removes the promoted future rows.
// Both steps run in one transaction so a reader never sees a key with the
// old current price and no pending future, or two current rows. After the
// commit it fans out per-customer reprice tasks for every promoted series,
// since promotion is the moment current prices actually change.
// Returns the number of promoted prices.
func rolloverDuePricesImpl(ctx context.Context) (int, error) {
	pool := getPool()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin rollover transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		INSERT INTO vendor_base_prices (series, key, stage, price, effective_date, created_at, updated_at)
		SELECT series, key, 'current', price, effective_date, NOW(), NOW()
		FROM vendor_base_prices
		WHERE stage = 'future' AND effective_date <= NOW()
		ON CONFLICT (series, key, stage) DO UPDATE SET
			price = EXCLUDED.price,
			effective_date = EXCLUDED.effective_date,
			updated_at = NOW()
		RETURNING series
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to promote future prices: %w", err)
	}
	promoted := 0
	promotedSeries := make(map[string]struct{})
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to read promoted series: %w", err)
		}
		promotedSeries[s] = struct{}{}
		promoted++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to promote future prices: %w", err)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM vendor_base_prices
		WHERE stage = 'future' AND effective_date <= NOW()
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to remove promoted future prices: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit rollover: %w", err)
	}

	for s := range promotedSeries {
		enqueueRolloverReprices(ctx, s)
	}
	return promoted, nil
}

// enqueueRolloverReprices schedules a reprice_customer task for every
// customer a price change in the series can affect. Scheduling failures are
// logged, never fatal; the committed promotion stands either way. The
// customer query matches database.CustomerIDsForSeries, which this package
// cannot import.
func enqueueRolloverReprices(ctx context.Context, seriesID string) {
	pool := getPool()

	rows, err := pool.Query(ctx, `
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
	`, seriesID)
	if err != nil {
		log.Error().Str("series", seriesID).Err(err).
			Msg("Failed to list customers for rollover reprice fanout")
		return
	}
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			log.Error().Str("series", seriesID).Err(err).
				Msg("Failed to list customers for rollover reprice fanout")
			return
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		log.Error().Str("series", seriesID).Err(err).
			Msg("Failed to list customers for rollover reprice fanout")
		return
	}

	queue := taskqueue.New(pool)
	for _, id := range ids {
		result := queue.ScheduleTask(ctx, taskqueue.ScheduleTaskInput{
			TaskType: taskqueue.TaskTypeRepriceCustomer,
			Payload: taskqueue.RepriceCustomerPayload{
				CustomerID: id,
				Series:     seriesID,
				RunID:      "rollover",
			},
		})
		if result.Err != nil {
			log.Error().Int64("customer_id", id).Str("series", seriesID).
				Err(result.Err).Msg("Failed to schedule rollover reprice task")
		}
	}

	if len(ids) > 0 {
		log.Info().Str("series", seriesID).Int("customers", len(ids)).
			Msg("Enqueued customer reprices after rollover")
	}
}
