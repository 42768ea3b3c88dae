package update

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/shupe-carboni/pricebook-service/internal/database"
	"github.com/shupe-carboni/pricebook-service/internal/pricing"
	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/series"
	"github.com/shupe-carboni/pricebook-service/internal/taskqueue"
	"github.com/shupe-carboni/pricebook-service/internal/telemetry"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// enqueueReprices schedules one reprice_customer task per affected customer.
// Scheduling failures are logged and do not fail the committed update; the
// sweeper and queue retries pick up the slack.
func (e *Engine) enqueueReprices(ctx context.Context, seriesID, runID string) {
	if e.queue == nil {
		return
	}

	customerIDs, err := database.CustomerIDsForSeries(ctx, seriesID)
	if err != nil {
		log.Error().Str("series", seriesID).Str("run_id", runID).Err(err).
			Msg("Failed to list customers for reprice fanout")
		return
	}

	for _, customerID := range customerIDs {
		result := e.queue.ScheduleTask(ctx, taskqueue.ScheduleTaskInput{
			TaskType: taskqueue.TaskTypeRepriceCustomer,
			Payload: taskqueue.RepriceCustomerPayload{
				CustomerID: customerID,
				Series:     seriesID,
				RunID:      runID,
			},
		})
		if result.Err != nil {
			log.Error().Int64("customer_id", customerID).Str("run_id", runID).
				Err(result.Err).Msg("Failed to schedule reprice task")
		}
	}

	log.Info().Str("series", seriesID).Str("run_id", runID).
		Int("customers", len(customerIDs)).Msg("Enqueued customer reprices")
}

// RepriceCustomer recomputes and persists one customer's net prices for
// every known model of a series, inside a single transaction. It is the
// handler body of the reprice_customer task.
func RepriceCustomer(ctx context.Context, pool *pgxpool.Pool, reg *series.Registry, customerID int64, seriesID string) error {
	store := refdata.NewPGStore(pool)

	rows, err := pool.Query(ctx, `
		SELECT model_number FROM vendor_products WHERE series = $1 ORDER BY model_number
	`, seriesID)
	if err != nil {
		return fmt.Errorf("list products for %s: %w", seriesID, err)
	}
	models := make([]string, 0)
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			rows.Close()
			return err
		}
		models = append(models, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reprice transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	repriced := 0
	for _, model := range models {
		priced, ok := reg.Decode(ctx, store, model, types.ModeCurrent)
		if !ok {
			continue
		}

		for _, p := range priced {
			cp, err := pricing.CustomerNet(ctx, store, customerID,
				p.Specification.ModelNumber, p.Specification.MaterialGroup, p.ZeroDiscount)
			if err != nil {
				return fmt.Errorf("net price for %s: %w", p.Specification.ModelNumber, err)
			}

			method := "zero_discount"
			switch {
			case cp.SpecialNetPrice != nil && cp.NetPrice == *cp.SpecialNetPrice:
				method = "special_net"
			case cp.MaterialGroupPrice != nil && cp.NetPrice == *cp.MaterialGroupPrice:
				method = "material_group"
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO customer_pricing (customer_id, model_number, net_price, method, computed_at)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (customer_id, model_number) DO UPDATE SET
					net_price = EXCLUDED.net_price,
					method = EXCLUDED.method,
					computed_at = EXCLUDED.computed_at
			`, customerID, p.Specification.ModelNumber, cp.NetPrice, method, now)
			if err != nil {
				return fmt.Errorf("persist net price for %s: %w", p.Specification.ModelNumber, err)
			}
			repriced++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reprice transaction: %w", err)
	}

	log.Info().Int64("customer_id", customerID).Str("series", seriesID).
		Int("models", repriced).Msg("Customer repriced")
	return nil
}

// RepriceAll recomputes every given customer directly, without the task
// queue, bounding parallelism with a weighted semaphore. Each customer still
// gets its own transaction; one customer's failure never blocks the rest.
// The CLI update path uses it when no worker is running.
func RepriceAll(ctx context.Context, pool *pgxpool.Pool, reg *series.Registry, seriesID string, customerIDs []int64, maxParallel int64) error {
	if maxParallel <= 0 {
		maxParallel = 4
	}
	sem := semaphore.NewWeighted(maxParallel)

	for _, customerID := range customerIDs {
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		go func(id int64) {
			defer sem.Release(1)
			if err := RepriceCustomer(ctx, pool, reg, id, seriesID); err != nil {
				telemetry.CustomerReprices.WithLabelValues("failed").Inc()
				log.Error().Int64("customer_id", id).Str("series", seriesID).Err(err).
					Msg("Customer reprice failed")
				return
			}
			telemetry.CustomerReprices.WithLabelValues("completed").Inc()
		}(customerID)
	}

	// Draining the semaphore waits for every in-flight customer.
	return sem.Acquire(ctx, maxParallel)
}
