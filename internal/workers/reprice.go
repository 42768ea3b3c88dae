package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/shupe-carboni/pricebook-service/internal/series"
	"github.com/shupe-carboni/pricebook-service/internal/taskqueue"
	"github.com/shupe-carboni/pricebook-service/internal/telemetry"
	"github.com/shupe-carboni/pricebook-service/internal/update"
)

// StartRepriceWorker builds and starts the worker that consumes
// reprice_customer tasks enqueued after committed price updates.
func StartRepriceWorker(ctx context.Context, pool *pgxpool.Pool, reg *series.Registry) *Worker {
	queue := taskqueue.New(pool)
	worker := New(queue, WorkerConfig{
		WorkerID:   "reprice-worker",
		TaskTypes:  []string{string(taskqueue.TaskTypeRepriceCustomer)},
		MaxTasks:   5,
		NumWorkers: 2,
		PollDelay:  5 * time.Second,
	})

	worker.RegisterHandler(taskqueue.TaskTypeRepriceCustomer, NewRepriceHandler(pool, reg))
	worker.Start(ctx)
	return worker
}

// NewRepriceHandler returns the handler body for one reprice_customer task.
func NewRepriceHandler(pool *pgxpool.Pool, reg *series.Registry) func(context.Context, []byte) error {
	return func(ctx context.Context, payload []byte) error {
		var p taskqueue.RepriceCustomerPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("invalid reprice payload: %w", err)
		}
		if p.CustomerID == 0 || p.Series == "" {
			return fmt.Errorf("reprice payload missing customer or series")
		}

		if err := update.RepriceCustomer(ctx, pool, reg, p.CustomerID, p.Series); err != nil {
			telemetry.CustomerReprices.WithLabelValues("failed").Inc()
			return err
		}
		telemetry.CustomerReprices.WithLabelValues("completed").Inc()

		log.Debug().Int64("customer_id", p.CustomerID).Str("series", p.Series).
			Str("run_id", p.RunID).Msg("Reprice task completed")
		return nil
	}
}
