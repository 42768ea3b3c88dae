package jobs

import (
	"context"
	"fmt"
)

// cleanupOldRunsImpl removes terminal price-update runs older than the
// retention window. Returns the number of runs deleted.
func cleanupOldRunsImpl(ctx context.Context, daysToKeep int) (int, error) {
	pool := getPool()

	result, err := pool.Exec(ctx, `
		DELETE FROM price_update_runs
		WHERE status IN ('committed', 'rolled_back')
		  AND created_at < NOW() - make_interval(days => $1)
	`, daysToKeep)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old update runs: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// cleanupOldTasksImpl prunes finished task_queue rows via the queue's own
// SQL function. Returns the number of tasks deleted.
func cleanupOldTasksImpl(ctx context.Context, daysToKeep int) (int, error) {
	pool := getPool()

	var count int
	if err := pool.QueryRow(ctx, `SELECT cleanup_old_tasks($1)`, daysToKeep).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to cleanup old tasks: %w", err)
	}
	return count, nil
}

// cleanupOldArchivesImpl removes archive rows older than the retention
// window. The stored files are left for the storage backend's own retention.
func cleanupOldArchivesImpl(ctx context.Context, daysToKeep int) (int, error) {
	pool := getPool()

	result, err := pool.Exec(ctx, `
		DELETE FROM archives
		WHERE created_at < NOW() - make_interval(days => $1)
	`, daysToKeep)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old archives: %w", err)
	}
	return int(result.RowsAffected()), nil
}
