package jobs

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// getPool returns the database connection pool.
// This is a bridge to the database package to avoid circular dependencies.
func getPool() *pgxpool.Pool {
	return dbPoolGetter()
}

// dbPoolGetter is a function that returns the database pool.
// This will be set by the database package initialization.
var dbPoolGetter func() *pgxpool.Pool

// RegisterDBPoolGetter registers the database pool getter function.
// This should be called from the database package initialization.
func RegisterDBPoolGetter(getter func() *pgxpool.Pool) {
	dbPoolGetter = getter
}
