package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Config holds the schedules and retention policies for background jobs.
type Config struct {
	RolloverInterval     time.Duration // how often to check for due future prices
	CleanupInterval      time.Duration // how often to run retention cleanup
	RunRetentionDays     int
	TaskRetentionDays    int
	ArchiveRetentionDays int
	Enabled              bool
}

// DefaultConfig returns the default job configuration.
func DefaultConfig() Config {
	return Config{
		RolloverInterval:     15 * time.Minute,
		CleanupInterval:      6 * time.Hour,
		RunRetentionDays:     90,
		TaskRetentionDays:    7,
		ArchiveRetentionDays: 365,
		Enabled:              true,
	}
}

// Manager runs the periodic background jobs: effective-date rollover and
// retention cleanup.
type Manager struct {
	config Config
	logger *zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	rolloverDone chan struct{}
	cleanupDone  chan struct{}
}

// NewManager creates a new job manager.
func NewManager(config Config, logger *zerolog.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config:       config,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		rolloverDone: make(chan struct{}),
		cleanupDone:  make(chan struct{}),
	}
}

// Start begins all background jobs.
func (m *Manager) Start() {
	if !m.config.Enabled {
		m.logger.Info().Msg("Background jobs are disabled, not starting")
		return
	}

	m.logger.Info().
		Dur("rollover_interval", m.config.RolloverInterval).
		Dur("cleanup_interval", m.config.CleanupInterval).
		Msg("Starting job manager")

	go m.runRollover()
	go m.runCleanup()
}

// Stop gracefully stops all jobs.
func (m *Manager) Stop() {
	m.logger.Info().Msg("Stopping job manager...")
	m.cancel()

	select {
	case <-m.rolloverDone:
		m.logger.Debug().Msg("Rollover job stopped")
	case <-time.After(5 * time.Second):
		m.logger.Warn().Msg("Rollover job did not stop gracefully")
	}

	select {
	case <-m.cleanupDone:
		m.logger.Debug().Msg("Cleanup job stopped")
	case <-time.After(5 * time.Second):
		m.logger.Warn().Msg("Cleanup job did not stop gracefully")
	}

	m.logger.Info().Msg("Job manager stopped")
}

func (m *Manager) runRollover() {
	defer close(m.rolloverDone)

	ticker := time.NewTicker(m.config.RolloverInterval)
	defer ticker.Stop()

	// Run once immediately on startup so prices due overnight are promoted
	// as soon as the service comes up.
	m.rollover()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.rollover()
		}
	}
}

func (m *Manager) rollover() {
	start := time.Now()

	promoted, err := rolloverDuePrices(m.ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to roll over due prices")
		return
	}

	if promoted > 0 {
		m.logger.Info().
			Int("promoted", promoted).
			Dur("duration", time.Since(start)).
			Msg("Promoted due future prices to current")
	} else {
		m.logger.Debug().
			Dur("duration", time.Since(start)).
			Msg("No future prices due for promotion")
	}
}

func (m *Manager) runCleanup() {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *Manager) cleanup() {
	if deleted, err := cleanupOldRuns(m.ctx, m.config.RunRetentionDays); err != nil {
		m.logger.Error().Err(err).Msg("Failed to cleanup old update runs")
	} else if deleted > 0 {
		m.logger.Info().Int("deleted", deleted).Msg("Cleaned up old update runs")
	}

	if deleted, err := cleanupOldTasks(m.ctx, m.config.TaskRetentionDays); err != nil {
		m.logger.Error().Err(err).Msg("Failed to cleanup old tasks")
	} else if deleted > 0 {
		m.logger.Info().Int("deleted", deleted).Msg("Cleaned up old tasks")
	}

	if deleted, err := cleanupOldArchives(m.ctx, m.config.ArchiveRetentionDays); err != nil {
		m.logger.Error().Err(err).Msg("Failed to cleanup old archives")
	} else if deleted > 0 {
		m.logger.Info().Int("deleted", deleted).Msg("Cleaned up old archive records")
	}
}

// Indirection points so tests can substitute the database-touching
// implementations.
var (
	rolloverDuePrices  = rolloverDuePricesImpl
	cleanupOldRuns     = cleanupOldRunsImpl
	cleanupOldTasks    = cleanupOldTasksImpl
	cleanupOldArchives = cleanupOldArchivesImpl
)

// RolloverDuePrices promotes all due future prices immediately. The CLI and
// the update engine's e2e tests use it directly.
func RolloverDuePrices(ctx context.Context) (int, error) {
	return rolloverDuePrices(ctx)
}
