package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/shupe-carboni/pricebook-service/config"
	"github.com/shupe-carboni/pricebook-service/internal/database"
	"github.com/shupe-carboni/pricebook-service/internal/handlers"
	"github.com/shupe-carboni/pricebook-service/internal/jobs"
	"github.com/shupe-carboni/pricebook-service/internal/middleware"
	"github.com/shupe-carboni/pricebook-service/internal/series"
	"github.com/shupe-carboni/pricebook-service/internal/storage"
	"github.com/shupe-carboni/pricebook-service/internal/sweepers"
	"github.com/shupe-carboni/pricebook-service/internal/taskqueue"
	"github.com/shupe-carboni/pricebook-service/internal/telemetry"
	"github.com/shupe-carboni/pricebook-service/internal/update"
	"github.com/shupe-carboni/pricebook-service/internal/workers"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting pricebook service")

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	ctx := context.Background()
	if err := database.Connect(
		ctx,
		dbURL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("Database connected")

	telemetryShutdown := telemetry.MustInit(ctx, telemetry.GetConfigFromEnv())
	defer telemetryShutdown(ctx)

	if count, err := database.MarkInterruptedRuns(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to mark interrupted update runs")
	} else if count > 0 {
		logger.Info().Int("count", count).Msg("Marked interrupted update runs as rolled back")
	}

	archives, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Storage.BasePath).
			Msg("Failed to initialize archive storage")
	}

	reg := series.NewDefaultRegistry()
	engine := update.NewEngine(database.Pool(), taskqueue.New(database.Pool()))

	jobConfig := jobs.DefaultConfig()
	jobConfig.RolloverInterval = cfg.Pricing.RolloverInterval
	jobConfig.RunRetentionDays = cfg.Update.RunRetentionDays
	jobManager := jobs.NewManager(jobConfig, logger)
	jobManager.Start()

	sweeperInterval := 5 * time.Minute
	taskSweeper := sweepers.NewTaskQueueSweeper(database.Pool(), logger, sweeperInterval)
	go taskSweeper.Start(ctx)

	repriceWorker := workers.StartRepriceWorker(ctx, database.Pool(), reg)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(cfg.Auth.InternalAPIKey))
	internal.Use(middleware.ServiceRateLimitMiddleware(
		float64(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst))
	{
		internal.GET("/health", handlers.HealthCheck)
		internal.GET("/series", handlers.ListSeries(reg))

		models := internal.Group("/models")
		{
			models.POST("/decode", handlers.DecodeModel(reg))
		}

		pricebooks := internal.Group("/pricebooks")
		{
			pricebooks.POST("/extract",
				handlers.ExtractPricebook(reg, archives, cfg.Update.MaxUploadBytes))
		}

		pricing := internal.Group("/pricing")
		{
			pricing.POST("/updates/:series",
				handlers.ApplyPriceUpdate(reg, engine, archives, cfg.Update.MaxUploadBytes))
			pricing.GET("/updates", handlers.ListUpdateRuns())
			pricing.GET("/updates/:id", handlers.GetUpdateRun())
			pricing.GET("/updates/:id/archive", handlers.DownloadRunArchive(archives))
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	jobManager.Stop()
	taskSweeper.Stop()
	repriceWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "pricebook-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
