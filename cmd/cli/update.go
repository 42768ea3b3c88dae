package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shupe-carboni/pricebook-service/internal/database"
	"github.com/shupe-carboni/pricebook-service/internal/series"
	"github.com/shupe-carboni/pricebook-service/internal/taskqueue"
	"github.com/shupe-carboni/pricebook-service/internal/update"
)

var (
	updateEffectiveDate string
	updateReprice       bool
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <series> <file>",
	Short: "Apply a vendor price sheet to one series",
	Long: `Stage and apply a vendor price sheet. New prices land in the future
stage under the given effective date; the rollover job promotes them to
current once the date is reached. The whole update commits or rolls back as
one transaction.

With --reprice, customer net figures for the series are recomputed inline
instead of being queued for the background worker.`,
	Example: `  pricebook-service update HE ./data/he-2026.xlsx --effective-date 2026-10-01
  pricebook-service update AMH ./data/amh.xlsx --effective-date 2026-10-01 --reprice`,
	Args: cobra.ExactArgs(2),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVar(&updateEffectiveDate, "effective-date", "", "Effective date (YYYY-MM-DD, default today)")
	updateCmd.Flags().BoolVar(&updateReprice, "reprice", false, "Recompute customer pricing inline after commit")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	seriesID, filePath := args[0], args[1]

	reg := series.NewDefaultRegistry()
	var target *series.SeriesInfo
	for _, info := range reg.Describe() {
		if info.Series == seriesID {
			target = &info
			break
		}
	}
	if target == nil {
		return fmt.Errorf("unknown series: %s", seriesID)
	}
	if target.PricesAs != "" {
		return fmt.Errorf("series %s prices from the %s base rows; apply the sheet to %s",
			seriesID, target.PricesAs, target.PricesAs)
	}

	effectiveDate := time.Now()
	if updateEffectiveDate != "" {
		parsed, err := time.Parse("2006-01-02", updateEffectiveDate)
		if err != nil {
			return fmt.Errorf("invalid effective date %q: %w", updateEffectiveDate, err)
		}
		effectiveDate = parsed
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	ctx := context.Background()
	filename := filePath
	runID, err := database.CreateRun(ctx, seriesID, "cli", effectiveDate, &filename)
	if err != nil {
		return fmt.Errorf("failed to record update run: %w", err)
	}

	sheet, err := update.ParseSheet(content, seriesID, reg, update.DefaultLayout)
	if err != nil {
		return fmt.Errorf("failed to parse price sheet: %w", err)
	}

	logger.Info().
		Str("run_id", runID).
		Str("series", seriesID).
		Int("rows", len(sheet.Rows)).
		Int("rejected", sheet.Rejected).
		Time("effective_date", effectiveDate).
		Msg("Applying price update")

	// Reprices either run inline below or not at all; nil queue keeps the
	// engine from scheduling background tasks a CLI session will not see.
	var queue *taskqueue.TaskQueue
	if !updateReprice {
		queue = taskqueue.New(database.Pool())
	}
	engine := update.NewEngine(database.Pool(), queue)

	result, err := engine.Apply(ctx, runID, sheet, effectiveDate)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	logger.Info().
		Str("run_id", result.RunID).
		Str("status", string(result.Status)).
		Int("accepted", result.Accepted).
		Int("rejected", result.Rejected).
		Msg("Price update committed")

	if updateReprice {
		customerIDs, err := database.CustomerIDsForSeries(ctx, seriesID)
		if err != nil {
			return fmt.Errorf("failed to list customers for reprice: %w", err)
		}
		parallelism := int64(4)
		if cfg != nil && cfg.Pricing.RepriceParallelism > 0 {
			parallelism = int64(cfg.Pricing.RepriceParallelism)
		}
		logger.Info().Int("customers", len(customerIDs)).Msg("Recomputing customer pricing")
		if err := update.RepriceAll(ctx, database.Pool(), reg, seriesID, customerIDs, parallelism); err != nil {
			return fmt.Errorf("reprice failed: %w", err)
		}
	}

	return nil
}
