package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shupe-carboni/pricebook-service/internal/jobs"
)

// rolloverCmd represents the rollover command
var rolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Promote due future prices to current",
	Long: `Run one effective-date rollover pass. Future-stage prices whose
effective date has arrived replace the current prices for the same series and
key. The server runs this on an interval; the command exists for manual or
cron-driven promotion.`,
	Args: cobra.NoArgs,
	RunE: runRollover,
}

func init() {
	rootCmd.AddCommand(rolloverCmd)
}

func runRollover(cmd *cobra.Command, args []string) error {
	promoted, err := jobs.RolloverDuePrices(context.Background())
	if err != nil {
		return fmt.Errorf("rollover failed: %w", err)
	}
	if promoted == 0 {
		logger.Info().Msg("No future prices due")
	} else {
		logger.Info().Int("promoted", promoted).Msg("Promoted future prices to current")
	}
	return nil
}
