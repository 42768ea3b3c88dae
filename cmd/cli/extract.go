package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shupe-carboni/pricebook-service/internal/database"
	"github.com/shupe-carboni/pricebook-service/internal/extract"
	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/series"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

var (
	extractMode     string
	extractCustomer int64
	extractOutput   string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract and price models from a pricebook workbook",
	Long: `Scan every cell of an xlsx workbook for recognizable model numbers and
price each distinct model from reference data. Cells that do not decode are
skipped silently.`,
	Example: `  pricebook-service extract ./data/pricebook.xlsx
  pricebook-service extract ./data/pricebook.xlsx --customer 42 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractMode, "mode", "current", "Pricing mode: current or future")
	extractCmd.Flags().Int64Var(&extractCustomer, "customer", 0, "Customer ID for net pricing")
	extractCmd.Flags().StringVar(&extractOutput, "output", "table", "Output format: table or json")
}

func runExtract(cmd *cobra.Command, args []string) error {
	mode := types.PricingMode(extractMode)
	if !mode.Valid() {
		return fmt.Errorf("invalid mode: %s (use 'current' or 'future')", extractMode)
	}

	filePath := args[0]
	logger.Info().Str("file", filePath).Msg("Reading workbook")
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	ctx := context.Background()
	store := refdata.NewPGStore(database.Pool())
	reg := series.NewDefaultRegistry()

	result, err := extract.Parse(ctx, store, reg, content, mode)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if extractCustomer > 0 {
		extract.AttachCustomerPricing(ctx, store, extractCustomer, result.Models)
	}

	switch strings.ToLower(extractOutput) {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "table":
		outputExtractTable(result)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", extractOutput)
	}

	return nil
}

func outputExtractTable(result *extract.Result) {
	fmt.Printf("\nExtraction Results\n")
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Sheets Read\t%d\n", len(result.SheetsRead))
	fmt.Fprintf(w, "Cells Scanned\t%d\n", result.CellsScanned)
	fmt.Fprintf(w, "Models Found\t%d\n", len(result.Models))
	fmt.Fprintf(w, "Duplicates\t%d\n", result.Duplicates)
	w.Flush()

	if len(result.Models) > 0 {
		fmt.Println()
		outputDecodeTable(result.Models)
	}
}
