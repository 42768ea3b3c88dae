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
	decodeMode     string
	decodeCustomer int64
	decodeOutput   string
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <model>",
	Short: "Decode and price a model number",
	Long: `Decode a raw model number against the registered series grammars and
price it from current reference data. Wildcard heat codes (XX) expand into one
record per concrete heat kit.`,
	Example: `  pricebook-service decode HE362121
  pricebook-service decode AMH241C1XX --mode future
  pricebook-service decode he-36-212-1 --customer 42 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVar(&decodeMode, "mode", "current", "Pricing mode: current or future")
	decodeCmd.Flags().Int64Var(&decodeCustomer, "customer", 0, "Customer ID for net pricing")
	decodeCmd.Flags().StringVar(&decodeOutput, "output", "table", "Output format: table or json")
}

func runDecode(cmd *cobra.Command, args []string) error {
	mode := types.PricingMode(decodeMode)
	if !mode.Valid() {
		return fmt.Errorf("invalid mode: %s (use 'current' or 'future')", decodeMode)
	}

	ctx := context.Background()
	store := refdata.NewPGStore(database.Pool())
	reg := series.NewDefaultRegistry()

	models, ok := reg.Decode(ctx, store, args[0], mode)
	if !ok {
		return fmt.Errorf("not a recognized model: %s", args[0])
	}

	if decodeCustomer > 0 {
		extract.AttachCustomerPricing(ctx, store, decodeCustomer, models)
	}

	switch strings.ToLower(decodeOutput) {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(models)
	case "table":
		outputDecodeTable(models)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", decodeOutput)
	}

	return nil
}

func outputDecodeTable(models []types.PricedModel) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Model\tSeries\tCategory\tList Price\n")
	fmt.Fprintf(w, "-----\t------\t--------\t----------\n")
	for _, m := range models {
		fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\n",
			m.ModelNumber(), m.Specification.Series, m.Category,
			float64(m.Components.Total())/100)
	}
	w.Flush()
}
