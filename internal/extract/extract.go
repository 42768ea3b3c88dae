// Package extract scans customer pricebook workbooks for model numbers and
// resolves each one into a priced record. Workbooks arrive with arbitrary
// layout; extraction treats every cell of every sheet as a candidate rather
// than assuming a column structure.
package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/shupe-carboni/pricebook-service/internal/pricing"
	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/series"
	"github.com/shupe-carboni/pricebook-service/internal/telemetry"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// Result is one workbook extraction. Models are in first-encounter order
// over sheets, rows, then columns, which is stable for a given workbook.
type Result struct {
	Models       []types.PricedModel `json:"models"`
	CellsScanned int                 `json:"cellsScanned"`
	Duplicates   int                 `json:"duplicates"`
	SheetsRead   []string            `json:"sheetsRead"`
}

// Parse opens workbook bytes and runs Workbook over it.
func Parse(ctx context.Context, store refdata.Store, reg *series.Registry, content []byte, mode types.PricingMode) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return Workbook(ctx, store, reg, f, mode)
}

// Workbook scans every cell of every sheet in workbook order and decodes
// each candidate against the registry. A cell that fails to decode, for
// whatever reason, is skipped without touching the rest of the scan.
// Duplicate model numbers keep only their first occurrence; a wildcard cell
// contributes each of its expanded variants.
func Workbook(ctx context.Context, store refdata.Store, reg *series.Registry, f *excelize.File, mode types.PricingMode) (*Result, error) {
	result := &Result{}
	seen := make(map[string]struct{})

	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			log.Warn().Str("sheet", sheet).Err(err).Msg("Failed to read worksheet, skipping")
			continue
		}
		result.SheetsRead = append(result.SheetsRead, sheet)

		for _, row := range rows {
			for _, cell := range row {
				if cell == "" {
					continue
				}
				result.CellsScanned++

				models, ok := reg.Decode(ctx, store, cell, mode)
				if !ok {
					continue
				}
				for _, m := range models {
					if _, dup := seen[m.Specification.ModelNumber]; dup {
						result.Duplicates++
						continue
					}
					seen[m.Specification.ModelNumber] = struct{}{}
					result.Models = append(result.Models, m)
				}
			}
		}
	}

	telemetry.ModelsExtracted.Add(float64(len(result.Models)))
	return result, nil
}

// AttachCustomerPricing resolves net pricing for every extracted model in
// place. A per-model failure leaves that model without a customer block.
func AttachCustomerPricing(ctx context.Context, store refdata.Store, customerID int64, models []types.PricedModel) {
	for i := range models {
		cp, err := pricing.CustomerNet(ctx, store, customerID,
			models[i].Specification.ModelNumber, models[i].Specification.MaterialGroup,
			models[i].ZeroDiscount)
		if err != nil {
			log.Error().Int64("customer_id", customerID).
				Str("model", models[i].Specification.ModelNumber).Err(err).
				Msg("Failed to resolve customer pricing")
			continue
		}
		models[i].Customer = cp
	}
}
