// Package update implements the staged price-update engine: vendor price
// sheets are parsed, staged into a scratch table, and applied as
// future-effective rows inside one all-or-nothing transaction.
package update

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/shupe-carboni/pricebook-service/internal/normalize"
	"github.com/shupe-carboni/pricebook-service/internal/series"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// SheetLayout is the fixed cell layout of one vendor's price sheet. Layouts
// are per-series configuration constants, not part of the engine contract.
type SheetLayout struct {
	// SheetName selects the worksheet; empty means the first sheet.
	SheetName string
	// HeaderRows is the number of rows to skip before data starts.
	HeaderRows int
	// ModelCol and PriceCol are zero-based column indexes.
	ModelCol int
	PriceCol int
}

// DefaultLayout is the layout every current vendor sheet ships with.
var DefaultLayout = SheetLayout{HeaderRows: 1, ModelCol: 0, PriceCol: 1}

// ParsedSheet is the outcome of parsing one price sheet for a series:
// staged rows plus the count of rows the parse rejected.
type ParsedSheet struct {
	types.PriceSheet
	Rejected int
}

var hundred = decimal.NewFromInt(100)

// parsePriceCents reads a dollar amount cell into integer cents. Currency
// symbols and thousands separators are tolerated.
func parsePriceCents(cell string) (int, error) {
	cleaned := strings.TrimSpace(cell)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty price cell")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", cell, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative price %q", cell)
	}
	return int(d.Mul(hundred).Round(0).IntPart()), nil
}

// ParseSheet reads workbook bytes with the given layout and returns the
// staged rows for the series. Rows whose model does not belong to the
// series, or whose price cell cannot be read, are counted as rejected and
// logged; they never abort the parse. A wildcard model keys the same as any
// of its expansions, so it stages exactly one price row.
func ParseSheet(content []byte, seriesID string, reg *series.Registry, layout SheetLayout) (*ParsedSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open price sheet: %w", err)
	}
	defer f.Close()

	sheetName := layout.SheetName
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("price sheet has no worksheets")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheetName, err)
	}

	parsed := &ParsedSheet{PriceSheet: types.PriceSheet{Series: seriesID}}
	seen := make(map[string]struct{})

	for i, row := range rows {
		if i < layout.HeaderRows {
			continue
		}
		if layout.ModelCol >= len(row) || strings.TrimSpace(row[layout.ModelCol]) == "" {
			continue
		}

		model := normalize.ModelText(row[layout.ModelCol])
		matchedSeries, key, ok := reg.PriceKey(model)
		if !ok || matchedSeries != seriesID {
			parsed.Rejected++
			log.Warn().Str("series", seriesID).Str("model", row[layout.ModelCol]).Int("row", i+1).
				Msg("Price sheet row is not a model of this series, rejecting")
			continue
		}

		if layout.PriceCol >= len(row) {
			parsed.Rejected++
			log.Warn().Str("series", seriesID).Str("model", model).Int("row", i+1).
				Msg("Price sheet row has no price cell, rejecting")
			continue
		}
		cents, err := parsePriceCents(row[layout.PriceCol])
		if err != nil {
			parsed.Rejected++
			log.Warn().Str("series", seriesID).Str("model", model).Int("row", i+1).Err(err).
				Msg("Price sheet row has an unreadable price, rejecting")
			continue
		}

		if _, dup := seen[model]; dup {
			continue
		}
		seen[model] = struct{}{}

		parsed.Rows = append(parsed.Rows, types.PriceSheetRow{
			ModelNumber: model,
			Key:         key,
			PriceCents:  cents,
			RowNumber:   i + 1,
		})
	}

	return parsed, nil
}
