package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

var half = decimal.NewFromFloat(0.5)

// NormalizePercent folds the two ambient representations of a percentage
// into a multiplier: a value above 1 is assumed to already be x100 and is
// divided down (35 -> 0.35), anything else is used as-is.
func NormalizePercent(pct float64) decimal.Decimal {
	d := decimal.NewFromFloat(pct)
	if d.GreaterThan(decimal.NewFromInt(1)) {
		d = d.Div(decimal.NewFromInt(100))
	}
	return d
}

// discountedCents applies a percentage discount to a cent amount, rounding
// to the nearest cent with floor(x+0.5) semantics.
func discountedCents(zeroCents int, pct float64) int {
	mult := decimal.NewFromInt(1).Sub(NormalizePercent(pct))
	d := decimal.NewFromInt(int64(zeroCents)).Mul(mult)
	return int(d.Add(half).Floor().IntPart())
}

// CustomerNet resolves the customer-facing price for a model: the minimum of
// whichever of {special net price, material-group price, zero-discount
// price} exist. A material-group discount that lands back on the list price
// counts as no discount at all.
func CustomerNet(ctx context.Context, store refdata.Store, customerID int64, model, materialGroup string, zeroCents int) (*types.CustomerPricing, error) {
	out := &types.CustomerPricing{
		CustomerID: customerID,
		NetPrice:   zeroCents,
	}

	pct, hasDiscount, err := store.MaterialGroupDiscount(ctx, customerID, materialGroup)
	if err != nil {
		return nil, fmt.Errorf("material group discount: %w", err)
	}
	if hasDiscount {
		mg := discountedCents(zeroCents, pct)
		if mg != zeroCents {
			out.MaterialGroupPrice = &mg
			if mg < out.NetPrice {
				out.NetPrice = mg
			}
		}
	}

	snp, hasSNP, err := store.SpecialNetPrice(ctx, customerID, model)
	if err != nil {
		return nil, fmt.Errorf("special net price: %w", err)
	}
	if hasSNP {
		out.SpecialNetPrice = &snp
		// Display percentage is derived from the prices, never stored. An
		// SNP at or above the list price gets none; min-selection already
		// ignores it and a negative percentage only confuses the surface.
		if zeroCents > 0 && snp < zeroCents {
			pct, _ := decimal.NewFromInt(1).
				Sub(decimal.NewFromInt(int64(snp)).Div(decimal.NewFromInt(int64(zeroCents)))).
				Mul(decimal.NewFromInt(100)).
				Round(2).Float64()
			out.SNPDiscountPct = &pct
		}
		if snp < out.NetPrice {
			out.NetPrice = snp
		}
	}

	return out, nil
}
