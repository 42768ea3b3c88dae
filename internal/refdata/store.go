// Package refdata is the explicit reference-data context used by every
// resolution call: base prices, attribute adders, dimension tables, and the
// customer discount tables. Resolvers receive a Store instead of reaching
// into globals, so tests can substitute fixture data per case.
package refdata

import (
	"context"
	"errors"
	"time"

	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// ErrNotFound is returned by lookups that have no row for the given key.
// Callers translate it into the appropriate typed domain error.
var ErrNotFound = errors.New("refdata: not found")

// BasePrice is one base-price row. Base prices are keyed by series plus a
// strict attribute subset, never the full model string, so one row covers
// many model variants.
type BasePrice struct {
	PriceCents    int
	EffectiveDate time.Time
	Stage         types.PricingMode
}

// AdderTable maps adder category -> attribute key -> cents. A key missing
// from a category contributes zero; that is not an error.
type AdderTable map[string]map[string]int

// Get returns the adder amount for a category/key pair, zero when absent.
func (t AdderTable) Get(category, key string) (int, bool) {
	byKey, ok := t[category]
	if !ok {
		return 0, false
	}
	cents, ok := byKey[key]
	return cents, ok
}

// DimensionRow is one physical-attribute row, keyed by a derived key
// (width code, slab code, or tonnage composite), not by model number.
// Nil dimensions mean the attribute does not apply to the series.
type DimensionRow struct {
	Width     *float64
	Depth     *float64
	Length    *float64
	Height    *float64
	WeightLbs *int
	PalletQty *int
	MinQty    int
}

// Store is the read-only reference-data contract consumed by resolution.
// The future pricing mode falls back to current when no future row exists;
// implementations own that COALESCE, callers never see it.
type Store interface {
	BasePrice(ctx context.Context, series, key string, mode types.PricingMode) (BasePrice, error)
	Adders(ctx context.Context, series string) (AdderTable, error)
	DimensionRow(ctx context.Context, series, key string) (DimensionRow, error)
	MaterialGroupDiscount(ctx context.Context, customerID int64, group string) (float64, bool, error)
	SpecialNetPrice(ctx context.Context, customerID int64, model string) (int, bool, error)
}
