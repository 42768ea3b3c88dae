package refdata

import (
	"context"
	"fmt"
	"time"

	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// Fixture is an in-memory Store for tests and offline CLI decoding. Not
// safe for concurrent mutation; populate it before use.
type Fixture struct {
	basePrices map[string]map[types.PricingMode]BasePrice
	adders     map[string]AdderTable
	dimensions map[string]DimensionRow
	discounts  map[string]float64
	snps       map[string]int
}

// NewFixture creates an empty fixture store.
func NewFixture() *Fixture {
	return &Fixture{
		basePrices: make(map[string]map[types.PricingMode]BasePrice),
		adders:     make(map[string]AdderTable),
		dimensions: make(map[string]DimensionRow),
		discounts:  make(map[string]float64),
		snps:       make(map[string]int),
	}
}

func priceKey(series, key string) string { return series + "|" + key }

func customerKey(customerID int64, k string) string {
	return fmt.Sprintf("%d|%s", customerID, k)
}

// SetBasePrice registers a base-price row for one pricing stage.
func (f *Fixture) SetBasePrice(series, key string, mode types.PricingMode, cents int, effective time.Time) *Fixture {
	k := priceKey(series, key)
	if f.basePrices[k] == nil {
		f.basePrices[k] = make(map[types.PricingMode]BasePrice)
	}
	f.basePrices[k][mode] = BasePrice{PriceCents: cents, EffectiveDate: effective, Stage: mode}
	return f
}

// SetAdder registers one adder cell.
func (f *Fixture) SetAdder(series, category, key string, cents int) *Fixture {
	if f.adders[series] == nil {
		f.adders[series] = make(AdderTable)
	}
	if f.adders[series][category] == nil {
		f.adders[series][category] = make(map[string]int)
	}
	f.adders[series][category][key] = cents
	return f
}

// SetDimensions registers a dimension row for a derived key.
func (f *Fixture) SetDimensions(series, key string, row DimensionRow) *Fixture {
	f.dimensions[priceKey(series, key)] = row
	return f
}

// SetMaterialGroupDiscount registers a customer's percentage discount on a
// material group.
func (f *Fixture) SetMaterialGroupDiscount(customerID int64, group string, pct float64) *Fixture {
	f.discounts[customerKey(customerID, group)] = pct
	return f
}

// SetSpecialNetPrice registers a negotiated flat price for a customer+model.
func (f *Fixture) SetSpecialNetPrice(customerID int64, model string, cents int) *Fixture {
	f.snps[customerKey(customerID, model)] = cents
	return f
}

// BasePrice implements Store with future-to-current fallback.
func (f *Fixture) BasePrice(_ context.Context, series, key string, mode types.PricingMode) (BasePrice, error) {
	stages, ok := f.basePrices[priceKey(series, key)]
	if !ok {
		return BasePrice{}, ErrNotFound
	}
	if mode == types.ModeFuture {
		if bp, ok := stages[types.ModeFuture]; ok {
			return bp, nil
		}
	}
	if bp, ok := stages[types.ModeCurrent]; ok {
		return bp, nil
	}
	return BasePrice{}, ErrNotFound
}

// Adders implements Store.
func (f *Fixture) Adders(_ context.Context, series string) (AdderTable, error) {
	table, ok := f.adders[series]
	if !ok {
		return AdderTable{}, nil
	}
	return table, nil
}

// DimensionRow implements Store.
func (f *Fixture) DimensionRow(_ context.Context, series, key string) (DimensionRow, error) {
	row, ok := f.dimensions[priceKey(series, key)]
	if !ok {
		return DimensionRow{}, ErrNotFound
	}
	return row, nil
}

// MaterialGroupDiscount implements Store.
func (f *Fixture) MaterialGroupDiscount(_ context.Context, customerID int64, group string) (float64, bool, error) {
	pct, ok := f.discounts[customerKey(customerID, group)]
	return pct, ok, nil
}

// SpecialNetPrice implements Store.
func (f *Fixture) SpecialNetPrice(_ context.Context, customerID int64, model string) (int, bool, error) {
	cents, ok := f.snps[customerKey(customerID, model)]
	return cents, ok, nil
}
