// Package pricing computes zero-discount (list) prices from layered base
// prices and attribute-keyed adders, and resolves customer-specific net
// prices on top of them. All money values are integer cents.
package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// AdderSelection names one attribute-keyed adder a series resolver decided
// applies to a model. Guard conditions (heat only under sweat connection,
// tonnage only for the variable-speed motor, sign-flipped metering under
// factory RDS) are the resolver's business; by the time a selection reaches
// the engine it is unconditional.
type AdderSelection struct {
	Category string
	Key      string
}

// Request is one zero-discount price resolution. Key is the strict
// series-specific attribute subset, never the full model string.
type Request struct {
	Series string
	Key    string
	Adders []AdderSelection
}

// Engine resolves zero-discount prices against a reference-data store.
type Engine struct {
	store refdata.Store
}

// NewEngine creates a price resolution engine.
func NewEngine(store refdata.Store) *Engine {
	return &Engine{store: store}
}

// ZeroDiscount computes base price plus the sum of the selected adders for
// the requested pricing mode. A missing base price is a hard failure
// (NoBasePriceError); a missing adder key contributes zero.
func (e *Engine) ZeroDiscount(ctx context.Context, req Request, mode types.PricingMode) (types.PriceComponents, time.Time, error) {
	base, err := e.store.BasePrice(ctx, req.Series, req.Key, mode)
	if errors.Is(err, refdata.ErrNotFound) {
		return types.PriceComponents{}, time.Time{}, &types.NoBasePriceError{
			Series: req.Series,
			Key:    req.Key,
			Mode:   mode,
		}
	}
	if err != nil {
		return types.PriceComponents{}, time.Time{}, err
	}

	components := types.PriceComponents{BasePrice: base.PriceCents}
	if len(req.Adders) == 0 {
		return components, base.EffectiveDate, nil
	}

	table, err := e.store.Adders(ctx, req.Series)
	if err != nil {
		return types.PriceComponents{}, time.Time{}, err
	}

	for _, sel := range req.Adders {
		cents, ok := table.Get(sel.Category, sel.Key)
		if !ok {
			continue
		}
		components.Adders = append(components.Adders, types.AppliedAdder{
			Category: sel.Category,
			Key:      sel.Key,
			Cents:    cents,
		})
	}

	return components, base.EffectiveDate, nil
}
