package series

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/shupe-carboni/pricebook-service/internal/grammar"
	"github.com/shupe-carboni/pricebook-service/internal/normalize"
	"github.com/shupe-carboni/pricebook-service/internal/pricing"
	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/telemetry"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// Resolver is the contract every series implements: a grammar plus the fused
// specification+price resolution for a match. Resolve returns a slice
// because one token can expand into several concrete variants (the heat
// wildcard); a plain model yields exactly one element.
type Resolver interface {
	Series() string
	Description() string
	Grammar() *grammar.Grammar
	// Key derives the base-price key from a match alone, with no reference
	// data. The update engine uses it to key incoming price rows for models
	// that have no price on file yet.
	Key(m *grammar.Match) (string, error)
	Resolve(ctx context.Context, store refdata.Store, m *grammar.Match, mode types.PricingMode) ([]types.PricedModel, error)
}

// Registry holds the resolvers in their fixed priority order. Decoding stops
// at the first grammar that both matches and resolves; the order is part of
// the decode contract and never changes at runtime.
type Registry struct {
	order []Resolver
}

// New creates a registry with the given priority order.
func New(resolvers ...Resolver) *Registry {
	return &Registry{order: resolvers}
}

// SeriesInfo describes one registered grammar for listing surfaces.
type SeriesInfo struct {
	Series      string `json:"series"`
	Description string `json:"description"`
	Lengths     []int  `json:"lengths"`
	// PricesAs names the series whose base-price rows this one prices from,
	// when that differs from the badge. Empty for ordinary series.
	PricesAs string `json:"pricesAs,omitempty"`
}

// rebadged is implemented by resolvers whose base-price rows live under
// another series.
type rebadged interface {
	PriceSeries() string
}

// Describe lists the registered grammars in priority order.
func (r *Registry) Describe() []SeriesInfo {
	out := make([]SeriesInfo, 0, len(r.order))
	for _, res := range r.order {
		info := SeriesInfo{
			Series:      res.Series(),
			Description: res.Description(),
			Lengths:     res.Grammar().Lengths(),
		}
		if a, ok := res.(rebadged); ok {
			info.PricesAs = a.PriceSeries()
		}
		out = append(out, info)
	}
	return out
}

// PriceKey derives (series, base-price key) for a raw candidate using only
// its grammar segments. Unlike Decode it never consults reference data, so
// it works for models that are new to the price tables. The returned series
// is the one the base-price row lives under, so for an alias model it is the
// real series, not the badge.
func (r *Registry) PriceKey(raw string) (series, key string, ok bool) {
	normalized := normalize.ModelText(raw)
	if !normalize.Plausible(normalized) {
		return "", "", false
	}

	for _, res := range r.order {
		m, matched := res.Grammar().Match(normalized)
		if !matched {
			continue
		}
		k, err := res.Key(m)
		if err != nil {
			continue
		}
		seriesID := res.Series()
		if a, ok := res.(rebadged); ok {
			seriesID = a.PriceSeries()
		}
		return seriesID, k, true
	}
	return "", "", false
}

// Decode tests a raw candidate against every registered grammar in priority
// order. The boolean result is the ordinary outcome for non-models: wrong
// length and pattern misses are silent, and a grammar match whose resolution
// lacks price or reference data is logged and treated as a non-match so
// whole-workbook scans keep going.
func (r *Registry) Decode(ctx context.Context, store refdata.Store, raw string, mode types.PricingMode) ([]types.PricedModel, bool) {
	normalized := normalize.ModelText(raw)
	if !normalize.Plausible(normalized) {
		return nil, false
	}
	telemetry.DecodeAttempts.Inc()

	for _, res := range r.order {
		m, ok := res.Grammar().Match(normalized)
		if !ok {
			continue
		}

		models, err := resolveSafely(ctx, store, res, m, mode)
		if err != nil {
			logResolveFailure(res.Series(), normalized, err)
			continue
		}

		telemetry.DecodeMatches.WithLabelValues(res.Series()).Inc()
		return models, true
	}

	return nil, false
}

// resolveSafely runs a resolver with panic recovery at the decoder boundary.
// A panic here means a grammar/resolution bug rather than missing data, so
// it is surfaced as an error carrying the stack and the item is skipped.
func resolveSafely(ctx context.Context, store refdata.Store, res Resolver, m *grammar.Match, mode types.PricingMode) (models []types.PricedModel, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &constructionError{series: res.Series(), raw: m.Raw(), cause: rec, stack: debug.Stack()}
		}
	}()
	return res.Resolve(ctx, store, m, mode)
}

type constructionError struct {
	series string
	raw    string
	cause  any
	stack  []byte
}

func (e *constructionError) Error() string {
	return "model construction panicked"
}

func logResolveFailure(series, raw string, err error) {
	var nbp *types.NoBasePriceError
	var mrd *types.MissingReferenceDataError
	var ce *constructionError

	switch {
	case errors.As(err, &nbp):
		telemetry.DecodeSkips.WithLabelValues(series, "no_base_price").Inc()
		log.Error().Str("series", series).Str("model", raw).Err(err).
			Msg("Model matched grammar but has no base price, skipping")
	case errors.As(err, &mrd):
		telemetry.DecodeSkips.WithLabelValues(series, "missing_reference_data").Inc()
		log.Error().Str("series", series).Str("model", raw).Err(err).
			Msg("Model matched grammar but reference data is missing, skipping")
	case errors.As(err, &ce):
		telemetry.DecodeSkips.WithLabelValues(series, "construction").Inc()
		log.Error().Str("series", series).Str("model", raw).
			Interface("cause", ce.cause).Bytes("stack", ce.stack).
			Msg("Model construction panicked, skipping")
	default:
		telemetry.DecodeSkips.WithLabelValues(series, "error").Inc()
		log.Error().Str("series", series).Str("model", raw).Err(err).
			Msg("Model resolution failed, skipping")
	}
}

// priceModel is the shared tail of every resolver: run the pricing engine
// for the request the resolver built and assemble the priced record. The
// category string is recomputed on every call, never cached across modes.
func priceModel(ctx context.Context, store refdata.Store, spec types.Specification, req pricing.Request, mode types.PricingMode) (types.PricedModel, error) {
	components, effective, err := pricing.NewEngine(store).ZeroDiscount(ctx, req, mode)
	if err != nil {
		return types.PricedModel{}, err
	}
	return types.PricedModel{
		Specification: spec,
		Category:      spec.Category(),
		Components:    components,
		ZeroDiscount:  components.Total(),
		Mode:          mode,
		EffectiveDate: effective,
	}, nil
}

// dimensionRow translates a reference-data miss into the typed domain error
// resolvers propagate as a decode failure.
func dimensionRow(ctx context.Context, store refdata.Store, series, key string) (refdata.DimensionRow, error) {
	row, err := store.DimensionRow(ctx, series, key)
	if errors.Is(err, refdata.ErrNotFound) {
		return refdata.DimensionRow{}, &types.MissingReferenceDataError{
			Table:  "dimensions",
			Series: series,
			Key:    key,
		}
	}
	if err != nil {
		return refdata.DimensionRow{}, err
	}
	return row, nil
}
