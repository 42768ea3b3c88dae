package series

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shupe-carboni/pricebook-service/internal/grammar"
	"github.com/shupe-carboni/pricebook-service/internal/pricing"
	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

type coilKind int

const (
	casedCoil coilKind = iota
	uncasedCoil
	horizontalCoil
)

// coilConfig parameterizes one coil series. The three coil families share
// one resolver; only the grammar shape, the derived dimension key, and the
// cabinet attributes differ.
type coilConfig struct {
	series        string
	kind          coilKind
	description   string
	finish        string // cabinet finish; empty for uncased and horizontal
	material      string
	materialGroup string
	configLetters string // extra cabinet-config segment (multi-position series)
}

type coilResolver struct {
	cfg     coilConfig
	grammar *grammar.Grammar
}

// newCoilResolver builds the grammar for a coil series from its config.
// Cased series carry a packed 3-digit width code; uncased and horizontal
// series carry a 2-digit slab code and take their dimensions entirely from
// the slab table.
func newCoilResolver(cfg coilConfig) *coilResolver {
	var body string
	base := len(cfg.series) + 2 + 1 // series + tonnage + metering

	switch cfg.kind {
	case casedCoil:
		body = `(?P<width>\d{3})`
		base += 3
	default:
		body = `(?P<slab>\d{2})`
		base += 2
	}

	var cfgSeg string
	if cfg.configLetters != "" {
		cfgSeg = `(?P<cfg>[` + cfg.configLetters + `])`
		base++
	}

	expr := fmt.Sprintf(`(?P<series>%s)(?P<ton>%s)%s%s(?P<met>[129])(?P<rds>[RN]?)`,
		cfg.series, tonnageAlt, body, cfgSeg)

	return &coilResolver{
		cfg:     cfg,
		grammar: grammar.MustCompile(cfg.series, []int{base, base + 1}, expr),
	}
}

func (r *coilResolver) Series() string            { return r.cfg.series }
func (r *coilResolver) Description() string       { return r.cfg.description }
func (r *coilResolver) Grammar() *grammar.Grammar { return r.grammar }

func (r *coilResolver) dimKey(m *grammar.Match) string {
	if r.cfg.kind == casedCoil {
		return m.Segment("width")
	}
	return m.Segment("slab")
}

// Key is tonnage:dimension-code. All metering and RDS variants of a slab
// share one base price row.
func (r *coilResolver) Key(m *grammar.Match) (string, error) {
	ton, err := m.Int("ton")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%s", ton, r.dimKey(m)), nil
}

func (r *coilResolver) Resolve(ctx context.Context, store refdata.Store, m *grammar.Match, mode types.PricingMode) ([]types.PricedModel, error) {
	ton, err := m.Int("ton")
	if err != nil {
		return nil, err
	}
	met, err := m.Int("met")
	if err != nil {
		return nil, err
	}
	rds := rdsVariant(m.Segment("rds"))
	meteringCode, meteringDesc := meteringFor(met, rds)

	dimKey := r.dimKey(m)

	dims, err := dimensionRow(ctx, store, r.cfg.series, dimKey)
	if err != nil {
		return nil, err
	}

	spec := types.Specification{
		Series:        r.cfg.series,
		ModelNumber:   m.Raw(),
		Tonnage:       tonsFromCode(ton),
		Height:        dims.Height,
		WeightLbs:     dims.WeightLbs,
		PalletQty:     dims.PalletQty,
		MinQty:        dims.MinQty,
		MeteringCode:  meteringCode,
		Metering:      meteringDesc,
		CabinetFinish: r.cfg.finish,
		Material:      r.cfg.material,
		MaterialGroup: r.cfg.materialGroup,
		RDS:           rds,
		A2L:           met == a2lMeteringCode,
	}

	switch r.cfg.kind {
	case casedCoil:
		// Width comes from the packed code; depth and height from the table.
		width, err := m.Int("width")
		if err != nil {
			return nil, err
		}
		spec.Width = types.Float64Ptr(DimensionFromCode(width))
		spec.Depth = dims.Depth
	case uncasedCoil:
		spec.Width = dims.Width
		spec.Depth = dims.Depth
	case horizontalCoil:
		// Horizontal slabs report length; depth stays nil for the series.
		spec.Width = dims.Width
		spec.Length = dims.Length
	}

	key, err := r.Key(m)
	if err != nil {
		return nil, err
	}
	req := pricing.Request{
		Series: r.cfg.series,
		Key:    key,
		Adders: []pricing.AdderSelection{
			{Category: "metering", Key: strconv.Itoa(meteringCode)},
		},
	}
	if rds != types.RDSNone {
		req.Adders = append(req.Adders, pricing.AdderSelection{
			Category: "rds", Key: string(rds),
		})
	}

	model, err := priceModel(ctx, store, spec, req, mode)
	if err != nil {
		return nil, err
	}
	return []types.PricedModel{model}, nil
}
