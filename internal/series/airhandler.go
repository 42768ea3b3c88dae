package series

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shupe-carboni/pricebook-service/internal/grammar"
	"github.com/shupe-carboni/pricebook-service/internal/pricing"
	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// ahConfig parameterizes one air-handler series.
type ahConfig struct {
	series      string
	description string
	mount       string
	voltAlt     string // accepted voltage digits
	hasMotor    bool   // constant/variable motor segment
	hasConn     bool   // line-connection digit; gates the heat adder
	hasHeat     bool   // electric heat kit segment
	heatAlt     string // accepted heat codes, wildcard included where documented
	keyByMotor  bool   // base-price key includes the motor variant
}

type ahResolver struct {
	cfg     ahConfig
	grammar *grammar.Grammar
}

var ahVoltages = map[string]string{
	"1": "208/230-1",
	"2": "115-1",
	"3": "208/230-3",
}

var ahMotors = map[string]string{
	"C": "Constant torque",
	"V": "Variable speed",
}

func newAHResolver(cfg ahConfig) *ahResolver {
	base := len(cfg.series) + 2 + 1 // series + tonnage + voltage
	expr := fmt.Sprintf(`(?P<series>%s)(?P<ton>%s)(?P<volt>[%s])`, cfg.series, tonnageAlt, cfg.voltAlt)

	if cfg.hasMotor {
		expr += `(?P<motor>[CV])`
		base++
	}
	if cfg.hasConn {
		expr += `(?P<conn>[12])`
		base++
	}
	if cfg.hasHeat {
		expr += `(?P<heat>` + cfg.heatAlt + `)`
		base += 2
	}
	expr += `(?P<rds>[RN]?)`

	return &ahResolver{
		cfg:     cfg,
		grammar: grammar.MustCompile(cfg.series, []int{base, base + 1}, expr),
	}
}

func (r *ahResolver) Series() string            { return r.cfg.series }
func (r *ahResolver) Description() string       { return r.cfg.description }
func (r *ahResolver) Grammar() *grammar.Grammar { return r.grammar }

// Key is tonnage, extended with the motor letter on series where the two
// motor builds are priced as separate base rows. Voltage, heat, and RDS
// variants contribute adders only.
func (r *ahResolver) Key(m *grammar.Match) (string, error) {
	ton, err := m.Int("ton")
	if err != nil {
		return "", err
	}
	if r.cfg.keyByMotor {
		return fmt.Sprintf("%d:%s", ton, m.Segment("motor")), nil
	}
	return strconv.Itoa(ton), nil
}

func (r *ahResolver) Resolve(ctx context.Context, store refdata.Store, m *grammar.Match, mode types.PricingMode) ([]types.PricedModel, error) {
	heat := m.Segment("heat")
	if r.cfg.hasHeat && heat == wildcardHeat {
		// The placeholder expands into one concrete record per enumerated
		// heat value instead of resolving as a single ambiguous model.
		var out []types.PricedModel
		for _, concrete := range wildcardHeatValues {
			substituted := strings.Replace(m.Raw(), wildcardHeat, concrete, 1)
			cm, ok := r.grammar.Match(substituted)
			if !ok {
				return nil, fmt.Errorf("wildcard expansion %q did not re-match %s grammar", substituted, r.cfg.series)
			}
			models, err := r.resolveConcrete(ctx, store, cm, mode)
			if err != nil {
				return nil, err
			}
			out = append(out, models...)
		}
		return out, nil
	}

	return r.resolveConcrete(ctx, store, m, mode)
}

func (r *ahResolver) resolveConcrete(ctx context.Context, store refdata.Store, m *grammar.Match, mode types.PricingMode) ([]types.PricedModel, error) {
	ton, err := m.Int("ton")
	if err != nil {
		return nil, err
	}
	volt := m.Segment("volt")
	motor := m.Segment("motor")
	rds := rdsVariant(m.Segment("rds"))

	dims, err := dimensionRow(ctx, store, r.cfg.series, strconv.Itoa(ton))
	if err != nil {
		return nil, err
	}

	spec := types.Specification{
		Series:        r.cfg.series,
		ModelNumber:   m.Raw(),
		Tonnage:       tonsFromCode(ton),
		Width:         dims.Width,
		Depth:         dims.Depth,
		Height:        dims.Height,
		WeightLbs:     dims.WeightLbs,
		PalletQty:     dims.PalletQty,
		MinQty:        dims.MinQty,
		MotorType:     ahMotors[motor],
		MeteringCode:  2,
		Metering:      meteringDescriptions[2],
		CabinetFinish: r.cfg.mount,
		Material:      "Galvanized steel",
		MaterialGroup: "AH",
		Voltage:       ahVoltages[volt],
		RDS:           rds,
	}
	if spec.MotorType == "" {
		spec.MotorType = "Multi-speed"
	}

	if heat := m.Segment("heat"); heat != "" && heat != "00" {
		kw, err := m.Int("heat")
		if err != nil {
			return nil, err
		}
		spec.HeatKW = types.IntPtr(kw)
	}

	key, err := r.Key(m)
	if err != nil {
		return nil, err
	}

	req := pricing.Request{
		Series: r.cfg.series,
		Key:    key,
		Adders: []pricing.AdderSelection{
			{Category: "voltage", Key: volt},
		},
	}

	// The heat-kit adder only applies on sweat-connection cabinets; the
	// quick-connect line carries the kit in its base price.
	heatApplies := !r.cfg.hasConn || m.Segment("conn") == "1"
	if spec.HeatKW != nil && heatApplies {
		req.Adders = append(req.Adders, pricing.AdderSelection{
			Category: "heat", Key: m.Segment("heat"),
		})
	}

	// Tonnage surcharge exists only for the variable-speed motor build.
	if motor == "V" {
		req.Adders = append(req.Adders, pricing.AdderSelection{
			Category: "tonnage", Key: strconv.Itoa(ton),
		})
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
