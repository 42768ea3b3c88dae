package series

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

var testEffective = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// testStore builds fixture reference data covering one priced variant of
// every registered series.
func testStore() *refdata.Fixture {
	f := refdata.NewFixture()

	casedDims := refdata.DimensionRow{
		Depth:     types.Float64Ptr(21.5),
		Height:    types.Float64Ptr(30),
		WeightLbs: types.IntPtr(62),
		PalletQty: types.IntPtr(8),
		MinQty:    1,
	}
	for _, s := range []string{"HE", "HD", "HM"} {
		f.SetBasePrice(s, "36:212", types.ModeCurrent, 80000, testEffective)
		f.SetDimensions(s, "212", casedDims)
		f.SetAdder(s, "metering", "1", 0)
		f.SetAdder(s, "metering", "9", 4500)
		f.SetAdder(s, "metering", "-1", 1500)
		f.SetAdder(s, "rds", "R", 65000)
		f.SetAdder(s, "rds", "N", 45500)
	}
	for _, s := range []string{"CP", "CE"} {
		f.SetBasePrice(s, "24:245", types.ModeCurrent, 71000, testEffective)
		f.SetDimensions(s, "245", casedDims)
		f.SetAdder(s, "metering", "1", 0)
	}

	slabDims := refdata.DimensionRow{
		Width:     types.Float64Ptr(19),
		Depth:     types.Float64Ptr(20.5),
		Height:    types.Float64Ptr(24),
		WeightLbs: types.IntPtr(41),
		PalletQty: types.IntPtr(12),
		MinQty:    1,
	}
	horizDims := refdata.DimensionRow{
		Width:     types.Float64Ptr(19),
		Length:    types.Float64Ptr(38.5),
		Height:    types.Float64Ptr(20),
		WeightLbs: types.IntPtr(47),
		PalletQty: types.IntPtr(10),
		MinQty:    1,
	}
	for _, s := range []string{"UC", "UH"} {
		f.SetBasePrice(s, "24:32", types.ModeCurrent, 52000, testEffective)
		f.SetDimensions(s, "32", slabDims)
		f.SetAdder(s, "metering", "1", 0)
	}
	for _, s := range []string{"HH", "HL"} {
		f.SetBasePrice(s, "24:32", types.ModeCurrent, 56500, testEffective)
		f.SetDimensions(s, "32", horizDims)
		f.SetAdder(s, "metering", "1", 0)
	}

	ahDims := refdata.DimensionRow{
		Width:     types.Float64Ptr(21.5),
		Depth:     types.Float64Ptr(22),
		Height:    types.Float64Ptr(46),
		WeightLbs: types.IntPtr(120),
		PalletQty: types.IntPtr(4),
		MinQty:    1,
	}
	for _, s := range []string{"AMH", "AVH"} {
		f.SetBasePrice(s, "24:C", types.ModeCurrent, 120000, testEffective)
		f.SetBasePrice(s, "24:V", types.ModeCurrent, 140000, testEffective)
		f.SetDimensions(s, "24", ahDims)
		f.SetAdder(s, "voltage", "1", 0)
		f.SetAdder(s, "voltage", "2", 2500)
		f.SetAdder(s, "heat", "05", 8000)
		f.SetAdder(s, "heat", "08", 9500)
		f.SetAdder(s, "heat", "10", 11000)
		f.SetAdder(s, "tonnage", "24", 3000)
		f.SetAdder(s, "rds", "R", 30000)
	}
	for _, s := range []string{"AWH", "S"} {
		f.SetBasePrice(s, "24", types.ModeCurrent, 98000, testEffective)
		f.SetDimensions(s, "24", ahDims)
		f.SetAdder(s, "voltage", "1", 0)
		f.SetAdder(s, "heat", "05", 8000)
	}

	return f
}

func TestDecodeEverySeries(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()
	ctx := context.Background()

	tests := []struct {
		series string
		model  string
	}{
		{"AMH", "AMH241C105"},
		{"AVH", "AVH241V05"},
		{"AWH", "AWH241"},
		{"HE", "HE362121"},
		{"HD", "HD362121"},
		{"HM", "HM36212A1"},
		{"CP", "CP242451"},
		{"CE", "CE242451"},
		{"UC", "UC24321"},
		{"UH", "UH24321"},
		{"HH", "HH24321"},
		{"HL", "HL24321"},
		{"MX", "MX362121"},
		{"S", "S24105"},
	}

	for _, tt := range tests {
		t.Run(tt.series, func(t *testing.T) {
			models, ok := reg.Decode(ctx, store, tt.model, types.ModeCurrent)
			require.True(t, ok, "expected %q to decode", tt.model)
			require.Len(t, models, 1)

			m := models[0]
			assert.Equal(t, tt.series, m.Specification.Series)
			assert.Equal(t, tt.model, m.Specification.ModelNumber)
			assert.Greater(t, m.ZeroDiscount, 0)
			assert.Equal(t, types.ModeCurrent, m.Mode)
			assert.NotEmpty(t, m.Category)
		})
	}
}

func TestDecodeNormalizesRawText(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()

	models, ok := reg.Decode(context.Background(), store, " he-36-212-1 ", types.ModeCurrent)
	require.True(t, ok)
	assert.Equal(t, "HE362121", models[0].Specification.ModelNumber)
}

func TestDecodeNonModels(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()
	ctx := context.Background()

	for _, raw := range []string{"", "TOTAL", "21.5", "HE36", "ZZ999999", "Part Number"} {
		if _, ok := reg.Decode(ctx, store, raw, types.ModeCurrent); ok {
			t.Errorf("expected %q not to decode", raw)
		}
	}
}

func TestDecodeCasedCoilSpecification(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()

	models, ok := reg.Decode(context.Background(), store, "HE362121", types.ModeCurrent)
	require.True(t, ok)

	spec := models[0].Specification
	assert.InDelta(t, 3.0, spec.Tonnage, 1e-9)
	require.NotNil(t, spec.Width)
	assert.InDelta(t, 21.05, *spec.Width, 1e-9)
	require.NotNil(t, spec.Depth)
	assert.InDelta(t, 21.5, *spec.Depth, 1e-9)
	assert.Nil(t, spec.Length)
	assert.Equal(t, "Painted", spec.CabinetFinish)
	assert.Equal(t, "SG", spec.MaterialGroup)
	assert.Equal(t, 1, spec.MeteringCode)
	assert.False(t, spec.A2L)
	assert.Equal(t, "Cased Coils | Painted", models[0].Category)
}

func TestHorizontalCoilReportsLengthNotDepth(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()

	models, ok := reg.Decode(context.Background(), store, "HH24321", types.ModeCurrent)
	require.True(t, ok)

	spec := models[0].Specification
	assert.Nil(t, spec.Depth)
	require.NotNil(t, spec.Length)
	assert.InDelta(t, 38.5, *spec.Length, 1e-9)
	assert.Contains(t, models[0].Category, "Horizontal")
}

func TestFactoryRDSFlipsMeteringAdder(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()
	ctx := context.Background()

	plain, ok := reg.Decode(ctx, store, "HE362121", types.ModeCurrent)
	require.True(t, ok)
	factory, ok := reg.Decode(ctx, store, "HE362121R", types.ModeCurrent)
	require.True(t, ok)

	spec := factory[0].Specification
	assert.Equal(t, types.RDSFactory, spec.RDS)
	assert.Equal(t, -1, spec.MeteringCode)

	// Factory kit: flipped metering adder (1500) plus the rds adder (65000)
	// on top of the shared base price.
	assert.Equal(t, plain[0].Components.BasePrice, factory[0].Components.BasePrice)
	assert.Equal(t, plain[0].ZeroDiscount+1500+65000, factory[0].ZeroDiscount)
}

func TestA2LMeteringFlag(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()

	models, ok := reg.Decode(context.Background(), store, "HE362129", types.ModeCurrent)
	require.True(t, ok)
	assert.True(t, models[0].Specification.A2L)
	assert.Contains(t, models[0].Category, "A2L")
	assert.Equal(t, 80000+4500, models[0].ZeroDiscount)
}

func TestWildcardHeatExpansion(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()

	models, ok := reg.Decode(context.Background(), store, "AMH241C1XX", types.ModeCurrent)
	require.True(t, ok)
	require.Len(t, models, 3, "wildcard must expand to exactly one record per enumerated heat value")

	seen := map[int]string{}
	for _, m := range models {
		require.NotNil(t, m.Specification.HeatKW)
		seen[*m.Specification.HeatKW] = m.Specification.ModelNumber
		// All other attributes identical across the expansion.
		assert.Equal(t, 2.0, m.Specification.Tonnage)
		assert.Equal(t, "Constant torque", m.Specification.MotorType)
	}
	assert.Equal(t, map[int]string{
		5:  "AMH241C105",
		8:  "AMH241C108",
		10: "AMH241C110",
	}, seen)
}

func TestHeatAdderGuardedByConnection(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()
	ctx := context.Background()

	sweat, ok := reg.Decode(ctx, store, "AMH241C105", types.ModeCurrent)
	require.True(t, ok)
	quick, ok := reg.Decode(ctx, store, "AMH241C205", types.ModeCurrent)
	require.True(t, ok)

	// Same base row; the heat adder only applies on the sweat connection.
	assert.Equal(t, sweat[0].Components.BasePrice, quick[0].Components.BasePrice)
	assert.Equal(t, sweat[0].ZeroDiscount-8000, quick[0].ZeroDiscount)
}

func TestTonnageAdderOnlyForVariableSpeed(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()
	ctx := context.Background()

	constant, ok := reg.Decode(ctx, store, "AMH241C105", types.ModeCurrent)
	require.True(t, ok)
	variable, ok := reg.Decode(ctx, store, "AMH241V105", types.ModeCurrent)
	require.True(t, ok)

	hasTonnage := func(m types.PricedModel) bool {
		for _, a := range m.Components.Adders {
			if a.Category == "tonnage" {
				return true
			}
		}
		return false
	}
	assert.False(t, hasTonnage(constant[0]))
	assert.True(t, hasTonnage(variable[0]))
}

func TestAliasResolvesThroughRealSeries(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()
	ctx := context.Background()

	alias, ok := reg.Decode(ctx, store, "MX362121", types.ModeCurrent)
	require.True(t, ok)
	real, ok := reg.Decode(ctx, store, "HE362121", types.ModeCurrent)
	require.True(t, ok)

	assert.Equal(t, "MX", alias[0].Specification.Series)
	assert.Equal(t, "MX362121", alias[0].Specification.ModelNumber)
	assert.Equal(t, real[0].ZeroDiscount, alias[0].ZeroDiscount)
	assert.Equal(t, real[0].Specification.Width, alias[0].Specification.Width)
}

func TestMissingBasePriceIsNonMatch(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()

	// Grammar-valid tonnage with no price row on file.
	_, ok := reg.Decode(context.Background(), store, "HE482121", types.ModeCurrent)
	assert.False(t, ok)
}

func TestMissingDimensionRowIsNonMatch(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()

	_, ok := reg.Decode(context.Background(), store, "HE363991", types.ModeCurrent)
	assert.False(t, ok)
}

func TestFutureModeFallsBackToCurrent(t *testing.T) {
	reg := NewDefaultRegistry()
	store := testStore()
	ctx := context.Background()

	current, ok := reg.Decode(ctx, store, "HE362121", types.ModeCurrent)
	require.True(t, ok)
	future, ok := reg.Decode(ctx, store, "HE362121", types.ModeFuture)
	require.True(t, ok)
	assert.Equal(t, current[0].ZeroDiscount, future[0].ZeroDiscount)

	// An explicit future row changes only the future resolution.
	store.SetBasePrice("HE", "36:212", types.ModeFuture, 85000, testEffective.AddDate(0, 3, 0))
	future2, ok := reg.Decode(ctx, store, "HE362121", types.ModeFuture)
	require.True(t, ok)
	current2, ok := reg.Decode(ctx, store, "HE362121", types.ModeCurrent)
	require.True(t, ok)

	assert.Equal(t, 85000, future2[0].Components.BasePrice)
	assert.Equal(t, current[0].ZeroDiscount, current2[0].ZeroDiscount)
}

func TestPriceKeyNeedsNoReferenceData(t *testing.T) {
	reg := NewDefaultRegistry()

	tests := []struct {
		model  string
		series string
		key    string
	}{
		{"HE482121", "HE", "48:212"}, // no price on file, key still derivable
		{"UC24321", "UC", "24:32"},
		{"AMH241V105", "AMH", "24:V"},
		{"AWH241", "AWH", "24"},
		{"MX362121", "HE", "36:212"}, // alias models key into the real series' rows
	}
	for _, tt := range tests {
		series, key, ok := reg.PriceKey(tt.model)
		require.True(t, ok, tt.model)
		assert.Equal(t, tt.series, series)
		assert.Equal(t, tt.key, key)
	}

	_, _, ok := reg.PriceKey("not a model")
	assert.False(t, ok)
}

func TestPriceKeyAliasTargetsRealSeries(t *testing.T) {
	reg := NewDefaultRegistry()

	aliasSeries, aliasKey, ok := reg.PriceKey("MX362121")
	require.True(t, ok)
	realSeries, realKey, ok := reg.PriceKey("HE362121")
	require.True(t, ok)

	// A price staged from an alias sheet row must land on the exact row
	// that resolving either badge reads back.
	assert.Equal(t, realSeries, aliasSeries)
	assert.Equal(t, realKey, aliasKey)
}

func TestDescribeListsPriorityOrder(t *testing.T) {
	reg := NewDefaultRegistry()
	infos := reg.Describe()
	require.Len(t, infos, 14)
	assert.Equal(t, "AMH", infos[0].Series)
	assert.Equal(t, "S", infos[len(infos)-1].Series)

	for _, info := range infos {
		if info.Series == "MX" {
			assert.Equal(t, "HE", info.PricesAs)
		} else {
			assert.Empty(t, info.PricesAs)
		}
	}
}
