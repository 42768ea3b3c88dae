package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

func engineFixture() *refdata.Fixture {
	f := refdata.NewFixture()
	f.SetBasePrice("HE", "36:212", types.ModeCurrent, 80000, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	f.SetBasePrice("HE", "36:212", types.ModeFuture, 84000, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	f.SetBasePrice("HE", "36:215", types.ModeCurrent, 81000, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	f.SetAdder("HE", "metering", "9", 4500)
	f.SetAdder("HE", "metering", "-1", 1500)
	f.SetAdder("HE", "rds", "R", 65000)
	return f
}

func TestZeroDiscountBaseOnly(t *testing.T) {
	e := NewEngine(engineFixture())

	components, effective, err := e.ZeroDiscount(context.Background(), Request{Series: "HE", Key: "36:212"}, types.ModeCurrent)
	require.NoError(t, err)
	assert.Equal(t, 80000, components.BasePrice)
	assert.Empty(t, components.Adders)
	assert.Equal(t, 80000, components.Total())
	assert.Equal(t, 2026, effective.Year())
}

func TestZeroDiscountAddersAreAdditive(t *testing.T) {
	e := NewEngine(engineFixture())
	req := Request{
		Series: "HE",
		Key:    "36:212",
		Adders: []AdderSelection{
			{Category: "metering", Key: "-1"},
			{Category: "rds", Key: "R"},
		},
	}

	components, _, err := e.ZeroDiscount(context.Background(), req, types.ModeCurrent)
	require.NoError(t, err)
	require.Len(t, components.Adders, 2)
	assert.Equal(t, 80000+1500+65000, components.Total())
}

func TestZeroDiscountMissingAdderContributesZero(t *testing.T) {
	e := NewEngine(engineFixture())
	req := Request{
		Series: "HE",
		Key:    "36:212",
		Adders: []AdderSelection{
			{Category: "metering", Key: "1"}, // no row on file
			{Category: "metering", Key: "9"},
		},
	}

	components, _, err := e.ZeroDiscount(context.Background(), req, types.ModeCurrent)
	require.NoError(t, err)
	require.Len(t, components.Adders, 1, "absent adder keys must not be recorded")
	assert.Equal(t, 80000+4500, components.Total())
}

func TestZeroDiscountNoCrossCategoryLeak(t *testing.T) {
	e := NewEngine(engineFixture())
	// "R" exists under rds but is requested under metering.
	req := Request{
		Series: "HE",
		Key:    "36:212",
		Adders: []AdderSelection{{Category: "metering", Key: "R"}},
	}

	components, _, err := e.ZeroDiscount(context.Background(), req, types.ModeCurrent)
	require.NoError(t, err)
	assert.Empty(t, components.Adders)
}

func TestZeroDiscountFutureMode(t *testing.T) {
	e := NewEngine(engineFixture())
	ctx := context.Background()

	future, effective, err := e.ZeroDiscount(ctx, Request{Series: "HE", Key: "36:212"}, types.ModeFuture)
	require.NoError(t, err)
	assert.Equal(t, 84000, future.BasePrice)
	assert.Equal(t, time.April, effective.Month())

	// No staged future row under this key, so future resolution falls back
	// to the current row.
	fallback, _, err := e.ZeroDiscount(ctx, Request{Series: "HE", Key: "36:215"}, types.ModeFuture)
	require.NoError(t, err)
	assert.Equal(t, 81000, fallback.BasePrice)
}

func TestZeroDiscountNoBasePrice(t *testing.T) {
	e := NewEngine(engineFixture())

	_, _, err := e.ZeroDiscount(context.Background(), Request{Series: "HE", Key: "48:212"}, types.ModeCurrent)
	var nbp *types.NoBasePriceError
	require.True(t, errors.As(err, &nbp))
	assert.Equal(t, "HE", nbp.Series)
	assert.Equal(t, "48:212", nbp.Key)
}
