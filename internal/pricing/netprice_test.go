package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shupe-carboni/pricebook-service/internal/refdata"
)

func TestNormalizePercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.35, "0.35"},
		{35, "0.35"},
		{1, "1"},
		{0, "0"},
		{2.5, "0.025"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePercent(tt.in).String(), "pct %v", tt.in)
	}
}

func TestDiscountedCentsRounding(t *testing.T) {
	// 33333 * 0.85 = 28333.05 -> 28333; 33335 * 0.985 = 32834.975 -> 32835.
	assert.Equal(t, 28333, discountedCents(33333, 15))
	assert.Equal(t, 32835, discountedCents(33335, 1.5))
	// Exact half rounds up under floor(x+0.5).
	assert.Equal(t, 88, discountedCents(175, 50))
}

func TestCustomerNetNoArrangements(t *testing.T) {
	f := refdata.NewFixture()

	cp, err := CustomerNet(context.Background(), f, 42, "HE362121", "SG", 80000)
	require.NoError(t, err)
	assert.Nil(t, cp.MaterialGroupPrice)
	assert.Nil(t, cp.SpecialNetPrice)
	assert.Equal(t, 80000, cp.NetPrice)
}

func TestCustomerNetMaterialGroupDiscount(t *testing.T) {
	f := refdata.NewFixture()
	f.SetMaterialGroupDiscount(42, "SG", 25)

	cp, err := CustomerNet(context.Background(), f, 42, "HE362121", "SG", 80000)
	require.NoError(t, err)
	require.NotNil(t, cp.MaterialGroupPrice)
	assert.Equal(t, 60000, *cp.MaterialGroupPrice)
	assert.Equal(t, 60000, cp.NetPrice)
}

func TestCustomerNetZeroDiscountDropsToNil(t *testing.T) {
	f := refdata.NewFixture()
	f.SetMaterialGroupDiscount(42, "SG", 0)

	cp, err := CustomerNet(context.Background(), f, 42, "HE362121", "SG", 80000)
	require.NoError(t, err)
	assert.Nil(t, cp.MaterialGroupPrice, "a discount landing on the list price is no discount")
	assert.Equal(t, 80000, cp.NetPrice)
}

func TestCustomerNetSpecialNetPriceWins(t *testing.T) {
	f := refdata.NewFixture()
	f.SetMaterialGroupDiscount(42, "SG", 25)
	f.SetSpecialNetPrice(42, "HE362121", 55000)

	cp, err := CustomerNet(context.Background(), f, 42, "HE362121", "SG", 80000)
	require.NoError(t, err)
	require.NotNil(t, cp.SpecialNetPrice)
	assert.Equal(t, 55000, *cp.SpecialNetPrice)
	assert.Equal(t, 55000, cp.NetPrice)
	require.NotNil(t, cp.SNPDiscountPct)
	assert.InDelta(t, 31.25, *cp.SNPDiscountPct, 1e-9)
}

func TestCustomerNetNeverAboveList(t *testing.T) {
	f := refdata.NewFixture()
	// An SNP negotiated against an older, higher list price.
	f.SetSpecialNetPrice(42, "HE362121", 95000)

	cp, err := CustomerNet(context.Background(), f, 42, "HE362121", "SG", 80000)
	require.NoError(t, err)
	require.NotNil(t, cp.SpecialNetPrice)
	assert.Equal(t, 95000, *cp.SpecialNetPrice)
	assert.Equal(t, 80000, cp.NetPrice)
	assert.Nil(t, cp.SNPDiscountPct, "an SNP above list carries no discount percentage")
}
