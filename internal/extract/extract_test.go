package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/series"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

func extractFixture() *refdata.Fixture {
	f := refdata.NewFixture()
	effective := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	f.SetBasePrice("HE", "36:212", types.ModeCurrent, 80000, effective)
	f.SetDimensions("HE", "212", refdata.DimensionRow{
		Depth:  types.Float64Ptr(21.5),
		Height: types.Float64Ptr(30),
		MinQty: 1,
	})
	f.SetAdder("HE", "metering", "1", 0)

	f.SetBasePrice("UC", "24:32", types.ModeCurrent, 52000, effective)
	f.SetDimensions("UC", "32", refdata.DimensionRow{
		Width:  types.Float64Ptr(19),
		Depth:  types.Float64Ptr(20.5),
		Height: types.Float64Ptr(24),
		MinQty: 1,
	})
	f.SetAdder("UC", "metering", "1", 0)

	return f
}

// testWorkbook lays out model numbers amid the usual pricebook noise:
// headers, prices, notes, and a second sheet.
func testWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()

	rows := [][]interface{}{
		{"Model Number", "Description", "Price"},
		{"HE362121", "3 ton cased coil", 800.00},
		{"UC24321", "2 ton uncased coil", 520.00},
		{"HE362121", "duplicate line", 800.00},
		{"HE482121", "no price on file", ""},
		{"", "subtotal", 1320.00},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	_, err := f.NewSheet("Accessories")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Accessories", "A1", &[]interface{}{"he-36-212-1", "also a duplicate"}))

	return f
}

func TestWorkbookExtraction(t *testing.T) {
	store := extractFixture()
	reg := series.NewDefaultRegistry()

	result, err := Workbook(context.Background(), store, reg, testWorkbook(t), types.ModeCurrent)
	require.NoError(t, err)

	require.Len(t, result.Models, 2)
	assert.Equal(t, "HE362121", result.Models[0].Specification.ModelNumber)
	assert.Equal(t, "UC24321", result.Models[1].Specification.ModelNumber)
	assert.Equal(t, 2, result.Duplicates)
	assert.Equal(t, []string{"Sheet1", "Accessories"}, result.SheetsRead)
}

func TestWorkbookFailuresDoNotAbortScan(t *testing.T) {
	store := extractFixture()
	reg := series.NewDefaultRegistry()
	f := excelize.NewFile()

	// A grammar-valid model with no base price row sits before a good one.
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"HE482121"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"HE362121"}))

	result, err := Workbook(context.Background(), store, reg, f, types.ModeCurrent)
	require.NoError(t, err)
	require.Len(t, result.Models, 1)
	assert.Equal(t, "HE362121", result.Models[0].Specification.ModelNumber)
}

func TestParseRejectsGarbage(t *testing.T) {
	store := extractFixture()
	reg := series.NewDefaultRegistry()

	_, err := Parse(context.Background(), store, reg, []byte("not a workbook"), types.ModeCurrent)
	assert.Error(t, err)
}

func TestAttachCustomerPricing(t *testing.T) {
	store := extractFixture()
	store.SetMaterialGroupDiscount(7, "SG", 25)
	reg := series.NewDefaultRegistry()

	models, ok := reg.Decode(context.Background(), store, "HE362121", types.ModeCurrent)
	require.True(t, ok)

	AttachCustomerPricing(context.Background(), store, 7, models)
	require.NotNil(t, models[0].Customer)
	assert.Equal(t, 60000, models[0].Customer.NetPrice)
}
