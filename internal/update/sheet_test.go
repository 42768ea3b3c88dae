package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shupe-carboni/pricebook-service/internal/series"
)

func sheetBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParsePriceCents(t *testing.T) {
	tests := []struct {
		cell    string
		want    int
		wantErr bool
	}{
		{"800", 80000, false},
		{"800.00", 80000, false},
		{"$1,234.56", 123456, false},
		{" 52.5 ", 5250, false},
		{"", 0, true},
		{"n/a", 0, true},
		{"-10", 0, true},
	}
	for _, tt := range tests {
		got, err := parsePriceCents(tt.cell)
		if tt.wantErr {
			assert.Error(t, err, tt.cell)
			continue
		}
		require.NoError(t, err, tt.cell)
		assert.Equal(t, tt.want, got, tt.cell)
	}
}

func TestParseSheet(t *testing.T) {
	reg := series.NewDefaultRegistry()
	content := sheetBytes(t, [][]interface{}{
		{"Model", "Price"},
		{"HE362121", "800.00"},
		{"he-48-212-1", "$850.00"}, // new model, key still derivable
		{"UC24321", "520.00"},      // wrong series, rejected
		{"HE362129", "bad"},        // unreadable price, rejected
		{"HE362121", "999.00"},     // duplicate, first occurrence wins
		{"", "1000"},
	})

	parsed, err := ParseSheet(content, "HE", reg, DefaultLayout)
	require.NoError(t, err)

	require.Len(t, parsed.Rows, 2)
	assert.Equal(t, "HE362121", parsed.Rows[0].ModelNumber)
	assert.Equal(t, "36:212", parsed.Rows[0].Key)
	assert.Equal(t, 80000, parsed.Rows[0].PriceCents)
	assert.Equal(t, "HE482121", parsed.Rows[1].ModelNumber)
	assert.Equal(t, "48:212", parsed.Rows[1].Key)
	assert.Equal(t, 85000, parsed.Rows[1].PriceCents)
	assert.Equal(t, 2, parsed.Rejected)
}

func TestParseSheetWildcardStagesOneRow(t *testing.T) {
	reg := series.NewDefaultRegistry()
	content := sheetBytes(t, [][]interface{}{
		{"Model", "Price"},
		{"AMH241C1XX", "1200.00"},
	})

	parsed, err := ParseSheet(content, "AMH", reg, DefaultLayout)
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 1)
	assert.Equal(t, "24:C", parsed.Rows[0].Key)
}

func TestParseSheetRejectsGarbageWorkbook(t *testing.T) {
	reg := series.NewDefaultRegistry()
	_, err := ParseSheet([]byte("not a workbook"), "HE", reg, DefaultLayout)
	assert.Error(t, err)
}
