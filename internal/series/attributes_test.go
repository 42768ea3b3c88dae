package series

import (
	"math"
	"testing"

	"github.com/shupe-carboni/pricebook-service/internal/types"
)

func TestDimensionFromCode(t *testing.T) {
	tests := []struct {
		code     int
		expected float64
	}{
		{212, 21.05},
		{217, 21.05},
		{215, 21.5},
		{210, 21.0},
		{245, 24.5},
		{180, 18.0},
		{141, 14.1},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got := DimensionFromCode(tt.code)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("DimensionFromCode(%d) = %v, want %v", tt.code, got, tt.expected)
			}
		})
	}
}

// Codes ending in a fractional digit must round-trip through the .05 value;
// every other code must divide cleanly by ten.
func TestDimensionCodeRoundTrip(t *testing.T) {
	for code := 100; code < 400; code++ {
		dim := DimensionFromCode(code)
		last := code % 10

		if last == 2 || last == 7 {
			frac := dim - math.Floor(dim)
			if math.Abs(frac-0.05) > 1e-9 {
				t.Fatalf("code %d: fraction = %v, want 0.05", code, frac)
			}
			// Both fractional digits decode to the same dimension; the
			// canonical re-encoding uses the 2 digit.
			if back := DimensionToCode(dim); back != (code/10)*10+2 {
				t.Fatalf("code %d: re-encoded to %d", code, back)
			}
		} else {
			if rem := math.Mod(float64(code), 10); rem == 0 && dim != float64(code)/10 {
				t.Fatalf("code %d: decoded %v", code, dim)
			}
			if back := DimensionToCode(dim); back != code {
				t.Fatalf("code %d: round-trip gave %d", code, back)
			}
		}
	}
}

func TestMeteringFor(t *testing.T) {
	tests := []struct {
		name     string
		digit    int
		rds      types.RDSVariant
		wantCode int
	}{
		{"Plain piston", 1, types.RDSNone, 1},
		{"Field RDS keeps index", 1, types.RDSField, 1},
		{"Factory RDS flips index", 1, types.RDSFactory, -1},
		{"Factory RDS flips TXV", 2, types.RDSFactory, -2},
		{"A2L TXV", 9, types.RDSNone, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, desc := meteringFor(tt.digit, tt.rds)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if desc == "" {
				t.Error("empty description")
			}
		})
	}
}
