// Package series implements the per-product-series resolvers that fuse
// model-number decoding with specification and price resolution, plus the
// priority-ordered registry that bulk extraction decodes through.
package series

import (
	"strconv"

	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// tonnageAlt is the accepted tonnage codes as a pattern alternation. A code
// is nominal BTU/h in thousands; 12 to the ton.
const tonnageAlt = `18|24|30|36|42|48|60`

// tonsFromCode converts a tonnage code to tons.
func tonsFromCode(code int) float64 {
	return float64(code) / 12
}

// fractionalDigits are the width-code last digits that encode a 0.05"
// offset on top of the whole-inch value. Any other last digit packs a plain
// tenths value.
var fractionalDigits = map[int]bool{2: true, 7: true}

// DimensionFromCode recovers a nominal inch dimension from a packed 3-digit
// code: 215 -> 21.5, while 212 and 217 -> 21.05.
func DimensionFromCode(code int) float64 {
	if fractionalDigits[code%10] {
		return float64(code/10) + 0.05
	}
	return float64(code) / 10
}

// DimensionToCode packs an inch dimension back into its 3-digit code, the
// inverse of DimensionFromCode. Fractional .05 values encode with a trailing
// 2 (the canonical member of the fractional digit set).
func DimensionToCode(dim float64) int {
	whole := int(dim)
	frac := dim - float64(whole)
	if frac > 0.049 && frac < 0.051 {
		return whole*10 + 2
	}
	return int(dim*10 + 0.5)
}

// meteringDescriptions maps metering device codes to their catalog wording.
var meteringDescriptions = map[int]string{
	1: "Piston (R-410A)",
	2: "Non-bleed TXV (R-410A)",
	9: "Non-bleed TXV (R-454B)",
}

// a2lMeteringCode marks the R-454B metering device; its presence flags the
// whole model as an A2L variant.
const a2lMeteringCode = 9

// meteringFor resolves the effective metering code and description for a
// metering digit and RDS variant. The factory RDS kit reuses the same
// numeric codes with inverted meaning, so the index is sign-flipped when the
// factory variant is active.
func meteringFor(digit int, rds types.RDSVariant) (int, string) {
	code := digit
	if rds == types.RDSFactory {
		code = -digit
	}
	desc, ok := meteringDescriptions[digit]
	if !ok {
		desc = "Unknown metering device " + strconv.Itoa(digit)
	}
	if code < 0 {
		desc += ", factory RDS"
	}
	return code, desc
}

// wildcardHeat is the documented placeholder heat-capacity code, and
// wildcardHeatValues the fixed set of concrete heat codes it expands into.
// The set is enumerated, not derived.
const wildcardHeat = "XX"

var wildcardHeatValues = []string{"05", "08", "10"}

// rdsVariant parses the optional trailing RDS segment.
func rdsVariant(seg string) types.RDSVariant {
	switch seg {
	case "R":
		return types.RDSFactory
	case "N":
		return types.RDSField
	default:
		return types.RDSNone
	}
}
