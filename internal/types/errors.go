package types

import "fmt"

// NoBasePriceError means resolution reached a base-price lookup with no row
// on file. Pricing must never default a missing base price to zero; callers
// in bulk paths catch this per model and skip.
type NoBasePriceError struct {
	Series string
	Key    string
	Mode   PricingMode
}

func (e *NoBasePriceError) Error() string {
	return fmt.Sprintf("no base price for series %s key %q (mode %s)", e.Series, e.Key, e.Mode)
}

// MissingReferenceDataError means a dimension/material/attribute table has no
// row for a derived key. Handled like a missing base price: the item is
// skipped, the batch continues.
type MissingReferenceDataError struct {
	Table  string
	Series string
	Key    string
}

func (e *MissingReferenceDataError) Error() string {
	return fmt.Sprintf("no %s reference data for series %s key %q", e.Table, e.Series, e.Key)
}
