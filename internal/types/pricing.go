package types

import "time"

// PricingMode selects which effective-price state a resolution reads.
type PricingMode string

const (
	ModeCurrent PricingMode = "current"
	ModeFuture  PricingMode = "future"
)

// Valid reports whether m is a known pricing mode.
func (m PricingMode) Valid() bool {
	return m == ModeCurrent || m == ModeFuture
}

// RDSVariant is the low-GWP refrigerant retrofit kit flag. The factory and
// field variants are mutually exclusive with each other and with none.
type RDSVariant string

const (
	RDSNone    RDSVariant = ""
	RDSFactory RDSVariant = "R"
	RDSField   RDSVariant = "N"
)

// DecodedModel is the ephemeral result of matching a raw string against one
// series grammar. It is always resolved further or discarded within the same
// operation, never persisted.
type DecodedModel struct {
	Series   string            `json:"series"`
	Raw      string            `json:"raw"`
	Segments map[string]string `json:"segments"`
}

// Specification is the resolved physical/engineering description of one
// concrete model. Dimensions are inches; a nil dimension means the attribute
// does not apply to the series (e.g. depth on a horizontal coil).
type Specification struct {
	Series        string     `json:"series"`
	ModelNumber   string     `json:"modelNumber"`
	Tonnage       float64    `json:"tonnage"`
	Width         *float64   `json:"width,omitempty"`
	Depth         *float64   `json:"depth,omitempty"`
	Length        *float64   `json:"length,omitempty"`
	Height        *float64   `json:"height,omitempty"`
	WeightLbs     *int       `json:"weightLbs,omitempty"`
	PalletQty     *int       `json:"palletQty,omitempty"`
	MinQty        int        `json:"minQty"`
	MotorType     string     `json:"motorType,omitempty"`
	MeteringCode  int        `json:"meteringCode"`
	Metering      string     `json:"metering"`
	CabinetFinish string     `json:"cabinetFinish,omitempty"`
	Material      string     `json:"material,omitempty"`
	MaterialGroup string     `json:"materialGroup"`
	HeatKW        *int       `json:"heatKw,omitempty"`
	Voltage       string     `json:"voltage,omitempty"`
	RDS           RDSVariant `json:"rds,omitempty"`
	A2L           bool       `json:"a2l"`
}

// Category derives the human grouping string for a specification. It is a
// pure function of the resolved attributes and is recomputed on every
// resolution; the inputs can differ between current and future pricing
// passes, so the result must never be cached across them.
func (s Specification) Category() string {
	var cat string
	switch {
	case s.Length != nil:
		cat = "Horizontal Coils"
	case s.MotorType != "":
		cat = "Air Handlers"
	case s.CabinetFinish == "":
		cat = "Uncased Coils"
	default:
		cat = "Cased Coils"
	}
	if s.CabinetFinish != "" && s.MotorType == "" {
		cat += " | " + s.CabinetFinish
	}
	switch s.RDS {
	case RDSFactory:
		cat += " | RDS Factory"
	case RDSField:
		cat += " | RDS Field"
	}
	if s.A2L {
		cat += " | A2L"
	}
	return cat
}

// AppliedAdder records one attribute-keyed price delta that contributed to a
// zero-discount price.
type AppliedAdder struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Cents    int    `json:"cents"`
}

// PriceComponents is the layered breakdown of a zero-discount price. All
// amounts are integer cents.
type PriceComponents struct {
	BasePrice int            `json:"basePrice"`
	Adders    []AppliedAdder `json:"adders,omitempty"`
}

// Total returns base price plus every applied adder.
func (p PriceComponents) Total() int {
	total := p.BasePrice
	for _, a := range p.Adders {
		total += a.Cents
	}
	return total
}

// CustomerPricing is the customer-specific pricing block attached to a priced
// model when a customer id was supplied. Nil pointer fields mean "no better
// price available", never zero.
type CustomerPricing struct {
	CustomerID         int64    `json:"customerId"`
	MaterialGroupPrice *int     `json:"materialGroupPrice,omitempty"`
	SpecialNetPrice    *int     `json:"specialNetPrice,omitempty"`
	SNPDiscountPct     *float64 `json:"snpDiscountPct,omitempty"`
	NetPrice           int      `json:"netPrice"`
}

// PricedModel is a fully resolved and priced model: the deliverable of a
// decode or bulk-extraction pass.
type PricedModel struct {
	Specification Specification    `json:"specification"`
	Category      string           `json:"category"`
	Components    PriceComponents  `json:"components"`
	ZeroDiscount  int              `json:"zeroDiscountPrice"`
	Mode          PricingMode      `json:"mode"`
	EffectiveDate time.Time        `json:"effectiveDate"`
	Customer      *CustomerPricing `json:"customer,omitempty"`
}

// ModelNumber is the identity a working set deduplicates on.
func (p PricedModel) ModelNumber() string {
	return p.Specification.ModelNumber
}

// PriceSheetRow is one parsed row of a vendor price sheet.
type PriceSheetRow struct {
	ModelNumber string `json:"modelNumber"`
	Key         string `json:"key"`
	PriceCents  int    `json:"priceCents"`
	RowNumber   int    `json:"rowNumber"`
}

// PriceSheet is the parsed content of one per-series sheet of a vendor
// price-update workbook.
type PriceSheet struct {
	Series string          `json:"series"`
	Rows   []PriceSheetRow `json:"rows"`
}

// UpdateStatus is the state of a price-update run.
type UpdateStatus string

const (
	UpdateReceived   UpdateStatus = "received"
	UpdateStaged     UpdateStatus = "staged"
	UpdateApplied    UpdateStatus = "applied"
	UpdateCommitted  UpdateStatus = "committed"
	UpdateRolledBack UpdateStatus = "rolled_back"
)

// UpdateResult summarizes one price-update request.
type UpdateResult struct {
	RunID         string       `json:"runId"`
	Series        string       `json:"series"`
	Status        UpdateStatus `json:"status"`
	Accepted      int          `json:"accepted"`
	Rejected      int          `json:"rejected"`
	NewProducts   int          `json:"newProducts"`
	FuturePrices  int          `json:"futurePrices"`
	EffectiveDate time.Time    `json:"effectiveDate"`
}

// Float64Ptr returns a pointer to the given float64.
func Float64Ptr(f float64) *float64 {
	return &f
}

// IntPtr returns a pointer to the given int.
func IntPtr(i int) *int {
	return &i
}
