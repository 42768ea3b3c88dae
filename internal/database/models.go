package database

import (
	"time"
)

// VendorBasePrice is one row of vendor_base_prices. Stage is 'current' or
// 'future'; (series, key, stage) is unique.
type VendorBasePrice struct {
	Series        string    `json:"series"`
	Key           string    `json:"key"`            // strict attribute subset, e.g. "36:212"
	Stage         string    `json:"stage"`          // 'current' | 'future'
	Price         int       `json:"price"`          // cents
	EffectiveDate time.Time `json:"effective_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VendorPriceAdder is one attribute-keyed price delta.
type VendorPriceAdder struct {
	Series    string    `json:"series"`
	Category  string    `json:"category"` // 'metering', 'rds', 'voltage', 'heat', 'tonnage'
	Key       string    `json:"key"`      // may be signed, e.g. "-1"
	Price     int       `json:"price"`    // cents
	CreatedAt time.Time `json:"created_at"`
}

// VendorDimension is the physical-attribute row for a series dimension key.
type VendorDimension struct {
	Series    string   `json:"series"`
	Key       string   `json:"key"` // width code or slab code
	Width     *float64 `json:"width"`
	Depth     *float64 `json:"depth"`
	Length    *float64 `json:"length"`
	Height    *float64 `json:"height"`
	Weight    *int     `json:"weight"` // lbs
	PalletQty *int     `json:"pallet_qty"`
	MinQty    int      `json:"min_qty"`
}

// VendorProduct is one known concrete model of a series.
type VendorProduct struct {
	ID          int64     `json:"id"`
	Series      string    `json:"series"`
	ModelNumber string    `json:"model_number"`
	Key         string    `json:"key"` // base-price key the model resolves to
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MaterialGroupDiscount is a customer's negotiated percentage off list for a
// material group.
type MaterialGroupDiscount struct {
	CustomerID    int64     `json:"customer_id"`
	MaterialGroup string    `json:"material_group"`
	Pct           float64   `json:"pct"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SpecialNetPrice is a per-customer per-model fixed net price.
type SpecialNetPrice struct {
	CustomerID  int64     `json:"customer_id"`
	ModelNumber string    `json:"model_number"`
	Price       int       `json:"price"` // cents
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CustomerPrice is one materialized net price in customer_pricing, rebuilt
// by the reprice worker after a committed update.
type CustomerPrice struct {
	CustomerID  int64     `json:"customer_id"`
	ModelNumber string    `json:"model_number"`
	NetPrice    int       `json:"net_price"` // cents
	Method      string    `json:"method"`    // 'zero_discount' | 'material_group' | 'special_net'
	ComputedAt  time.Time `json:"computed_at"`
}

// PriceUpdateRun is the bookkeeping row for one staged price update.
type PriceUpdateRun struct {
	ID            string     `json:"id"` // run_{uuid}
	Series        string     `json:"series"`
	Status        string     `json:"status"` // received, staged, applied, committed, rolled_back
	Source        string     `json:"source"` // 'api', 'cli'
	EffectiveDate time.Time  `json:"effective_date"`
	Filename      *string    `json:"filename"`
	ArchivePath   *string    `json:"archive_path"`
	Accepted      int        `json:"accepted"`
	Rejected      int        `json:"rejected"`
	NewProducts   int        `json:"new_products"`
	FuturePrices  int        `json:"future_prices"`
	ErrorMessage  *string    `json:"error_message"`
	StartedAt     *time.Time `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
}
