package refdata

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// PGStore reads reference data from the pricing database. All queries are
// read-only; transaction isolation across requests is the database's job.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a reference-data store backed by a pgx pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// BasePrice fetches the base-price row for (series, key, mode). In future
// mode the pending future row wins when present, otherwise the current row
// is returned; current mode never sees future rows.
func (s *PGStore) BasePrice(ctx context.Context, series, key string, mode types.PricingMode) (BasePrice, error) {
	var bp BasePrice
	var stage string

	var err error
	if mode == types.ModeFuture {
		err = s.pool.QueryRow(ctx, `
			SELECT price, effective_date, stage
			FROM vendor_base_prices
			WHERE series = $1 AND key = $2 AND stage IN ('current', 'future')
			ORDER BY CASE stage WHEN 'future' THEN 0 ELSE 1 END
			LIMIT 1
		`, series, key).Scan(&bp.PriceCents, &bp.EffectiveDate, &stage)
	} else {
		err = s.pool.QueryRow(ctx, `
			SELECT price, effective_date, stage
			FROM vendor_base_prices
			WHERE series = $1 AND key = $2 AND stage = 'current'
		`, series, key).Scan(&bp.PriceCents, &bp.EffectiveDate, &stage)
	}

	if err == pgx.ErrNoRows {
		return BasePrice{}, ErrNotFound
	}
	if err != nil {
		return BasePrice{}, fmt.Errorf("base price lookup %s/%s: %w", series, key, err)
	}

	bp.Stage = types.PricingMode(stage)
	return bp, nil
}

// Adders fetches the full adder table for one series.
func (s *PGStore) Adders(ctx context.Context, series string) (AdderTable, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT category, key, price
		FROM vendor_price_adders
		WHERE series = $1
	`, series)
	if err != nil {
		return nil, fmt.Errorf("adder lookup %s: %w", series, err)
	}
	defer rows.Close()

	table := make(AdderTable)
	for rows.Next() {
		var category, key string
		var cents int
		if err := rows.Scan(&category, &key, &cents); err != nil {
			return nil, fmt.Errorf("adder scan %s: %w", series, err)
		}
		if table[category] == nil {
			table[category] = make(map[string]int)
		}
		table[category][key] = cents
	}
	return table, rows.Err()
}

// DimensionRow fetches physical attributes for a derived key.
func (s *PGStore) DimensionRow(ctx context.Context, series, key string) (DimensionRow, error) {
	var row DimensionRow
	var minQty *int

	err := s.pool.QueryRow(ctx, `
		SELECT width, depth, length, height, weight, pallet_qty, min_qty
		FROM vendor_dimensions
		WHERE series = $1 AND key = $2
	`, series, key).Scan(&row.Width, &row.Depth, &row.Length, &row.Height,
		&row.WeightLbs, &row.PalletQty, &minQty)

	if err == pgx.ErrNoRows {
		return DimensionRow{}, ErrNotFound
	}
	if err != nil {
		return DimensionRow{}, fmt.Errorf("dimension lookup %s/%s: %w", series, key, err)
	}

	if minQty != nil {
		row.MinQty = *minQty
	}
	return row, nil
}

// MaterialGroupDiscount fetches the percentage discount a customer has on a
// material group. The second return is false when no discount exists; that
// means "no better price available", never zero.
func (s *PGStore) MaterialGroupDiscount(ctx context.Context, customerID int64, group string) (float64, bool, error) {
	var pct float64
	err := s.pool.QueryRow(ctx, `
		SELECT discount_pct
		FROM material_group_discounts
		WHERE customer_id = $1 AND material_group = $2
	`, customerID, group).Scan(&pct)

	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("material group discount lookup %d/%s: %w", customerID, group, err)
	}
	return pct, true, nil
}

// SpecialNetPrice fetches the negotiated flat price for one customer+model
// pair, when one exists.
func (s *PGStore) SpecialNetPrice(ctx context.Context, customerID int64, model string) (int, bool, error) {
	var cents int
	err := s.pool.QueryRow(ctx, `
		SELECT price
		FROM special_net_prices
		WHERE customer_id = $1 AND model_number = $2
	`, customerID, model).Scan(&cents)

	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("snp lookup %d/%s: %w", customerID, model, err)
	}
	return cents, true, nil
}
