package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
)

// priceRepository implements domain.PriceSource over historical quote
// rows. It answers with the most recent quote at or before the
// requested instant, which is deterministic for a fixed (asset,
// instant) pair as the simulation contract requires.
type priceRepository struct {
	db *DB
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(db *DB) domain.PriceSource {
	return &priceRepository{db: db}
}

// PriceAt retrieves the asset's price at an instant, in minor units
// per share
func (r *priceRepository) PriceAt(ctx context.Context, assetID uuid.UUID, at time.Time) (domain.Money, error) {
	query := `
		SELECT price
		FROM asset_prices
		WHERE asset_id = $1 AND quoted_at <= $2
		ORDER BY quoted_at DESC
		LIMIT 1
	`

	// Quotes are stored as DECIMAL in major units
	var priceStr string
	err := r.db.QueryRowContext(ctx, query, assetID, at.UTC()).Scan(&priceStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("no quote found for asset %s at or before %s: %w",
				assetID, at.Format(time.RFC3339), err)
		}
		return 0, fmt.Errorf("failed to get price: %w", err)
	}

	priceDec, err := decimal.NewFromString(priceStr)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price: %w", err)
	}
	price, err := domain.MoneyFromDecimal(priceDec)
	if err != nil {
		return 0, fmt.Errorf("failed to convert price to minor units: %w", err)
	}

	return price, nil
}
