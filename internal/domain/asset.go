package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Asset represents a tradable instrument listed on an exchange
type Asset struct {
	ID     uuid.UUID
	MIC    string // Market Identifier Code of the listing exchange (e.g. XNAS)
	Ticker string
}

// Validate ensures the asset adheres to domain rules
func (a *Asset) Validate() error {
	if a.MIC == "" {
		return errors.New("asset MIC cannot be empty")
	}
	if a.Ticker == "" {
		return errors.New("asset ticker cannot be empty")
	}
	return nil
}

// PriceQuote is a price observation for an asset at an instant,
// in minor units per share
type PriceQuote struct {
	AssetID uuid.UUID
	At      time.Time
	Price   Money
}
