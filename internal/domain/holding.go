package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Holding represents a position in one asset: a share count plus the
// original purchase price per share. It is an immutable input to a
// simulation run; the engine never mutates it.
type Holding struct {
	AssetID   uuid.UUID
	Shares    int64
	CostBasis Money // purchase price per share, minor units
}

// Validate ensures the holding adheres to domain rules
func (h *Holding) Validate() error {
	if h.AssetID == uuid.Nil {
		return errors.New("holding must reference an asset")
	}
	if h.Shares < 0 {
		return errors.New("holding shares cannot be negative")
	}
	if h.CostBasis < 0 {
		return errors.New("holding cost basis cannot be negative")
	}
	return nil
}

// BookValue returns the original purchase cost of the position
// (shares x cost basis), in minor units.
func (h *Holding) BookValue() Money {
	return Money(h.Shares * int64(h.CostBasis))
}
