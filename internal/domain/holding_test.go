package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHolding_Validate_Valid(t *testing.T) {
	holding := &Holding{
		AssetID:   uuid.New(),
		Shares:    234,
		CostBasis: Money(650),
	}

	assert.NoError(t, holding.Validate())
}

func TestHolding_Validate_ZeroSharesIsValid(t *testing.T) {
	// A position can be fully in cash
	holding := &Holding{
		AssetID:   uuid.New(),
		Shares:    0,
		CostBasis: Money(0),
	}

	assert.NoError(t, holding.Validate())
}

func TestHolding_Validate_MissingAsset(t *testing.T) {
	holding := &Holding{Shares: 10, CostBasis: Money(100)}

	err := holding.Validate()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must reference an asset")
}

func TestHolding_Validate_NegativeShares(t *testing.T) {
	holding := &Holding{AssetID: uuid.New(), Shares: -1, CostBasis: Money(100)}

	err := holding.Validate()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "shares cannot be negative")
}

func TestHolding_Validate_NegativeCostBasis(t *testing.T) {
	holding := &Holding{AssetID: uuid.New(), Shares: 1, CostBasis: Money(-1)}

	err := holding.Validate()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cost basis cannot be negative")
}

func TestHolding_BookValue(t *testing.T) {
	holding := &Holding{AssetID: uuid.New(), Shares: 234, CostBasis: Money(650)}

	assert.Equal(t, Money(152100), holding.BookValue())
}
