package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount in minor currency units (cents).
// All portfolio arithmetic is integer arithmetic over minor units;
// decimals appear only at the API boundary.
type Money int64

// minorUnitExponent is the number of decimal places between major and
// minor units (2 for cent-denominated currencies).
const minorUnitExponent = 2

// MoneyFromDecimal converts a major-unit decimal amount (e.g. "105.50")
// into minor units. Amounts with sub-cent precision are rejected rather
// than rounded.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	shifted := d.Shift(minorUnitExponent)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-cent precision", d.String())
	}
	return Money(shifted.IntPart()), nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -minorUnitExponent)
}

// String renders the amount in major units with two decimal places.
func (m Money) String() string {
	return m.Decimal().StringFixed(minorUnitExponent)
}
