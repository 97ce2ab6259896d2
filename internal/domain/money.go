package domain

import "github.com/shopspring/decimal"

// ToMinorUnits converts a major-unit amount (dollars) to the gateway's minor
// units (cents), rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// FromMinorUnits converts gateway minor units back to a two-place amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
