package types

import (
	"cosmossdk.io/math"
)

// Decimal conventions for the exchange core.
//
// All monetary math runs on math.LegacyDec (18 decimal places over big.Int).
// Whenever the pool pays funds out, results are truncated (round-down), never
// rounded up, so the pool can never become undercollateralized. Standard
// rounding is acceptable only for informational metrics such as price impact.
const (
	// BaseAmountPlaces is the payout scale for base-currency amounts.
	BaseAmountPlaces = 8

	// QuoteAmountPlaces is the payout scale for quote-currency amounts.
	QuoteAmountPlaces = 2
)

// TruncateToPlaces truncates d to the given number of decimal places,
// always rounding toward zero.
func TruncateToPlaces(d math.LegacyDec, places uint64) math.LegacyDec {
	factor := math.LegacyNewDec(10).Power(places)
	return d.Mul(factor).TruncateDec().Quo(factor)
}

// DecSqrt returns the square root of d at 18 decimal places.
// d must be non-negative.
func DecSqrt(d math.LegacyDec) (math.LegacyDec, error) {
	if d.IsNegative() {
		return math.LegacyZeroDec(), ErrInvalidAmount.Wrap("square root of negative amount")
	}
	root, err := d.ApproxSqrt()
	if err != nil {
		return math.LegacyZeroDec(), ErrInvalidAmount.Wrapf("square root of %s: %v", d, err)
	}
	return root, nil
}

// RatioDeviation returns |actual - reference| / reference.
// reference must be positive; the caller is responsible for the zero check.
func RatioDeviation(actual, reference math.LegacyDec) math.LegacyDec {
	return actual.Sub(reference).Abs().Quo(reference)
}

// MinDec returns the smaller of a and b.
func MinDec(a, b math.LegacyDec) math.LegacyDec {
	return math.LegacyMinDec(a, b)
}
