package types

import (
	"cosmossdk.io/math"
)

// DefaultFeeRate is the swap fee applied when pool creation does not
// specify one: 0.3%, deducted from the input before the constant-product
// formula.
func DefaultFeeRate() math.LegacyDec {
	return math.LegacyNewDecWithPrec(3, 3)
}

// DefaultRatioTolerance is the maximum relative deviation a follow-up
// deposit's quote/base ratio may have from the pool's reserve ratio: 1%.
func DefaultRatioTolerance() math.LegacyDec {
	return math.LegacyNewDecWithPrec(1, 2)
}

// Provider is one liquidity provider's position in a pool.
type Provider struct {
	// Shares is the provider's share balance
	Shares math.LegacyDec `json:"shares"`
	// PendingRewards maps reward currency to the accrued, unclaimed amount
	PendingRewards map[string]math.LegacyDec `json:"pending_rewards"`
	// ILClaims are the impermanent-loss compensation claims recorded so far
	ILClaims []ILClaim `json:"il_claims"`
}

// ILProtection is the pool's impermanent-loss protection configuration.
type ILProtection struct {
	// ThresholdPct is the minimum loss percentage before coverage applies
	ThresholdPct math.LegacyDec `json:"threshold_pct"`
	// MaxCoveragePct caps the covered fraction of the loss
	MaxCoveragePct math.LegacyDec `json:"max_coverage_pct"`
	// MinHoldingHours is the minimum position age before a claim is allowed
	MinHoldingHours uint64 `json:"min_holding_hours"`
	// FundSize is the compensation fund backing the coverage
	FundSize math.LegacyDec `json:"fund_size"`
}

// ILClaim is a single impermanent-loss compensation payout recorded for a
// provider position.
type ILClaim struct {
	// PositionID identifies the provider position the claim is for
	PositionID string `json:"position_id"`
	// ImpermanentLoss is the absolute loss the claim compensates
	ImpermanentLoss math.LegacyDec `json:"impermanent_loss"`
	// ImpermanentLossPct is the loss relative to the hold value
	ImpermanentLossPct math.LegacyDec `json:"impermanent_loss_pct"`
	// Compensation is the amount paid out
	Compensation math.LegacyDec `json:"compensation"`
	// CompensationCurrency is the currency the compensation is paid in
	CompensationCurrency string `json:"compensation_currency"`
}
