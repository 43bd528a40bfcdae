package types

import (
	"cosmossdk.io/errors"
)

// ModuleName is the codespace for all exchange core errors.
const ModuleName = "exchange"

// Exchange core sentinel errors
var (
	ErrInvalidAmount      = errors.Register(ModuleName, 1, "amount must be positive")
	ErrInvalidPrice       = errors.Register(ModuleName, 2, "price must be positive")
	ErrInvalidState       = errors.Register(ModuleName, 3, "operation not allowed in current state")
	ErrOverfill           = errors.Register(ModuleName, 4, "fill exceeds remaining order amount")
	ErrInsufficientShares = errors.Register(ModuleName, 5, "insufficient liquidity shares")
	ErrSlippageExceeded   = errors.Register(ModuleName, 6, "result worse than requested minimum")
	ErrRatioDeviation     = errors.Register(ModuleName, 7, "deposit ratio deviates from pool ratio")
	ErrInactivePool       = errors.Register(ModuleName, 8, "pool is not active")
	ErrNoLiquidity        = errors.Register(ModuleName, 9, "pool has no liquidity")
	ErrProviderNotFound   = errors.Register(ModuleName, 10, "liquidity provider not found")
	ErrNoRewards          = errors.Register(ModuleName, 11, "no pending rewards to claim")
	ErrInvalidCurrency    = errors.Register(ModuleName, 12, "currency does not belong to this market")
	ErrUnknownEvent       = errors.Register(ModuleName, 13, "unknown event kind")
	ErrInvalidFeeRate     = errors.Register(ModuleName, 14, "fee rate must be in [0, 1)")
	ErrInvariantViolation = errors.Register(ModuleName, 15, "aggregate invariant violated")
	ErrVersionConflict    = errors.Register(ModuleName, 16, "aggregate version conflict")
	ErrAggregateMismatch  = errors.Register(ModuleName, 17, "event belongs to a different aggregate")
)
