// Package pool implements the liquidity pool aggregate: a two-asset
// constant-product market maker with share-based liquidity accounting,
// fee-on-input swaps, reward distribution, and impermanent-loss
// compensation, rebuilt deterministically from its event history.
package pool

import (
	"cosmossdk.io/math"

	"github.com/paw-chain/exchange-core/types"
)

// Pool is the liquidity pool aggregate state.
type Pool struct {
	ID            string
	BaseCurrency  string
	QuoteCurrency string

	BaseReserve  math.LegacyDec
	QuoteReserve math.LegacyDec
	TotalShares  math.LegacyDec

	FeeRate  math.LegacyDec
	IsActive bool

	Providers    map[string]*types.Provider
	ILProtection *types.ILProtection
	Metadata     map[string]string

	created bool
	changes []types.Event
}

// SwapResult reports the outcome of an executed or simulated swap.
type SwapResult struct {
	OutputCurrency string
	OutputAmount   math.LegacyDec
	FeeAmount      math.LegacyDec
	PriceImpactPct math.LegacyDec
}

// Create validates the one-time pool creation command and returns the new
// pool aggregate with its creation event pending. A nil fee rate selects
// the 0.3% default.
func Create(poolID, baseCurrency, quoteCurrency string, feeRate math.LegacyDec, metadata map[string]string) (*Pool, error) {
	if poolID == "" {
		return nil, types.ErrInvalidState.Wrap("pool id must not be empty")
	}
	if baseCurrency == "" || quoteCurrency == "" || baseCurrency == quoteCurrency {
		return nil, types.ErrInvalidCurrency.Wrapf("invalid pair %s/%s", baseCurrency, quoteCurrency)
	}
	if feeRate.IsNil() {
		feeRate = types.DefaultFeeRate()
	}
	if feeRate.IsNegative() || feeRate.GTE(math.LegacyOneDec()) {
		return nil, types.ErrInvalidFeeRate.Wrapf("fee rate %s out of range", feeRate)
	}

	p := &Pool{}
	if err := p.raise(types.PoolCreated{
		PoolID:        poolID,
		BaseCurrency:  baseCurrency,
		QuoteCurrency: quoteCurrency,
		FeeRate:       feeRate,
		Metadata:      metadata,
	}); err != nil {
		return nil, err
	}
	return p, nil
}

// AddLiquidity deposits both assets and mints shares.
//
// The first deposit mints sqrt(base * quote) shares (geometric mean),
// establishing the initial price ratio and preventing initial-share
// manipulation. Later deposits must match the reserve ratio within 1% and
// mint totalShares * min(base/baseReserve, quote/quoteReserve): taking the
// minimum of the two ratios keeps a depositor from gaining disproportionate
// shares by skewing one side.
func (p *Pool) AddLiquidity(providerID string, baseAmount, quoteAmount, minShares math.LegacyDec, metadata map[string]string) (math.LegacyDec, error) {
	zero := math.LegacyZeroDec()
	if err := p.requireActive(); err != nil {
		return zero, err
	}
	if providerID == "" {
		return zero, types.ErrInvalidState.Wrap("provider id must not be empty")
	}
	if baseAmount.IsNil() || !baseAmount.IsPositive() || quoteAmount.IsNil() || !quoteAmount.IsPositive() {
		return zero, types.ErrInvalidAmount.Wrap("liquidity amounts must be positive")
	}
	if minShares.IsNil() {
		minShares = zero
	}

	var minted math.LegacyDec
	if p.TotalShares.IsZero() {
		if !p.BaseReserve.IsZero() || !p.QuoteReserve.IsZero() {
			return zero, types.ErrInvariantViolation.Wrap("pool has reserves but zero shares")
		}
		root, err := types.DecSqrt(baseAmount.Mul(quoteAmount))
		if err != nil {
			return zero, err
		}
		minted = root
	} else {
		if p.BaseReserve.IsZero() || p.QuoteReserve.IsZero() {
			return zero, types.ErrInvariantViolation.Wrap("pool has shares but zero reserves")
		}

		poolRatio := p.QuoteReserve.Quo(p.BaseReserve)
		inputRatio := quoteAmount.Quo(baseAmount)
		if types.RatioDeviation(inputRatio, poolRatio).GT(types.DefaultRatioTolerance()) {
			return zero, types.ErrRatioDeviation.Wrapf("deposit ratio %s vs pool ratio %s", inputRatio, poolRatio)
		}

		baseShare := baseAmount.Quo(p.BaseReserve)
		quoteShare := quoteAmount.Quo(p.QuoteReserve)
		minted = p.TotalShares.Mul(types.MinDec(baseShare, quoteShare))
	}

	if !minted.IsPositive() {
		return zero, types.ErrInvalidAmount.Wrap("liquidity contribution too small")
	}
	if minted.LT(minShares) {
		return zero, types.ErrSlippageExceeded.Wrapf("minted %s below minimum %s", minted, minShares)
	}

	if err := p.raise(types.LiquidityAdded{
		PoolID:          p.ID,
		ProviderID:      providerID,
		BaseAmount:      baseAmount,
		QuoteAmount:     quoteAmount,
		SharesMinted:    minted,
		NewBaseReserve:  p.BaseReserve.Add(baseAmount),
		NewQuoteReserve: p.QuoteReserve.Add(quoteAmount),
		NewTotalShares:  p.TotalShares.Add(minted),
		Metadata:        metadata,
	}); err != nil {
		return zero, err
	}
	return minted, nil
}

// RemoveLiquidity burns shares and pays out the proportional reserves.
// Payouts are truncated (base to 8 places, quote to 2), always rounding
// down so the pool never pays more than the proportional share.
func (p *Pool) RemoveLiquidity(providerID string, shares, minBaseAmount, minQuoteAmount math.LegacyDec, metadata map[string]string) (math.LegacyDec, math.LegacyDec, error) {
	zero := math.LegacyZeroDec()
	if err := p.requireActive(); err != nil {
		return zero, zero, err
	}
	if shares.IsNil() || !shares.IsPositive() {
		return zero, zero, types.ErrInvalidAmount.Wrap("shares must be positive")
	}
	if minBaseAmount.IsNil() {
		minBaseAmount = zero
	}
	if minQuoteAmount.IsNil() {
		minQuoteAmount = zero
	}
	if p.TotalShares.IsZero() {
		return zero, zero, types.ErrNoLiquidity.Wrap("pool has zero total shares")
	}
	if p.BaseReserve.IsZero() || p.QuoteReserve.IsZero() {
		return zero, zero, types.ErrInvariantViolation.Wrap("pool has shares but zero reserves")
	}

	provider, ok := p.Providers[providerID]
	if !ok {
		return zero, zero, types.ErrProviderNotFound.Wrapf("provider %s has no position in pool %s", providerID, p.ID)
	}
	if provider.Shares.LT(shares) {
		return zero, zero, types.ErrInsufficientShares.Wrapf("have %s, need %s", provider.Shares, shares)
	}

	baseOut := types.TruncateToPlaces(p.BaseReserve.Mul(shares).QuoTruncate(p.TotalShares), types.BaseAmountPlaces)
	quoteOut := types.TruncateToPlaces(p.QuoteReserve.Mul(shares).QuoTruncate(p.TotalShares), types.QuoteAmountPlaces)

	if baseOut.LT(minBaseAmount) || quoteOut.LT(minQuoteAmount) {
		return zero, zero, types.ErrSlippageExceeded.Wrapf("payout %s/%s below minimums %s/%s",
			baseOut, quoteOut, minBaseAmount, minQuoteAmount)
	}

	if err := p.raise(types.LiquidityRemoved{
		PoolID:          p.ID,
		ProviderID:      providerID,
		SharesBurned:    shares,
		BaseAmount:      baseOut,
		QuoteAmount:     quoteOut,
		NewBaseReserve:  p.BaseReserve.Sub(baseOut),
		NewQuoteReserve: p.QuoteReserve.Sub(quoteOut),
		NewTotalShares:  p.TotalShares.Sub(shares),
		Metadata:        metadata,
	}); err != nil {
		return zero, zero, err
	}
	return baseOut, quoteOut, nil
}

// ExecuteSwap swaps inputAmount of inputCurrency against the pool using the
// constant-product formula with the fee deducted from the input:
//
//	inputWithFee = inputAmount * (1 - feeRate)
//	output       = outputReserve * inputWithFee / (inputReserve + inputWithFee)
//
// The swap settles atomically: the single emitted event carries the fee and
// both post-swap reserves. The full input (fee included) enters the input
// reserve, so the fee accrues to liquidity providers through the reserves
// and the constant product never decreases.
func (p *Pool) ExecuteSwap(inputCurrency string, inputAmount, minOutputAmount math.LegacyDec) (SwapResult, error) {
	if err := p.requireActive(); err != nil {
		return SwapResult{}, err
	}
	if minOutputAmount.IsNil() {
		minOutputAmount = math.LegacyZeroDec()
	}

	res, err := p.quoteSwap(inputCurrency, inputAmount)
	if err != nil {
		return SwapResult{}, err
	}
	if res.OutputAmount.LT(minOutputAmount) {
		return SwapResult{}, types.ErrSlippageExceeded.Wrapf("output %s below minimum %s", res.OutputAmount, minOutputAmount)
	}

	newBase, newQuote := p.BaseReserve, p.QuoteReserve
	if inputCurrency == p.BaseCurrency {
		newBase = newBase.Add(inputAmount)
		newQuote = newQuote.Sub(res.OutputAmount)
	} else {
		newQuote = newQuote.Add(inputAmount)
		newBase = newBase.Sub(res.OutputAmount)
	}

	// The product may only grow: truncated output plus the retained fee keep
	// newK >= oldK, anything else is a math regression.
	oldK := p.BaseReserve.Mul(p.QuoteReserve)
	newK := newBase.Mul(newQuote)
	if newK.LT(oldK) {
		return SwapResult{}, types.ErrInvariantViolation.Wrapf(
			"constant product decreased in swap: old_k=%s, new_k=%s", oldK, newK)
	}

	if err := p.raise(types.SwapExecuted{
		PoolID:          p.ID,
		InputCurrency:   inputCurrency,
		OutputCurrency:  res.OutputCurrency,
		InputAmount:     inputAmount,
		OutputAmount:    res.OutputAmount,
		FeeAmount:       res.FeeAmount,
		PriceImpactPct:  res.PriceImpactPct,
		NewBaseReserve:  newBase,
		NewQuoteReserve: newQuote,
	}); err != nil {
		return SwapResult{}, err
	}
	return res, nil
}

// SimulateSwap quotes a swap without executing it or recording anything.
func (p *Pool) SimulateSwap(inputCurrency string, inputAmount math.LegacyDec) (SwapResult, error) {
	if err := p.requireActive(); err != nil {
		return SwapResult{}, err
	}
	return p.quoteSwap(inputCurrency, inputAmount)
}

// quoteSwap computes output, fee and price impact for a prospective swap.
func (p *Pool) quoteSwap(inputCurrency string, inputAmount math.LegacyDec) (SwapResult, error) {
	if inputAmount.IsNil() || !inputAmount.IsPositive() {
		return SwapResult{}, types.ErrInvalidAmount.Wrap("swap amount must be positive")
	}

	var inReserve, outReserve math.LegacyDec
	var outputCurrency string
	switch inputCurrency {
	case p.BaseCurrency:
		inReserve, outReserve = p.BaseReserve, p.QuoteReserve
		outputCurrency = p.QuoteCurrency
	case p.QuoteCurrency:
		inReserve, outReserve = p.QuoteReserve, p.BaseReserve
		outputCurrency = p.BaseCurrency
	default:
		return SwapResult{}, types.ErrInvalidCurrency.Wrapf("currency %s not in pool %s/%s",
			inputCurrency, p.BaseCurrency, p.QuoteCurrency)
	}

	if inReserve.IsZero() || outReserve.IsZero() {
		return SwapResult{}, types.ErrNoLiquidity.Wrap("pool reserves must be positive")
	}

	feeAmount := inputAmount.Mul(p.FeeRate)
	inputWithFee := inputAmount.Sub(feeAmount)
	if !inputWithFee.IsPositive() {
		return SwapResult{}, types.ErrInvalidAmount.Wrap("swap amount too small after fee")
	}

	// Output is truncated: payouts always round down.
	output := outReserve.Mul(inputWithFee).QuoTruncate(inReserve.Add(inputWithFee))
	if !output.IsPositive() {
		return SwapResult{}, types.ErrNoLiquidity.Wrap("output amount too small")
	}
	if output.GTE(outReserve) {
		return SwapResult{}, types.ErrNoLiquidity.Wrapf("output %s >= reserve %s", output, outReserve)
	}

	// Informational metric: standard rounding is fine here.
	spotPrice := outReserve.Quo(inReserve)
	executionPrice := output.Quo(inputAmount)
	priceImpact := spotPrice.Sub(executionPrice).Abs().Quo(spotPrice).Mul(math.LegacyNewDec(100))

	return SwapResult{
		OutputCurrency: outputCurrency,
		OutputAmount:   output,
		FeeAmount:      feeAmount,
		PriceImpactPct: priceImpact,
	}, nil
}

// Rebalance compares the reserve ratio against targetRatio and records a
// rebalance intent when the deviation exceeds maxSlippage. The actual
// rebalancing trade is owned by an external workflow. A nil maxSlippage
// selects the 1% default. Returns whether an intent was recorded.
func (p *Pool) Rebalance(targetRatio, maxSlippage math.LegacyDec, metadata map[string]string) (bool, error) {
	if err := p.requireActive(); err != nil {
		return false, err
	}
	if targetRatio.IsNil() || !targetRatio.IsPositive() {
		return false, types.ErrInvalidAmount.Wrap("target ratio must be positive")
	}
	if maxSlippage.IsNil() {
		maxSlippage = math.LegacyNewDecWithPrec(1, 2)
	}
	if p.BaseReserve.IsZero() || p.QuoteReserve.IsZero() {
		return false, types.ErrNoLiquidity.Wrap("pool reserves must be positive")
	}

	currentRatio := p.BaseReserve.Quo(p.QuoteReserve)
	deviation := types.RatioDeviation(currentRatio, targetRatio)
	if deviation.LTE(maxSlippage) {
		return false, nil
	}

	if err := p.raise(types.PoolRebalanceRecorded{
		PoolID:       p.ID,
		CurrentRatio: currentRatio,
		TargetRatio:  targetRatio,
		Deviation:    deviation,
		MaxSlippage:  maxSlippage,
		Metadata:     metadata,
	}); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateParameters applies a partial parameter update. Passing neither
// field is a no-op. The inactive gate does not apply here: this is the only
// path that can reactivate a deactivated pool.
func (p *Pool) UpdateParameters(feeRate *math.LegacyDec, isActive *bool, metadata map[string]string) error {
	if !p.created {
		return types.ErrInvalidState.Wrap("pool not created")
	}
	if feeRate == nil && isActive == nil {
		return nil
	}
	if feeRate != nil && (feeRate.IsNegative() || feeRate.GTE(math.LegacyOneDec())) {
		return types.ErrInvalidFeeRate.Wrapf("fee rate %s out of range", feeRate)
	}

	return p.raise(types.PoolParametersUpdated{
		PoolID:   p.ID,
		FeeRate:  feeRate,
		IsActive: isActive,
		Metadata: metadata,
	})
}

// SpotPrice returns the pre-trade price of the other asset in terms of
// inputCurrency, i.e. outputReserve / inputReserve.
func (p *Pool) SpotPrice(inputCurrency string) (math.LegacyDec, error) {
	var inReserve, outReserve math.LegacyDec
	switch inputCurrency {
	case p.BaseCurrency:
		inReserve, outReserve = p.BaseReserve, p.QuoteReserve
	case p.QuoteCurrency:
		inReserve, outReserve = p.QuoteReserve, p.BaseReserve
	default:
		return math.LegacyZeroDec(), types.ErrInvalidCurrency.Wrapf("currency %s not in pool %s/%s",
			inputCurrency, p.BaseCurrency, p.QuoteCurrency)
	}
	if inReserve.IsZero() || outReserve.IsZero() {
		return math.LegacyZeroDec(), types.ErrNoLiquidity.Wrap("pool reserves must be positive")
	}
	return outReserve.Quo(inReserve), nil
}

// ConstantProduct returns baseReserve * quoteReserve.
func (p *Pool) ConstantProduct() math.LegacyDec {
	return p.BaseReserve.Mul(p.QuoteReserve)
}

// ProviderShares returns a provider's share balance, zero when unknown.
func (p *Pool) ProviderShares(providerID string) math.LegacyDec {
	if provider, ok := p.Providers[providerID]; ok {
		return provider.Shares
	}
	return math.LegacyZeroDec()
}

// UncommittedEvents returns the events raised since the last commit.
func (p *Pool) UncommittedEvents() []types.Event { return p.changes }

// MarkCommitted clears the uncommitted event buffer.
func (p *Pool) MarkCommitted() { p.changes = nil }

// Replay rebuilds a pool aggregate from its ordered event history.
func Replay(events []types.Event) (*Pool, error) {
	p := &Pool{}
	for _, ev := range events {
		if err := p.Apply(ev); err != nil {
			return nil, err
		}
	}
	p.changes = nil
	return p, nil
}

func (p *Pool) requireActive() error {
	if !p.created {
		return types.ErrInvalidState.Wrap("pool not created")
	}
	if !p.IsActive {
		return types.ErrInactivePool.Wrapf("pool %s is inactive", p.ID)
	}
	return nil
}

func (p *Pool) raise(ev types.Event) error {
	if err := p.Apply(ev); err != nil {
		return err
	}
	p.changes = append(p.changes, ev)
	return nil
}

func (p *Pool) provider(providerID string) *types.Provider {
	if p.Providers == nil {
		p.Providers = make(map[string]*types.Provider)
	}
	provider, ok := p.Providers[providerID]
	if !ok {
		provider = &types.Provider{
			Shares:         math.LegacyZeroDec(),
			PendingRewards: make(map[string]math.LegacyDec),
		}
		p.Providers[providerID] = provider
	}
	return provider
}

// Apply is the side-effect-free reducer over the pool's closed event set.
// It is total: every known kind is handled and anything unknown is a hard
// replay error.
func (p *Pool) Apply(ev types.Event) error {
	if p.ID != "" && ev.AggregateID() != p.ID {
		return types.ErrAggregateMismatch.Wrapf("pool %s got event for %s", p.ID, ev.AggregateID())
	}

	switch e := ev.(type) {
	case types.PoolCreated:
		if p.created {
			return types.ErrInvalidState.Wrapf("pool %s already created", p.ID)
		}
		p.ID = e.PoolID
		p.BaseCurrency = e.BaseCurrency
		p.QuoteCurrency = e.QuoteCurrency
		p.FeeRate = e.FeeRate
		p.BaseReserve = math.LegacyZeroDec()
		p.QuoteReserve = math.LegacyZeroDec()
		p.TotalShares = math.LegacyZeroDec()
		p.IsActive = true
		p.Metadata = e.Metadata
		p.created = true

	case types.LiquidityAdded:
		p.BaseReserve = e.NewBaseReserve
		p.QuoteReserve = e.NewQuoteReserve
		p.TotalShares = e.NewTotalShares
		provider := p.provider(e.ProviderID)
		provider.Shares = provider.Shares.Add(e.SharesMinted)

	case types.LiquidityRemoved:
		p.BaseReserve = e.NewBaseReserve
		p.QuoteReserve = e.NewQuoteReserve
		p.TotalShares = e.NewTotalShares
		provider := p.provider(e.ProviderID)
		provider.Shares = provider.Shares.Sub(e.SharesBurned)

	case types.SwapExecuted:
		p.BaseReserve = e.NewBaseReserve
		p.QuoteReserve = e.NewQuoteReserve

	case types.PoolRebalanceRecorded:
		// Intent record only; reserves move when the external workflow trades.

	case types.RewardsDistributed:
		p.applyRewardsDistributed(e)

	case types.RewardsClaimed:
		provider := p.provider(e.ProviderID)
		provider.PendingRewards = make(map[string]math.LegacyDec)

	case types.PoolParametersUpdated:
		if e.FeeRate != nil {
			p.FeeRate = *e.FeeRate
		}
		if e.IsActive != nil {
			p.IsActive = *e.IsActive
		}

	case types.ILProtectionEnabled:
		p.ILProtection = &types.ILProtection{
			ThresholdPct:    e.ThresholdPct,
			MaxCoveragePct:  e.MaxCoveragePct,
			MinHoldingHours: e.MinHoldingHours,
			FundSize:        e.FundSize,
		}

	case types.ILCompensationClaimed:
		provider := p.provider(e.ProviderID)
		provider.ILClaims = append(provider.ILClaims, types.ILClaim{
			PositionID:           e.PositionID,
			ImpermanentLoss:      e.ImpermanentLoss,
			ImpermanentLossPct:   e.ImpermanentLossPct,
			Compensation:         e.Compensation,
			CompensationCurrency: e.CompensationCurrency,
		})

	default:
		return types.ErrUnknownEvent.Wrapf("pool aggregate cannot apply %q", ev.EventKind())
	}
	return nil
}
