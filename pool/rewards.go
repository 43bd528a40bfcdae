package pool

import (
	"cosmossdk.io/math"

	"github.com/paw-chain/exchange-core/types"
)

// DistributeRewards credits rewardAmount of rewardCurrency to providers
// pro-rata by share. The event records only the deposit and the share total
// it was computed against; the per-provider split happens in the reducer,
// so replay credits providers exactly as the live command did, including
// histories restored from snapshots with late-joining providers.
func (p *Pool) DistributeRewards(rewardAmount math.LegacyDec, rewardCurrency string, metadata map[string]string) error {
	if err := p.requireActive(); err != nil {
		return err
	}
	if rewardAmount.IsNil() || !rewardAmount.IsPositive() {
		return types.ErrInvalidAmount.Wrap("reward amount must be positive")
	}
	if rewardCurrency == "" {
		return types.ErrInvalidCurrency.Wrap("reward currency must not be empty")
	}
	if p.TotalShares.IsZero() {
		return types.ErrNoLiquidity.Wrapf("pool %s has no shares to distribute to", p.ID)
	}

	return p.raise(types.RewardsDistributed{
		PoolID:         p.ID,
		RewardAmount:   rewardAmount,
		RewardCurrency: rewardCurrency,
		TotalShares:    p.TotalShares,
		Metadata:       metadata,
	})
}

// ClaimRewards pays out and zeroes a provider's pending rewards. The event
// carries the exact per-currency amounts so downstream settlement never
// re-derives them.
func (p *Pool) ClaimRewards(providerID string, metadata map[string]string) (map[string]math.LegacyDec, error) {
	if err := p.requireActive(); err != nil {
		return nil, err
	}
	provider, ok := p.Providers[providerID]
	if !ok {
		return nil, types.ErrProviderNotFound.Wrapf("provider %s has no position in pool %s", providerID, p.ID)
	}

	claimed := make(map[string]math.LegacyDec, len(provider.PendingRewards))
	for currency, amount := range provider.PendingRewards {
		if amount.IsPositive() {
			claimed[currency] = amount
		}
	}
	if len(claimed) == 0 {
		return nil, types.ErrNoRewards.Wrapf("provider %s has no pending rewards", providerID)
	}

	if err := p.raise(types.RewardsClaimed{
		PoolID:     p.ID,
		ProviderID: providerID,
		Claimed:    claimed,
		Metadata:   metadata,
	}); err != nil {
		return nil, err
	}
	return claimed, nil
}

// EnableImpermanentLossProtection stores the one-time IL protection
// configuration.
func (p *Pool) EnableImpermanentLossProtection(thresholdPct, maxCoveragePct math.LegacyDec, minHoldingHours uint64, fundSize math.LegacyDec, metadata map[string]string) error {
	if err := p.requireActive(); err != nil {
		return err
	}
	if p.ILProtection != nil {
		return types.ErrInvalidState.Wrapf("pool %s already has IL protection configured", p.ID)
	}
	if thresholdPct.IsNil() || thresholdPct.IsNegative() {
		return types.ErrInvalidAmount.Wrap("threshold percentage must not be negative")
	}
	if maxCoveragePct.IsNil() || !maxCoveragePct.IsPositive() {
		return types.ErrInvalidAmount.Wrap("max coverage percentage must be positive")
	}
	if fundSize.IsNil() || !fundSize.IsPositive() {
		return types.ErrInvalidAmount.Wrap("fund size must be positive")
	}

	return p.raise(types.ILProtectionEnabled{
		PoolID:          p.ID,
		ThresholdPct:    thresholdPct,
		MaxCoveragePct:  maxCoveragePct,
		MinHoldingHours: minHoldingHours,
		FundSize:        fundSize,
		Metadata:        metadata,
	})
}

// ClaimImpermanentLossProtection appends a compensation claim to the
// provider's position. Eligibility (holding period, loss threshold,
// coverage cap, fund balance) is assessed by the external compensation
// workflow that issues this command; the aggregate validates shape and
// records the outcome.
func (p *Pool) ClaimImpermanentLossProtection(providerID, positionID string, impermanentLoss, impermanentLossPct, compensation math.LegacyDec, compensationCurrency string, metadata map[string]string) error {
	if err := p.requireActive(); err != nil {
		return err
	}
	if _, ok := p.Providers[providerID]; !ok {
		return types.ErrProviderNotFound.Wrapf("provider %s has no position in pool %s", providerID, p.ID)
	}
	if compensation.IsNil() || !compensation.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("compensation %s must be positive", compensation)
	}

	return p.raise(types.ILCompensationClaimed{
		PoolID:               p.ID,
		ProviderID:           providerID,
		PositionID:           positionID,
		ImpermanentLoss:      impermanentLoss,
		ImpermanentLossPct:   impermanentLossPct,
		Compensation:         compensation,
		CompensationCurrency: compensationCurrency,
		Metadata:             metadata,
	})
}

// applyRewardsDistributed splits the reward across providers pro-rata by
// share. Credits are truncated so the sum never exceeds the deposit.
func (p *Pool) applyRewardsDistributed(e types.RewardsDistributed) {
	for _, provider := range p.Providers {
		if !provider.Shares.IsPositive() {
			continue
		}
		credit := e.RewardAmount.Mul(provider.Shares).QuoTruncate(e.TotalShares)
		if !credit.IsPositive() {
			continue
		}
		if provider.PendingRewards == nil {
			provider.PendingRewards = make(map[string]math.LegacyDec)
		}
		current, ok := provider.PendingRewards[e.RewardCurrency]
		if !ok {
			current = math.LegacyZeroDec()
		}
		provider.PendingRewards[e.RewardCurrency] = current.Add(credit)
	}
}
