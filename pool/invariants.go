package pool

import (
	"github.com/paw-chain/exchange-core/types"
)

// CheckInvariants audits the pool's accounting identities. It is meant for
// tests and for periodic integrity sweeps by the embedding process; every
// command already refuses to raise an event that would break these.
func (p *Pool) CheckInvariants() error {
	if !p.created {
		return nil
	}
	if p.BaseReserve.IsNegative() || p.QuoteReserve.IsNegative() {
		return types.ErrInvariantViolation.Wrapf("pool %s has negative reserves %s/%s",
			p.ID, p.BaseReserve, p.QuoteReserve)
	}
	if p.TotalShares.IsNegative() {
		return types.ErrInvariantViolation.Wrapf("pool %s has negative total shares %s", p.ID, p.TotalShares)
	}
	if p.TotalShares.IsZero() && (!p.BaseReserve.IsZero() || !p.QuoteReserve.IsZero()) {
		return types.ErrInvariantViolation.Wrapf("pool %s has reserves but zero shares", p.ID)
	}
	if !p.TotalShares.IsZero() && (p.BaseReserve.IsZero() || p.QuoteReserve.IsZero()) {
		return types.ErrInvariantViolation.Wrapf("pool %s has shares but zero reserves", p.ID)
	}

	for id, provider := range p.Providers {
		if provider.Shares.IsNegative() {
			return types.ErrInvariantViolation.Wrapf("provider %s has negative shares %s", id, provider.Shares)
		}
		if provider.Shares.GT(p.TotalShares) {
			return types.ErrInvariantViolation.Wrapf("provider %s shares %s exceed total %s",
				id, provider.Shares, p.TotalShares)
		}
		for currency, amount := range provider.PendingRewards {
			if amount.IsNegative() {
				return types.ErrInvariantViolation.Wrapf("provider %s has negative pending %s rewards", id, currency)
			}
		}
	}
	return nil
}
