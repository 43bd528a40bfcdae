package pool_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/exchange-core/pool"
	"github.com/paw-chain/exchange-core/types"
)

// twoProviderPool returns a pool where p1 holds two thirds of the shares
// and p2 one third.
func twoProviderPool(t *testing.T) *pool.Pool {
	t.Helper()
	p := seedTestPool(t)
	_, err := p.AddLiquidity("p2", mustDec(t, "50"), mustDec(t, "100"), math.LegacyDec{}, nil)
	require.NoError(t, err)
	return p
}

func pendingReward(t *testing.T, p *pool.Pool, providerID, currency string) math.LegacyDec {
	t.Helper()
	provider, ok := p.Providers[providerID]
	require.True(t, ok, "provider %s missing", providerID)
	amount, ok := provider.PendingRewards[currency]
	if !ok {
		return math.LegacyZeroDec()
	}
	return amount
}

// TestDistributeRewards_ProRata tests the share-weighted split.
// 30 USDT over a 2:1 share split credits 20 to p1 and 10 to p2.
func TestDistributeRewards_ProRata(t *testing.T) {
	p := twoProviderPool(t)

	require.NoError(t, p.DistributeRewards(mustDec(t, "30"), "USDT", nil))

	tol := mustDec(t, "0.000000001")
	p1 := pendingReward(t, p, "p1", "USDT")
	p2 := pendingReward(t, p, "p2", "USDT")
	require.True(t, p1.Sub(mustDec(t, "20")).Abs().LT(tol), "p1 credited %s", p1)
	require.True(t, p2.Sub(mustDec(t, "10")).Abs().LT(tol), "p2 credited %s", p2)

	// Truncated credits never exceed the deposit
	require.True(t, p1.Add(p2).LTE(mustDec(t, "30")))
}

// TestDistributeRewards_Accumulates tests repeated distributions per currency
func TestDistributeRewards_Accumulates(t *testing.T) {
	p := seedTestPool(t)

	require.NoError(t, p.DistributeRewards(mustDec(t, "10"), "USDT", nil))
	require.NoError(t, p.DistributeRewards(mustDec(t, "5"), "USDT", nil))
	require.NoError(t, p.DistributeRewards(mustDec(t, "1"), "BTC", nil))

	require.True(t, pendingReward(t, p, "p1", "USDT").Equal(mustDec(t, "15")))
	require.True(t, pendingReward(t, p, "p1", "BTC").Equal(mustDec(t, "1")))
}

// TestDistributeRewards_SnapshotExcludesLateJoiners tests that each
// distribution splits against the shares outstanding when it happened
func TestDistributeRewards_SnapshotExcludesLateJoiners(t *testing.T) {
	p := seedTestPool(t)
	require.NoError(t, p.DistributeRewards(mustDec(t, "30"), "USDT", nil))

	_, err := p.AddLiquidity("p2", mustDec(t, "50"), mustDec(t, "100"), math.LegacyDec{}, nil)
	require.NoError(t, err)
	require.NoError(t, p.DistributeRewards(mustDec(t, "30"), "USDT", nil))

	tol := mustDec(t, "0.000000001")
	p1 := pendingReward(t, p, "p1", "USDT")
	p2 := pendingReward(t, p, "p2", "USDT")
	require.True(t, p1.Sub(mustDec(t, "50")).Abs().LT(tol), "p1 credited %s", p1)
	require.True(t, p2.Sub(mustDec(t, "10")).Abs().LT(tol), "p2 credited %s", p2)

	// Replay reproduces the same split from the recorded share snapshots
	replayed, err := pool.Replay(p.UncommittedEvents())
	require.NoError(t, err)
	require.True(t, pendingReward(t, replayed, "p1", "USDT").Equal(p1))
	require.True(t, pendingReward(t, replayed, "p2", "USDT").Equal(p2))
}

// TestDistributeRewards_Invalid tests the distribution guards
func TestDistributeRewards_Invalid(t *testing.T) {
	p := seedTestPool(t)

	require.ErrorIs(t, p.DistributeRewards(mustDec(t, "0"), "USDT", nil), types.ErrInvalidAmount)
	require.ErrorIs(t, p.DistributeRewards(mustDec(t, "-5"), "USDT", nil), types.ErrInvalidAmount)
	require.ErrorIs(t, p.DistributeRewards(mustDec(t, "10"), "", nil), types.ErrInvalidCurrency)

	empty := createTestPool(t)
	require.ErrorIs(t, empty.DistributeRewards(mustDec(t, "10"), "USDT", nil), types.ErrNoLiquidity)
}

// TestClaimRewards tests payout, reset, and the empty-claim error
func TestClaimRewards(t *testing.T) {
	p := twoProviderPool(t)
	require.NoError(t, p.DistributeRewards(mustDec(t, "30"), "USDT", nil))

	expected := pendingReward(t, p, "p1", "USDT")
	claimed, err := p.ClaimRewards("p1", nil)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	require.True(t, claimed["USDT"].Equal(expected))

	// Pending balance zeroed; a second claim has nothing to pay
	require.True(t, pendingReward(t, p, "p1", "USDT").IsZero())
	_, err = p.ClaimRewards("p1", nil)
	require.ErrorIs(t, err, types.ErrNoRewards)

	// p2's balance untouched by p1's claim
	require.True(t, pendingReward(t, p, "p2", "USDT").IsPositive())

	_, err = p.ClaimRewards("ghost", nil)
	require.ErrorIs(t, err, types.ErrProviderNotFound)
}

// TestClaimRewards_EventCarriesAmounts tests that settlement reads the
// event payload, not recomputed state
func TestClaimRewards_EventCarriesAmounts(t *testing.T) {
	p := seedTestPool(t)
	require.NoError(t, p.DistributeRewards(mustDec(t, "10"), "USDT", nil))
	require.NoError(t, p.DistributeRewards(mustDec(t, "2"), "BTC", nil))

	claimed, err := p.ClaimRewards("p1", nil)
	require.NoError(t, err)

	events := p.UncommittedEvents()
	ev, ok := events[len(events)-1].(types.RewardsClaimed)
	require.True(t, ok)
	require.Equal(t, "p1", ev.ProviderID)
	require.Len(t, ev.Claimed, 2)
	require.True(t, ev.Claimed["USDT"].Equal(claimed["USDT"]))
	require.True(t, ev.Claimed["BTC"].Equal(claimed["BTC"]))
}

// TestEnableILProtection tests the one-time configuration and its guards
func TestEnableILProtection(t *testing.T) {
	p := seedTestPool(t)

	err := p.EnableImpermanentLossProtection(mustDec(t, "5"), mustDec(t, "80"), 72, mustDec(t, "10000"), nil)
	require.NoError(t, err)
	require.NotNil(t, p.ILProtection)
	require.True(t, p.ILProtection.ThresholdPct.Equal(mustDec(t, "5")))
	require.Equal(t, uint64(72), p.ILProtection.MinHoldingHours)

	// Configuration is one-time
	err = p.EnableImpermanentLossProtection(mustDec(t, "10"), mustDec(t, "50"), 24, mustDec(t, "500"), nil)
	require.ErrorIs(t, err, types.ErrInvalidState)
}

// TestEnableILProtection_Invalid tests parameter validation
func TestEnableILProtection_Invalid(t *testing.T) {
	p := seedTestPool(t)

	err := p.EnableImpermanentLossProtection(mustDec(t, "-1"), mustDec(t, "80"), 72, mustDec(t, "10000"), nil)
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	err = p.EnableImpermanentLossProtection(mustDec(t, "5"), mustDec(t, "0"), 72, mustDec(t, "10000"), nil)
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	err = p.EnableImpermanentLossProtection(mustDec(t, "5"), mustDec(t, "80"), 72, mustDec(t, "0"), nil)
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}

// TestClaimILProtection tests compensation claims against a position
func TestClaimILProtection(t *testing.T) {
	p := seedTestPool(t)
	require.NoError(t, p.EnableImpermanentLossProtection(mustDec(t, "5"), mustDec(t, "80"), 72, mustDec(t, "10000"), nil))

	err := p.ClaimImpermanentLossProtection("p1", "pos-1", mustDec(t, "12.5"), mustDec(t, "6.2"), mustDec(t, "10"), "USDT", nil)
	require.NoError(t, err)

	claims := p.Providers["p1"].ILClaims
	require.Len(t, claims, 1)
	require.Equal(t, "pos-1", claims[0].PositionID)
	require.True(t, claims[0].Compensation.Equal(mustDec(t, "10")))
	require.Equal(t, "USDT", claims[0].CompensationCurrency)

	err = p.ClaimImpermanentLossProtection("ghost", "pos-2", mustDec(t, "1"), mustDec(t, "1"), mustDec(t, "1"), "USDT", nil)
	require.ErrorIs(t, err, types.ErrProviderNotFound)

	err = p.ClaimImpermanentLossProtection("p1", "pos-3", mustDec(t, "1"), mustDec(t, "1"), mustDec(t, "0"), "USDT", nil)
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}

// TestRewards_InactiveGate tests that reward operations respect deactivation
func TestRewards_InactiveGate(t *testing.T) {
	p := twoProviderPool(t)
	require.NoError(t, p.DistributeRewards(mustDec(t, "30"), "USDT", nil))
	require.NoError(t, p.UpdateParameters(nil, boolPtr(false), nil))

	require.ErrorIs(t, p.DistributeRewards(mustDec(t, "10"), "USDT", nil), types.ErrInactivePool)
	_, err := p.ClaimRewards("p1", nil)
	require.ErrorIs(t, err, types.ErrInactivePool)
	require.ErrorIs(t,
		p.ClaimImpermanentLossProtection("p1", "pos-1", mustDec(t, "1"), mustDec(t, "1"), mustDec(t, "1"), "USDT", nil),
		types.ErrInactivePool)
}
