package book_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/exchange-core/book"
	"github.com/paw-chain/exchange-core/types"
)

func mustDec(t *testing.T, s string) math.LegacyDec {
	t.Helper()
	d, err := math.LegacyNewDecFromStr(s)
	require.NoError(t, err)
	return d
}

func newBook(t *testing.T) *book.OrderBook {
	t.Helper()
	b, err := book.Initialize(types.BookID("BTC", "USDT"), "BTC", "USDT")
	require.NoError(t, err)
	return b
}

func ts(t *testing.T, offset int) time.Time {
	t.Helper()
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Second)
}

// TestInitialize tests one-time setup and its guards
func TestInitialize(t *testing.T) {
	b := newBook(t)
	require.Equal(t, "BTC/USDT", b.ID)

	// Applying a second initialization to the same aggregate fails
	err := b.Apply(types.OrderBookInitialized{OrderBookID: "BTC/USDT", BaseCurrency: "BTC", QuoteCurrency: "USDT"})
	require.ErrorIs(t, err, types.ErrInvalidState)

	_, err = book.Initialize("", "BTC", "USDT")
	require.ErrorIs(t, err, types.ErrInvalidState)

	_, err = book.Initialize("X", "BTC", "BTC")
	require.ErrorIs(t, err, types.ErrInvalidCurrency)
}

// TestAddOrder_PricePriority tests descending buys and ascending sells
func TestAddOrder_PricePriority(t *testing.T) {
	b := newBook(t)

	require.NoError(t, b.AddOrder("b1", types.SideBuy, mustDec(t, "99"), mustDec(t, "1"), ts(t, 0)))
	require.NoError(t, b.AddOrder("b2", types.SideBuy, mustDec(t, "101"), mustDec(t, "1"), ts(t, 1)))
	require.NoError(t, b.AddOrder("b3", types.SideBuy, mustDec(t, "100"), mustDec(t, "1"), ts(t, 2)))

	require.NoError(t, b.AddOrder("s1", types.SideSell, mustDec(t, "105"), mustDec(t, "1"), ts(t, 3)))
	require.NoError(t, b.AddOrder("s2", types.SideSell, mustDec(t, "103"), mustDec(t, "1"), ts(t, 4)))
	require.NoError(t, b.AddOrder("s3", types.SideSell, mustDec(t, "104"), mustDec(t, "1"), ts(t, 5)))

	require.Equal(t, []string{"b2", "b3", "b1"}, orderIDs(b.Buys))
	require.Equal(t, []string{"s2", "s3", "s1"}, orderIDs(b.Sells))

	bid, ok := b.BestBid()
	require.True(t, ok)
	require.True(t, bid.Equal(mustDec(t, "101")))

	ask, ok := b.BestAsk()
	require.True(t, ok)
	require.True(t, ask.Equal(mustDec(t, "103")))

	spread, ok := b.Spread()
	require.True(t, ok)
	require.True(t, spread.Equal(mustDec(t, "2")))

	require.False(t, b.IsCrossed())
	require.NoError(t, b.CheckInvariants())
}

// TestAddOrder_TimePriorityAtSamePrice tests FIFO ordering within a price level
func TestAddOrder_TimePriorityAtSamePrice(t *testing.T) {
	b := newBook(t)

	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, b.AddOrder(id, types.SideBuy, mustDec(t, "100"), mustDec(t, "1"), ts(t, i)))
	}
	// A better price jumps the queue, equal prices stay FIFO
	require.NoError(t, b.AddOrder("better", types.SideBuy, mustDec(t, "101"), mustDec(t, "1"), ts(t, 9)))

	require.Equal(t, []string{"better", "first", "second", "third"}, orderIDs(b.Buys))
}

// TestAddOrder_EmptySideQueries tests absent best prices and spread
func TestAddOrder_EmptySideQueries(t *testing.T) {
	b := newBook(t)

	_, ok := b.BestBid()
	require.False(t, ok)
	_, ok = b.Spread()
	require.False(t, ok)

	require.NoError(t, b.AddOrder("b1", types.SideBuy, mustDec(t, "100"), mustDec(t, "1"), ts(t, 0)))
	_, ok = b.Spread()
	require.False(t, ok, "spread needs both sides")
}

// TestRemoveOrder tests removal and its idempotence
func TestRemoveOrder(t *testing.T) {
	b := newBook(t)
	require.NoError(t, b.AddOrder("b1", types.SideBuy, mustDec(t, "100"), mustDec(t, "1"), ts(t, 0)))
	require.NoError(t, b.AddOrder("b2", types.SideBuy, mustDec(t, "101"), mustDec(t, "1"), ts(t, 1)))

	require.NoError(t, b.RemoveOrder("b2", "cancelled"))
	require.Equal(t, []string{"b1"}, orderIDs(b.Buys))

	bid, ok := b.BestBid()
	require.True(t, ok)
	require.True(t, bid.Equal(mustDec(t, "100")))

	// Removing an unknown order succeeds and is still recorded
	before := len(b.UncommittedEvents())
	require.NoError(t, b.RemoveOrder("ghost", "cancelled"))
	events := b.UncommittedEvents()
	require.Len(t, events, before+1)

	removed, ok := events[len(events)-1].(types.OrderRemovedFromBook)
	require.True(t, ok)
	require.False(t, removed.Found)
}

// TestTakeSnapshot tests that snapshots record state without mutating it
func TestTakeSnapshot(t *testing.T) {
	b := newBook(t)
	require.NoError(t, b.AddOrder("b1", types.SideBuy, mustDec(t, "100"), mustDec(t, "2"), ts(t, 0)))
	require.NoError(t, b.AddOrder("s1", types.SideSell, mustDec(t, "105"), mustDec(t, "3"), ts(t, 1)))

	require.NoError(t, b.TakeSnapshot(map[string]string{"trigger": "audit"}))

	events := b.UncommittedEvents()
	snap, ok := events[len(events)-1].(types.OrderBookSnapshotTaken)
	require.True(t, ok)
	require.Len(t, snap.BuyOrders, 1)
	require.Len(t, snap.SellOrders, 1)
	require.NotNil(t, snap.BestBid)
	require.True(t, snap.BestBid.Equal(mustDec(t, "100")))
	require.NotNil(t, snap.BestAsk)
	require.True(t, snap.BestAsk.Equal(mustDec(t, "105")))

	// Book unchanged
	require.Equal(t, []string{"b1"}, orderIDs(b.Buys))
	require.Equal(t, []string{"s1"}, orderIDs(b.Sells))
}

// TestIsCrossed tests crossed-book detection for the matching algorithm
func TestIsCrossed(t *testing.T) {
	b := newBook(t)
	require.NoError(t, b.AddOrder("s1", types.SideSell, mustDec(t, "100"), mustDec(t, "1"), ts(t, 0)))
	require.False(t, b.IsCrossed())

	require.NoError(t, b.AddOrder("b1", types.SideBuy, mustDec(t, "100"), mustDec(t, "1"), ts(t, 1)))
	require.True(t, b.IsCrossed(), "bid == ask is crossed")

	require.NoError(t, b.RemoveOrder("b1", "matched"))
	require.False(t, b.IsCrossed())
}

// TestReplay_Deterministic tests that replaying history rebuilds identical ranking
func TestReplay_Deterministic(t *testing.T) {
	b := newBook(t)
	require.NoError(t, b.AddOrder("b1", types.SideBuy, mustDec(t, "100"), mustDec(t, "1"), ts(t, 0)))
	require.NoError(t, b.AddOrder("b2", types.SideBuy, mustDec(t, "100"), mustDec(t, "1"), ts(t, 1)))
	require.NoError(t, b.AddOrder("s1", types.SideSell, mustDec(t, "105"), mustDec(t, "1"), ts(t, 2)))
	require.NoError(t, b.RemoveOrder("b1", "cancelled"))
	require.NoError(t, b.TakeSnapshot(nil))

	replayed, err := book.Replay(b.UncommittedEvents())
	require.NoError(t, err)

	require.Equal(t, orderIDs(b.Buys), orderIDs(replayed.Buys))
	require.Equal(t, orderIDs(b.Sells), orderIDs(replayed.Sells))
	require.NoError(t, replayed.CheckInvariants())
	require.Empty(t, replayed.UncommittedEvents())
}

// TestReplay_UnknownEventIsHardError tests the closed event set
func TestReplay_UnknownEventIsHardError(t *testing.T) {
	b := newBook(t)
	history := append(b.UncommittedEvents(), types.OrderPlaced{
		OrderID: "BTC/USDT",
		Amount:  mustDec(t, "1"),
	})

	_, err := book.Replay(history)
	require.ErrorIs(t, err, types.ErrUnknownEvent)
}

func orderIDs(entries []types.BookEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.OrderID)
	}
	return ids
}
