// Package book implements the order book aggregate: the per-market set of
// resting orders ranked by price-then-time priority.
//
// The book does no matching. A separate matching algorithm observes best
// bid/ask and crossing conditions and issues order fills plus book
// add/remove commands; the book only keeps the ranking honest.
package book

import (
	"time"

	"cosmossdk.io/math"

	"github.com/paw-chain/exchange-core/types"
)

// OrderBook is the order book aggregate state.
type OrderBook struct {
	ID            string
	BaseCurrency  string
	QuoteCurrency string

	// Buys is sorted descending by price, FIFO within a price level.
	Buys []types.BookEntry
	// Sells is sorted ascending by price, FIFO within a price level.
	Sells []types.BookEntry

	// LastPrice is the most recent trade price when known. Trades settle on
	// the order aggregate, so a book that never saw a snapshot carries none.
	LastPrice *math.LegacyDec

	initialized bool
	changes     []types.Event
}

// Initialize validates the one-time setup command and returns the new book
// aggregate with its initialization event pending.
func Initialize(orderBookID, baseCurrency, quoteCurrency string) (*OrderBook, error) {
	if orderBookID == "" {
		return nil, types.ErrInvalidState.Wrap("order book id must not be empty")
	}
	if baseCurrency == "" || quoteCurrency == "" || baseCurrency == quoteCurrency {
		return nil, types.ErrInvalidCurrency.Wrapf("invalid pair %s/%s", baseCurrency, quoteCurrency)
	}

	b := &OrderBook{}
	if err := b.raise(types.OrderBookInitialized{
		OrderBookID:   orderBookID,
		BaseCurrency:  baseCurrency,
		QuoteCurrency: quoteCurrency,
	}); err != nil {
		return nil, err
	}
	return b, nil
}

// AddOrder inserts a resting order into the side matching its side flag.
// Insertion keeps the side sorted (buys descending, sells ascending) and
// preserves arrival order among equal prices, realizing price-then-time
// priority.
func (b *OrderBook) AddOrder(orderID string, side types.Side, price, amount math.LegacyDec, timestamp time.Time) error {
	if !b.initialized {
		return types.ErrInvalidState.Wrap("order book not initialized")
	}
	if !side.Valid() {
		return types.ErrInvalidState.Wrapf("unknown order side %q", side)
	}
	if price.IsNil() || !price.IsPositive() {
		return types.ErrInvalidPrice.Wrapf("resting price %s must be positive", price)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("resting amount %s must be positive", amount)
	}

	return b.raise(types.OrderAddedToBook{
		OrderBookID: b.ID,
		OrderID:     orderID,
		Side:        side,
		Price:       price,
		Amount:      amount,
		Timestamp:   timestamp,
	})
}

// RemoveOrder removes the order from whichever side holds it. Removal is
// idempotent from the caller's perspective: an unknown order is still
// recorded, flagged as not found.
func (b *OrderBook) RemoveOrder(orderID, reason string) error {
	if !b.initialized {
		return types.ErrInvalidState.Wrap("order book not initialized")
	}

	_, found := b.locate(orderID)
	return b.raise(types.OrderRemovedFromBook{
		OrderBookID: b.ID,
		OrderID:     orderID,
		Reason:      reason,
		Found:       found,
	})
}

// TakeSnapshot records the full book state for audit without mutating it.
func (b *OrderBook) TakeSnapshot(metadata map[string]string) error {
	if !b.initialized {
		return types.ErrInvalidState.Wrap("order book not initialized")
	}

	buys := make([]types.BookEntry, len(b.Buys))
	copy(buys, b.Buys)
	sells := make([]types.BookEntry, len(b.Sells))
	copy(sells, b.Sells)

	var bestBid, bestAsk *math.LegacyDec
	if bid, ok := b.BestBid(); ok {
		bestBid = &bid
	}
	if ask, ok := b.BestAsk(); ok {
		bestAsk = &ask
	}

	return b.raise(types.OrderBookSnapshotTaken{
		OrderBookID: b.ID,
		BuyOrders:   buys,
		SellOrders:  sells,
		BestBid:     bestBid,
		BestAsk:     bestAsk,
		LastPrice:   b.LastPrice,
		Metadata:    metadata,
	})
}

// BestBid returns the highest resting buy price, if any.
func (b *OrderBook) BestBid() (math.LegacyDec, bool) {
	if len(b.Buys) == 0 {
		return math.LegacyDec{}, false
	}
	return b.Buys[0].Price, true
}

// BestAsk returns the lowest resting sell price, if any.
func (b *OrderBook) BestAsk() (math.LegacyDec, bool) {
	if len(b.Sells) == 0 {
		return math.LegacyDec{}, false
	}
	return b.Sells[0].Price, true
}

// Spread returns bestAsk - bestBid when both sides are populated.
func (b *OrderBook) Spread() (math.LegacyDec, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return math.LegacyDec{}, false
	}
	return ask.Sub(bid), true
}

// IsCrossed reports whether bestBid >= bestAsk. A crossed book is a signal
// for the matching algorithm, not an error of the book itself; it must be
// matched away before the book state is persisted as settled.
func (b *OrderBook) IsCrossed() bool {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	return okBid && okAsk && bid.GTE(ask)
}

// CheckInvariants verifies the ranking invariants of both sides.
func (b *OrderBook) CheckInvariants() error {
	for i := 1; i < len(b.Buys); i++ {
		if b.Buys[i].Price.GT(b.Buys[i-1].Price) {
			return types.ErrInvariantViolation.Wrapf("buy side unsorted at index %d", i)
		}
	}
	for i := 1; i < len(b.Sells); i++ {
		if b.Sells[i].Price.LT(b.Sells[i-1].Price) {
			return types.ErrInvariantViolation.Wrapf("sell side unsorted at index %d", i)
		}
	}
	return nil
}

// UncommittedEvents returns the events raised since the last commit.
func (b *OrderBook) UncommittedEvents() []types.Event { return b.changes }

// MarkCommitted clears the uncommitted event buffer.
func (b *OrderBook) MarkCommitted() { b.changes = nil }

// Replay rebuilds an order book aggregate from its ordered event history.
func Replay(events []types.Event) (*OrderBook, error) {
	b := &OrderBook{}
	for _, ev := range events {
		if err := b.Apply(ev); err != nil {
			return nil, err
		}
	}
	b.changes = nil
	return b, nil
}

func (b *OrderBook) raise(ev types.Event) error {
	if err := b.Apply(ev); err != nil {
		return err
	}
	b.changes = append(b.changes, ev)
	return nil
}

// Apply is the side-effect-free reducer over the book's closed event set.
func (b *OrderBook) Apply(ev types.Event) error {
	if b.ID != "" && ev.AggregateID() != b.ID {
		return types.ErrAggregateMismatch.Wrapf("book %s got event for %s", b.ID, ev.AggregateID())
	}

	switch e := ev.(type) {
	case types.OrderBookInitialized:
		if b.initialized {
			return types.ErrInvalidState.Wrapf("order book %s already initialized", b.ID)
		}
		b.ID = e.OrderBookID
		b.BaseCurrency = e.BaseCurrency
		b.QuoteCurrency = e.QuoteCurrency
		b.initialized = true

	case types.OrderAddedToBook:
		entry := types.BookEntry{
			OrderID:   e.OrderID,
			Price:     e.Price,
			Amount:    e.Amount,
			Timestamp: e.Timestamp,
		}
		if e.Side == types.SideBuy {
			b.Buys = insert(b.Buys, entry, func(have, add math.LegacyDec) bool {
				// Descending: a strictly higher price goes in front.
				return add.GT(have)
			})
		} else {
			b.Sells = insert(b.Sells, entry, func(have, add math.LegacyDec) bool {
				// Ascending: a strictly lower price goes in front.
				return add.LT(have)
			})
		}

	case types.OrderRemovedFromBook:
		if e.Found {
			b.remove(e.OrderID)
		}

	case types.OrderBookSnapshotTaken:
		// Audit record only; the book state is unchanged.
		if e.LastPrice != nil {
			b.LastPrice = e.LastPrice
		}

	default:
		return types.ErrUnknownEvent.Wrapf("order book aggregate cannot apply %q", ev.EventKind())
	}
	return nil
}

// insert places entry at the last position satisfying the ranking, so
// equal-priced entries keep their arrival order.
func insert(side []types.BookEntry, entry types.BookEntry, before func(have, add math.LegacyDec) bool) []types.BookEntry {
	pos := len(side)
	for i, have := range side {
		if before(have.Price, entry.Price) {
			pos = i
			break
		}
	}
	side = append(side, types.BookEntry{})
	copy(side[pos+1:], side[pos:])
	side[pos] = entry
	return side
}

func (b *OrderBook) locate(orderID string) (types.Side, bool) {
	for _, entry := range b.Buys {
		if entry.OrderID == orderID {
			return types.SideBuy, true
		}
	}
	for _, entry := range b.Sells {
		if entry.OrderID == orderID {
			return types.SideSell, true
		}
	}
	return "", false
}

func (b *OrderBook) remove(orderID string) {
	for i, entry := range b.Buys {
		if entry.OrderID == orderID {
			b.Buys = append(b.Buys[:i], b.Buys[i+1:]...)
			return
		}
	}
	for i, entry := range b.Sells {
		if entry.OrderID == orderID {
			b.Sells = append(b.Sells[:i], b.Sells[i+1:]...)
			return
		}
	}
}
