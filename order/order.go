// Package order implements the order aggregate: a single order's lifecycle
// from placement through fills to a terminal filled or cancelled status,
// rebuilt deterministically from its event history.
//
// The aggregate records outcomes only. Choosing counterparties and prices is
// the matching engine's job; Match merely appends the fill it reports and
// refuses fills that would exceed the requested amount, which signals a
// matching-engine bug upstream.
package order

import (
	"cosmossdk.io/math"

	"github.com/paw-chain/exchange-core/types"
)

// Order is the order aggregate state.
type Order struct {
	ID            string
	AccountID     string
	Side          types.Side
	Kind          types.OrderKind
	BaseCurrency  string
	QuoteCurrency string
	Amount        math.LegacyDec
	Price         *math.LegacyDec
	StopPrice     *math.LegacyDec
	FilledAmount  math.LegacyDec
	Status        types.OrderStatus
	Trades        []types.Trade
	Metadata      map[string]string

	cancelled bool
	changes   []types.Event
}

// PlaceParams carries the inputs of a place command.
type PlaceParams struct {
	OrderID       string
	AccountID     string
	Side          types.Side
	Kind          types.OrderKind
	BaseCurrency  string
	QuoteCurrency string
	Amount        math.LegacyDec
	Price         *math.LegacyDec
	StopPrice     *math.LegacyDec
	Metadata      map[string]string
}

// Place validates a place command and returns the new order aggregate with
// its placed event pending.
func Place(p PlaceParams) (*Order, error) {
	if p.OrderID == "" {
		return nil, types.ErrInvalidState.Wrap("order id must not be empty")
	}
	if !p.Side.Valid() {
		return nil, types.ErrInvalidState.Wrapf("unknown order side %q", p.Side)
	}
	if !p.Kind.Valid() {
		return nil, types.ErrInvalidState.Wrapf("unknown order kind %q", p.Kind)
	}
	if p.Amount.IsNil() || !p.Amount.IsPositive() {
		return nil, types.ErrInvalidAmount.Wrapf("order amount %s must be positive", p.Amount)
	}
	if p.Kind == types.OrderKindLimit {
		if p.Price == nil || !p.Price.IsPositive() {
			return nil, types.ErrInvalidPrice.Wrap("limit orders require a positive price")
		}
	}
	if p.BaseCurrency == "" || p.QuoteCurrency == "" || p.BaseCurrency == p.QuoteCurrency {
		return nil, types.ErrInvalidCurrency.Wrapf("invalid pair %s/%s", p.BaseCurrency, p.QuoteCurrency)
	}

	price := p.Price
	if p.Kind == types.OrderKindMarket {
		// Market orders carry no price; the matching engine sets execution prices.
		price = nil
	}

	o := &Order{}
	if err := o.raise(types.OrderPlaced{
		OrderID:       p.OrderID,
		AccountID:     p.AccountID,
		Side:          p.Side,
		Kind:          p.Kind,
		BaseCurrency:  p.BaseCurrency,
		QuoteCurrency: p.QuoteCurrency,
		Amount:        p.Amount,
		Price:         price,
		StopPrice:     p.StopPrice,
		Metadata:      p.Metadata,
	}); err != nil {
		return nil, err
	}
	return o, nil
}

// Match appends the fill reported by the matching engine and moves the
// status forward. The fill is rejected before any event is raised when the
// order is terminal or the fill would exceed the requested amount.
func (o *Order) Match(matchedOrderID, tradeID string, executedPrice, executedAmount, makerFee, takerFee math.LegacyDec) error {
	if o.Status.IsTerminal() {
		return types.ErrInvalidState.Wrapf("order %s is %s", o.ID, o.Status)
	}
	if executedAmount.IsNil() || !executedAmount.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("executed amount %s must be positive", executedAmount)
	}
	if executedPrice.IsNil() || !executedPrice.IsPositive() {
		return types.ErrInvalidPrice.Wrapf("executed price %s must be positive", executedPrice)
	}

	newFilled := o.FilledAmount.Add(executedAmount)
	if newFilled.GT(o.Amount) {
		return types.ErrOverfill.Wrapf("order %s: filled %s + executed %s exceeds amount %s",
			o.ID, o.FilledAmount, executedAmount, o.Amount)
	}

	return o.raise(types.OrderMatched{
		OrderID:        o.ID,
		MatchedOrderID: matchedOrderID,
		TradeID:        tradeID,
		ExecutedPrice:  executedPrice,
		ExecutedAmount: executedAmount,
		MakerFee:       makerFee,
		TakerFee:       takerFee,
		FilledAmount:   newFilled,
		Status:         types.DeriveOrderStatus(newFilled, o.Amount, false),
	})
}

// Cancel moves a non-terminal order to cancelled. The remaining unfilled
// amount is not executable afterward.
func (o *Order) Cancel(reason string, metadata map[string]string) error {
	if o.Status.IsTerminal() {
		return types.ErrInvalidState.Wrapf("order %s is %s", o.ID, o.Status)
	}
	return o.raise(types.OrderCancelled{
		OrderID:         o.ID,
		Reason:          reason,
		RemainingAmount: o.RemainingAmount(),
		Metadata:        metadata,
	})
}

// RemainingAmount returns the unfilled portion of the order.
func (o *Order) RemainingAmount() math.LegacyDec {
	return o.Amount.Sub(o.FilledAmount)
}

// IsBuyOrder reports whether the order buys the base currency.
func (o *Order) IsBuyOrder() bool { return o.Side == types.SideBuy }

// IsSellOrder reports whether the order sells the base currency.
func (o *Order) IsSellOrder() bool { return o.Side == types.SideSell }

// IsMarketOrder reports whether the order executes at market price.
func (o *Order) IsMarketOrder() bool { return o.Kind == types.OrderKindMarket }

// IsLimitOrder reports whether the order carries a limit price.
func (o *Order) IsLimitOrder() bool { return o.Kind == types.OrderKindLimit }

// UncommittedEvents returns the events raised since the last commit, in
// the order they were raised.
func (o *Order) UncommittedEvents() []types.Event { return o.changes }

// MarkCommitted clears the uncommitted event buffer after a successful
// append to the event store.
func (o *Order) MarkCommitted() { o.changes = nil }

// Replay rebuilds an order aggregate from its ordered event history.
func Replay(events []types.Event) (*Order, error) {
	o := &Order{}
	for _, ev := range events {
		if err := o.Apply(ev); err != nil {
			return nil, err
		}
	}
	o.changes = nil
	return o, nil
}

// raise applies the event and buffers it for the event store. Commands
// validate first, so applying here must not fail on live events.
func (o *Order) raise(ev types.Event) error {
	if err := o.Apply(ev); err != nil {
		return err
	}
	o.changes = append(o.changes, ev)
	return nil
}

// Apply is the side-effect-free reducer over the order's closed event set.
// It is total: every known kind is handled and anything unknown is a hard
// replay error.
func (o *Order) Apply(ev types.Event) error {
	if o.ID != "" && ev.AggregateID() != o.ID {
		return types.ErrAggregateMismatch.Wrapf("order %s got event for %s", o.ID, ev.AggregateID())
	}

	switch e := ev.(type) {
	case types.OrderPlaced:
		o.ID = e.OrderID
		o.AccountID = e.AccountID
		o.Side = e.Side
		o.Kind = e.Kind
		o.BaseCurrency = e.BaseCurrency
		o.QuoteCurrency = e.QuoteCurrency
		o.Amount = e.Amount
		o.Price = e.Price
		o.StopPrice = e.StopPrice
		o.Metadata = e.Metadata
		o.FilledAmount = math.LegacyZeroDec()
		o.Status = types.OrderStatusPending

	case types.OrderMatched:
		o.FilledAmount = e.FilledAmount
		o.Status = e.Status
		o.Trades = append(o.Trades, types.Trade{
			TradeID:             e.TradeID,
			CounterpartyOrderID: e.MatchedOrderID,
			ExecutedPrice:       e.ExecutedPrice,
			ExecutedAmount:      e.ExecutedAmount,
			MakerFee:            e.MakerFee,
			TakerFee:            e.TakerFee,
		})

	case types.OrderCancelled:
		o.cancelled = true
		o.Status = types.OrderStatusCancelled

	default:
		return types.ErrUnknownEvent.Wrapf("order aggregate cannot apply %q", ev.EventKind())
	}
	return nil
}
