package types

import (
	"cosmossdk.io/math"
)

// Side indicates which side of the market an order is on.
type Side string

const (
	// SideBuy indicates an order buying the base currency with the quote currency.
	SideBuy Side = "buy"

	// SideSell indicates an order selling the base currency for the quote currency.
	SideSell Side = "sell"
)

// Valid reports whether the side is one of the known values.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// OrderKind indicates how an order prices itself.
type OrderKind string

const (
	// OrderKindMarket indicates an order executing at whatever price the market offers.
	OrderKindMarket OrderKind = "market"

	// OrderKindLimit indicates an order executing only at its limit price or better.
	OrderKindLimit OrderKind = "limit"
)

// Valid reports whether the kind is one of the known values.
func (k OrderKind) Valid() bool {
	return k == OrderKindMarket || k == OrderKindLimit
}

// OrderStatus represents the current status of an order in its lifecycle.
//
// Order Lifecycle:
//
//	Pending → PartiallyFilled → Filled (successful execution path)
//	Pending → Cancelled (user cancellation)
//	PartiallyFilled → Cancelled (user cancels a partially filled order)
//
// Filled and Cancelled are terminal: no command mutates a terminal order.
type OrderStatus string

const (
	// OrderStatusPending indicates the order is active and unfilled.
	OrderStatusPending OrderStatus = "pending"

	// OrderStatusPartiallyFilled indicates the order has been partially executed.
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"

	// OrderStatusFilled indicates the order has been completely executed.
	OrderStatusFilled OrderStatus = "filled"

	// OrderStatusCancelled indicates the order was cancelled before full execution.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsTerminal reports whether the status permits no further lifecycle commands.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusFilled || s == OrderStatusCancelled
}

// DeriveOrderStatus computes the status implied by the fill level.
// Cancellation takes precedence over fill level; a fully filled order is
// filled only on exact decimal equality of filled and requested amounts.
func DeriveOrderStatus(filled, amount math.LegacyDec, cancelled bool) OrderStatus {
	switch {
	case cancelled:
		return OrderStatusCancelled
	case filled.Equal(amount):
		return OrderStatusFilled
	case filled.IsPositive():
		return OrderStatusPartiallyFilled
	default:
		return OrderStatusPending
	}
}

// Trade is a single fill recorded against an order.
type Trade struct {
	// TradeID is the unique identifier of the fill
	TradeID string `json:"trade_id"`
	// CounterpartyOrderID is the order on the other side of the fill
	CounterpartyOrderID string `json:"counterparty_order_id"`
	// ExecutedPrice is the price the fill executed at
	ExecutedPrice math.LegacyDec `json:"executed_price"`
	// ExecutedAmount is the base amount exchanged by the fill
	ExecutedAmount math.LegacyDec `json:"executed_amount"`
	// MakerFee is the fee charged to the resting order
	MakerFee math.LegacyDec `json:"maker_fee"`
	// TakerFee is the fee charged to the aggressing order
	TakerFee math.LegacyDec `json:"taker_fee"`
}
