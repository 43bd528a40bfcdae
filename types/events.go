package types

import (
	"time"

	"cosmossdk.io/math"
)

// Event is one entry of an aggregate's append-only history. Every state
// mutation in the core happens by applying an event; replaying the full
// ordered history deterministically rebuilds current state.
//
// The set of kinds is closed per aggregate. Reducers match kinds
// exhaustively and treat anything unknown as a hard replay error rather
// than silently succeeding.
type Event interface {
	// AggregateID identifies the aggregate instance the event belongs to
	AggregateID() string
	// EventKind returns the closed-set kind tag of the event
	EventKind() string
}

// Event kinds per aggregate
const (
	// Order events
	EventOrderPlaced    = "order_placed"
	EventOrderMatched   = "order_matched"
	EventOrderCancelled = "order_cancelled"

	// OrderBook events
	EventOrderBookInitialized   = "order_book_initialized"
	EventOrderAddedToBook       = "order_added_to_book"
	EventOrderRemovedFromBook   = "order_removed_from_book"
	EventOrderBookSnapshotTaken = "order_book_snapshot_taken"

	// LiquidityPool events
	EventPoolCreated           = "pool_created"
	EventLiquidityAdded        = "liquidity_added"
	EventLiquidityRemoved      = "liquidity_removed"
	EventSwapExecuted          = "swap_executed"
	EventPoolRebalanceRecorded = "pool_rebalance_recorded"
	EventRewardsDistributed    = "rewards_distributed"
	EventRewardsClaimed        = "rewards_claimed"
	EventPoolParametersUpdated = "pool_parameters_updated"
	EventILProtectionEnabled   = "il_protection_enabled"
	EventILCompensationClaimed = "il_compensation_claimed"
)

// ============================================================================
// Order events
// ============================================================================

// OrderPlaced records the creation of an order.
type OrderPlaced struct {
	OrderID       string            `json:"order_id"`
	AccountID     string            `json:"account_id"`
	Side          Side              `json:"side"`
	Kind          OrderKind         `json:"kind"`
	BaseCurrency  string            `json:"base_currency"`
	QuoteCurrency string            `json:"quote_currency"`
	Amount        math.LegacyDec    `json:"amount"`
	Price         *math.LegacyDec   `json:"price,omitempty"`
	StopPrice     *math.LegacyDec   `json:"stop_price,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

func (e OrderPlaced) AggregateID() string { return e.OrderID }
func (e OrderPlaced) EventKind() string   { return EventOrderPlaced }

// OrderMatched records one fill against an order. FilledAmount and Status
// carry the post-fill values so projections never re-derive them.
type OrderMatched struct {
	OrderID        string         `json:"order_id"`
	MatchedOrderID string         `json:"matched_order_id"`
	TradeID        string         `json:"trade_id"`
	ExecutedPrice  math.LegacyDec `json:"executed_price"`
	ExecutedAmount math.LegacyDec `json:"executed_amount"`
	MakerFee       math.LegacyDec `json:"maker_fee"`
	TakerFee       math.LegacyDec `json:"taker_fee"`
	FilledAmount   math.LegacyDec `json:"filled_amount"`
	Status         OrderStatus    `json:"status"`
}

func (e OrderMatched) AggregateID() string { return e.OrderID }
func (e OrderMatched) EventKind() string   { return EventOrderMatched }

// OrderCancelled records the cancellation of a non-terminal order.
type OrderCancelled struct {
	OrderID         string            `json:"order_id"`
	Reason          string            `json:"reason"`
	RemainingAmount math.LegacyDec    `json:"remaining_amount"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

func (e OrderCancelled) AggregateID() string { return e.OrderID }
func (e OrderCancelled) EventKind() string   { return EventOrderCancelled }

// ============================================================================
// OrderBook events
// ============================================================================

// OrderBookInitialized records the one-time setup of a book for a pair.
type OrderBookInitialized struct {
	OrderBookID   string `json:"order_book_id"`
	BaseCurrency  string `json:"base_currency"`
	QuoteCurrency string `json:"quote_currency"`
}

func (e OrderBookInitialized) AggregateID() string { return e.OrderBookID }
func (e OrderBookInitialized) EventKind() string   { return EventOrderBookInitialized }

// OrderAddedToBook records a resting order entering one side of the book.
type OrderAddedToBook struct {
	OrderBookID string         `json:"order_book_id"`
	OrderID     string         `json:"order_id"`
	Side        Side           `json:"side"`
	Price       math.LegacyDec `json:"price"`
	Amount      math.LegacyDec `json:"amount"`
	Timestamp   time.Time      `json:"timestamp"`
}

func (e OrderAddedToBook) AggregateID() string { return e.OrderBookID }
func (e OrderAddedToBook) EventKind() string   { return EventOrderAddedToBook }

// OrderRemovedFromBook records a removal request. Removal is idempotent:
// the event is recorded even when the order was not resting, with Found
// reporting whether anything actually left the book.
type OrderRemovedFromBook struct {
	OrderBookID string `json:"order_book_id"`
	OrderID     string `json:"order_id"`
	Reason      string `json:"reason"`
	Found       bool   `json:"found"`
}

func (e OrderRemovedFromBook) AggregateID() string { return e.OrderBookID }
func (e OrderRemovedFromBook) EventKind() string   { return EventOrderRemovedFromBook }

// OrderBookSnapshotTaken records the full book state for audit. Taking a
// snapshot never mutates the book.
type OrderBookSnapshotTaken struct {
	OrderBookID string            `json:"order_book_id"`
	BuyOrders   []BookEntry       `json:"buy_orders"`
	SellOrders  []BookEntry       `json:"sell_orders"`
	BestBid     *math.LegacyDec   `json:"best_bid,omitempty"`
	BestAsk     *math.LegacyDec   `json:"best_ask,omitempty"`
	LastPrice   *math.LegacyDec   `json:"last_price,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (e OrderBookSnapshotTaken) AggregateID() string { return e.OrderBookID }
func (e OrderBookSnapshotTaken) EventKind() string   { return EventOrderBookSnapshotTaken }

// ============================================================================
// LiquidityPool events
// ============================================================================

// PoolCreated records the one-time creation of a pool.
type PoolCreated struct {
	PoolID        string            `json:"pool_id"`
	BaseCurrency  string            `json:"base_currency"`
	QuoteCurrency string            `json:"quote_currency"`
	FeeRate       math.LegacyDec    `json:"fee_rate"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

func (e PoolCreated) AggregateID() string { return e.PoolID }
func (e PoolCreated) EventKind() string   { return EventPoolCreated }

// LiquidityAdded records a deposit and the post-deposit pool totals.
type LiquidityAdded struct {
	PoolID          string            `json:"pool_id"`
	ProviderID      string            `json:"provider_id"`
	BaseAmount      math.LegacyDec    `json:"base_amount"`
	QuoteAmount     math.LegacyDec    `json:"quote_amount"`
	SharesMinted    math.LegacyDec    `json:"shares_minted"`
	NewBaseReserve  math.LegacyDec    `json:"new_base_reserve"`
	NewQuoteReserve math.LegacyDec    `json:"new_quote_reserve"`
	NewTotalShares  math.LegacyDec    `json:"new_total_shares"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

func (e LiquidityAdded) AggregateID() string { return e.PoolID }
func (e LiquidityAdded) EventKind() string   { return EventLiquidityAdded }

// LiquidityRemoved records a withdrawal and the post-withdrawal pool totals.
// BaseAmount and QuoteAmount are the truncated payout amounts.
type LiquidityRemoved struct {
	PoolID          string            `json:"pool_id"`
	ProviderID      string            `json:"provider_id"`
	SharesBurned    math.LegacyDec    `json:"shares_burned"`
	BaseAmount      math.LegacyDec    `json:"base_amount"`
	QuoteAmount     math.LegacyDec    `json:"quote_amount"`
	NewBaseReserve  math.LegacyDec    `json:"new_base_reserve"`
	NewQuoteReserve math.LegacyDec    `json:"new_quote_reserve"`
	NewTotalShares  math.LegacyDec    `json:"new_total_shares"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

func (e LiquidityRemoved) AggregateID() string { return e.PoolID }
func (e LiquidityRemoved) EventKind() string   { return EventLiquidityRemoved }

// SwapExecuted records a swap together with its settlement: the fee
// collected and both post-swap reserves live in the same event, so a swap
// is atomic and replay never sees reserves out of sync with fills.
type SwapExecuted struct {
	PoolID          string         `json:"pool_id"`
	InputCurrency   string         `json:"input_currency"`
	OutputCurrency  string         `json:"output_currency"`
	InputAmount     math.LegacyDec `json:"input_amount"`
	OutputAmount    math.LegacyDec `json:"output_amount"`
	FeeAmount       math.LegacyDec `json:"fee_amount"`
	PriceImpactPct  math.LegacyDec `json:"price_impact_pct"`
	NewBaseReserve  math.LegacyDec `json:"new_base_reserve"`
	NewQuoteReserve math.LegacyDec `json:"new_quote_reserve"`
}

func (e SwapExecuted) AggregateID() string { return e.PoolID }
func (e SwapExecuted) EventKind() string   { return EventSwapExecuted }

// PoolRebalanceRecorded records a rebalance intent. The actual rebalancing
// trade is owned by an external workflow; the aggregate only observes that
// the reserve ratio drifted beyond tolerance.
type PoolRebalanceRecorded struct {
	PoolID       string            `json:"pool_id"`
	CurrentRatio math.LegacyDec    `json:"current_ratio"`
	TargetRatio  math.LegacyDec    `json:"target_ratio"`
	Deviation    math.LegacyDec    `json:"deviation"`
	MaxSlippage  math.LegacyDec    `json:"max_slippage"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

func (e PoolRebalanceRecorded) AggregateID() string { return e.PoolID }
func (e PoolRebalanceRecorded) EventKind() string   { return EventPoolRebalanceRecorded }

// RewardsDistributed records a reward deposit. The pro-rata split across
// providers is computed when the event is applied, against TotalShares as
// captured here, so replay credits providers exactly as the live command did.
type RewardsDistributed struct {
	PoolID         string            `json:"pool_id"`
	RewardAmount   math.LegacyDec    `json:"reward_amount"`
	RewardCurrency string            `json:"reward_currency"`
	TotalShares    math.LegacyDec    `json:"total_shares"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

func (e RewardsDistributed) AggregateID() string { return e.PoolID }
func (e RewardsDistributed) EventKind() string   { return EventRewardsDistributed }

// RewardsClaimed records a provider claiming all pending rewards. Claimed
// carries the exact per-currency amounts zeroed by the claim.
type RewardsClaimed struct {
	PoolID     string                    `json:"pool_id"`
	ProviderID string                    `json:"provider_id"`
	Claimed    map[string]math.LegacyDec `json:"claimed"`
	Metadata   map[string]string         `json:"metadata,omitempty"`
}

func (e RewardsClaimed) AggregateID() string { return e.PoolID }
func (e RewardsClaimed) EventKind() string   { return EventRewardsClaimed }

// PoolParametersUpdated records a partial parameter update. Nil fields were
// not part of the update.
type PoolParametersUpdated struct {
	PoolID   string            `json:"pool_id"`
	FeeRate  *math.LegacyDec   `json:"fee_rate,omitempty"`
	IsActive *bool             `json:"is_active,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (e PoolParametersUpdated) AggregateID() string { return e.PoolID }
func (e PoolParametersUpdated) EventKind() string   { return EventPoolParametersUpdated }

// ILProtectionEnabled records the one-time impermanent-loss protection
// configuration.
type ILProtectionEnabled struct {
	PoolID          string            `json:"pool_id"`
	ThresholdPct    math.LegacyDec    `json:"threshold_pct"`
	MaxCoveragePct  math.LegacyDec    `json:"max_coverage_pct"`
	MinHoldingHours uint64            `json:"min_holding_hours"`
	FundSize        math.LegacyDec    `json:"fund_size"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

func (e ILProtectionEnabled) AggregateID() string { return e.PoolID }
func (e ILProtectionEnabled) EventKind() string   { return EventILProtectionEnabled }

// ILCompensationClaimed records one impermanent-loss compensation payout
// against a provider position.
type ILCompensationClaimed struct {
	PoolID               string            `json:"pool_id"`
	ProviderID           string            `json:"provider_id"`
	PositionID           string            `json:"position_id"`
	ImpermanentLoss      math.LegacyDec    `json:"impermanent_loss"`
	ImpermanentLossPct   math.LegacyDec    `json:"impermanent_loss_pct"`
	Compensation         math.LegacyDec    `json:"compensation"`
	CompensationCurrency string            `json:"compensation_currency"`
	Metadata             map[string]string `json:"metadata,omitempty"`
}

func (e ILCompensationClaimed) AggregateID() string { return e.PoolID }
func (e ILCompensationClaimed) EventKind() string   { return EventILCompensationClaimed }
