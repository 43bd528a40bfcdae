package types

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
)

// BookEntry is a resting order tracked by an order book side.
type BookEntry struct {
	// OrderID is the identifier of the resting order
	OrderID string `json:"order_id"`
	// Price is the limit price of the resting order
	Price math.LegacyDec `json:"price"`
	// Amount is the open amount of the resting order
	Amount math.LegacyDec `json:"amount"`
	// Timestamp is when the order was added, breaking price ties (FIFO)
	Timestamp time.Time `json:"timestamp"`
}

// BookID derives the order book identity for a currency pair.
// The same pair always yields the same identity.
func BookID(baseCurrency, quoteCurrency string) string {
	return fmt.Sprintf("%s/%s", baseCurrency, quoteCurrency)
}
