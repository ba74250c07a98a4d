package orderv1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is a single order-lifecycle notification produced for the trading
// system. FillQuantity is signed by order direction.
type Event struct {
	OrderID      int64           `json:"orderID"`
	Time         time.Time       `json:"time"`
	Status       Status          `json:"status"`
	FillQuantity decimal.Decimal `json:"fillQuantity"`
	FillPrice    decimal.Decimal `json:"fillPrice"`
	Message      string          `json:"message,omitempty"`
}

// Diagnostic is a non-fatal broker notification, surfaced as a warning
// rather than an order-state change.
type Diagnostic struct {
	OrderID int64     `json:"orderID,omitempty"`
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// Provider resolves orders known to the trading system by the broker ids
// the adapter assigned to them.
//
//go:generate mockgen -source event.go -destination=mock/event_mock.go -package=orderv1_mock
type Provider interface {
	// GetByBrokerID returns the order that was assigned the given ClOrdID.
	GetByBrokerID(brokerID string) (*Order, bool)
}
