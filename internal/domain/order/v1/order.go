package orderv1

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Side represents the direction of an order.
type Side string

const (
	// SideBuy represents a buy order.
	SideBuy Side = "buy"
	// SideSell represents a sell order.
	SideSell Side = "sell"
)

// Type represents the kind of order.
type Type string

const (
	// TypeMarket represents a market order.
	TypeMarket Type = "market"
	// TypeLimit represents a limit order.
	TypeLimit Type = "limit"
	// TypeStopMarket represents a stop order.
	TypeStopMarket Type = "stop_market"
	// TypeStopLimit represents a stop limit order.
	TypeStopLimit Type = "stop_limit"
)

// TimeInForce represents the lifetime policy of an order.
type TimeInForce string

const (
	// TimeInForceDay keeps the order alive for the trading day.
	TimeInForceDay TimeInForce = "day"
	// TimeInForceGoodTilCanceled keeps the order alive until canceled.
	TimeInForceGoodTilCanceled TimeInForce = "good_til_canceled"
	// TimeInForceGoodTilDate keeps the order alive until a given date.
	TimeInForceGoodTilDate TimeInForce = "good_til_date"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	// StatusNew is the counterparty's acknowledgement that the request was
	// received but not yet accepted into the book.
	StatusNew Status = "new"
	// StatusSubmitted means the order is live at the counterparty.
	StatusSubmitted Status = "submitted"
	// StatusPartiallyFilled means part of the quantity has executed.
	StatusPartiallyFilled Status = "partially_filled"
	// StatusFilled means the full quantity has executed.
	StatusFilled Status = "filled"
	// StatusCanceled means the order was canceled.
	StatusCanceled Status = "canceled"
	// StatusCancelPending means a cancel request is outstanding.
	StatusCancelPending Status = "cancel_pending"
	// StatusUpdateSubmitted means a replace request was accepted.
	StatusUpdateSubmitted Status = "update_submitted"
	// StatusInvalid means the request was rejected.
	StatusInvalid Status = "invalid"
)

// IsOpen reports whether the status counts as an open order.
func (s Status) IsOpen() bool {
	switch s {
	case StatusNew, StatusSubmitted, StatusPartiallyFilled, StatusCancelPending, StatusUpdateSubmitted:
		return true
	}
	return false
}

// Order is a single order routed through the brokerage. The internal ID is
// assigned by the trading system and never changes; broker ids are appended
// by the adapter, one per outbound request. The first broker id is the
// placement ClOrdID and anchors cancel/replace correlation.
type Order struct {
	ID          int64
	Symbol      string
	ISIN        string
	Currency    string
	Exchange    string
	Side        Side
	Type        Type
	Quantity    decimal.Decimal
	LimitPrice  decimal.Decimal
	StopPrice   decimal.Decimal
	TimeInForce TimeInForce
	GoodTilDate time.Time
	Status      Status

	mu        sync.Mutex
	brokerIDs []string
}

// AddBrokerID appends a counterparty-assigned id to the order.
func (o *Order) AddBrokerID(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.brokerIDs = append(o.brokerIDs, id)
}

// PrimaryBrokerID returns the placement ClOrdID, the anchor for
// cancel/replace requests.
func (o *Order) PrimaryBrokerID() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.brokerIDs) == 0 {
		return "", false
	}
	return o.brokerIDs[0], true
}

// BrokerIDs returns a copy of the assigned broker ids in append order.
func (o *Order) BrokerIDs() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	ids := make([]string, len(o.brokerIDs))
	copy(ids, o.brokerIDs)
	return ids
}

// SignedQuantity returns the quantity negated for sell orders.
func (o *Order) SignedQuantity() decimal.Decimal {
	if o.Side == SideSell {
		return o.Quantity.Neg()
	}
	return o.Quantity
}
