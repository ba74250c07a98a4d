// Package brokerage is the outward-facing adapter surface: order
// commands in, order events and diagnostics out.
package brokerage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	fixv1 "github.com/quantclip/fix-brokerage/internal/domain/fix/v1"
	orderv1 "github.com/quantclip/fix-brokerage/internal/domain/order/v1"
	"github.com/quantclip/fix-brokerage/internal/pkg/symbols"
	"github.com/quantclip/fix-brokerage/internal/usecase/broker"
	"github.com/quantclip/fix-brokerage/pkg/errors"
	"github.com/quantclip/fix-brokerage/pkg/logger"
)

// Engine is the slice of the session engine the facade drives.
//
//go:generate mockgen -source brokerage.go -destination=mock/brokerage_mock.go -package=brokerage_mock
type Engine interface {
	Start(ctx context.Context) error
	Stop()
	IsConnected() bool
}

// EventPublisher pushes order events to an external stream. Optional; a
// nil publisher keeps events in-process only.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event *orderv1.Event) error
}

// EventHandler consumes order lifecycle events.
type EventHandler func(event *orderv1.Event)

// DiagnosticHandler consumes non-fatal broker notifications.
type DiagnosticHandler func(diagnostic *orderv1.Diagnostic)

// Brokerage is the adapter facade. It correlates inbound reports back to
// the trading system's orders and emits lifecycle events; orders the
// trading system does not know are dropped with a warning.
type Brokerage struct {
	engine     Engine
	controller *broker.Controller
	provider   orderv1.Provider
	publisher  EventPublisher
	log        logger.Interface

	mu          sync.RWMutex
	handlers    []EventHandler
	diagnostics []DiagnosticHandler
}

var _ fixv1.Observer = (*Brokerage)(nil)

// New creates a Brokerage and subscribes it to the controller's inbound
// stream. The publisher may be nil.
func New(engine Engine, controller *broker.Controller, provider orderv1.Provider, publisher EventPublisher, log logger.Interface) *Brokerage {
	b := &Brokerage{
		engine:     engine,
		controller: controller,
		provider:   provider,
		publisher:  publisher,
		log:        log,
	}
	controller.Subscribe(b)
	return b
}

// Connect establishes the session and blocks until logon or failure.
func (b *Brokerage) Connect(ctx context.Context) error {
	return b.engine.Start(ctx)
}

// Disconnect logs out and shuts the engine down.
func (b *Brokerage) Disconnect() {
	b.engine.Stop()
}

// IsConnected reports whether order flow is currently possible.
func (b *Brokerage) IsConnected() bool {
	return b.engine.IsConnected()
}

// SubscribeOrderEvents registers a handler for order lifecycle events.
func (b *Brokerage) SubscribeOrderEvents(handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// SubscribeDiagnostics registers a handler for broker notifications.
func (b *Brokerage) SubscribeDiagnostics(handler DiagnosticHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.diagnostics = append(b.diagnostics, handler)
}

// PlaceOrder submits a new order. Orders without a well-formed ISIN are
// refused before anything reaches the wire.
func (b *Brokerage) PlaceOrder(order *orderv1.Order) bool {
	if !symbols.ValidISIN(order.ISIN) {
		b.log.Error(errors.NewCoded(errors.FixMissingInstrumentID, "order carries a malformed instrument identifier"),
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "isin", Value: order.ISIN},
		)
		return false
	}
	return b.controller.PlaceOrder(order)
}

// UpdateOrder submits a cancel/replace for an open order.
func (b *Brokerage) UpdateOrder(order *orderv1.Order) bool {
	return b.controller.UpdateOrder(order)
}

// CancelOrder submits a cancel for an open order.
func (b *Brokerage) CancelOrder(order *orderv1.Order) bool {
	return b.controller.CancelOrder(order)
}

// GetOpenOrders returns the orders the counterparty still considers
// open, reconstructed from cached execution state.
func (b *Brokerage) GetOpenOrders() []*orderv1.Order {
	return b.controller.GetOpenOrders()
}

// OnExecutionReport correlates an inbound report to a known order and
// emits the matching lifecycle event. The pending-new acknowledgement is
// swallowed, as is a cancel-pending repeat for an order already awaiting
// its cancel.
func (b *Brokerage) OnExecutionReport(report *fixv1.ExecutionReport) {
	order, ok := b.provider.GetByBrokerID(report.CorrelationID())
	if !ok {
		b.log.Warn("execution report for unknown order",
			logger.Field{Key: "clOrdID", Value: report.ClOrdID},
			logger.Field{Key: "origClOrdID", Value: report.OrigClOrdID},
		)
		return
	}

	status := report.OrderStatus()
	if status == orderv1.StatusNew {
		b.log.Debug("order acknowledged",
			logger.Field{Key: "orderID", Value: order.ID},
		)
		return
	}
	if status == orderv1.StatusCancelPending && order.Status == orderv1.StatusCancelPending {
		return
	}
	order.Status = status

	event := &orderv1.Event{
		OrderID: order.ID,
		Time:    eventTime(report.TransactTime),
		Status:  status,
	}
	switch status {
	case orderv1.StatusPartiallyFilled:
		event.FillQuantity = signedQuantity(order, report.LastShares)
		event.FillPrice = report.LastPx
		if remaining := report.RemainingQuantity(); remaining.IsPositive() {
			event.Message = fmt.Sprintf("%s shares remaining", remaining.String())
		}
	case orderv1.StatusFilled:
		event.FillQuantity = signedQuantity(order, report.LastShares)
		event.FillPrice = report.LastPx
	case orderv1.StatusInvalid:
		event.Message = report.Text
	}

	b.emit(event)
}

// OnCancelReject surfaces a refused cancel or replace as a diagnostic.
// The order keeps its last reported status.
func (b *Brokerage) OnCancelReject(reject *fixv1.CancelReject) {
	diagnostic := &orderv1.Diagnostic{
		Time: time.Now().UTC(),
		Message: fmt.Sprintf("%s rejected: %s. %s",
			reject.ResponseToText(), reject.ReasonText(), reject.Text),
	}
	if order, ok := b.provider.GetByBrokerID(reject.CorrelationID()); ok {
		diagnostic.OrderID = order.ID
	} else {
		b.log.Warn("cancel reject for unknown order",
			logger.Field{Key: "clOrdID", Value: reject.ClOrdID},
			logger.Field{Key: "origClOrdID", Value: reject.OrigClOrdID},
		)
	}

	b.mu.RLock()
	handlers := make([]DiagnosticHandler, len(b.diagnostics))
	copy(handlers, b.diagnostics)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(diagnostic)
	}
}

func (b *Brokerage) emit(event *orderv1.Event) {
	b.mu.RLock()
	handlers := make([]EventHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}

	if b.publisher != nil {
		if err := b.publisher.PublishOrderEvent(context.Background(), event); err != nil {
			b.log.Error(errors.NewTracer("failed to publish order event").Wrap(err),
				logger.Field{Key: "orderID", Value: event.OrderID},
			)
		}
	}
}

func eventTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

func signedQuantity(order *orderv1.Order, qty decimal.Decimal) decimal.Decimal {
	if order.Side == orderv1.SideSell {
		return qty.Neg()
	}
	return qty
}
