// Package broker coordinates order flow between the trading system and
// whichever session is currently logged on.
package broker

import (
	"sync"

	"github.com/quickfixgo/enum"

	fixv1 "github.com/quantclip/fix-brokerage/internal/domain/fix/v1"
	orderv1 "github.com/quantclip/fix-brokerage/internal/domain/order/v1"
	"github.com/quantclip/fix-brokerage/pkg/errors"
	"github.com/quantclip/fix-brokerage/pkg/logger"
)

// Controller routes order commands to the registered per-session handler
// and fans inbound reports out to observers. At most one handler is
// registered at a time; registration follows the session lifecycle.
type Controller struct {
	log logger.Interface

	handlerMu sync.Mutex
	handler   fixv1.OrderHandler

	cacheMu    sync.Mutex
	executions map[string]*fixv1.ExecutionReport

	observerMu sync.RWMutex
	observers  []fixv1.Observer
}

// NewController creates a Controller with an empty execution cache.
func NewController(log logger.Interface) *Controller {
	return &Controller{
		log:        log,
		executions: make(map[string]*fixv1.ExecutionReport),
	}
}

// Register installs the order handler for the session that just logged
// on. Registering while another handler is installed is a wiring bug and
// is refused.
func (c *Controller) Register(handler fixv1.OrderHandler) error {
	if handler == nil {
		return errors.NewCoded(errors.GeneralBadRequestError, "handler is nil")
	}

	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	if c.handler != nil {
		return errors.NewCoded(errors.FixHandlerAlreadyRegistered, "an order handler is already registered")
	}
	c.handler = handler
	return nil
}

// Unregister removes the handler installed for a session that logged
// out. The caller must pass the same handler it registered; a mismatch
// means two sessions raced and is refused.
func (c *Controller) Unregister(handler fixv1.OrderHandler) error {
	if handler == nil {
		return errors.NewCoded(errors.GeneralBadRequestError, "handler is nil")
	}

	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	if c.handler == nil {
		return errors.NewCoded(errors.FixHandlerNotRegistered, "no order handler is registered")
	}
	if c.handler != handler {
		return errors.NewCoded(errors.FixHandlerMismatch, "unregister called with a different handler than the registered one")
	}
	c.handler = nil
	return nil
}

// Subscribe adds an observer for inbound application messages.
// Observers are notified in subscription order after the execution
// cache has been updated.
func (c *Controller) Subscribe(observer fixv1.Observer) {
	c.observerMu.Lock()
	defer c.observerMu.Unlock()
	c.observers = append(c.observers, observer)
}

// PlaceOrder forwards the placement to the active session handler.
// Returns false when no session is logged on.
func (c *Controller) PlaceOrder(order *orderv1.Order) bool {
	handler := c.currentHandler()
	if handler == nil {
		c.log.Error(errors.NewCoded(errors.FixHandlerNotRegistered, "place order requested without an active session"),
			logger.Field{Key: "orderID", Value: order.ID},
		)
		return false
	}
	return handler.PlaceOrder(order)
}

// CancelOrder forwards the cancel to the active session handler.
func (c *Controller) CancelOrder(order *orderv1.Order) bool {
	handler := c.currentHandler()
	if handler == nil {
		c.log.Error(errors.NewCoded(errors.FixHandlerNotRegistered, "cancel order requested without an active session"),
			logger.Field{Key: "orderID", Value: order.ID},
		)
		return false
	}
	return handler.CancelOrder(order)
}

// UpdateOrder forwards the cancel/replace to the active session handler.
func (c *Controller) UpdateOrder(order *orderv1.Order) bool {
	handler := c.currentHandler()
	if handler == nil {
		c.log.Error(errors.NewCoded(errors.FixHandlerNotRegistered, "update order requested without an active session"),
			logger.Field{Key: "orderID", Value: order.ID},
		)
		return false
	}
	return handler.UpdateOrder(order)
}

// Receive ingests an inbound execution report. The cache holds the
// latest report per correlation id while the order is open; rejects
// evict the entry. Observers see the report only after the cache
// reflects it.
func (c *Controller) Receive(report *fixv1.ExecutionReport) {
	key := report.CorrelationID()

	c.cacheMu.Lock()
	if report.OrderStatus() == orderv1.StatusInvalid {
		delete(c.executions, key)
	} else {
		c.executions[key] = report
	}
	c.cacheMu.Unlock()

	c.observerMu.RLock()
	observers := make([]fixv1.Observer, len(c.observers))
	copy(observers, c.observers)
	c.observerMu.RUnlock()

	for _, observer := range observers {
		observer.OnExecutionReport(report)
	}
}

// ReceiveCancelReject forwards a cancel reject to observers. Rejected
// cancel and replace requests leave the cached execution state alone;
// the order is still whatever the last report said it was.
func (c *Controller) ReceiveCancelReject(reject *fixv1.CancelReject) {
	c.observerMu.RLock()
	observers := make([]fixv1.Observer, len(c.observers))
	copy(observers, c.observers)
	c.observerMu.RUnlock()

	for _, observer := range observers {
		observer.OnCancelReject(reject)
	}
}

// GetOpenOrders reconstructs the orders the counterparty still considers
// open from the cached execution reports.
func (c *Controller) GetOpenOrders() []*orderv1.Order {
	c.cacheMu.Lock()
	reports := make(map[string]*fixv1.ExecutionReport, len(c.executions))
	for key, report := range c.executions {
		reports[key] = report
	}
	c.cacheMu.Unlock()

	var orders []*orderv1.Order
	for key, report := range reports {
		order := orderFromReport(report)
		if !order.Status.IsOpen() {
			continue
		}
		order.AddBrokerID(key)
		orders = append(orders, order)
	}
	return orders
}

func (c *Controller) currentHandler() fixv1.OrderHandler {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	return c.handler
}

func orderFromReport(report *fixv1.ExecutionReport) *orderv1.Order {
	order := &orderv1.Order{
		Symbol:     report.Symbol,
		ISIN:       report.SecurityID,
		Quantity:   report.OrderQty,
		LimitPrice: report.Price,
		StopPrice:  report.StopPx,
		Status:     report.OrderStatus(),
	}
	order.Side = sideFromReport(report)
	order.Type = typeFromReport(report)
	return order
}

func sideFromReport(report *fixv1.ExecutionReport) orderv1.Side {
	if report.Side == enum.Side_SELL {
		return orderv1.SideSell
	}
	return orderv1.SideBuy
}

func typeFromReport(report *fixv1.ExecutionReport) orderv1.Type {
	switch report.OrdType {
	case enum.OrdType_LIMIT:
		return orderv1.TypeLimit
	case fixv1.OrdTypeStop:
		return orderv1.TypeStopMarket
	case fixv1.OrdTypeStopLimit:
		return orderv1.TypeStopLimit
	default:
		return orderv1.TypeMarket
	}
}
