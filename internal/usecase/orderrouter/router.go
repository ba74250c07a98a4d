// Package orderrouter translates order commands into FIX 4.2 requests
// for one logged-on session.
package orderrouter

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix42/newordersingle"
	"github.com/quickfixgo/fix42/ordercancelreplacerequest"
	"github.com/quickfixgo/fix42/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"

	fixv1 "github.com/quantclip/fix-brokerage/internal/domain/fix/v1"
	orderv1 "github.com/quantclip/fix-brokerage/internal/domain/order/v1"
	"github.com/quantclip/fix-brokerage/internal/pkg/symbols"
	"github.com/quantclip/fix-brokerage/pkg/errors"
	"github.com/quantclip/fix-brokerage/pkg/logger"
)

const (
	idSourceISIN = enum.IDSource("4")

	qtyScale   = int32(0)
	priceScale = int32(2)
)

// Router builds and sends order requests over a single session. One
// Router is created per logon and retired on logout.
type Router struct {
	sender     fixv1.Sender
	mapper     *symbols.Mapper
	account    string
	onBehalfOf string
	log        logger.Interface
}

var _ fixv1.OrderHandler = (*Router)(nil)

// New creates a Router sending through the given session.
func New(sender fixv1.Sender, mapper *symbols.Mapper, account, onBehalfOf string, log logger.Interface) *Router {
	return &Router{
		sender:     sender,
		mapper:     mapper,
		account:    account,
		onBehalfOf: onBehalfOf,
		log:        log,
	}
}

// PlaceOrder submits a new order. The generated ClOrdID is recorded on
// the order before the message leaves, so inbound reports can always be
// correlated. Returns false when the order cannot be expressed in the
// counterparty's dialect or the session refused the message.
func (r *Router) PlaceOrder(order *orderv1.Order) bool {
	ordType, ok := convertOrderType(order.Type)
	if !ok {
		r.log.Error(errors.NewCoded(errors.FixUnsupportedOrderType, "order type cannot be expressed over this session"),
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "type", Value: string(order.Type)},
		)
		return false
	}
	tif, ok := r.convertTimeInForce(order)
	if !ok {
		r.log.Error(errors.NewCoded(errors.FixUnsupportedTimeInForce, "time in force cannot be expressed over this session"),
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "timeInForce", Value: string(order.TimeInForce)},
		)
		return false
	}
	if order.ISIN == "" {
		r.log.Error(errors.NewCoded(errors.FixMissingInstrumentID, "order has no instrument identifier"),
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "symbol", Value: order.Symbol},
		)
		return false
	}

	clOrdID := newClOrdID()
	msg := newordersingle.New(
		field.NewClOrdID(clOrdID),
		field.NewHandlInst(enum.HandlInst_AUTOMATED_EXECUTION_ORDER_PRIVATE_NO_BROKER_INTERVENTION),
		field.NewSymbol(order.Symbol),
		field.NewSide(convertSide(order.Side)),
		field.NewTransactTime(time.Now().UTC()),
		field.NewOrdType(ordType),
	)
	msg.SetSecurityID(order.ISIN)
	msg.SetIDSource(idSourceISIN)
	msg.SetOrderQty(order.Quantity, qtyScale)
	msg.SetTimeInForce(tif)
	msg.SetExDestination(enum.ExDestination(r.mapper.Destination(order)))
	if order.Currency != "" {
		msg.SetCurrency(order.Currency)
	}
	if r.account != "" {
		msg.SetAccount(r.account)
	}
	switch order.Type {
	case orderv1.TypeLimit:
		msg.SetPrice(order.LimitPrice, priceScale)
	case orderv1.TypeStopMarket:
		msg.SetStopPx(order.StopPrice, priceScale)
	case orderv1.TypeStopLimit:
		msg.SetPrice(order.LimitPrice, priceScale)
		msg.SetStopPx(order.StopPrice, priceScale)
	}
	if tif == enum.TimeInForce_GOOD_TILL_DATE {
		msg.SetExpireTime(order.GoodTilDate)
	}
	r.stampHeader(msg.ToMessage())

	order.AddBrokerID(clOrdID)
	return r.sender.Send(msg)
}

// CancelOrder requests cancellation of a previously placed order. The
// request references the placement ClOrdID, not the latest one, because
// the counterparty keys the chain off the original request.
func (r *Router) CancelOrder(order *orderv1.Order) bool {
	origClOrdID, ok := order.PrimaryBrokerID()
	if !ok {
		r.log.Error(errors.NewTracer("cancel requested for order without broker id"),
			logger.Field{Key: "orderID", Value: order.ID},
		)
		return false
	}

	msg := ordercancelrequest.New(
		field.NewOrigClOrdID(origClOrdID),
		field.NewClOrdID(newClOrdID()),
		field.NewSymbol(order.Symbol),
		field.NewSide(convertSide(order.Side)),
		field.NewTransactTime(time.Now().UTC()),
	)
	msg.SetOrderQty(order.Quantity, qtyScale)
	if r.account != "" {
		msg.SetAccount(r.account)
	}
	r.stampHeader(msg.ToMessage())

	return r.sender.Send(msg)
}

// UpdateOrder requests a cancel/replace carrying the order's current
// quantity and prices. The new ClOrdID is appended to the order so the
// full request chain stays visible.
func (r *Router) UpdateOrder(order *orderv1.Order) bool {
	origClOrdID, ok := order.PrimaryBrokerID()
	if !ok {
		r.log.Error(errors.NewTracer("update requested for order without broker id"),
			logger.Field{Key: "orderID", Value: order.ID},
		)
		return false
	}
	ordType, ok := convertOrderType(order.Type)
	if !ok {
		r.log.Error(errors.NewCoded(errors.FixUnsupportedOrderType, "order type cannot be expressed over this session"),
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "type", Value: string(order.Type)},
		)
		return false
	}
	tif, ok := r.convertTimeInForce(order)
	if !ok {
		r.log.Error(errors.NewCoded(errors.FixUnsupportedTimeInForce, "time in force cannot be expressed over this session"),
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "timeInForce", Value: string(order.TimeInForce)},
		)
		return false
	}

	clOrdID := newClOrdID()
	msg := ordercancelreplacerequest.New(
		field.NewOrigClOrdID(origClOrdID),
		field.NewClOrdID(clOrdID),
		field.NewHandlInst(enum.HandlInst_AUTOMATED_EXECUTION_ORDER_PRIVATE_NO_BROKER_INTERVENTION),
		field.NewSymbol(order.Symbol),
		field.NewSide(convertSide(order.Side)),
		field.NewTransactTime(time.Now().UTC()),
		field.NewOrdType(ordType),
	)
	msg.SetOrderQty(order.Quantity, qtyScale)
	msg.SetTimeInForce(tif)
	if r.account != "" {
		msg.SetAccount(r.account)
	}
	switch order.Type {
	case orderv1.TypeLimit:
		msg.SetPrice(order.LimitPrice, priceScale)
	case orderv1.TypeStopMarket:
		msg.SetStopPx(order.StopPrice, priceScale)
	case orderv1.TypeStopLimit:
		msg.SetPrice(order.LimitPrice, priceScale)
		msg.SetStopPx(order.StopPrice, priceScale)
	}
	if tif == enum.TimeInForce_GOOD_TILL_DATE {
		msg.SetExpireTime(order.GoodTilDate)
	}
	r.stampHeader(msg.ToMessage())

	order.AddBrokerID(clOrdID)
	return r.sender.Send(msg)
}

func (r *Router) stampHeader(msg *quickfix.Message) {
	if r.onBehalfOf != "" {
		msg.Header.SetString(tag.OnBehalfOfCompID, r.onBehalfOf)
	}
}

// convertTimeInForce maps the order's lifetime policy to the wire value.
// The counterparty does not accept good-til-canceled on the stop family,
// so those orders are downgraded to day orders.
func (r *Router) convertTimeInForce(order *orderv1.Order) (enum.TimeInForce, bool) {
	switch order.TimeInForce {
	case orderv1.TimeInForceDay:
		return enum.TimeInForce_DAY, true
	case orderv1.TimeInForceGoodTilCanceled:
		if order.Type == orderv1.TypeStopMarket || order.Type == orderv1.TypeStopLimit {
			r.log.Warn("downgrading GTC to DAY for stop order",
				logger.Field{Key: "orderID", Value: order.ID},
			)
			return enum.TimeInForce_DAY, true
		}
		return enum.TimeInForce_GOOD_TILL_CANCEL, true
	case orderv1.TimeInForceGoodTilDate:
		return enum.TimeInForce_GOOD_TILL_DATE, true
	default:
		return enum.TimeInForce_DAY, false
	}
}

func convertSide(side orderv1.Side) enum.Side {
	if side == orderv1.SideSell {
		return enum.Side_SELL
	}
	return enum.Side_BUY
}

func convertOrderType(t orderv1.Type) (enum.OrdType, bool) {
	switch t {
	case orderv1.TypeMarket:
		return enum.OrdType_MARKET, true
	case orderv1.TypeLimit:
		return enum.OrdType_LIMIT, true
	case orderv1.TypeStopMarket:
		return fixv1.OrdTypeStop, true
	case orderv1.TypeStopLimit:
		return fixv1.OrdTypeStopLimit, true
	default:
		return enum.OrdType(""), false
	}
}

func newClOrdID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
