package fixv1

import (
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"
)

const (
	CxlRejReasonTooLate        = "0"
	CxlRejReasonUnknownOrder   = "1"
	CxlRejReasonBrokerOption   = "2"
	CxlRejReasonAlreadyPending = "3"
)

// CancelReject is the decoded form of an order cancel reject (35=9),
// the counterparty's refusal of a cancel or cancel/replace request.
type CancelReject struct {
	ClOrdID          string
	OrigClOrdID      string
	OrderID          string
	OrdStatus        enum.OrdStatus
	CxlRejResponseTo enum.CxlRejResponseTo
	CxlRejReason     string
	HasRejReason     bool
	Text             string
}

// ParseCancelReject decodes a cancel reject from a raw engine message.
func ParseCancelReject(msg *quickfix.Message) *CancelReject {
	reject := &CancelReject{}

	var clOrdID field.ClOrdIDField
	if err := msg.Body.Get(&clOrdID); err == nil {
		reject.ClOrdID = clOrdID.Value()
	}
	var origClOrdID field.OrigClOrdIDField
	if err := msg.Body.Get(&origClOrdID); err == nil {
		reject.OrigClOrdID = origClOrdID.Value()
	}
	var orderID field.OrderIDField
	if err := msg.Body.Get(&orderID); err == nil {
		reject.OrderID = orderID.Value()
	}
	var ordStatus field.OrdStatusField
	if err := msg.Body.Get(&ordStatus); err == nil {
		reject.OrdStatus = ordStatus.Value()
	}
	var responseTo field.CxlRejResponseToField
	if err := msg.Body.Get(&responseTo); err == nil {
		reject.CxlRejResponseTo = responseTo.Value()
	}
	if reason, err := msg.Body.GetString(tag.CxlRejReason); err == nil {
		reject.CxlRejReason = reason
		reject.HasRejReason = true
	}
	var text field.TextField
	if err := msg.Body.Get(&text); err == nil {
		reject.Text = text.Value()
	}

	return reject
}

// ReasonText renders the reject reason code as a readable label.
func (r *CancelReject) ReasonText() string {
	if !r.HasRejReason {
		return "Unknown"
	}
	switch r.CxlRejReason {
	case CxlRejReasonTooLate:
		return "Too late to cancel"
	case CxlRejReasonUnknownOrder:
		return "Unknown order"
	case CxlRejReasonBrokerOption:
		return "Broker option"
	case CxlRejReasonAlreadyPending:
		return "Order already in pending status"
	default:
		return "Unknown"
	}
}

// ResponseToText names the request kind the reject answers.
func (r *CancelReject) ResponseToText() string {
	switch r.CxlRejResponseTo {
	case enum.CxlRejResponseTo_ORDER_CANCEL_REQUEST:
		return "Cancel request"
	case enum.CxlRejResponseTo_ORDER_CANCEL_REPLACE_REQUEST:
		return "Cancel/replace request"
	default:
		return "Unknown"
	}
}

// CorrelationID resolves the broker id the reject refers to. Rejects
// carry the failed request's ClOrdID; the prior request id in
// OrigClOrdID is the one the cache and order book know.
func (r *CancelReject) CorrelationID() string {
	if r.OrigClOrdID != "" {
		return r.OrigClOrdID
	}
	return r.ClOrdID
}
