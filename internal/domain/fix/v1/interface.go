package fixv1

import (
	"github.com/quickfixgo/quickfix"

	orderv1 "github.com/quantclip/fix-brokerage/internal/domain/order/v1"
)

// Sender delivers a pre-built protocol message over one live session.
// Send reports whether the transport accepted the message for delivery,
// not whether the counterparty processed it; reliability is the session
// engine's job via sequence numbers.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=fixv1_mock
type Sender interface {
	Send(msg quickfix.Messagable) bool
}

// OrderHandler translates order commands into protocol requests for one
// active session. Implementations are created per successful logon.
type OrderHandler interface {
	PlaceOrder(order *orderv1.Order) bool
	CancelOrder(order *orderv1.Order) bool
	UpdateOrder(order *orderv1.Order) bool
}

// Observer receives inbound application messages after the execution
// cache has been updated.
type Observer interface {
	OnExecutionReport(report *ExecutionReport)
	OnCancelReject(reject *CancelReject)
}
