package fixv1

import (
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"

	orderv1 "github.com/quantclip/fix-brokerage/internal/domain/order/v1"
)

// FIX 4.2 codes whose generated names drifted across dictionary revisions,
// pinned by value.
const (
	ExecTypePartialFill   = enum.ExecType("1")
	ExecTypeReplaced      = enum.ExecType("5")
	ExecTypePendingCancel = enum.ExecType("6")
	ExecTypeOrderStatus   = enum.ExecType("I")

	OrdStatusPendingCancel = enum.OrdStatus("6")

	// ExecTransTypeStatus marks a report that merely answers a status
	// request rather than advancing order state.
	ExecTransTypeStatus = enum.ExecTransType("3")

	OrdTypeStop      = enum.OrdType("3")
	OrdTypeStopLimit = enum.OrdType("4")
)

// ExecutionReport is the decoded form of an inbound FIX 4.2 execution
// report (35=8). It is ephemeral per message: cached by the brokerage
// controller while the order is open, evicted on reject.
type ExecutionReport struct {
	ClOrdID       string
	OrigClOrdID   string
	OrderID       string
	ExecType      enum.ExecType
	OrdStatus     enum.OrdStatus
	ExecTransType enum.ExecTransType
	HasTransType  bool
	Side          enum.Side
	OrdType       enum.OrdType
	Symbol        string
	SecurityID    string
	OrderQty      decimal.Decimal
	CumQty        decimal.Decimal
	LeavesQty     decimal.Decimal
	LastShares    decimal.Decimal
	LastPx        decimal.Decimal
	Price         decimal.Decimal
	StopPx        decimal.Decimal
	TransactTime  time.Time
	Text          string
}

// ParseExecutionReport decodes an execution report from a raw engine
// message. Absent optional fields are left zero-valued.
func ParseExecutionReport(msg *quickfix.Message) *ExecutionReport {
	report := &ExecutionReport{}

	var clOrdID field.ClOrdIDField
	if err := msg.Body.Get(&clOrdID); err == nil {
		report.ClOrdID = clOrdID.Value()
	}
	var origClOrdID field.OrigClOrdIDField
	if err := msg.Body.Get(&origClOrdID); err == nil {
		report.OrigClOrdID = origClOrdID.Value()
	}
	var orderID field.OrderIDField
	if err := msg.Body.Get(&orderID); err == nil {
		report.OrderID = orderID.Value()
	}
	var execType field.ExecTypeField
	if err := msg.Body.Get(&execType); err == nil {
		report.ExecType = execType.Value()
	}
	var ordStatus field.OrdStatusField
	if err := msg.Body.Get(&ordStatus); err == nil {
		report.OrdStatus = ordStatus.Value()
	}
	var execTransType field.ExecTransTypeField
	if err := msg.Body.Get(&execTransType); err == nil {
		report.ExecTransType = execTransType.Value()
		report.HasTransType = true
	}
	var side field.SideField
	if err := msg.Body.Get(&side); err == nil {
		report.Side = side.Value()
	}
	var ordType field.OrdTypeField
	if err := msg.Body.Get(&ordType); err == nil {
		report.OrdType = ordType.Value()
	}
	var symbol field.SymbolField
	if err := msg.Body.Get(&symbol); err == nil {
		report.Symbol = symbol.Value()
	}
	var securityID field.SecurityIDField
	if err := msg.Body.Get(&securityID); err == nil {
		report.SecurityID = securityID.Value()
	}
	var orderQty field.OrderQtyField
	if err := msg.Body.Get(&orderQty); err == nil {
		report.OrderQty = orderQty.Value()
	}
	var cumQty field.CumQtyField
	if err := msg.Body.Get(&cumQty); err == nil {
		report.CumQty = cumQty.Value()
	}
	var leavesQty field.LeavesQtyField
	if err := msg.Body.Get(&leavesQty); err == nil {
		report.LeavesQty = leavesQty.Value()
	}
	var lastShares field.LastSharesField
	if err := msg.Body.Get(&lastShares); err == nil {
		report.LastShares = lastShares.Value()
	}
	var lastPx field.LastPxField
	if err := msg.Body.Get(&lastPx); err == nil {
		report.LastPx = lastPx.Value()
	}
	var price field.PriceField
	if err := msg.Body.Get(&price); err == nil {
		report.Price = price.Value()
	}
	var stopPx field.StopPxField
	if err := msg.Body.Get(&stopPx); err == nil {
		report.StopPx = stopPx.Value()
	}
	var transactTime field.TransactTimeField
	if err := msg.Body.Get(&transactTime); err == nil {
		report.TransactTime = transactTime.Value()
	}
	var text field.TextField
	if err := msg.Body.Get(&text); err == nil {
		report.Text = text.Value()
	}

	return report
}

// OrderStatus maps the report onto the internal order lifecycle. ExecType
// drives the mapping; a status-poll answer (ExecType=I) falls back to
// OrdStatus.
func (r *ExecutionReport) OrderStatus() orderv1.Status {
	execType := r.ExecType
	if execType == ExecTypeOrderStatus {
		execType = enum.ExecType(r.OrdStatus)
	}

	switch execType {
	case enum.ExecType_NEW:
		return orderv1.StatusSubmitted
	case enum.ExecType_CANCELED:
		return orderv1.StatusCanceled
	case ExecTypeReplaced:
		return orderv1.StatusUpdateSubmitted
	case ExecTypePartialFill:
		return orderv1.StatusPartiallyFilled
	case enum.ExecType_FILL:
		return orderv1.StatusFilled
	case enum.ExecType_PENDING_NEW:
		return orderv1.StatusNew
	case ExecTypePendingCancel:
		return orderv1.StatusCancelPending
	case enum.ExecType_REJECTED:
		return orderv1.StatusInvalid
	default:
		return orderv1.StatusInvalid
	}
}

// CorrelationID resolves the broker id this report refers to. Replace
// confirmations and solicited cancels reference the prior request through
// OrigClOrdID; everything else, including unsolicited cancels without the
// back-reference, uses the report's own ClOrdID.
func (r *ExecutionReport) CorrelationID() string {
	status := r.OrderStatus()
	if status == orderv1.StatusUpdateSubmitted && r.OrigClOrdID != "" {
		return r.OrigClOrdID
	}
	if status == orderv1.StatusCanceled && r.OrigClOrdID != "" {
		return r.OrigClOrdID
	}
	return r.ClOrdID
}

// IsStatusRequestEcho reports whether this message only answers a passive
// status poll and must not advance order state.
func (r *ExecutionReport) IsStatusRequestEcho() bool {
	return r.HasTransType && r.ExecTransType == ExecTransTypeStatus
}

// RemainingQuantity is the residual open quantity after the executions
// accumulated so far.
func (r *ExecutionReport) RemainingQuantity() decimal.Decimal {
	return r.OrderQty.Sub(r.CumQty)
}
