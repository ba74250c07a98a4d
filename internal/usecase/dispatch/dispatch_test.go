package dispatch

import (
	"testing"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix42/executionreport"
	"github.com/quickfixgo/fix42/ordercancelreject"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	fixv1 "github.com/quantclip/fix-brokerage/internal/domain/fix/v1"
	fixv1mock "github.com/quantclip/fix-brokerage/internal/domain/fix/v1/mock"
	dispatchmock "github.com/quantclip/fix-brokerage/internal/usecase/dispatch/mock"
	"github.com/quantclip/fix-brokerage/pkg/logger"
)

type testFixture struct {
	ctrl        *gomock.Controller
	registry    *dispatchmock.MockRegistry
	handler     *fixv1mock.MockOrderHandler
	dispatcher  *Dispatcher
	handlerSeen []fixv1.Sender
}

func setupTestFixture(t *testing.T) *testFixture {
	ctrl := gomock.NewController(t)

	log, err := logger.NewLogger()
	require.NoError(t, err)

	f := &testFixture{
		ctrl:     ctrl,
		registry: dispatchmock.NewMockRegistry(ctrl),
		handler:  fixv1mock.NewMockOrderHandler(ctrl),
	}
	f.dispatcher = New(f.registry, func(sender fixv1.Sender) fixv1.OrderHandler {
		f.handlerSeen = append(f.handlerSeen, sender)
		return f.handler
	}, log)
	return f
}

func testSessionID() quickfix.SessionID {
	return quickfix.SessionID{
		BeginString:  "FIX.4.2",
		SenderCompID: "CLIENT",
		TargetCompID: "BROKER",
	}
}

func TestDispatcher_OnLogon_RegistersHandler(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	f.registry.EXPECT().Register(f.handler).Return(nil)

	f.dispatcher.OnLogon(testSessionID())

	assert.Equal(t, 1, f.dispatcher.ActiveSessions())
	require.Len(t, f.handlerSeen, 1)
	assert.NotNil(t, f.handlerSeen[0])
}

func TestDispatcher_OnLogon_RegisterFailureLeavesSessionUntracked(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	f.registry.EXPECT().Register(f.handler).Return(assertError{})

	f.dispatcher.OnLogon(testSessionID())

	assert.Equal(t, 0, f.dispatcher.ActiveSessions())
}

func TestDispatcher_OnLogout_UnregistersSameHandler(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	sessionID := testSessionID()
	gomock.InOrder(
		f.registry.EXPECT().Register(f.handler).Return(nil),
		f.registry.EXPECT().Unregister(f.handler).Return(nil),
	)

	f.dispatcher.OnLogon(sessionID)
	f.dispatcher.OnLogout(sessionID)

	assert.Equal(t, 0, f.dispatcher.ActiveSessions())
}

func TestDispatcher_OnLogout_UntrackedSessionIsIgnored(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	f.dispatcher.OnLogout(testSessionID())

	assert.Equal(t, 0, f.dispatcher.ActiveSessions())
}

func TestDispatcher_ReconnectCycleRegistersFreshHandler(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	sessionID := testSessionID()
	gomock.InOrder(
		f.registry.EXPECT().Register(f.handler).Return(nil),
		f.registry.EXPECT().Unregister(f.handler).Return(nil),
		f.registry.EXPECT().Register(f.handler).Return(nil),
	)

	f.dispatcher.OnLogon(sessionID)
	f.dispatcher.OnLogout(sessionID)
	f.dispatcher.OnLogon(sessionID)

	assert.Equal(t, 1, f.dispatcher.ActiveSessions())
	assert.Len(t, f.handlerSeen, 2)
}

func newLogonMessage() *quickfix.Message {
	msg := quickfix.NewMessage()
	msg.Header.SetString(tag.MsgType, string(enum.MsgType_LOGON))
	return msg
}

func newLogoutMessage(text string) *quickfix.Message {
	msg := quickfix.NewMessage()
	msg.Header.SetString(tag.MsgType, msgTypeLogout)
	if text != "" {
		msg.Body.SetString(tag.Text, text)
	}
	return msg
}

func TestDispatcher_EnrichOutgoingAdmin_FirstLogonResetsSequence(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	msg := newLogonMessage()
	f.dispatcher.EnrichOutgoingAdmin(msg, testSessionID())

	encrypt, err := msg.Body.GetString(tag.EncryptMethod)
	require.NoError(t, err)
	assert.Equal(t, "0", encrypt)

	var reset field.ResetSeqNumFlagField
	require.NoError(t, msg.Body.Get(&reset))
	assert.True(t, reset.Value())
}

func TestDispatcher_EnrichOutgoingAdmin_ResumesAfterSequenceHint(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	sessionID := testSessionID()
	f.dispatcher.HandleIncomingAdmin(newLogoutMessage("MsgSeqNum too low, expected 37 but received 2"), sessionID)

	msg := newLogonMessage()
	f.dispatcher.EnrichOutgoingAdmin(msg, sessionID)

	var reset field.ResetSeqNumFlagField
	require.NoError(t, msg.Body.Get(&reset))
	assert.False(t, reset.Value())

	seqNum, err := msg.Header.GetInt(tag.MsgSeqNum)
	require.NoError(t, err)
	assert.Equal(t, 37, seqNum)

	// the stash is consumed, the logon after that resets again
	next := newLogonMessage()
	f.dispatcher.EnrichOutgoingAdmin(next, sessionID)
	require.NoError(t, next.Body.Get(&reset))
	assert.True(t, reset.Value())
}

func TestDispatcher_EnrichOutgoingAdmin_LogoutWithoutHintKeepsReset(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	sessionID := testSessionID()
	f.dispatcher.HandleIncomingAdmin(newLogoutMessage("counterparty closing for the day"), sessionID)

	msg := newLogonMessage()
	f.dispatcher.EnrichOutgoingAdmin(msg, sessionID)

	var reset field.ResetSeqNumFlagField
	require.NoError(t, msg.Body.Get(&reset))
	assert.True(t, reset.Value())
}

func TestDispatcher_EnrichOutgoingAdmin_IgnoresNonLogon(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	msg := quickfix.NewMessage()
	msg.Header.SetString(tag.MsgType, "0")
	f.dispatcher.EnrichOutgoingAdmin(msg, testSessionID())

	_, err := msg.Body.GetString(tag.EncryptMethod)
	assert.Error(t, err)
}

func newExecutionReportMessage(execTransType enum.ExecTransType) *quickfix.Message {
	msg := executionreport.New(
		field.NewOrderID("broker-1"),
		field.NewExecID("exec-1"),
		field.NewExecTransType(execTransType),
		field.NewExecType(enum.ExecType_NEW),
		field.NewOrdStatus(enum.OrdStatus_NEW),
		field.NewSymbol("BAYN"),
		field.NewSide(enum.Side_BUY),
		field.NewLeavesQty(decimal.NewFromInt(100), 0),
		field.NewCumQty(decimal.Zero, 0),
		field.NewAvgPx(decimal.Zero, 2),
	)
	msg.SetClOrdID("client-1")
	return msg.ToMessage()
}

func TestDispatcher_HandleApp_ExecutionReportReachesRegistry(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	var received *fixv1.ExecutionReport
	f.registry.EXPECT().Receive(gomock.Any()).Do(func(report *fixv1.ExecutionReport) {
		received = report
	})

	f.dispatcher.HandleApp(newExecutionReportMessage(enum.ExecTransType("0")), testSessionID())

	require.NotNil(t, received)
	assert.Equal(t, "client-1", received.ClOrdID)
	assert.Equal(t, enum.ExecType_NEW, received.ExecType)
}

func TestDispatcher_HandleApp_StatusEchoIsDropped(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	// no Receive expectation: a status echo must never reach the registry
	f.dispatcher.HandleApp(newExecutionReportMessage(fixv1.ExecTransTypeStatus), testSessionID())
}

func TestDispatcher_HandleApp_CancelRejectReachesRegistry(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	msg := ordercancelreject.New(
		field.NewOrderID("broker-1"),
		field.NewClOrdID("cancel-1"),
		field.NewOrigClOrdID("client-1"),
		field.NewOrdStatus(enum.OrdStatus_FILLED),
		field.NewCxlRejResponseTo(enum.CxlRejResponseTo_ORDER_CANCEL_REQUEST),
	)

	var received *fixv1.CancelReject
	f.registry.EXPECT().ReceiveCancelReject(gomock.Any()).Do(func(reject *fixv1.CancelReject) {
		received = reject
	})

	f.dispatcher.HandleApp(msg.ToMessage(), testSessionID())

	require.NotNil(t, received)
	assert.Equal(t, "cancel-1", received.ClOrdID)
	assert.Equal(t, "client-1", received.OrigClOrdID)
}

func TestDispatcher_HandleApp_UnhandledMessageIsDropped(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	msg := quickfix.NewMessage()
	msg.Header.SetString(tag.MsgType, "S")

	f.dispatcher.HandleApp(msg, testSessionID())
}

type assertError struct{}

func (assertError) Error() string { return "registration refused" }
