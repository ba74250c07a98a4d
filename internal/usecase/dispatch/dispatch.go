// Package dispatch routes session lifecycle callbacks and inbound
// messages between the FIX engine and the brokerage controller.
package dispatch

import (
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"

	fixv1 "github.com/quantclip/fix-brokerage/internal/domain/fix/v1"
	"github.com/quantclip/fix-brokerage/internal/usecase/connection"
	"github.com/quantclip/fix-brokerage/pkg/errors"
	"github.com/quantclip/fix-brokerage/pkg/logger"
)

const (
	encryptMethodNone = enum.EncryptMethod("0")

	msgTypeLogout            = "5"
	msgTypeOrderCancelReject = "9"
	msgTypeBusinessReject    = "j"
)

// Registry is the slice of the brokerage controller the dispatcher
// drives: handler registration on session transitions and delivery of
// decoded application messages.
//
//go:generate mockgen -source dispatch.go -destination=mock/dispatch_mock.go -package=dispatch_mock
type Registry interface {
	Register(handler fixv1.OrderHandler) error
	Unregister(handler fixv1.OrderHandler) error
	Receive(report *fixv1.ExecutionReport)
	ReceiveCancelReject(reject *fixv1.CancelReject)
}

// HandlerFactory builds the per-session order handler once a session is
// logged on.
type HandlerFactory func(sender fixv1.Sender) fixv1.OrderHandler

type session struct {
	conn    *connection.Connection
	handler fixv1.OrderHandler
}

// Dispatcher tracks live sessions and translates engine callbacks into
// controller operations. It also owns logon enrichment, including the
// sequence recovery handshake after a desynchronized logout.
type Dispatcher struct {
	registry   Registry
	newHandler HandlerFactory
	log        logger.Interface

	mu       sync.RWMutex
	sessions map[quickfix.SessionID]*session

	seqMu       sync.Mutex
	expectedSeq map[quickfix.SessionID]int
}

// New creates a Dispatcher.
func New(registry Registry, newHandler HandlerFactory, log logger.Interface) *Dispatcher {
	return &Dispatcher{
		registry:    registry,
		newHandler:  newHandler,
		log:         log,
		sessions:    make(map[quickfix.SessionID]*session),
		expectedSeq: make(map[quickfix.SessionID]int),
	}
}

// OnLogon wires a freshly established session: a connection is bound, a
// handler built over it, and the handler registered with the controller.
func (d *Dispatcher) OnLogon(sessionID quickfix.SessionID) {
	conn, err := connection.New(sessionID, d.log)
	if err != nil {
		d.log.Error(errors.TracerFromError(err),
			logger.Field{Key: "sessionID", Value: sessionID.String()},
		)
		return
	}
	handler := d.newHandler(conn)

	if err := d.registry.Register(handler); err != nil {
		d.log.Error(errors.NewTracer("failed to register order handler on logon").Wrap(err),
			logger.Field{Key: "sessionID", Value: sessionID.String()},
		)
		return
	}

	d.mu.Lock()
	d.sessions[sessionID] = &session{conn: conn, handler: handler}
	d.mu.Unlock()

	d.log.Info("session logged on",
		logger.Field{Key: "sessionID", Value: sessionID.String()},
	)
}

// OnLogout tears down the session's handler registration. Unknown
// sessions are ignored; the engine may report logouts for sessions whose
// logon never completed.
func (d *Dispatcher) OnLogout(sessionID quickfix.SessionID) {
	d.mu.Lock()
	sess, ok := d.sessions[sessionID]
	delete(d.sessions, sessionID)
	d.mu.Unlock()

	if !ok {
		d.log.Debug("logout for untracked session",
			logger.Field{Key: "sessionID", Value: sessionID.String()},
		)
		return
	}

	if err := d.registry.Unregister(sess.handler); err != nil {
		d.log.Error(errors.NewTracer("failed to unregister order handler on logout").Wrap(err),
			logger.Field{Key: "sessionID", Value: sessionID.String()},
		)
	}

	d.log.Info("session logged out",
		logger.Field{Key: "sessionID", Value: sessionID.String()},
	)
}

// ActiveSessions returns the number of currently logged-on sessions.
func (d *Dispatcher) ActiveSessions() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}

// EnrichOutgoingAdmin finalizes outbound admin messages. Logons carry no
// encryption and either a sequence reset or, after a desynchronized
// logout, the sequence number the counterparty told us it expects.
func (d *Dispatcher) EnrichOutgoingAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {
	msgType, err := msg.Header.GetString(tag.MsgType)
	if err != nil || msgType != string(enum.MsgType_LOGON) {
		return
	}

	msg.Body.Set(field.NewEncryptMethod(encryptMethodNone))

	d.seqMu.Lock()
	expected, recovering := d.expectedSeq[sessionID]
	delete(d.expectedSeq, sessionID)
	d.seqMu.Unlock()

	if recovering {
		msg.Body.Set(field.NewResetSeqNumFlag(false))
		msg.Header.SetInt(tag.MsgSeqNum, expected)
		d.log.Info("resuming session at counterparty's expected sequence number",
			logger.Field{Key: "sessionID", Value: sessionID.String()},
			logger.Field{Key: "msgSeqNum", Value: expected},
		)
		return
	}
	msg.Body.Set(field.NewResetSeqNumFlag(true))
}

// HandleIncomingAdmin inspects inbound admin traffic. A logout whose text
// names the counterparty's expected sequence number is stashed so the
// next logon can resume instead of resetting.
func (d *Dispatcher) HandleIncomingAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {
	msgType, err := msg.Header.GetString(tag.MsgType)
	if err != nil || msgType != msgTypeLogout {
		return
	}

	var text field.TextField
	if err := msg.Body.Get(&text); err != nil {
		return
	}
	expected, ok := ParseExpectedSeqNum(text.Value())
	if !ok {
		return
	}

	d.seqMu.Lock()
	d.expectedSeq[sessionID] = expected
	d.seqMu.Unlock()

	d.log.Warn("logout with sequence hint, will resume on next logon",
		logger.Field{Key: "sessionID", Value: sessionID.String()},
		logger.Field{Key: "expectedSeqNum", Value: expected},
	)
}

// HandleApp decodes and routes an inbound application message. A report
// that merely answers a status poll is dropped; execution reports and
// cancel rejects reach the controller; anything else is logged and
// discarded rather than rejected back to the counterparty.
func (d *Dispatcher) HandleApp(msg *quickfix.Message, sessionID quickfix.SessionID) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error(errors.NewTracer("panic while handling application message"),
				logger.Field{Key: "sessionID", Value: sessionID.String()},
				logger.Field{Key: "panic", Value: r},
			)
		}
	}()

	msgType, err := msg.Header.GetString(tag.MsgType)
	if err != nil {
		d.log.Error(errors.NewTracer("application message without msg type").Wrap(err))
		return
	}

	switch msgType {
	case string(enum.MsgType_EXECUTION_REPORT):
		report := fixv1.ParseExecutionReport(msg)
		if report.IsStatusRequestEcho() {
			d.log.Debug("ignoring status request echo",
				logger.Field{Key: "clOrdID", Value: report.ClOrdID},
			)
			return
		}
		d.registry.Receive(report)
	case msgTypeOrderCancelReject:
		d.registry.ReceiveCancelReject(fixv1.ParseCancelReject(msg))
	case msgTypeBusinessReject:
		var text field.TextField
		_ = msg.Body.Get(&text)
		d.log.Warn("business message reject received",
			logger.Field{Key: "sessionID", Value: sessionID.String()},
			logger.Field{Key: "text", Value: text.Value()},
		)
	default:
		d.log.Debug("unhandled application message",
			logger.Field{Key: "msgType", Value: msgType},
		)
	}
}
