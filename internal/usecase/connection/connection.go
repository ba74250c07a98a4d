// Package connection binds a live FIX session to the Sender contract.
package connection

import (
	"github.com/quickfixgo/quickfix"

	fixv1 "github.com/quantclip/fix-brokerage/internal/domain/fix/v1"
	"github.com/quantclip/fix-brokerage/pkg/errors"
	"github.com/quantclip/fix-brokerage/pkg/logger"
)

// Connection is a Sender bound to one logged-on session. It is created by
// the dispatcher on logon and discarded on logout; a Connection never
// outlives its session.
type Connection struct {
	sessionID quickfix.SessionID
	log       logger.Interface
}

var _ fixv1.Sender = (*Connection)(nil)

// New creates a Connection for a logged-on session. The session id must
// identify an established session; an empty id is refused.
func New(sessionID quickfix.SessionID, log logger.Interface) (*Connection, error) {
	if sessionID.SenderCompID == "" || sessionID.TargetCompID == "" {
		return nil, errors.NewCoded(errors.FixSessionUnavailable, "session id is incomplete")
	}
	return &Connection{sessionID: sessionID, log: log}, nil
}

// SessionID returns the session this connection is bound to.
func (c *Connection) SessionID() quickfix.SessionID {
	return c.sessionID
}

// Send queues the message on the session. A false return means the
// engine refused the message, typically because the session dropped
// between logon and send.
func (c *Connection) Send(msg quickfix.Messagable) bool {
	if err := quickfix.SendToTarget(msg, c.sessionID); err != nil {
		c.log.Error(errors.NewTracer("failed to send message to session").Wrap(err),
			logger.Field{Key: "sessionID", Value: c.sessionID.String()},
		)
		return false
	}
	return true
}
