package connection

import (
	"testing"
	"time"

	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix42/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantclip/fix-brokerage/pkg/errors"
	"github.com/quantclip/fix-brokerage/pkg/logger"
)

func newTestLogger(t *testing.T) logger.Interface {
	log, err := logger.NewLogger()
	require.NoError(t, err)
	return log
}

func TestNew_RejectsIncompleteSessionID(t *testing.T) {
	log := newTestLogger(t)

	_, err := New(quickfix.SessionID{}, log)
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, errors.FixSessionUnavailable))

	_, err = New(quickfix.SessionID{SenderCompID: "CLIENT"}, log)
	require.Error(t, err)
}

func TestNew_AcceptsCompleteSessionID(t *testing.T) {
	sessionID := quickfix.SessionID{
		BeginString:  "FIX.4.2",
		SenderCompID: "CLIENT",
		TargetCompID: "BROKER",
	}

	conn, err := New(sessionID, newTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, sessionID, conn.SessionID())
}

func TestSend_ReturnsFalseWhenSessionIsGone(t *testing.T) {
	sessionID := quickfix.SessionID{
		BeginString:  "FIX.4.2",
		SenderCompID: "NOBODY",
		TargetCompID: "NOWHERE",
	}
	conn, err := New(sessionID, newTestLogger(t))
	require.NoError(t, err)

	msg := ordercancelrequest.New(
		field.NewOrigClOrdID("orig"),
		field.NewClOrdID("new"),
		field.NewSymbol("BAYN"),
		field.NewSide("1"),
		field.NewTransactTime(time.Now().UTC()),
	)

	// no session with this id is registered with the engine
	assert.False(t, conn.Send(msg))
}
