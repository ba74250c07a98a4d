// Package instance owns the FIX engine lifecycle: settings, the
// initiator, and the engine callback surface.
package instance

import (
	"context"
	"sync"
	"time"

	"github.com/quickfixgo/quickfix"

	"github.com/quantclip/fix-brokerage/internal/usecase/dispatch"
	"github.com/quantclip/fix-brokerage/pkg/config"
	"github.com/quantclip/fix-brokerage/pkg/errors"
	"github.com/quantclip/fix-brokerage/pkg/logger"
)

// Instance runs one initiator against the counterparty and bridges
// engine callbacks to the dispatcher. Start and Stop are idempotent; a
// stopped instance is never restarted, a new one is built instead.
type Instance struct {
	cfg        config.FIXConfig
	dispatcher *dispatch.Dispatcher
	log        logger.Interface

	mu        sync.Mutex
	initiator *quickfix.Initiator
	started   bool
	stopped   bool
	connected bool

	logonCh chan struct{}
}

var _ quickfix.Application = (*Instance)(nil)

// New creates an Instance. Nothing connects until Start.
func New(cfg config.FIXConfig, dispatcher *dispatch.Dispatcher, log logger.Interface) *Instance {
	return &Instance{
		cfg:        cfg,
		dispatcher: dispatcher,
		log:        log,
		logonCh:    make(chan struct{}, 1),
	}
}

// IsConnected reports whether a session is logged on and the instance
// has not been stopped.
func (i *Instance) IsConnected() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.connected && !i.stopped
}

// Start connects to the counterparty and waits for logon. Each failed
// attempt retries with the next sender comp id suffix, since the
// counterparty refuses a comp id whose previous connection it still
// considers live. Returns once logged on, or with an error when every
// suffix timed out or the context was canceled.
func (i *Instance) Start(ctx context.Context) error {
	i.mu.Lock()
	if i.stopped {
		i.mu.Unlock()
		return errors.NewCoded(errors.FixSessionUnavailable, "instance has been stopped")
	}
	if i.started {
		i.mu.Unlock()
		return errors.NewCoded(errors.FixAlreadyStarted, "instance is already started")
	}
	i.started = true
	i.mu.Unlock()

	attempts := i.cfg.MaxSenderSuffix
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 0; attempt <= attempts; attempt++ {
		senderCompID := i.cfg.SessionSenderCompID(attempt)
		ok, err := i.connectOnce(ctx, senderCompID)
		if err != nil {
			i.mu.Lock()
			i.started = false
			i.mu.Unlock()
			return err
		}
		if ok {
			return nil
		}
		i.log.Warn("logon timed out, retrying with next sender comp id",
			logger.Field{Key: "senderCompID", Value: senderCompID},
		)
	}

	i.mu.Lock()
	i.started = false
	i.mu.Unlock()
	return errors.NewCoded(errors.FixConnectTimeout, "no logon within the connect timeout on any sender comp id")
}

// connectOnce builds an initiator for one sender comp id and waits for
// logon. A false return with nil error means the bounded wait expired
// and the caller may retry with another comp id.
func (i *Instance) connectOnce(ctx context.Context, senderCompID string) (bool, error) {
	settings, err := ParseSettings(i.cfg, senderCompID)
	if err != nil {
		return false, errors.NewTracer("failed to parse session settings").Wrap(err)
	}

	logFactory := quickfix.NewNullLogFactory()
	if i.cfg.LogRawMessages {
		logFactory = quickfix.NewScreenLogFactory()
	}

	initiator, err := quickfix.NewInitiator(i, quickfix.NewMemoryStoreFactory(), settings, logFactory)
	if err != nil {
		return false, errors.NewTracer("failed to create initiator").Wrap(err)
	}
	if err := initiator.Start(); err != nil {
		return false, errors.NewTracer("failed to start initiator").Wrap(err)
	}

	i.mu.Lock()
	i.initiator = initiator
	i.mu.Unlock()

	timeout := time.Duration(i.cfg.ConnectTimeout) * time.Second
	select {
	case <-i.logonCh:
		i.log.Info("connected",
			logger.Field{Key: "senderCompID", Value: senderCompID},
		)
		return true, nil
	case <-ctx.Done():
		initiator.Stop()
		return false, errors.TracerFromError(ctx.Err())
	case <-time.After(timeout):
		initiator.Stop()
		return false, nil
	}
}

// Stop logs the session out and shuts the initiator down. Safe to call
// more than once.
func (i *Instance) Stop() {
	i.mu.Lock()
	if i.stopped {
		i.mu.Unlock()
		return
	}
	i.stopped = true
	initiator := i.initiator
	i.mu.Unlock()

	if initiator != nil {
		initiator.Stop()
	}
	i.log.Info("instance stopped")
}

// OnCreate is called when the engine materializes the session.
func (i *Instance) OnCreate(sessionID quickfix.SessionID) {
	i.log.Debug("session created",
		logger.Field{Key: "sessionID", Value: sessionID.String()},
	)
}

// OnLogon marks the instance connected and hands the session to the
// dispatcher.
func (i *Instance) OnLogon(sessionID quickfix.SessionID) {
	i.mu.Lock()
	i.connected = true
	i.mu.Unlock()

	select {
	case i.logonCh <- struct{}{}:
	default:
	}

	i.dispatcher.OnLogon(sessionID)
}

// OnLogout marks the instance disconnected and tears the session down.
func (i *Instance) OnLogout(sessionID quickfix.SessionID) {
	i.mu.Lock()
	i.connected = false
	i.mu.Unlock()

	i.dispatcher.OnLogout(sessionID)
}

// ToAdmin lets the dispatcher finalize outbound admin messages.
func (i *Instance) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {
	i.dispatcher.EnrichOutgoingAdmin(msg, sessionID)
}

// ToApp observes outbound application messages.
func (i *Instance) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	if i.cfg.LogRawMessages {
		i.log.Debug("outbound application message",
			logger.Field{Key: "sessionID", Value: sessionID.String()},
			logger.Field{Key: "message", Value: msg.String()},
		)
	}
	return nil
}

// FromAdmin feeds inbound admin traffic to the dispatcher.
func (i *Instance) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	if i.isStopped() {
		return nil
	}
	i.dispatcher.HandleIncomingAdmin(msg, sessionID)
	return nil
}

// FromApp feeds inbound application traffic to the dispatcher. Messages
// are never rejected back to the counterparty; anything unhandled is
// logged and dropped. A stopped instance drops inbound traffic so late
// reports cannot race the teardown.
func (i *Instance) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	if i.isStopped() {
		return nil
	}
	i.dispatcher.HandleApp(msg, sessionID)
	return nil
}

func (i *Instance) isStopped() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.stopped
}
