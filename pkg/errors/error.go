package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"

	// FixHandlerAlreadyRegistered is returned when a session handler is
	// registered while another one is still active.
	FixHandlerAlreadyRegistered ErrorCode = "fix_handler_already_registered"
	// FixHandlerNotRegistered is returned when unregistering without an
	// active session handler.
	FixHandlerNotRegistered ErrorCode = "fix_handler_not_registered"
	// FixHandlerMismatch is returned when the handler being unregistered is
	// not the currently registered one.
	FixHandlerMismatch ErrorCode = "fix_handler_mismatch"
	// FixSessionUnavailable is returned when a message is bound to a session
	// that is not registered with the engine.
	FixSessionUnavailable ErrorCode = "fix_session_unavailable"
	// FixConnectTimeout is returned when the counterparty does not confirm
	// logon within the configured window.
	FixConnectTimeout ErrorCode = "fix_connect_timeout"
	// FixAlreadyStarted is returned when starting an engine instance twice.
	FixAlreadyStarted ErrorCode = "fix_already_started"
	// FixUnsupportedOrderType is returned when an order type has no FIX 4.2
	// representation at this counterparty.
	FixUnsupportedOrderType ErrorCode = "fix_unsupported_order_type"
	// FixUnsupportedTimeInForce is returned when a time-in-force has no
	// FIX 4.2 representation at this counterparty.
	FixUnsupportedTimeInForce ErrorCode = "fix_unsupported_time_in_force"
	// FixMissingInstrumentID is returned when an order lacks the instrument
	// identifier required by the counterparty.
	FixMissingInstrumentID ErrorCode = "fix_missing_instrument_id"

	// KafkaPublishError represents an error publishing to the event topic.
	KafkaPublishError ErrorCode = "kafka_publish_error"
)
