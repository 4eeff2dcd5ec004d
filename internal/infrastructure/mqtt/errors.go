package mqtt

import "errors"

// Errors returned by the change-event publisher and command listener.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotConnected means the broker link is down. Events published
	// meanwhile are dropped; the stored records are unaffected.
	ErrNotConnected = errors.New("mqtt: broker connection down")

	// ErrBrokerUnreachable is returned by Connect when the first dial fails.
	ErrBrokerUnreachable = errors.New("mqtt: broker unreachable")

	// ErrEventNotSent is returned when the broker did not accept a change event.
	ErrEventNotSent = errors.New("mqtt: change event not delivered")

	// ErrInvalidEvent is returned when an event has no kind.
	ErrInvalidEvent = errors.New("mqtt: change event has no kind")

	// ErrInvalidCommand is returned for an empty, wildcard or handler-less command.
	ErrInvalidCommand = errors.New("mqtt: invalid command")

	// ErrCommandSubscribe is returned when the core cannot listen for a command.
	ErrCommandSubscribe = errors.New("mqtt: cannot listen for command")

	// ErrCommandFailed wraps the error or panic of a command handler.
	ErrCommandFailed = errors.New("mqtt: command failed")
)
