package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event kinds published after successful writes.
const (
	EventUserCreated     = "user.created"
	EventReviewerSaved   = "reviewer.saved"
	EventReviewerDeleted = "reviewer.deleted"
	EventQuizRecorded    = "quiz.recorded"
	EventUsersExported   = "users.exported"
)

// CommandExport asks the core to write the user export.
const CommandExport = "export"

// Event is the JSON payload of a change event. It identifies the record
// that changed; subscribers read the record itself through the API.
type Event struct {
	Kind      string `json:"kind"`
	ID        int64  `json:"id,omitempty"`
	UserID    int64  `json:"user_id,omitempty"`
	Path      string `json:"path,omitempty"`
	Timestamp string `json:"timestamp"`
}

// encodeEvent fills in kind and timestamp and marshals the event.
func encodeEvent(kind string, ev Event, now time.Time) ([]byte, error) {
	if kind == "" {
		return nil, ErrInvalidEvent
	}
	ev.Kind = kind
	if ev.Timestamp == "" {
		ev.Timestamp = now.UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encoding %s event: %w", kind, err)
	}
	return payload, nil
}

// PublishEvent publishes ev on studyaid/events/{kind} with the configured
// QoS and waits for the broker to accept it. Events are not retained.
func (c *Client) PublishEvent(kind string, ev Event) error {
	payload, err := encodeEvent(kind, ev, time.Now())
	if err != nil {
		return err
	}
	if !c.Online() {
		return fmt.Errorf("%w: dropping %s event", ErrNotConnected, kind)
	}

	token := c.conn.Publish(Topics{}.Event(kind), c.qos(), false, payload)
	if !token.WaitTimeout(defaultOperationTimeout) {
		return fmt.Errorf("%w: %s: timeout after %v", ErrEventNotSent, kind, defaultOperationTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEventNotSent, kind, err)
	}
	return nil
}
