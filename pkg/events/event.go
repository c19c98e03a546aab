package events

import (
	"context"
	"time"
)

const (
	TypeUserDeleted         = "USER_DELETED"
	TypeConversationCreated = "CONVERSATION_CREATED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_DELETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher is anything that can put an Event on a bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// StringField reads a string value from the payload, returning "" when absent.
func StringField(e Event, key string) string {
	if e == nil || e.Payload() == nil {
		return ""
	}
	if v, ok := e.Payload()[key].(string); ok {
		return v
	}
	return ""
}
