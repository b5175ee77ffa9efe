package server

import (
	"encoding/json"
	"errors"
	"fmt"
)

type EventType string

const (
	EventTypeUpdate EventType = "update"
	EventTypeLogin  EventType = "login"
	EventTypeError  EventType = "error"
)

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrMissingEventData = errors.New("missing event data")
)

// Event is a message sent to clients. The set of implementations is closed:
// UpdateEvent, LoginEvent and ErrorEvent.
type Event interface {
	Type() EventType
	data() (json.RawMessage, error)
}

// envelope is the wire shape of every event.
type envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Payload sent to each player on every tick. Money is omitted from the wire
// when nil.
type UpdateEvent struct {
	Money *int `json:"money,omitempty"`
}

func NewUpdateEvent(money int) UpdateEvent {
	return UpdateEvent{Money: &money}
}

func (e UpdateEvent) Type() EventType { return EventTypeUpdate }

func (e UpdateEvent) data() (json.RawMessage, error) {
	return json.Marshal(e)
}

// Payload sent directly on the connection once the handshake succeeds.
type LoginEvent struct {
	UserID string `json:"user_id"`
}

func (e LoginEvent) Type() EventType { return EventTypeLogin }

func (e LoginEvent) data() (json.RawMessage, error) {
	return json.Marshal(e)
}

// ErrorEvent data is the bare reason string, not an object.
type ErrorEvent struct {
	Reason string
}

func (e ErrorEvent) Type() EventType { return EventTypeError }

func (e ErrorEvent) data() (json.RawMessage, error) {
	return json.Marshal(e.Reason)
}

// EncodeEvent serializes an event into a text frame payload.
func EncodeEvent(e Event) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("encode event: %w", ErrUnknownEventType)
	}

	data, err := e.data()
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", e.Type(), err)
	}

	b, err := json.Marshal(envelope{Type: e.Type(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", e.Type(), err)
	}
	return b, nil
}

// DecodeEvent parses a frame payload produced by EncodeEvent. Anything that
// is not one of the three known shapes is rejected.
func DecodeEvent(b []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	switch env.Type {
	case EventTypeUpdate:
		var e UpdateEvent
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &e); err != nil {
				return nil, fmt.Errorf("decode update event: %w", err)
			}
		}
		return e, nil
	case EventTypeLogin:
		if len(env.Data) == 0 {
			return nil, fmt.Errorf("decode login event: %w", ErrMissingEventData)
		}
		var e LoginEvent
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("decode login event: %w", err)
		}
		return e, nil
	case EventTypeError:
		if len(env.Data) == 0 {
			return nil, fmt.Errorf("decode error event: %w", ErrMissingEventData)
		}
		var e ErrorEvent
		if err := json.Unmarshal(env.Data, &e.Reason); err != nil {
			return nil, fmt.Errorf("decode error event: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("decode event: %w: %q", ErrUnknownEventType, env.Type)
	}
}
