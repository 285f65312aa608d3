package flow

import (
	"maps"

	"github.com/google/uuid"
)

// Message is the unit of data passed between the processors of a flow.
type Message struct {
	ID         string
	Payload    any
	Properties map[string]any
}

// NewMessage creates a message with a fresh ID. The properties map is copied.
func NewMessage(payload any, properties map[string]any) *Message {
	props := make(map[string]any, len(properties))
	maps.Copy(props, properties)
	return &Message{
		ID:         uuid.NewString(),
		Payload:    payload,
		Properties: props,
	}
}

// WithPayload returns a copy of m carrying payload. The ID is kept so a
// message can be followed across processors.
func (m *Message) WithPayload(payload any) *Message {
	out := NewMessage(payload, m.Properties)
	out.ID = m.ID
	return out
}

// Property returns a property value and whether it was set.
func (m *Message) Property(name string) (any, bool) {
	v, ok := m.Properties[name]
	return v, ok
}

// Result is what a flow execution returns.
type Result struct {
	Count   int
	Message *Message
}

// WithProperty returns a copy of m with property name set to value.
func (m *Message) WithProperty(name string, value any) *Message {
	out := m.WithPayload(m.Payload)
	out.Properties[name] = value
	return out
}
