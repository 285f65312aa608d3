package flow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage_CopiesProperties(t *testing.T) {
	props := map[string]any{"a": 1}

	msg := NewMessage("payload", props)
	props["a"] = 2

	_, err := uuid.Parse(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, msg.Properties["a"])
}

func TestMessage_WithPayloadKeepsIdentity(t *testing.T) {
	msg := NewMessage("first", map[string]any{"k": "v"})

	next := msg.WithPayload("second")

	assert.Equal(t, msg.ID, next.ID)
	assert.Equal(t, "second", next.Payload)
	assert.Equal(t, "first", msg.Payload)
	v, ok := next.Property("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestMessage_WithPropertyDoesNotMutateOriginal(t *testing.T) {
	msg := NewMessage(nil, nil)

	next := msg.WithProperty("http.status", 200)

	_, ok := msg.Property("http.status")
	assert.False(t, ok)
	assert.Equal(t, 200, next.Properties["http.status"])
}
