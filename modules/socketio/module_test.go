package socketio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowbench/internal/flow"
)

func TestHandler_Init(t *testing.T) {
	h := NewNamespaceHandler()

	require.NoError(t, h.Init())

	assert.Equal(t, []string{"config", "emit"}, h.Registry().Names())
	mod, err := h.Registry().Resolve("config")
	require.NoError(t, err)
	assert.Equal(t, "15s", mod.(*Client).ConnectTimeout)
}

func TestClient_StartRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		client *Client
		want   string
	}{
		{name: "bad timeout", client: &Client{URL: "http://localhost:3000", ConnectTimeout: "never"}, want: "invalid socketio connect_timeout"},
		{name: "relative url", client: &Client{URL: "/socket.io", ConnectTimeout: "1s"}, want: "must be absolute"},
		{name: "unparsable url", client: &Client{URL: "http://[::1", ConnectTimeout: "1s"}, want: "failed to parse URL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.client.Start(t.Context())

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestClient_StopWithoutConnection(t *testing.T) {
	assert.NoError(t, (&Client{}).Stop(t.Context()))
}

func TestEmit_RequiresConnectedClient(t *testing.T) {
	e := &Emit{Event: "ping", Timeout: "1s"}
	require.NoError(t, e.BindConfig(&Client{URL: "http://localhost:3000"}))

	_, err := e.Process(t.Context(), flow.NewMessage("hello", nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not connected")
}

func TestEmit_BindConfigRejectsForeignModule(t *testing.T) {
	err := new(Emit).BindConfig("not a client")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected *socketio.Client")
}

func TestConnectError(t *testing.T) {
	boom := errors.New("refused")

	assert.Same(t, boom, connectError([]any{boom}))
	assert.EqualError(t, connectError([]any{"text"}), "text")
	assert.EqualError(t, connectError(nil), "connect_error without details")
}

func TestReplyWait(t *testing.T) {
	t.Run("reply arrives", func(t *testing.T) {
		w := newReplyWait()
		released := false

		w.listener("pong", "ignored")
		v, err := w.wait(t.Context(), time.Second, func() { released = true })

		require.NoError(t, err)
		assert.Equal(t, "pong", v)
		assert.False(t, released)
	})

	t.Run("timeout releases the listener", func(t *testing.T) {
		w := newReplyWait()
		released := 0

		_, err := w.wait(t.Context(), 10*time.Millisecond, func() { released++ })

		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out")
		assert.Equal(t, 1, released)
	})

	t.Run("cancelled context releases the listener", func(t *testing.T) {
		w := newReplyWait()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		released := 0

		_, err := w.wait(ctx, time.Second, func() { released++ })

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, released)
	})

	t.Run("late replies never block", func(t *testing.T) {
		w := newReplyWait()

		w.listener("first")
		w.listener("second")
		w.listener()

		assert.Equal(t, "first", <-w.done)
	})
}
