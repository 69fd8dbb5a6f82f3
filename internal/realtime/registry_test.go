package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient() *Client {
	return &Client{send: make(chan []byte, sendBufferSize)}
}

func receivedFrame(t *testing.T, c *Client) outboundTestFrame {
	t.Helper()
	select {
	case data := <-c.send:
		var frame outboundTestFrame
		require.NoError(t, json.Unmarshal(data, &frame))
		return frame
	default:
		t.Fatal("expected a frame, got none")
		return outboundTestFrame{}
	}
}

type outboundTestFrame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func TestRegistry_OnlineAfterRegisterOfflineAfterUnregister(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	client := testClient()

	assert.False(t, registry.IsOnline("s1"))

	registry.Register("s1", client)
	assert.True(t, registry.IsOnline("s1"))

	registry.Unregister(client)
	assert.False(t, registry.IsOnline("s1"))
}

func TestRegistry_UnregisterUnknownClientIsNoOp(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	registry.Unregister(testClient())
}

func TestRegistry_RegisterIsIdempotent(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	client := testClient()

	registry.Register("s1", client)
	registry.Register("s1", client)

	registry.Broadcast("s1", "system", map[string]string{"ping": "pong"})
	receivedFrame(t, client)
	// a second registration must not duplicate delivery
	select {
	case <-client.send:
		t.Fatal("client received a duplicate frame")
	default:
	}
}

func TestRegistry_LastAuthenticateWins(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	client := testClient()

	registry.Register("s1", client)
	registry.Register("s2", client)

	assert.False(t, registry.IsOnline("s1"))
	assert.True(t, registry.IsOnline("s2"))
}

func TestRegistry_BroadcastReachesAllConnections(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	tab1 := testClient()
	tab2 := testClient()

	registry.Register("s1", tab1)
	registry.Register("s1", tab2)

	registry.Broadcast("s1", "course_assigned", map[string]string{"id": "ev-1"})

	frame1 := receivedFrame(t, tab1)
	frame2 := receivedFrame(t, tab2)
	assert.Equal(t, "course_assigned", frame1.Event)
	assert.Equal(t, "course_assigned", frame2.Event)
}

func TestRegistry_BroadcastToOfflineStudentIsNoOp(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	other := testClient()
	registry.Register("someone-else", other)

	registry.Broadcast("offline", "course_assigned", map[string]string{})

	select {
	case <-other.send:
		t.Fatal("unrelated client received a frame")
	default:
	}
}

func TestRegistry_SlowClientDoesNotBlockBroadcast(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	stalled := &Client{send: make(chan []byte)} // no buffer, nobody reading
	healthy := testClient()

	registry.Register("s1", stalled)
	registry.Register("s1", healthy)

	done := make(chan struct{})
	go func() {
		registry.Broadcast("s1", "system", map[string]string{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a stalled client")
	}
	receivedFrame(t, healthy)
}
