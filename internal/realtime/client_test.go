package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vulture98/student-courses-backend/internal/models"
)

func dialTestServer(t *testing.T, registry *Registry) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(ServeWS(registry, zap.NewNop(), "http://localhost:5173"))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServeWS_AuthenticateJoinsBroadcastGroup(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	conn := dialTestServer(t, registry)

	require.NoError(t, conn.WriteJSON(inboundFrame{Event: "authenticate", Data: "s1"}))

	require.Eventually(t, func() bool {
		return registry.IsOnline("s1")
	}, 2*time.Second, 10*time.Millisecond)

	notifier := NewNotifier(registry, zap.NewNop())
	notifier.Push("s1", models.NotificationCourseAssigned, "hello", nil)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame struct {
		Event   string `json:"event"`
		Payload Event  `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, "course_assigned", frame.Event)
	assert.Equal(t, "hello", frame.Payload.Message)
}

func TestServeWS_UnauthenticatedConnectionReceivesNothing(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	conn := dialTestServer(t, registry)

	assert.False(t, registry.IsOnline("s1"))
	registry.Broadcast("s1", "course_assigned", map[string]string{})

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err) // timeout: no frame was delivered
}

func TestServeWS_DisconnectUnregisters(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	conn := dialTestServer(t, registry)

	require.NoError(t, conn.WriteJSON(inboundFrame{Event: "authenticate", Data: "s1"}))
	require.Eventually(t, func() bool {
		return registry.IsOnline("s1")
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return !registry.IsOnline("s1")
	}, 2*time.Second, 10*time.Millisecond)
}
