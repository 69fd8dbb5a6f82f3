package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

// outboundFrame is the server-to-client wire format.
type outboundFrame struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// inboundFrame is the client-to-server wire format. The only event a
// client sends is authenticate, with the student ID as data.
type inboundFrame struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// Client is one live websocket connection. Frames to the peer go through
// a buffered channel drained by writePump so a slow peer never blocks a
// broadcast.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	registry *Registry
	log      *zap.Logger
}

func newClient(conn *websocket.Conn, registry *Registry, log *zap.Logger) *Client {
	return &Client{
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		registry: registry,
		log:      log,
	}
}

// trySend queues a frame without blocking; reports false if the buffer is
// full and the frame was dropped.
func (c *Client) trySend(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) readPump() {
	defer func() {
		c.registry.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.log.Warn("malformed client frame", zap.Error(err))
			continue
		}
		if frame.Event == "authenticate" && frame.Data != "" {
			c.registry.Register(frame.Data, c)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS upgrades an HTTP request to a websocket connection and starts its
// pumps. The connection joins no broadcast group until the peer sends an
// authenticate frame.
func ServeWS(registry *Registry, log *zap.Logger, allowedOrigin string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowedOrigin
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("websocket upgrade", zap.Error(err))
			return
		}

		client := newClient(conn, registry, log)
		go client.writePump()
		go client.readPump()
	}
}
