// Package realtime holds the live-notification layer: the session registry
// that maps students to their websocket connections, the connection pumps,
// and the notifier that pushes enrollment events.
package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Registry tracks which students are connected and which connections belong
// to each student. A connection belongs to at most one student at a time;
// the last authenticate wins. All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	clients map[*Client]string
	groups  map[string]map[*Client]struct{}
	log     *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		clients: make(map[*Client]string),
		groups:  make(map[string]map[*Client]struct{}),
		log:     log,
	}
}

// Register associates a connection with a student and joins it to the
// student's broadcast group. Idempotent: re-authenticating the same
// connection (same or different student) simply moves it.
func (r *Registry) Register(studentID string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.clients[c]; ok {
		if prev == studentID {
			return
		}
		r.leaveGroup(prev, c)
	}

	r.clients[c] = studentID
	group, ok := r.groups[studentID]
	if !ok {
		group = make(map[*Client]struct{})
		r.groups[studentID] = group
	}
	group[c] = struct{}{}

	r.log.Info("client authenticated",
		zap.String("student_id", studentID),
		zap.Int("connections", len(group)))
}

// Unregister removes a connection's group membership. Connections that
// never authenticated are unknown here and unregistering them is a no-op.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	studentID, ok := r.clients[c]
	if !ok {
		return
	}
	delete(r.clients, c)
	r.leaveGroup(studentID, c)

	r.log.Info("client disconnected", zap.String("student_id", studentID))
}

// caller must hold r.mu
func (r *Registry) leaveGroup(studentID string, c *Client) {
	group, ok := r.groups[studentID]
	if !ok {
		return
	}
	delete(group, c)
	if len(group) == 0 {
		delete(r.groups, studentID)
	}
}

// IsOnline reports whether at least one live connection is grouped under
// the student.
func (r *Registry) IsOnline(studentID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups[studentID]) > 0
}

// Broadcast delivers the payload to every connection in the student's
// group. Fire-and-forget: an empty group returns without error and a
// stalled connection has the frame dropped rather than blocking the caller.
func (r *Registry) Broadcast(studentID, event string, payload interface{}) {
	frame, err := json.Marshal(outboundFrame{Event: event, Payload: payload})
	if err != nil {
		r.log.Error("marshal broadcast frame", zap.Error(err), zap.String("event", event))
		return
	}

	r.mu.RLock()
	group := r.groups[studentID]
	targets := make([]*Client, 0, len(group))
	for c := range group {
		targets = append(targets, c)
	}
	r.mu.RUnlock()

	for _, c := range targets {
		if !c.trySend(frame) {
			r.log.Warn("dropping frame for slow client",
				zap.String("student_id", studentID),
				zap.String("event", event))
		}
	}
}
