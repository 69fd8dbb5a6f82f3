package realtime

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vulture98/student-courses-backend/internal/models"
)

// Event is the payload pushed over the live channel when a student's
// course list changes. Mirrors the durable notification shape; Read is
// always false at push time.
type Event struct {
	ID        string                  `json:"id"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	Data      models.NotificationData `json:"data"`
	Timestamp time.Time               `json:"timestamp"`
	Read      bool                    `json:"read"`
}

// Notifier pushes best-effort live events to connected students.
type Notifier struct {
	registry *Registry
	log      *zap.Logger
}

func NewNotifier(registry *Registry, log *zap.Logger) *Notifier {
	return &Notifier{registry: registry, log: log}
}

// Push broadcasts an event to all of the student's connections. Never
// returns an error and never blocks: an offline student is a silent no-op
// and delivery failures surface only in logs.
func (n *Notifier) Push(studentID string, typ models.NotificationType, message string, courses []models.CourseSummary) {
	event := Event{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      typ,
		Data:      models.NotificationData{Courses: courses},
		Timestamp: time.Now(),
	}

	if !n.registry.IsOnline(studentID) {
		n.log.Debug("student offline, skipping live push", zap.String("student_id", studentID))
		return
	}

	n.registry.Broadcast(studentID, typ.EventName(), event)
	n.log.Info("live event pushed",
		zap.String("student_id", studentID),
		zap.String("event", typ.EventName()),
		zap.Int("courses", len(courses)))
}
