package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationCourseAssigned NotificationType = "COURSE_ASSIGNED"
	NotificationCourseRemoved  NotificationType = "COURSE_REMOVED"
	NotificationSystem         NotificationType = "SYSTEM"
)

// EventName is the live-channel event name for this notification type,
// e.g. COURSE_ASSIGNED -> "course_assigned".
func (t NotificationType) EventName() string {
	return strings.ToLower(string(t))
}

// CourseSummary is the denormalized course snapshot embedded in a
// notification's data payload.
type CourseSummary struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Subject     string             `json:"subject,omitempty" bson:"subject,omitempty"`
	Level       string             `json:"level,omitempty" bson:"level,omitempty"`
}

type NotificationData struct {
	Courses []CourseSummary `json:"courses" bson:"courses"`
}

// Notification is the durable record of an enrollment change, persisted
// whether or not the student is connected.
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"userId"`
	Message   string             `json:"message" bson:"message"`
	Type      NotificationType   `json:"type" bson:"type"`
	Data      NotificationData   `json:"data" bson:"data"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
}
