package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Vulture98/student-courses-backend/internal/models"
)

func TestNotifier_PushToOfflineStudentIsNoOp(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	notifier := NewNotifier(registry, zap.NewNop())

	// must not panic or block
	notifier.Push("offline", models.NotificationCourseAssigned, "hello", nil)
}

func TestNotifier_PushDeliversStructuredEvent(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	notifier := NewNotifier(registry, zap.NewNop())

	client := testClient()
	registry.Register("s1", client)

	course := models.CourseSummary{ID: primitive.NewObjectID(), Title: "Biology"}
	notifier.Push("s1", models.NotificationCourseAssigned, "You have been assigned 1 course: Biology", []models.CourseSummary{course})

	frame := receivedFrame(t, client)
	assert.Equal(t, "course_assigned", frame.Event)

	var event Event
	require.NoError(t, json.Unmarshal(frame.Payload, &event))
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, models.NotificationCourseAssigned, event.Type)
	assert.Equal(t, "You have been assigned 1 course: Biology", event.Message)
	assert.False(t, event.Read)
	assert.False(t, event.Timestamp.IsZero())
	require.Len(t, event.Data.Courses, 1)
	assert.Equal(t, course.ID, event.Data.Courses[0].ID)
	assert.Equal(t, "Biology", event.Data.Courses[0].Title)
}

func TestNotifier_EventIDsAreUniquePerPush(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	notifier := NewNotifier(registry, zap.NewNop())

	client := testClient()
	registry.Register("s1", client)

	notifier.Push("s1", models.NotificationSystem, "one", nil)
	notifier.Push("s1", models.NotificationSystem, "two", nil)

	first := receivedFrame(t, client)
	second := receivedFrame(t, client)
	assert.Equal(t, "system", first.Event)
	assert.Equal(t, "system", second.Event)

	var a, b Event
	require.NoError(t, json.Unmarshal(first.Payload, &a))
	require.NoError(t, json.Unmarshal(second.Payload, &b))
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNotifier_RemovedTypeMapsToCourseRemovedEvent(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	notifier := NewNotifier(registry, zap.NewNop())

	client := testClient()
	registry.Register("s1", client)

	notifier.Push("s1", models.NotificationCourseRemoved, "removed", nil)
	frame := receivedFrame(t, client)
	assert.Equal(t, "course_removed", frame.Event)
}
