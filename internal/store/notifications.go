package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Vulture98/student-courses-backend/internal/apperrors"
	"github.com/Vulture98/student-courses-backend/internal/models"
)

// readBacklogLimit caps how many already-read notifications a listing
// returns alongside the full unread backlog.
const readBacklogLimit = 5

type NotificationStore struct {
	collection *mongo.Collection
}

func NewNotificationStore(client *mongo.Client, dbName string) *NotificationStore {
	return &NotificationStore{
		collection: client.Database(dbName).Collection("notifications"),
	}
}

// Record persists a durable notification for the student, whether or not
// they are currently connected.
func (s *NotificationStore) Record(ctx context.Context, userID primitive.ObjectID, typ models.NotificationType, message string, courses []models.CourseSummary) (*models.Notification, error) {
	notification := &models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Message:   message,
		Type:      typ,
		Data:      models.NotificationData{Courses: courses},
		Read:      false,
		CreatedAt: time.Now(),
	}

	if _, err := s.collection.InsertOne(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// ListForUser returns every unread notification (newest first) followed by
// the most recent read ones, capped to bound response size while surfacing
// the full unread backlog.
func (s *NotificationStore) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	newestFirst := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.collection.Find(ctx, bson.M{"userId": userID, "read": false}, newestFirst)
	if err != nil {
		return nil, err
	}
	var unread []models.Notification
	if err := cursor.All(ctx, &unread); err != nil {
		return nil, err
	}

	readOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(readBacklogLimit)
	cursor, err = s.collection.Find(ctx, bson.M{"userId": userID, "read": true}, readOpts)
	if err != nil {
		return nil, err
	}
	var read []models.Notification
	if err := cursor.All(ctx, &read); err != nil {
		return nil, err
	}

	notifications := make([]models.Notification, 0, len(unread)+len(read))
	notifications = append(notifications, unread...)
	notifications = append(notifications, read...)
	return notifications, nil
}

// MarkRead idempotently sets read=true on the notification if it belongs to
// the student; NotFound otherwise.
func (s *NotificationStore) MarkRead(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	var notification models.Notification
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"read": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&notification)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NotFound("notification not found")
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkAllRead sets read=true on all of the student's unread notifications
// and returns how many were affected (may be zero).
func (s *NotificationStore) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.collection.UpdateMany(ctx,
		bson.M{"userId": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
