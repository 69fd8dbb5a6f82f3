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

type CourseStore struct {
	collection *mongo.Collection
}

func NewCourseStore(client *mongo.Client, dbName string) *CourseStore {
	return &CourseStore{
		collection: client.Database(dbName).Collection("courses"),
	}
}

// FindByIDs returns the courses matching the given IDs. Callers compare the
// result count against the request to detect unknown IDs.
func (s *CourseStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Course, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *CourseStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	var course models.Course
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NotFound("course not found")
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns the catalog. Suspended courses are excluded unless
// includeSuspended is set (admin listing).
func (s *CourseStore) List(ctx context.Context, includeSuspended bool) ([]models.Course, error) {
	filter := bson.M{}
	if !includeSuspended {
		filter["isSuspended"] = false
	}

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *CourseStore) Insert(ctx context.Context, course *models.Course) error {
	course.ID = primitive.NewObjectID()
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	_, err := s.collection.InsertOne(ctx, course)
	return err
}

func (s *CourseStore) Update(ctx context.Context, id primitive.ObjectID, course *models.Course) error {
	update := bson.M{
		"$set": bson.M{
			"title":       course.Title,
			"description": course.Description,
			"subject":     course.Subject,
			"level":       course.Level,
			"videoUrl":    course.VideoURL,
			"thumbnail":   course.Thumbnail,
			"updatedAt":   time.Now(),
		},
	}
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("course not found")
	}
	return nil
}

func (s *CourseStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("course not found")
	}
	return nil
}

func (s *CourseStore) ToggleSuspension(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	course, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course.IsSuspended = !course.IsSuspended
	_, err = s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isSuspended": course.IsSuspended, "updatedAt": time.Now()}},
	)
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseStore) Count(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}

func (s *CourseStore) CountSuspended(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{"isSuspended": true})
}

// MostViewed returns the top courses by view count for the admin stats page.
func (s *CourseStore) MostViewed(ctx context.Context, limit int64) ([]models.Course, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "stats.totalViews", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}
