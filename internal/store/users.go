// Package store wraps the MongoDB collections behind small typed adapters.
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

type UserStore struct {
	users   *mongo.Collection
	courses *mongo.Collection
}

func NewUserStore(client *mongo.Client, dbName string) *UserStore {
	return &UserStore{
		users:   client.Database(dbName).Collection("users"),
		courses: client.Database(dbName).Collection("courses"),
	}
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindStudentsByIDs returns the students matching the given IDs. Callers
// compare the result count against the request to detect unknown IDs.
func (s *UserStore) FindStudentsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	cursor, err := s.users.Find(ctx, bson.M{
		"_id":  bson.M{"$in": ids},
		"role": models.RoleStudent,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var students []models.User
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (s *UserStore) Insert(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.EnrolledCourses == nil {
		user.EnrolledCourses = []models.Enrollment{}
	}
	_, err := s.users.InsertOne(ctx, user)
	return err
}

// AddEnrollments appends one enrollment per course ID in a single atomic
// $push, so concurrent mutations of the same student never lose a delta.
// Returns the refreshed student with course documents populated.
func (s *UserStore) AddEnrollments(ctx context.Context, studentID primitive.ObjectID, courseIDs []primitive.ObjectID) (*models.StudentView, error) {
	entries := make([]models.Enrollment, 0, len(courseIDs))
	for _, id := range courseIDs {
		entries = append(entries, models.Enrollment{Course: id, Completed: false, Progress: 0})
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": studentID},
		bson.M{
			"$push": bson.M{"enrolledCourses": bson.M{"$each": entries}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, apperrors.NotFound("student not found")
	}

	return s.StudentWithCourses(ctx, studentID)
}

// RemoveEnrollments removes every enrollment whose course is in the given
// set, in a single atomic $pull. Returns the refreshed populated student.
func (s *UserStore) RemoveEnrollments(ctx context.Context, studentID primitive.ObjectID, courseIDs []primitive.ObjectID) (*models.StudentView, error) {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": studentID},
		bson.M{
			"$pull": bson.M{"enrolledCourses": bson.M{"course": bson.M{"$in": courseIDs}}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, apperrors.NotFound("student not found")
	}

	return s.StudentWithCourses(ctx, studentID)
}

// StudentWithCourses loads a student and populates each enrollment with its
// course document, preserving enrollment order. Enrollments whose course no
// longer exists are skipped.
func (s *UserStore) StudentWithCourses(ctx context.Context, studentID primitive.ObjectID) (*models.StudentView, error) {
	user, err := s.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]primitive.ObjectID, 0, len(user.EnrolledCourses))
	for _, e := range user.EnrolledCourses {
		courseIDs = append(courseIDs, e.Course)
	}

	byID := make(map[primitive.ObjectID]models.Course, len(courseIDs))
	if len(courseIDs) > 0 {
		cursor, err := s.courses.Find(ctx, bson.M{"_id": bson.M{"$in": courseIDs}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var courses []models.Course
		if err := cursor.All(ctx, &courses); err != nil {
			return nil, err
		}
		for _, c := range courses {
			byID[c.ID] = c
		}
	}

	view := &models.StudentView{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		Subject:         user.Subject,
		IsSuspended:     user.IsSuspended,
		EnrolledCourses: []models.EnrolledCourse{},
	}
	for _, e := range user.EnrolledCourses {
		course, ok := byID[e.Course]
		if !ok {
			continue
		}
		view.EnrolledCourses = append(view.EnrolledCourses, models.EnrolledCourse{
			Course:    course,
			Completed: e.Completed,
			Progress:  e.Progress,
		})
	}
	return view, nil
}

// StudentsWithCourses lists all students with course documents joined in via
// aggregation, for the admin listing.
func (s *UserStore) StudentsWithCourses(ctx context.Context) ([]models.StudentView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "role", Value: models.RoleStudent}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "courses"},
			{Key: "localField", Value: "enrolledCourses.course"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "courseDocs"},
		}}},
	}

	cursor, err := s.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		models.User `bson:",inline"`
		CourseDocs  []models.Course `bson:"courseDocs"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	views := make([]models.StudentView, 0, len(rows))
	for _, row := range rows {
		byID := make(map[primitive.ObjectID]models.Course, len(row.CourseDocs))
		for _, c := range row.CourseDocs {
			byID[c.ID] = c
		}
		view := models.StudentView{
			ID:              row.ID,
			Name:            row.Name,
			Email:           row.Email,
			Role:            row.Role,
			Subject:         row.Subject,
			IsSuspended:     row.IsSuspended,
			EnrolledCourses: []models.EnrolledCourse{},
		}
		for _, e := range row.EnrolledCourses {
			course, ok := byID[e.Course]
			if !ok {
				continue
			}
			view.EnrolledCourses = append(view.EnrolledCourses, models.EnrolledCourse{
				Course:    course,
				Completed: e.Completed,
				Progress:  e.Progress,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// SetCompletion sets completed on a single enrollment, with progress forced
// to 100 when completed and 0 otherwise.
func (s *UserStore) SetCompletion(ctx context.Context, studentID, courseID primitive.ObjectID, completed bool) error {
	progress := 0
	if completed {
		progress = 100
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": studentID},
		bson.M{"$set": bson.M{
			"enrolledCourses.$[elem].completed": completed,
			"enrolledCourses.$[elem].progress":  progress,
			"updatedAt":                         time.Now(),
		}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"elem.course": courseID}},
		}),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("student not found")
	}
	return nil
}

func (s *UserStore) ToggleSuspension(ctx context.Context, studentID primitive.ObjectID) (*models.User, error) {
	user, err := s.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return nil, apperrors.BadRequest("cannot suspend admin users")
	}

	user.IsSuspended = !user.IsSuspended
	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": studentID},
		bson.M{"$set": bson.M{"isSuspended": user.IsSuspended, "updatedAt": time.Now()}},
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserStore) DeleteStudent(ctx context.Context, studentID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users.FindOneAndDelete(ctx, bson.M{"_id": studentID, "role": models.RoleStudent}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NotFound("student not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) CountStudents(ctx context.Context) (int64, error) {
	return s.users.CountDocuments(ctx, bson.M{"role": models.RoleStudent})
}

func (s *UserStore) CountSuspendedStudents(ctx context.Context) (int64, error) {
	return s.users.CountDocuments(ctx, bson.M{"role": models.RoleStudent, "isSuspended": true})
}
