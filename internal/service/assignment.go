package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Vulture98/student-courses-backend/internal/apperrors"
	"github.com/Vulture98/student-courses-backend/internal/models"
)

// StudentStore is the enrollment side of the user store the orchestrator
// needs.
type StudentStore interface {
	FindStudentsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	AddEnrollments(ctx context.Context, studentID primitive.ObjectID, courseIDs []primitive.ObjectID) (*models.StudentView, error)
	RemoveEnrollments(ctx context.Context, studentID primitive.ObjectID, courseIDs []primitive.ObjectID) (*models.StudentView, error)
}

type CourseCatalog interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Course, error)
}

type NotificationRecorder interface {
	Record(ctx context.Context, userID primitive.ObjectID, typ models.NotificationType, message string, courses []models.CourseSummary) (*models.Notification, error)
}

type LivePusher interface {
	Push(studentID string, typ models.NotificationType, message string, courses []models.CourseSummary)
}

// AssignmentService coordinates bulk course assignment: validate, diff,
// apply the delta, persist a durable notification, push a live event, and
// aggregate per-student outcomes.
type AssignmentService struct {
	students StudentStore
	catalog  CourseCatalog
	recorder NotificationRecorder
	notifier LivePusher
	log      *zap.Logger
}

func NewAssignmentService(students StudentStore, catalog CourseCatalog, recorder NotificationRecorder, notifier LivePusher, log *zap.Logger) *AssignmentService {
	return &AssignmentService{
		students: students,
		catalog:  catalog,
		recorder: recorder,
		notifier: notifier,
		log:      log,
	}
}

// StudentResult is one student's outcome in a bulk request. Affected counts
// courses actually added or removed; Skipped counts requested courses that
// were a no-op for this student (already assigned / not enrolled).
type StudentResult struct {
	StudentID primitive.ObjectID `json:"student_id"`
	Name      string             `json:"name"`
	Affected  int                `json:"affected"`
	Skipped   int                `json:"skipped"`
	Error     string             `json:"error,omitempty"`
}

type BulkResult struct {
	Message string          `json:"message"`
	Results []StudentResult `json:"results"`
}

// AssignCourses assigns the given courses to every listed student. The
// whole request fails before any mutation if a student or course ID is
// unknown; after that each student's outcome is independent and a failure
// for one never rolls back another.
func (s *AssignmentService) AssignCourses(ctx context.Context, studentIDs, courseIDs []primitive.ObjectID) (*BulkResult, error) {
	students, courses, err := s.validate(ctx, studentIDs, courseIDs)
	if err != nil {
		return nil, err
	}
	byID := coursesByID(courses)

	var results []StudentResult
	assigned := 0
	for _, student := range students {
		delta := AddDelta(student.EnrolledCourses, courseIDs)
		if len(delta) == 0 {
			results = append(results, StudentResult{
				StudentID: student.ID,
				Name:      student.Name,
				Skipped:   len(courseIDs),
			})
			continue
		}

		if _, err := s.students.AddEnrollments(ctx, student.ID, delta); err != nil {
			s.log.Error("apply enrollment delta",
				zap.Error(err),
				zap.String("student_id", student.ID.Hex()))
			results = append(results, StudentResult{
				StudentID: student.ID,
				Name:      student.Name,
				Skipped:   len(courseIDs),
				Error:     "failed to assign courses",
			})
			continue
		}

		summaries := summarize(delta, byID)
		message := deltaMessage("You have been assigned", summaries)
		s.sideEffects(ctx, student.ID, models.NotificationCourseAssigned, message, summaries)

		assigned++
		results = append(results, StudentResult{
			StudentID: student.ID,
			Name:      student.Name,
			Affected:  len(delta),
			Skipped:   len(courseIDs) - len(delta),
		})
	}

	return &BulkResult{
		Message: assignMessage(assigned, results),
		Results: results,
	}, nil
}

// UnassignCourses removes the given courses from every listed student, with
// the same validation and independence rules as AssignCourses.
func (s *AssignmentService) UnassignCourses(ctx context.Context, studentIDs, courseIDs []primitive.ObjectID) (*BulkResult, error) {
	students, courses, err := s.validate(ctx, studentIDs, courseIDs)
	if err != nil {
		return nil, err
	}
	byID := coursesByID(courses)

	var results []StudentResult
	unassigned := 0
	for _, student := range students {
		delta := RemoveDelta(student.EnrolledCourses, courseIDs)
		if len(delta) == 0 {
			results = append(results, StudentResult{
				StudentID: student.ID,
				Name:      student.Name,
				Skipped:   len(courseIDs),
			})
			continue
		}

		if _, err := s.students.RemoveEnrollments(ctx, student.ID, delta); err != nil {
			s.log.Error("remove enrollment delta",
				zap.Error(err),
				zap.String("student_id", student.ID.Hex()))
			results = append(results, StudentResult{
				StudentID: student.ID,
				Name:      student.Name,
				Skipped:   len(courseIDs),
				Error:     "failed to unassign courses",
			})
			continue
		}

		summaries := summarize(delta, byID)
		message := deltaMessage("You have been unassigned from", summaries)
		s.sideEffects(ctx, student.ID, models.NotificationCourseRemoved, message, summaries)

		unassigned++
		results = append(results, StudentResult{
			StudentID: student.ID,
			Name:      student.Name,
			Affected:  len(delta),
			Skipped:   len(courseIDs) - len(delta),
		})
	}

	return &BulkResult{
		Message: unassignMessage(unassigned, results),
		Results: results,
	}, nil
}

// validate batch-checks that every referenced student and course exists.
// Fails the whole request before any mutation.
func (s *AssignmentService) validate(ctx context.Context, studentIDs, courseIDs []primitive.ObjectID) ([]models.User, []models.Course, error) {
	if len(studentIDs) == 0 {
		return nil, nil, apperrors.Validation("student IDs must be a non-empty array")
	}
	if len(courseIDs) == 0 {
		return nil, nil, apperrors.Validation("course IDs must be a non-empty array")
	}

	courses, err := s.catalog.FindByIDs(ctx, courseIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(courses) != len(uniqueIDs(courseIDs)) {
		return nil, nil, apperrors.NotFound("one or more courses not found")
	}

	students, err := s.students.FindStudentsByIDs(ctx, studentIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(students) != len(uniqueIDs(studentIDs)) {
		return nil, nil, apperrors.NotFound("one or more students not found")
	}

	return students, courses, nil
}

// sideEffects runs the two post-commit effects, each in its own failure
// boundary: the durable record and the live push can fail independently
// without changing the student's outcome.
func (s *AssignmentService) sideEffects(ctx context.Context, studentID primitive.ObjectID, typ models.NotificationType, message string, summaries []models.CourseSummary) {
	if _, err := s.recorder.Record(ctx, studentID, typ, message, summaries); err != nil {
		s.log.Error("persist notification",
			zap.Error(err),
			zap.String("student_id", studentID.Hex()),
			zap.String("type", string(typ)))
	}
	s.notifier.Push(studentID.Hex(), typ, message, summaries)
}

func coursesByID(courses []models.Course) map[primitive.ObjectID]models.Course {
	byID := make(map[primitive.ObjectID]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	return byID
}

func summarize(ids []primitive.ObjectID, byID map[primitive.ObjectID]models.Course) []models.CourseSummary {
	summaries := make([]models.CourseSummary, 0, len(ids))
	for _, id := range ids {
		if course, ok := byID[id]; ok {
			summaries = append(summaries, course.Summary())
		}
	}
	return summaries
}

func deltaMessage(prefix string, summaries []models.CourseSummary) string {
	titles := make([]string, 0, len(summaries))
	for _, c := range summaries {
		titles = append(titles, c.Title)
	}
	noun := "course"
	if len(summaries) != 1 {
		noun = "courses"
	}
	return fmt.Sprintf("%s %d %s: %s", prefix, len(summaries), noun, strings.Join(titles, ", "))
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// A request where every student already had every course is still a 200:
// it was well-formed and simply had no effect. The message and per-student
// results let clients tell the cases apart.
func assignMessage(assigned int, results []StudentResult) string {
	switch {
	case assigned == 0:
		return "All selected courses are already assigned to all selected students"
	case len(results) == 1:
		return fmt.Sprintf("Successfully assigned %d new course(s) to student", results[0].Affected)
	default:
		return fmt.Sprintf("Successfully assigned courses to %d out of %d students", assigned, len(results))
	}
}

func unassignMessage(unassigned int, results []StudentResult) string {
	switch {
	case unassigned == 0:
		return "None of the selected students were enrolled in the selected courses"
	case len(results) == 1:
		return fmt.Sprintf("Successfully unassigned %d course(s) from student", results[0].Affected)
	default:
		return fmt.Sprintf("Successfully unassigned courses from %d out of %d students", unassigned, len(results))
	}
}
