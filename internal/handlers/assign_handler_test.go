package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Vulture98/student-courses-backend/internal/apperrors"
	"github.com/Vulture98/student-courses-backend/internal/service"
)

type fakeAssigner struct {
	result     *service.BulkResult
	err        error
	studentIDs []primitive.ObjectID
	courseIDs  []primitive.ObjectID
}

func (f *fakeAssigner) AssignCourses(_ context.Context, studentIDs, courseIDs []primitive.ObjectID) (*service.BulkResult, error) {
	f.studentIDs = studentIDs
	f.courseIDs = courseIDs
	return f.result, f.err
}

func (f *fakeAssigner) UnassignCourses(_ context.Context, studentIDs, courseIDs []primitive.ObjectID) (*service.BulkResult, error) {
	f.studentIDs = studentIDs
	f.courseIDs = courseIDs
	return f.result, f.err
}

func TestIDList_AcceptsStringOrArray(t *testing.T) {
	var single IDList
	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &single))
	assert.Equal(t, IDList{"abc"}, single)

	var many IDList
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &many))
	assert.Equal(t, IDList{"a", "b"}, many)

	var bad IDList
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestAssignCourses_ParsesSingleStudentID(t *testing.T) {
	studentID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	assigner := &fakeAssigner{result: &service.BulkResult{Message: "ok"}}
	handler := NewAssignHandler(assigner)

	body := `{"student_ids": "` + studentID.Hex() + `", "course_ids": ["` + courseID.Hex() + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/assign-courses", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.AssignCourses(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []primitive.ObjectID{studentID}, assigner.studentIDs)
	assert.Equal(t, []primitive.ObjectID{courseID}, assigner.courseIDs)
}

func TestAssignCourses_InvalidHexIDIsValidationError(t *testing.T) {
	handler := NewAssignHandler(&fakeAssigner{})

	body := `{"student_ids": ["not-an-id"], "course_ids": ["also-bad"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/assign-courses", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.AssignCourses(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAssignCourses_MissingFieldsIsValidationError(t *testing.T) {
	handler := NewAssignHandler(&fakeAssigner{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/assign-courses", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.AssignCourses(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAssignCourses_MalformedBodyIsBadRequest(t *testing.T) {
	handler := NewAssignHandler(&fakeAssigner{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/assign-courses", strings.NewReader(`{`))
	rec := httptest.NewRecorder()

	handler.AssignCourses(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignCourses_ServiceErrorMapsToStatus(t *testing.T) {
	assigner := &fakeAssigner{err: apperrors.NotFound("one or more courses not found")}
	handler := NewAssignHandler(assigner)

	studentID := primitive.NewObjectID().Hex()
	courseID := primitive.NewObjectID().Hex()
	body := `{"student_ids": ["` + studentID + `"], "course_ids": ["` + courseID + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/assign-courses", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.AssignCourses(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "one or more courses not found", envelope.Error)
}

func TestUnassignCourses_ReturnsResults(t *testing.T) {
	studentID := primitive.NewObjectID()
	assigner := &fakeAssigner{result: &service.BulkResult{
		Message: "Successfully unassigned 1 course(s) from student",
		Results: []service.StudentResult{{StudentID: studentID, Name: "Sam", Affected: 1}},
	}}
	handler := NewAssignHandler(assigner)

	courseID := primitive.NewObjectID().Hex()
	body := `{"student_ids": ["` + studentID.Hex() + `"], "course_ids": ["` + courseID + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/unassign-courses", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.UnassignCourses(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Data    *service.BulkResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.Data)
	require.Len(t, envelope.Data.Results, 1)
	assert.Equal(t, 1, envelope.Data.Results[0].Affected)
}
