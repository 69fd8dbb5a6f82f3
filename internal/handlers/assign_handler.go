package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Vulture98/student-courses-backend/internal/apperrors"
	"github.com/Vulture98/student-courses-backend/internal/service"
	"github.com/Vulture98/student-courses-backend/internal/utils"
)

// Assigner is the orchestrator surface the assign endpoints need.
type Assigner interface {
	AssignCourses(ctx context.Context, studentIDs, courseIDs []primitive.ObjectID) (*service.BulkResult, error)
	UnassignCourses(ctx context.Context, studentIDs, courseIDs []primitive.ObjectID) (*service.BulkResult, error)
}

type AssignHandler struct {
	service  Assigner
	validate *validator.Validate
}

func NewAssignHandler(svc Assigner) *AssignHandler {
	return &AssignHandler{
		service:  svc,
		validate: validator.New(),
	}
}

// IDList accepts either a single ID string or an array of IDs, since
// clients send a bare string when one student is selected.
type IDList []string

func (l *IDList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = IDList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = IDList(many)
	return nil
}

type assignRequest struct {
	StudentIDs IDList   `json:"student_ids" validate:"required,min=1"`
	CourseIDs  []string `json:"course_ids" validate:"required,min=1"`
}

// AssignCourses handles POST /api/admin/assign-courses
func (h *AssignHandler) AssignCourses(w http.ResponseWriter, r *http.Request) {
	studentIDs, courseIDs, err := h.parseRequest(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	result, err := h.service.AssignCourses(r.Context(), studentIDs, courseIDs)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, result, result.Message)
}

// UnassignCourses handles POST /api/admin/unassign-courses
func (h *AssignHandler) UnassignCourses(w http.ResponseWriter, r *http.Request) {
	studentIDs, courseIDs, err := h.parseRequest(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	result, err := h.service.UnassignCourses(r.Context(), studentIDs, courseIDs)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, result, result.Message)
}

func (h *AssignHandler) parseRequest(r *http.Request) ([]primitive.ObjectID, []primitive.ObjectID, error) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, nil, apperrors.BadRequest("invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, nil, apperrors.Validation("student_ids and course_ids must be non-empty arrays")
	}

	studentIDs, err := parseObjectIDs(req.StudentIDs)
	if err != nil {
		return nil, nil, apperrors.Validation("invalid student ID")
	}
	courseIDs, err := parseObjectIDs(req.CourseIDs)
	if err != nil {
		return nil, nil, apperrors.Validation("invalid course ID")
	}
	return studentIDs, courseIDs, nil
}

func parseObjectIDs(hexIDs []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, hexID := range hexIDs {
		id, err := primitive.ObjectIDFromHex(hexID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
