package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Vulture98/student-courses-backend/internal/apperrors"
	"github.com/Vulture98/student-courses-backend/internal/models"
	"github.com/Vulture98/student-courses-backend/internal/store"
	"github.com/Vulture98/student-courses-backend/internal/utils"
)

type CourseHandler struct {
	courses *store.CourseStore
}

func NewCourseHandler(courses *store.CourseStore) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// GetCourses lists the catalog. Suspended courses are included only when
// ?include_suspended=true (admin listing).
func (h *CourseHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	includeSuspended := r.URL.Query().Get("include_suspended") == "true"

	courses, err := h.courses.List(r.Context(), includeSuspended)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, courses, "Courses retrieved successfully")
}

// GetCourseByID returns a single course.
func (h *CourseHandler) GetCourseByID(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathObjectID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	course, err := h.courses.FindByID(r.Context(), courseID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, course, "Course retrieved successfully")
}

// CreateCourse handles creating a new course
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var course models.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		utils.Error(w, apperrors.BadRequest("invalid request payload"))
		return
	}
	if course.Title == "" || course.Subject == "" {
		utils.Error(w, apperrors.Validation("course title and subject are required"))
		return
	}

	if err := h.courses.Insert(r.Context(), &course); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, course, "Course created successfully")
}

// UpdateCourse updates course details
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathObjectID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	var course models.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		utils.Error(w, apperrors.BadRequest("invalid request payload"))
		return
	}

	if err := h.courses.Update(r.Context(), courseID, &course); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, nil, "Course updated successfully")
}

// DeleteCourse deletes a course
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathObjectID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.courses.Delete(r.Context(), courseID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, nil, "Course deleted successfully")
}

// ToggleSuspension flips a course's suspension flag. Suspension only hides
// the course from the student catalog; existing enrollments are untouched.
func (h *CourseHandler) ToggleSuspension(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathObjectID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	course, err := h.courses.ToggleSuspension(r.Context(), courseID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	message := "Course unsuspended successfully"
	if course.IsSuspended {
		message = "Course suspended successfully"
	}
	utils.JSON(w, http.StatusOK, course, message)
}
