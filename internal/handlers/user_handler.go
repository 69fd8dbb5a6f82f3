package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Vulture98/student-courses-backend/internal/apperrors"
	"github.com/Vulture98/student-courses-backend/internal/auth"
	"github.com/Vulture98/student-courses-backend/internal/models"
	"github.com/Vulture98/student-courses-backend/internal/store"
	"github.com/Vulture98/student-courses-backend/internal/utils"
)

type UserHandler struct {
	users   *store.UserStore
	courses *store.CourseStore
	mailer  *utils.Mailer
	log     *zap.Logger
}

func NewUserHandler(users *store.UserStore, courses *store.CourseStore, mailer *utils.Mailer, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, courses: courses, mailer: mailer, log: log}
}

// Signup handles user registration
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Subject  string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.BadRequest("invalid request payload"))
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		utils.Error(w, apperrors.Validation("name, email, and password are required"))
		return
	}

	if _, err := h.users.FindByEmail(r.Context(), req.Email); err == nil {
		utils.Error(w, apperrors.Conflict("email already exists"))
		return
	} else if apperrors.Status(err) != http.StatusNotFound {
		utils.Error(w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(w, err)
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     models.RoleStudent,
		Subject:  req.Subject,
	}
	if err := h.users.Insert(r.Context(), user); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, user, "Signup successful")
}

// Signin handles user login
func (h *UserHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		utils.Error(w, apperrors.BadRequest("invalid request payload"))
		return
	}

	user, err := h.users.FindByEmail(r.Context(), credentials.Email)
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password)); err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if user.IsSuspended {
		http.Error(w, "Account suspended", http.StatusForbidden)
		return
	}

	token, _ := auth.GenerateJWT(user.ID.Hex(), string(user.Role))
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   false,
		Path:     "/api",
	})

	utils.JSON(w, http.StatusOK, user, "Signin successful")
}

// GetStudents lists all students with their enrolled courses populated.
func (h *UserHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.users.StudentsWithCourses(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, students, "Students retrieved successfully")
}

// GetStudent returns a single student with populated courses.
func (h *UserHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathObjectID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	student, err := h.users.StudentWithCourses(r.Context(), studentID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, student, "Student retrieved successfully")
}

// DeleteStudent removes a student account.
func (h *UserHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathObjectID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	student, err := h.users.DeleteStudent(r.Context(), studentID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"name":  student.Name,
		"email": student.Email,
	}, "Student deleted successfully")
}

// ToggleSuspension flips a student's suspension flag.
func (h *UserHandler) ToggleSuspension(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathObjectID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	user, err := h.users.ToggleSuspension(r.Context(), studentID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	message := "User unsuspended successfully"
	if user.IsSuspended {
		message = "User suspended successfully"
	}
	utils.JSON(w, http.StatusOK, user, message)
}

// MyCourses returns the authenticated student's enrollments with course
// documents populated.
func (h *UserHandler) MyCourses(w http.ResponseWriter, r *http.Request) {
	studentID, err := requestUserID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	student, err := h.users.StudentWithCourses(r.Context(), studentID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, student, "My courses retrieved successfully")
}

// ToggleCompletion handles PUT /api/student/courses/{id}/completion.
// Completing a course sends a congratulation email best-effort.
func (h *UserHandler) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	studentID, err := requestUserID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	courseID, err := pathObjectID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	user, err := h.users.FindByID(r.Context(), studentID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	var current *models.Enrollment
	for i := range user.EnrolledCourses {
		if user.EnrolledCourses[i].Course == courseID {
			current = &user.EnrolledCourses[i]
			break
		}
	}
	if current == nil {
		utils.Error(w, apperrors.NotFound("course not found in enrolled courses"))
		return
	}

	completed := !current.Completed
	if err := h.users.SetCompletion(r.Context(), studentID, courseID, completed); err != nil {
		utils.Error(w, err)
		return
	}

	if completed {
		course, err := h.courses.FindByID(r.Context(), courseID)
		if err == nil {
			go func(email, name, title string) {
				if err := h.mailer.SendCompletionEmail(email, name, title); err != nil {
					h.log.Warn("send completion email", zap.Error(err), zap.String("email", email))
				}
			}(user.Email, user.Name, course.Title)
		}
	}

	student, err := h.users.StudentWithCourses(r.Context(), studentID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, student, "Course completion status updated")
}

// GetStats returns the admin dashboard counters.
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalStudents, err := h.users.CountStudents(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}
	suspendedStudents, err := h.users.CountSuspendedStudents(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}
	totalCourses, err := h.courses.Count(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}
	suspendedCourses, err := h.courses.CountSuspended(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}
	mostViewed, err := h.courses.MostViewed(ctx, 5)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"total_users":        totalStudents,
		"total_courses":      totalCourses,
		"suspended_users":    suspendedStudents,
		"suspended_courses":  suspendedCourses,
		"most_viewed_courses": mostViewed,
	}, "Stats retrieved successfully")
}

func pathObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation("invalid " + name)
	}
	return id, nil
}
