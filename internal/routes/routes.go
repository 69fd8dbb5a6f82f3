package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Vulture98/student-courses-backend/internal/handlers"
	"github.com/Vulture98/student-courses-backend/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Users         *handlers.UserHandler
	Courses       *handlers.CourseHandler
	Assign        *handlers.AssignHandler
	Notifications *handlers.NotificationHandler
	WS            http.HandlerFunc
}

func SetupRouter(h Handlers) *mux.Router {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Server is healthy"))
	}).Methods("GET")

	// Live channel; connections authenticate over the socket itself
	router.HandleFunc("/ws", h.WS)

	// Auth
	router.HandleFunc("/api/auth/signup", h.Users.Signup).Methods("POST")
	router.HandleFunc("/api/auth/signin", h.Users.Signin).Methods("POST")

	// Public catalog
	router.HandleFunc("/api/courses", h.Courses.GetCourses).Methods("GET")
	router.HandleFunc("/api/courses/{id}", h.Courses.GetCourseByID).Methods("GET")

	// Notifications (any authenticated user)
	notifications := router.PathPrefix("/api/notifications").Subrouter()
	notifications.Use(middleware.AuthMiddleware)
	notifications.HandleFunc("", h.Notifications.GetNotifications).Methods("GET")
	notifications.HandleFunc("/read", h.Notifications.MarkAllRead).Methods("PUT")
	notifications.HandleFunc("/{id}/read", h.Notifications.MarkRead).Methods("PUT")

	// Student surface
	student := router.PathPrefix("/api/student").Subrouter()
	student.Use(middleware.StudentAuthMiddleware)
	student.HandleFunc("/my-courses", h.Users.MyCourses).Methods("GET")
	student.HandleFunc("/courses/{id}/completion", h.Users.ToggleCompletion).Methods("PUT")

	// Admin surface
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(middleware.AdminAuthMiddleware)
	admin.HandleFunc("/stats", h.Users.GetStats).Methods("GET")
	admin.HandleFunc("/students", h.Users.GetStudents).Methods("GET")
	admin.HandleFunc("/students/{id}", h.Users.GetStudent).Methods("GET")
	admin.HandleFunc("/students/{id}", h.Users.DeleteStudent).Methods("DELETE")
	admin.HandleFunc("/students/{id}/suspension", h.Users.ToggleSuspension).Methods("PUT")
	admin.HandleFunc("/assign-courses", h.Assign.AssignCourses).Methods("POST")
	admin.HandleFunc("/unassign-courses", h.Assign.UnassignCourses).Methods("POST")
	admin.HandleFunc("/courses", h.Courses.CreateCourse).Methods("POST")
	admin.HandleFunc("/courses/{id}", h.Courses.UpdateCourse).Methods("PUT")
	admin.HandleFunc("/courses/{id}", h.Courses.DeleteCourse).Methods("DELETE")
	admin.HandleFunc("/courses/{id}/suspension", h.Courses.ToggleSuspension).Methods("PUT")

	return router
}
