package utils

import (
	"encoding/json"
	"net/http"

	"github.com/Vulture98/student-courses-backend/internal/apperrors"
)

// APIResponse is the envelope every JSON endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: true,
		Status:  status,
		Data:    data,
		Message: message,
	})
}

// Error writes a failure envelope, resolving the status from the error
// taxonomy.
func Error(w http.ResponseWriter, err error) {
	status := apperrors.Status(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// never leak internals to clients
		message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Status:  status,
		Error:   message,
	})
}
