package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, Status(NotFound("missing")))
	assert.Equal(t, http.StatusUnprocessableEntity, Status(Validation("bad")))
	assert.Equal(t, http.StatusBadRequest, Status(BadRequest("bad")))
	assert.Equal(t, http.StatusConflict, Status(Conflict("dup")))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
}

func TestStatus_WrappedError(t *testing.T) {
	err := fmt.Errorf("loading student: %w", NotFound("student not found"))
	assert.Equal(t, http.StatusNotFound, Status(err))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "student not found", NotFound("student not found").Error())
}
