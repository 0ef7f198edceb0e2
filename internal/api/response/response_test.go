package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "Project not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Project not found"}`, rec.Body.String())
}

func TestValidationFailed(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationFailed(rec, "Invalid input", map[string]string{"email": "required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid input","errors":{"email":"required"}}`, rec.Body.String())
}

func TestOK_RawBody(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, []string{})

	assert.JSONEq(t, `[]`, rec.Body.String())
}
