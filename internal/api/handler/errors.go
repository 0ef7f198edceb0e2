package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/Rrens/promptdesk/internal/api/middleware"
	"github.com/Rrens/promptdesk/internal/api/response"
	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/Rrens/promptdesk/internal/llm"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"
)

const (
	msgServerError   = "Server error"
	msgFailed        = "Failed"
	msgInvalidInput  = "Invalid input"
	msgInvalidBody   = "Invalid request body"
	msgProjectAbsent = "Project not found"
	msgUnreadable    = "Unable to read document"
	msgTooLarge      = "File too large"
)

var validate = newValidator()

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput runs struct validation and writes a 400 on failure
func validateInput(w http.ResponseWriter, input any) bool {
	err := validate.Struct(input)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		response.BadRequest(w, msgInvalidInput)
		return false
	}

	fields := make(map[string]string)
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			fields[field] = "field is required"
		case "email":
			fields[field] = "invalid email format"
		case "max":
			fields[field] = "must be at most " + e.Param() + " characters"
		default:
			fields[field] = "validation failed on " + e.Tag()
		}
	}
	response.ValidationFailed(w, msgInvalidInput, fields)
	return false
}

// writeError maps domain errors onto status codes; anything unexpected is
// logged and answered with fallback.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *domain.ValidationError
	var upstream *llm.UpstreamError

	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(w, msgInvalidInput, verr.Fields)
	case errors.Is(err, domain.ErrDuplicateEmail):
		response.BadRequest(w, "Email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.BadRequest(w, "Invalid credentials")
	case errors.Is(err, domain.ErrInvalidToken):
		response.Unauthorized(w, middleware.MsgUnauthenticated)
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, msgProjectAbsent)
	case errors.Is(err, domain.ErrPayloadTooLarge):
		response.Error(w, http.StatusRequestEntityTooLarge, msgTooLarge)
	case errors.Is(err, domain.ErrUnreadableDocument):
		response.Error(w, http.StatusUnprocessableEntity, msgUnreadable)
	case errors.As(err, &upstream):
		hlog.FromRequest(r).Warn().Err(err).Str("provider", upstream.Provider).Msg("Upstream rejected chat request")
		response.InternalError(w, upstream.Message)
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("Request failed")
		response.InternalError(w, fallback)
	}
}
