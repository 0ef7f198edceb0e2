package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/promptdesk/internal/api/middleware"
	"github.com/Rrens/promptdesk/internal/api/response"
	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/Rrens/promptdesk/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, msgInvalidBody)
		return
	}
	input.Email = domain.NormalizeEmail(input.Email)

	if !validateInput(w, input) {
		return
	}

	result, err := h.authService.Register(r.Context(), input)
	if err != nil {
		writeError(w, r, err, msgServerError)
		return
	}

	response.Created(w, result)
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, msgInvalidBody)
		return
	}
	input.Email = domain.NormalizeEmail(input.Email)

	if !validateInput(w, input) {
		return
	}

	result, err := h.authService.Login(r.Context(), input)
	if err != nil {
		writeError(w, r, err, msgServerError)
		return
	}

	response.OK(w, result)
}

// Me returns the current authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, middleware.MsgUnauthenticated)
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, msgServerError)
		return
	}

	response.OK(w, user.Public())
}
