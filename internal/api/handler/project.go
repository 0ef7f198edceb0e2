package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/promptdesk/internal/api/middleware"
	"github.com/Rrens/promptdesk/internal/api/response"
	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/Rrens/promptdesk/internal/service"
	"github.com/go-chi/chi/v5"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create handles project creation
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, middleware.MsgUnauthenticated)
		return
	}

	var input domain.ProjectCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, msgInvalidBody)
		return
	}

	if !validateInput(w, input) {
		return
	}

	project, err := h.projectService.Create(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, err, msgServerError)
		return
	}

	response.Created(w, project)
}

// List returns the caller's projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, middleware.MsgUnauthenticated)
		return
	}

	projects, err := h.projectService.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, msgServerError)
		return
	}

	response.OK(w, projects)
}

// Get returns one of the caller's projects
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, middleware.MsgUnauthenticated)
		return
	}

	project, err := h.projectService.Get(r.Context(), userID, chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, r, err, msgServerError)
		return
	}

	response.OK(w, project)
}
