package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/google/uuid"
)

// ProjectService handles project operations. Every read is owner scoped.
type ProjectService struct {
	projectRepo domain.ProjectRepository
	now         func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo domain.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		now:         time.Now,
	}
}

// Create stores a new project for ownerID
func (s *ProjectService) Create(ctx context.Context, ownerID uuid.UUID, input domain.ProjectCreate) (*domain.Project, error) {
	name := strings.TrimSpace(input.Name)
	prompt := strings.TrimSpace(input.SystemPrompt)

	fields := map[string]string{}
	if name == "" {
		fields["name"] = "required"
	}
	if prompt == "" {
		fields["systemPrompt"] = "required"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	project := &domain.Project{
		ID:           uuid.New(),
		Name:         name,
		SystemPrompt: prompt,
		OwnerID:      ownerID,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// List returns the owner's projects, newest first
func (s *ProjectService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return projects, nil
}

// Get resolves a project id for ownerID. Malformed, unknown and foreign
// ids all yield domain.ErrNotFound.
func (s *ProjectService) Get(ctx context.Context, ownerID uuid.UUID, rawID string) (*domain.Project, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, domain.ErrNotFound
	}

	project, err := s.projectRepo.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	return project, nil
}
