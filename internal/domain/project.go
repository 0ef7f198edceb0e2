package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Project is a named system prompt owned by a single user
type Project struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SystemPrompt string    `json:"systemPrompt"`
	OwnerID      uuid.UUID `json:"ownerId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ProjectCreate represents project creation data
type ProjectCreate struct {
	Name         string `json:"name" validate:"required,max=255"`
	SystemPrompt string `json:"systemPrompt" validate:"required"`
}

// ProjectRepository defines the interface for project storage.
// Every read is scoped to the owner.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Project, error)
}
