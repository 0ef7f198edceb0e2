package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProjectRepository handles project data access
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (id, name, system_prompt, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		project.ID,
		project.Name,
		project.SystemPrompt,
		project.OwnerID,
		project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetForOwner retrieves a project only if it belongs to ownerID
func (r *ProjectRepository) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Project, error) {
	query := `
		SELECT id, name, system_prompt, owner_id, created_at
		FROM projects
		WHERE id = $1 AND owner_id = $2
	`

	var project domain.Project
	err := r.db.Pool.QueryRow(ctx, query, id, ownerID).Scan(
		&project.ID,
		&project.Name,
		&project.SystemPrompt,
		&project.OwnerID,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// ListByOwner retrieves all projects of a user, newest first
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Project, error) {
	query := `
		SELECT id, name, system_prompt, owner_id, created_at
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.SystemPrompt,
			&project.OwnerID,
			&project.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}
