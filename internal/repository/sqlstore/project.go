package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/google/uuid"
)

// ProjectRepository handles project rows
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `INSERT INTO projects (id, name, system_prompt, owner_id, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.conn.ExecContext(ctx, query,
		project.ID.String(),
		project.Name,
		project.SystemPrompt,
		project.OwnerID.String(),
		project.CreatedAt.UnixNano(),
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
		WHERE id = ? AND owner_id = ?
	`

	project, err := scanProject(r.db.conn.QueryRowContext(ctx, query, id.String(), ownerID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.conn.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (domain.Project, error) {
	var (
		project        domain.Project
		id, ownerID    string
		createdAtNanos int64
	)
	if err := row.Scan(&id, &project.Name, &project.SystemPrompt, &ownerID, &createdAtNanos); err != nil {
		return domain.Project{}, err
	}

	var err error
	if project.ID, err = uuid.Parse(id); err != nil {
		return domain.Project{}, fmt.Errorf("invalid project id %q: %w", id, err)
	}
	if project.OwnerID, err = uuid.Parse(ownerID); err != nil {
		return domain.Project{}, fmt.Errorf("invalid owner id %q: %w", ownerID, err)
	}
	project.CreatedAt = time.Unix(0, createdAtNanos).UTC()

	return project, nil
}
