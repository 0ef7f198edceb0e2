package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type projectDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	SystemPrompt string    `bson:"system_prompt"`
	OwnerID      string    `bson:"owner_id"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d projectDocument) toDomain() (domain.Project, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Project{}, fmt.Errorf("invalid project id %q: %w", d.ID, err)
	}
	ownerID, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return domain.Project{}, fmt.Errorf("invalid owner id %q: %w", d.OwnerID, err)
	}
	return domain.Project{
		ID:           id,
		Name:         d.Name,
		SystemPrompt: d.SystemPrompt,
		OwnerID:      ownerID,
		CreatedAt:    d.CreatedAt.UTC(),
	}, nil
}

// ProjectRepository handles project documents
type ProjectRepository struct {
	coll *mongo.Collection
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(c *Client) *ProjectRepository {
	return &ProjectRepository{coll: c.db.Collection(projectsCollection)}
}

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	_, err := r.coll.InsertOne(ctx, projectDocument{
		ID:           project.ID.String(),
		Name:         project.Name,
		SystemPrompt: project.SystemPrompt,
		OwnerID:      project.OwnerID.String(),
		CreatedAt:    project.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetForOwner retrieves a project only if it belongs to ownerID
func (r *ProjectRepository) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Project, error) {
	var doc projectDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String(), "owner_id": ownerID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	project, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByOwner retrieves all projects of a user, newest first
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := []domain.Project{}
	for cursor.Next(ctx) {
		var doc projectDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode project: %w", err)
		}
		project, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}
