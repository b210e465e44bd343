package repository

import (
	"context"
	"fmt"

	"freelance-booking/internal/data/entity"
	"freelance-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProjectUpdateRepository interface {
	Create(ctx context.Context, update *entity.ProjectUpdate) error
	FindByProjectID(ctx context.Context, projectID uuid.UUID, visibleOnly bool) ([]*entity.ProjectUpdate, error)
}

type projectUpdateRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewProjectUpdateRepository(db database.Querier, log *zap.Logger) ProjectUpdateRepository {
	return &projectUpdateRepository{
		db:  db,
		log: log.With(zap.String("repository", "project_update")),
	}
}

func (r *projectUpdateRepository) Create(ctx context.Context, update *entity.ProjectUpdate) error {
	query := `
		INSERT INTO project_updates (id, project_id, title, description, status,
		                             progress, visible_to_client, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		update.ID,
		update.ProjectID,
		update.Title,
		update.Description,
		update.Status,
		update.Progress,
		update.VisibleToClient,
		update.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create project update",
			zap.Error(err),
			zap.String("project_id", update.ProjectID.String()),
		)
		return fmt.Errorf("create project update for %s: %w", update.ProjectID.String(), err)
	}

	return nil
}

// FindByProjectID returns updates newest first. Clients only see updates
// flagged visible.
func (r *projectUpdateRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID, visibleOnly bool) ([]*entity.ProjectUpdate, error) {
	query := `
		SELECT id, project_id, title, description, status, progress, visible_to_client, created_at
		FROM project_updates
		WHERE project_id = $1 AND (NOT $2 OR visible_to_client)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, projectID, visibleOnly)
	if err != nil {
		r.log.Error("Failed to find project updates",
			zap.Error(err),
			zap.String("project_id", projectID.String()),
		)
		return nil, fmt.Errorf("find updates for project %s: %w", projectID.String(), err)
	}
	defer rows.Close()

	var updates []*entity.ProjectUpdate
	for rows.Next() {
		var u entity.ProjectUpdate
		err := rows.Scan(
			&u.ID,
			&u.ProjectID,
			&u.Title,
			&u.Description,
			&u.Status,
			&u.Progress,
			&u.VisibleToClient,
			&u.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan project update row", zap.Error(err))
			return nil, fmt.Errorf("scan project update row: %w", err)
		}
		updates = append(updates, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project update rows: %w", err)
	}

	return updates, nil
}
