package repository

import (
	"context"
	"errors"
	"fmt"

	"freelance-booking/internal/data/entity"
	"freelance-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	CreateForBookingIfAbsent(ctx context.Context, project *entity.Project) (*entity.Project, bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Project, error)
	FindByClientEmail(ctx context.Context, email string) ([]*entity.Project, error)
	FindAll(ctx context.Context, status entity.ProjectStatus, limit, offset int) ([]*entity.Project, error)
	CountAll(ctx context.Context, status entity.ProjectStatus) (int64, error)
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[entity.ProjectStatus]int64, error)
}

type projectRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewProjectRepository(db database.Querier, log *zap.Logger) ProjectRepository {
	return &projectRepository{
		db:  db,
		log: log.With(zap.String("repository", "project")),
	}
}

const projectColumns = `id, booking_id, name, description, status, priority, progress, budget,
	assigned_to, client_email, start_date, due_date, created_at, updated_at`

func scanProject(row scanner) (*entity.Project, error) {
	var project entity.Project
	err := row.Scan(
		&project.ID,
		&project.BookingID,
		&project.Name,
		&project.Description,
		&project.Status,
		&project.Priority,
		&project.Progress,
		&project.Budget,
		&project.AssignedTo,
		&project.ClientEmail,
		&project.StartDate,
		&project.DueDate,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func projectArgs(p *entity.Project) []any {
	return []any{
		p.ID,
		p.BookingID,
		p.Name,
		p.Description,
		p.Status,
		p.Priority,
		p.Progress,
		p.Budget,
		p.AssignedTo,
		p.ClientEmail,
		p.StartDate,
		p.DueDate,
		p.CreatedAt,
		p.UpdatedAt,
	}
}

func (r *projectRepository) Create(ctx context.Context, project *entity.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query, projectArgs(project)...)
	if isUniqueViolation(err) {
		return fmt.Errorf("create project %s: %w", project.ID.String(), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create project",
			zap.Error(err),
			zap.String("project_id", project.ID.String()),
		)
		return fmt.Errorf("create project %s: %w", project.ID.String(), err)
	}

	return nil
}

// CreateForBookingIfAbsent inserts project unless its booking already owns
// one, in which case the existing project is returned with created=false.
func (r *projectRepository) CreateForBookingIfAbsent(ctx context.Context, project *entity.Project) (*entity.Project, bool, error) {
	if project.BookingID == nil {
		return nil, false, fmt.Errorf("create project %s: booking id required", project.ID.String())
	}

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (booking_id) WHERE booking_id IS NOT NULL DO NOTHING
		RETURNING id
	`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query, projectArgs(project)...).Scan(&id)
	if err == nil {
		return project, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.log.Error("Failed to create project for booking",
			zap.Error(err),
			zap.String("booking_id", project.BookingID.String()),
		)
		return nil, false, fmt.Errorf("create project for booking %s: %w", project.BookingID.String(), err)
	}

	existing, err := r.FindByBookingID(ctx, *project.BookingID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("project for booking %s vanished after conflict", project.BookingID.String())
	}
	return existing, false, nil
}

func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	return r.findOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *projectRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	return r.findOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1 FOR UPDATE`, id)
}

func (r *projectRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Project, error) {
	project, err := scanProject(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find project by ID",
			zap.Error(err),
			zap.String("project_id", id.String()),
		)
		return nil, fmt.Errorf("find project by ID %s: %w", id.String(), err)
	}
	return project, nil
}

func (r *projectRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Project, error) {
	project, err := scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE booking_id = $1`, bookingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find project by booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find project by booking %s: %w", bookingID.String(), err)
	}
	return project, nil
}

func (r *projectRepository) FindByClientEmail(ctx context.Context, email string) ([]*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE client_email = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		r.log.Error("Failed to find projects by client",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find projects by client %s: %w", email, err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// FindAll lists projects newest first. An empty status matches every project.
func (r *projectRepository) FindAll(ctx context.Context, status entity.ProjectStatus, limit, offset int) ([]*entity.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		r.log.Error("Failed to get all projects",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("find all projects: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *projectRepository) collect(rows pgx.Rows) ([]*entity.Project, error) {
	var projects []*entity.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			r.log.Error("Failed to scan project row", zap.Error(err))
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate project rows: %w", err)
	}

	return projects, nil
}

func (r *projectRepository) CountAll(ctx context.Context, status entity.ProjectStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM projects WHERE ($1 = '' OR status = $1)`

	var count int64
	if err := r.db.QueryRow(ctx, query, string(status)).Scan(&count); err != nil {
		r.log.Error("Database error counting projects", zap.Error(err))
		return 0, fmt.Errorf("count all projects: %w", err)
	}

	return count, nil
}

func (r *projectRepository) Update(ctx context.Context, project *entity.Project) error {
	query := `
		UPDATE projects
		SET name = $2, description = $3, status = $4, priority = $5, progress = $6,
		    budget = $7, assigned_to = $8, start_date = $9, due_date = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.Status,
		project.Priority,
		project.Progress,
		project.Budget,
		project.AssignedTo,
		project.StartDate,
		project.DueDate,
		project.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update project",
			zap.Error(err),
			zap.String("project_id", project.ID.String()),
		)
		return fmt.Errorf("update project %s: %w", project.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s not found", project.ID.String())
	}

	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete project",
			zap.Error(err),
			zap.String("project_id", id.String()),
		)
		return fmt.Errorf("delete project %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s not found", id.String())
	}

	return nil
}

func (r *projectRepository) CountByStatus(ctx context.Context) (map[entity.ProjectStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		r.log.Error("Failed to count projects by status", zap.Error(err))
		return nil, fmt.Errorf("count projects by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.ProjectStatus]int64)
	for rows.Next() {
		var status entity.ProjectStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan project status count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project status counts: %w", err)
	}

	return counts, nil
}
