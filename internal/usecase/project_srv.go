package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freelance-booking/internal/data/entity"
	"freelance-booking/internal/data/repository"
	"freelance-booking/internal/dto/request"
	"freelance-booking/internal/dto/response"
	"freelance-booking/internal/events"
	"freelance-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProjectService interface {
	CreateProject(ctx context.Context, req *request.CreateProjectRequest) (*response.ProjectResponse, error)
	GetProject(ctx context.Context, id uuid.UUID) (*response.ProjectResponse, error)
	ListProjects(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProjectResponse], error)
	UpdateProject(ctx context.Context, id uuid.UUID, req *request.UpdateProjectRequest) (*response.ProjectResponse, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
	ListUpdates(ctx context.Context, id uuid.UUID) ([]response.ProjectUpdateResponse, error)
	SendMessage(ctx context.Context, projectID uuid.UUID, req *request.SendMessageRequest) (*response.MessageResponse, error)
}

type projectService struct {
	repo      *repository.Repository
	publisher *EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

func NewProjectService(repo *repository.Repository, publisher *EventPublisher, log *zap.Logger) ProjectService {
	return &projectService{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("service", "project")),
		now:       time.Now,
	}
}

func (s *projectService) CreateProject(ctx context.Context, req *request.CreateProjectRequest) (*response.ProjectResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	now := s.now()
	project := &entity.Project{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Status:      entity.ProjectStatus(req.Status),
		Priority:    entity.ProjectPriority(req.Priority),
		Progress:    req.Progress,
		Budget:      strings.TrimSpace(req.Budget),
		AssignedTo:  strings.TrimSpace(req.AssignedTo),
		ClientEmail: normalizeEmail(req.ClientEmail),
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	}
	if project.Status == "" {
		project.Status = entity.ProjectStatusPlanning
	}
	if project.Priority == "" {
		project.Priority = entity.PriorityMedium
	}
	if req.BookingID != nil && *req.BookingID != "" {
		bookingID, err := uuid.Parse(*req.BookingID)
		if err != nil {
			return nil, fieldError("bookingId", "Must be a valid UUID")
		}
		project.BookingID = &bookingID
	}

	if err := s.repo.Project.Create(ctx, project); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("project for booking %w", ErrConflict)
		}
		s.log.Error("Failed to create project", zap.Error(err))
		return nil, fmt.Errorf("failed to create project")
	}

	s.log.Info("Project created", zap.String("project_id", project.ID.String()))

	resp := response.ProjectToResponse(project)
	return &resp, nil
}

func (s *projectService) GetProject(ctx context.Context, id uuid.UUID) (*response.ProjectResponse, error) {
	project, err := s.repo.Project.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get project", zap.Error(err), zap.String("project_id", id.String()))
		return nil, fmt.Errorf("failed to get project")
	}
	if project == nil {
		return nil, notFound("project")
	}

	resp := response.ProjectToResponse(project)
	return &resp, nil
}

func (s *projectService) ListProjects(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProjectResponse], error) {
	filter := entity.ProjectStatus(status)
	if filter != "" && !filter.Valid() {
		return nil, fieldError("status", "Unknown project status")
	}

	projects, err := s.repo.Project.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list projects", zap.Error(err))
		return nil, fmt.Errorf("failed to list projects")
	}

	total, err := s.repo.Project.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count projects", zap.Error(err))
		return nil, fmt.Errorf("failed to list projects")
	}

	return response.NewPaginatedResponse(response.ProjectsToResponse(projects), req.Page, req.Limit(), total), nil
}

// UpdateProject applies a partial update. A status or progress change also
// writes a timeline entry and notifies the client.
func (s *projectService) UpdateProject(ctx context.Context, id uuid.UUID, req *request.UpdateProjectRequest) (*response.ProjectResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	var (
		updated *entity.Project
		changed bool
	)

	// 2. Project, timeline and notification commit together
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		// locked so concurrent edits check transitions against the latest status
		project, err := tx.Project.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if project == nil {
			return notFound("project")
		}

		prevStatus, prevProgress := project.Status, project.Progress

		if req.Status != nil {
			next := entity.ProjectStatus(*req.Status)
			if !project.Status.CanTransitionTo(next) {
				return fmt.Errorf("%w: project status %s -> %s", ErrInvalidTransition, project.Status, next)
			}
			project.Status = next
		}
		if req.Progress != nil {
			if *req.Progress < 0 || *req.Progress > 100 {
				return fieldError("progress", "Must be between 0 and 100")
			}
			project.Progress = *req.Progress
		}
		applyProjectChanges(project, req)

		now := s.now()
		project.UpdatedAt = now
		if err := tx.Project.Update(ctx, project); err != nil {
			return err
		}
		updated = project

		changed = project.Status != prevStatus || project.Progress != prevProgress
		if !changed {
			return nil
		}

		description := fmt.Sprintf("Status %s, progress %d%%.", project.Status, project.Progress)
		if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
			description = strings.TrimSpace(*req.Note)
		}
		if err := tx.ProjectUpdate.Create(ctx, &entity.ProjectUpdate{
			BaseSimple:      entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			ProjectID:       project.ID,
			Title:           projectUpdateTitle(prevStatus, project.Status),
			Description:     description,
			Status:          project.Status,
			Progress:        project.Progress,
			VisibleToClient: !req.Internal,
		}); err != nil {
			return err
		}

		if req.Internal {
			return nil
		}
		return s.notifyClient(ctx, tx, project, &entity.Notification{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			Type:       entity.NotifProjectUpdated,
			Title:      "Project updated",
			Message:    fmt.Sprintf("%s is now %s (%d%% complete).", project.Name, project.Status, project.Progress),
		})
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.log.Error("Failed to update project", zap.Error(err), zap.String("project_id", id.String()))
		return nil, fmt.Errorf("failed to update project")
	}

	s.log.Info("Project updated",
		zap.String("project_id", id.String()),
		zap.String("status", string(updated.Status)),
		zap.Int("progress", updated.Progress))

	// 3. Only client-visible changes leave the service
	if changed && !req.Internal {
		ev := events.LifecycleEvent{
			Type:      events.TypeProjectUpdated,
			ProjectID: updated.ID.String(),
			Email:     updated.ClientEmail,
			Status:    string(updated.Status),
		}
		if updated.BookingID != nil {
			ev.BookingID = updated.BookingID.String()
		}
		s.publisher.publish(ctx, ev)
	}

	resp := response.ProjectToResponse(updated)
	return &resp, nil
}

func projectUpdateTitle(prev, next entity.ProjectStatus) string {
	if prev != next {
		return fmt.Sprintf("Status changed to %s", next)
	}
	return "Progress updated"
}

func applyProjectChanges(p *entity.Project, req *request.UpdateProjectRequest) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.Priority != nil {
		p.Priority = entity.ProjectPriority(*req.Priority)
	}
	if req.Budget != nil {
		p.Budget = strings.TrimSpace(*req.Budget)
	}
	if req.AssignedTo != nil {
		p.AssignedTo = strings.TrimSpace(*req.AssignedTo)
	}
	if req.StartDate != nil {
		p.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		p.DueDate = req.DueDate
	}
}

func (s *projectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	project, err := s.repo.Project.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find project", zap.Error(err), zap.String("project_id", id.String()))
		return fmt.Errorf("failed to delete project")
	}
	if project == nil {
		return notFound("project")
	}

	if err := s.repo.Project.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete project", zap.Error(err), zap.String("project_id", id.String()))
		return fmt.Errorf("failed to delete project")
	}

	s.log.Info("Project deleted", zap.String("project_id", id.String()))
	return nil
}

// ListUpdates returns the full timeline, internal entries included.
func (s *projectService) ListUpdates(ctx context.Context, id uuid.UUID) ([]response.ProjectUpdateResponse, error) {
	project, err := s.repo.Project.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find project", zap.Error(err), zap.String("project_id", id.String()))
		return nil, fmt.Errorf("failed to list project updates")
	}
	if project == nil {
		return nil, notFound("project")
	}

	updates, err := s.repo.ProjectUpdate.FindByProjectID(ctx, id, false)
	if err != nil {
		s.log.Error("Failed to list project updates", zap.Error(err), zap.String("project_id", id.String()))
		return nil, fmt.Errorf("failed to list project updates")
	}

	return response.ProjectUpdatesToResponse(updates), nil
}

func (s *projectService) SendMessage(ctx context.Context, projectID uuid.UUID, req *request.SendMessageRequest) (*response.MessageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	var (
		msg     *entity.Message
		project *entity.Project
	)
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		var err error
		project, err = tx.Project.FindByID(ctx, projectID)
		if err != nil {
			return err
		}
		if project == nil {
			return notFound("project")
		}

		user, err := tx.User.FindByEmail(ctx, project.ClientEmail)
		if err != nil {
			return err
		}
		if user == nil {
			return notFound("client account")
		}

		now := s.now()
		subject := strings.TrimSpace(req.Subject)
		if subject == "" {
			subject = project.Name
		}
		msg = &entity.Message{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			ProjectID:  &project.ID,
			UserID:     user.ID,
			Sender:     entity.SenderAdmin,
			Subject:    subject,
			Body:       strings.TrimSpace(req.Body),
		}
		if err := tx.Message.Create(ctx, msg); err != nil {
			return err
		}

		return tx.Notification.Create(ctx, &entity.Notification{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			UserID:     user.ID,
			ProjectID:  &project.ID,
			Type:       entity.NotifNewMessage,
			Title:      "New message",
			Message:    subject,
		})
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.log.Error("Failed to send message", zap.Error(err), zap.String("project_id", projectID.String()))
		return nil, fmt.Errorf("failed to send message")
	}

	s.log.Info("Message sent",
		zap.String("project_id", projectID.String()),
		zap.String("message_id", msg.ID.String()))

	s.publisher.publish(ctx, events.LifecycleEvent{
		Type:      events.TypeMessageSent,
		ProjectID: project.ID.String(),
		Email:     project.ClientEmail,
	})

	resp := response.MessageToResponse(msg)
	return &resp, nil
}

// notifyClient addresses n to the account behind the project's client
// email. Projects whose client never got an account are skipped.
func (s *projectService) notifyClient(ctx context.Context, tx *repository.Repository, project *entity.Project, n *entity.Notification) error {
	user, err := tx.User.FindByEmail(ctx, project.ClientEmail)
	if err != nil {
		return err
	}
	if user == nil {
		s.log.Debug("No client account for project", zap.String("project_id", project.ID.String()))
		return nil
	}

	n.UserID = user.ID
	n.ProjectID = &project.ID
	return tx.Notification.Create(ctx, n)
}
