package response

import (
	"time"

	"freelance-booking/internal/data/entity"

	"github.com/google/uuid"
)

type ProjectResponse struct {
	ID          string                 `json:"id"`
	BookingID   *string                `json:"bookingId,omitempty"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Status      entity.ProjectStatus   `json:"status"`
	Priority    entity.ProjectPriority `json:"priority"`
	Progress    int                    `json:"progress"`
	Budget      string                 `json:"budget"`
	AssignedTo  string                 `json:"assignedTo"`
	ClientEmail string                 `json:"clientEmail"`
	StartDate   *time.Time             `json:"startDate,omitempty"`
	DueDate     *time.Time             `json:"dueDate,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

type ProjectUpdateResponse struct {
	ID          string               `json:"id"`
	ProjectID   string               `json:"projectId"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      entity.ProjectStatus `json:"status"`
	Progress    int                  `json:"progress"`
	CreatedAt   time.Time            `json:"createdAt"`
}

type MessageResponse struct {
	ID        string               `json:"id"`
	ProjectID *string              `json:"projectId,omitempty"`
	Sender    entity.MessageSender `json:"sender"`
	Subject   string               `json:"subject"`
	Body      string               `json:"body"`
	IsRead    bool                 `json:"isRead"`
	CreatedAt time.Time            `json:"createdAt"`
}

type NotificationResponse struct {
	ID        string                  `json:"id"`
	ProjectID *string                 `json:"projectId,omitempty"`
	Type      entity.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"isRead"`
	CreatedAt time.Time               `json:"createdAt"`
}

func ProjectToResponse(p *entity.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID.String(),
		BookingID:   uuidString(p.BookingID),
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Priority:    p.Priority,
		Progress:    p.Progress,
		Budget:      p.Budget,
		AssignedTo:  p.AssignedTo,
		ClientEmail: p.ClientEmail,
		StartDate:   p.StartDate,
		DueDate:     p.DueDate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ProjectsToResponse(projects []*entity.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectToResponse(p))
	}
	return out
}

func ProjectUpdatesToResponse(updates []*entity.ProjectUpdate) []ProjectUpdateResponse {
	out := make([]ProjectUpdateResponse, 0, len(updates))
	for _, u := range updates {
		out = append(out, ProjectUpdateResponse{
			ID:          u.ID.String(),
			ProjectID:   u.ProjectID.String(),
			Title:       u.Title,
			Description: u.Description,
			Status:      u.Status,
			Progress:    u.Progress,
			CreatedAt:   u.CreatedAt,
		})
	}
	return out
}

func MessageToResponse(m *entity.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID.String(),
		ProjectID: uuidString(m.ProjectID),
		Sender:    m.Sender,
		Subject:   m.Subject,
		Body:      m.Body,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func MessagesToResponse(messages []*entity.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageToResponse(m))
	}
	return out
}

func NotificationsToResponse(notifications []*entity.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, NotificationResponse{
			ID:        n.ID.String(),
			ProjectID: uuidString(n.ProjectID),
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
