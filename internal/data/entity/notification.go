package entity

import "github.com/google/uuid"

type NotificationType string

const (
	NotifProjectCreated   NotificationType = "project_created"
	NotifProjectUpdated   NotificationType = "project_updated"
	NotifPaymentCompleted NotificationType = "payment_completed"
	NotifNewMessage       NotificationType = "new_message"
)

type Notification struct {
	BaseSimple
	UserID    uuid.UUID        `db:"user_id"`
	ProjectID *uuid.UUID       `db:"project_id"`
	Type      NotificationType `db:"type"`
	Title     string           `db:"title"`
	Message   string           `db:"message"`
	IsRead    bool             `db:"is_read"`
}
