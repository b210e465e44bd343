package usecase

import (
	"context"
	"fmt"

	"freelance-booking/internal/data/repository"
	"freelance-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const notificationLimit = 50

// InboxService serves a client's own notifications and messages. Every call
// is scoped to userID; rows of other users read as not found.
type InboxService interface {
	ListNotifications(ctx context.Context, userID uuid.UUID) ([]response.NotificationResponse, error)
	MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) error
	ListMessages(ctx context.Context, userID uuid.UUID) ([]response.MessageResponse, error)
	MarkMessageRead(ctx context.Context, userID, id uuid.UUID) error
}

type inboxService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewInboxService(repo *repository.Repository, log *zap.Logger) InboxService {
	return &inboxService{
		repo: repo,
		log:  log.With(zap.String("service", "inbox")),
	}
}

func (s *inboxService) ListNotifications(ctx context.Context, userID uuid.UUID) ([]response.NotificationResponse, error) {
	notifications, err := s.repo.Notification.FindByUserID(ctx, userID, notificationLimit)
	if err != nil {
		s.log.Error("Failed to list notifications", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list notifications")
	}
	return response.NotificationsToResponse(notifications), nil
}

func (s *inboxService) MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.repo.Notification.MarkRead(ctx, id, userID)
	if err != nil {
		s.log.Error("Failed to mark notification read", zap.Error(err), zap.String("notification_id", id.String()))
		return fmt.Errorf("failed to update notification")
	}
	if !ok {
		return notFound("notification")
	}
	return nil
}

func (s *inboxService) ListMessages(ctx context.Context, userID uuid.UUID) ([]response.MessageResponse, error) {
	messages, err := s.repo.Message.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list messages", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list messages")
	}
	return response.MessagesToResponse(messages), nil
}

func (s *inboxService) MarkMessageRead(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.repo.Message.MarkRead(ctx, id, userID)
	if err != nil {
		s.log.Error("Failed to mark message read", zap.Error(err), zap.String("message_id", id.String()))
		return fmt.Errorf("failed to update message")
	}
	if !ok {
		return notFound("message")
	}
	return nil
}
