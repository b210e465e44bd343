package repository

import (
	"context"
	"fmt"

	"freelance-booking/internal/data/entity"
	"freelance-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *entity.Message) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Message, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type messageRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewMessageRepository(db database.Querier, log *zap.Logger) MessageRepository {
	return &messageRepository{
		db:  db,
		log: log.With(zap.String("repository", "message")),
	}
}

func (r *messageRepository) Create(ctx context.Context, msg *entity.Message) error {
	query := `
		INSERT INTO messages (id, project_id, user_id, sender, subject, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		msg.ID,
		msg.ProjectID,
		msg.UserID,
		msg.Sender,
		msg.Subject,
		msg.Body,
		msg.IsRead,
		msg.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create message",
			zap.Error(err),
			zap.String("user_id", msg.UserID.String()),
		)
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

func (r *messageRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Message, error) {
	query := `
		SELECT id, project_id, user_id, sender, subject, body, is_read, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find messages",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find messages for %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var messages []*entity.Message
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Sender, &m.Subject, &m.Body, &m.IsRead, &m.CreatedAt); err != nil {
			r.log.Error("Failed to scan message row", zap.Error(err))
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		messages = append(messages, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}

	return messages, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM messages WHERE user_id = $1 AND NOT is_read AND sender = 'admin'`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread messages for %s: %w", userID.String(), err)
	}
	return count, nil
}

// MarkRead only touches messages owned by userID; false means no such message.
func (r *messageRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `UPDATE messages SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.log.Error("Failed to mark message read",
			zap.Error(err),
			zap.String("message_id", id.String()),
		)
		return false, fmt.Errorf("mark message %s read: %w", id.String(), err)
	}
	return result.RowsAffected() > 0, nil
}
