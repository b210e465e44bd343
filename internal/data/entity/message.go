package entity

import "github.com/google/uuid"

type MessageSender string

const (
	SenderAdmin  MessageSender = "admin"
	SenderClient MessageSender = "client"
)

type Message struct {
	BaseSimple
	ProjectID *uuid.UUID    `db:"project_id"`
	UserID    uuid.UUID     `db:"user_id"`
	Sender    MessageSender `db:"sender"`
	Subject   string        `db:"subject"`
	Body      string        `db:"body"`
	IsRead    bool          `db:"is_read"`
}
