package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event types published on the lifecycle topic.
const (
	TypeBookingCreated   = "booking.created"
	TypePaymentCompleted = "payment.completed"
	TypePaymentFailed    = "payment.failed"
	TypeProjectUpdated   = "project.updated"
	TypeMessageSent      = "message.sent"
)

type LifecycleEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"bookingId,omitempty"`
	ProjectID  string    `json:"projectId,omitempty"`
	Reference  string    `json:"reference,omitempty"`
	Email      string    `json:"email"`
	Status     string    `json:"status,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Key orders events per booking, falling back to the project.
func (e LifecycleEvent) Key() string {
	if e.BookingID != "" {
		return e.BookingID
	}
	return e.ProjectID
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
	Close() error
}

// Noop drops every event. It stands in when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, string, any) error { return nil }
func (Noop) Close() error                                       { return nil }

func Decode(data []byte) (LifecycleEvent, error) {
	var ev LifecycleEvent
	err := json.Unmarshal(data, &ev)
	return ev, err
}
