package usecase

import (
	"context"
	"time"

	"freelance-booking/internal/data/repository"
	"freelance-booking/internal/events"
	"freelance-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	Admin     AdminService
	Booking   BookingService
	Payment   PaymentService
	Project   ProjectService
	Dashboard DashboardService
	Inbox     InboxService
	User      UserService
}

func NewService(
	repo *repository.Repository,
	gateway PaymentGateway,
	guard DeliveryGuard,
	publisher *EventPublisher,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	auth := NewAuthService(repo, config, log)
	return &Service{
		Auth:      auth,
		Admin:     NewAdminService(repo.Admin, config, log),
		Booking:   NewBookingService(repo, publisher, log),
		Payment:   NewPaymentService(repo, gateway, guard, publisher, config, log),
		Project:   NewProjectService(repo, publisher, log),
		Dashboard: NewDashboardService(repo, auth, log),
		Inbox:     NewInboxService(repo, log),
		User:      NewUserService(repo, log),
	}
}

// EventPublisher sends lifecycle events after commit. Failures are logged
// and never reach the caller.
type EventPublisher struct {
	pub   events.Publisher
	topic string
	log   *zap.Logger
}

func NewEventPublisher(pub events.Publisher, topic string, log *zap.Logger) *EventPublisher {
	return &EventPublisher{
		pub:   pub,
		topic: topic,
		log:   log.With(zap.String("component", "event_publisher")),
	}
}

func (p *EventPublisher) publish(ctx context.Context, ev events.LifecycleEvent) {
	if p == nil || p.pub == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC()

	if err := p.pub.Publish(ctx, p.topic, ev.Key(), ev); err != nil {
		p.log.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("type", ev.Type),
			zap.String("key", ev.Key()))
	}
}
