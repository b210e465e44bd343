package usecase

import (
	"context"
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

// placeholder for booking fields the client left empty
const tbd = "TBD"

type BookingService interface {
	SubmitBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingCreatedResponse, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateBooking(ctx context.Context, id uuid.UUID, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	DeleteBooking(ctx context.Context, id uuid.UUID) error
}

type bookingService struct {
	repo      *repository.Repository
	publisher *EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

func NewBookingService(repo *repository.Repository, publisher *EventPublisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("service", "booking")),
		now:       time.Now,
	}
}

func (s *bookingService) SubmitBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingCreatedResponse, error) {
	// 1. Validate before any write
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Booking validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	service := strings.TrimSpace(req.Service)

	// 2. Prepare the account a first-time client gets. It cannot log in
	// until someone registers with the email.
	secret, err := utils.GenerateUnusablePassword()
	if err != nil {
		return nil, fmt.Errorf("failed to submit booking")
	}
	unusableHash, err := utils.HashPassword(secret)
	if err != nil {
		s.log.Error("Failed to hash placeholder password", zap.Error(err))
		return nil, fmt.Errorf("failed to submit booking")
	}

	now := s.now()
	firstName, lastName := utils.SplitName(name)

	candidate := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:        email,
		PasswordHash: unusableHash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        req.Phone,
		HasPassword:  false,
		IsActive:     true,
	}

	booking := &entity.Booking{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:          name,
		Email:         email,
		Phone:         req.Phone,
		Service:       service,
		ProjectType:   strings.TrimSpace(req.ProjectType),
		Budget:        strings.TrimSpace(req.Budget),
		Timeline:      strings.TrimSpace(req.Timeline),
		Message:       strings.TrimSpace(req.Message),
		PaymentStatus: entity.PaymentStatusPending,
	}

	project := projectForBooking(booking, now)

	// 3. User, booking, project and notification commit together
	var user *entity.User
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		var created bool
		var err error
		user, created, err = tx.User.FindOrCreateByEmail(ctx, candidate)
		if err != nil {
			return err
		}
		if created {
			s.log.Info("Provisioned user for booking", zap.String("user_id", user.ID.String()))
		}

		booking.UserID = &user.ID
		if err := tx.Booking.Create(ctx, booking); err != nil {
			return err
		}

		if err := tx.Project.Create(ctx, project); err != nil {
			return err
		}

		return tx.Notification.Create(ctx, &entity.Notification{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			UserID:     user.ID,
			ProjectID:  &project.ID,
			Type:       entity.NotifProjectCreated,
			Title:      "Project created",
			Message:    fmt.Sprintf("Your project %q has been created. We will be in touch soon.", project.Name),
		})
	})
	if err != nil {
		s.log.Error("Failed to submit booking", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to submit booking")
	}

	s.log.Info("Booking submitted",
		zap.String("booking_id", booking.ID.String()),
		zap.String("project_id", project.ID.String()),
		zap.String("user_id", user.ID.String()))

	// 4. Notify downstream, best effort
	s.publisher.publish(ctx, events.LifecycleEvent{
		Type:      events.TypeBookingCreated,
		BookingID: booking.ID.String(),
		ProjectID: project.ID.String(),
		Email:     email,
		Status:    string(booking.PaymentStatus),
	})

	return &response.BookingCreatedResponse{
		BookingID: booking.ID.String(),
		ProjectID: project.ID.String(),
		UserID:    user.ID.String(),
	}, nil
}

// projectForBooking derives the delivery project for a booking.
func projectForBooking(b *entity.Booking, now time.Time) *entity.Project {
	description := b.Message
	if description == "" {
		description = tbd
	}
	budget := b.Budget
	if budget == "" {
		budget = tbd
	}

	bookingID := b.ID
	return &entity.Project{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		BookingID:   &bookingID,
		Name:        fmt.Sprintf("%s - %s", b.Service, b.Name),
		Description: description,
		Status:      entity.ProjectStatusPlanning,
		Priority:    entity.PriorityMedium,
		Progress:    0,
		Budget:      budget,
		ClientEmail: b.Email,
	}
}

func (s *bookingService) GetBooking(ctx context.Context, id uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get booking", zap.Error(err), zap.String("booking_id", id.String()))
		return nil, fmt.Errorf("failed to get booking")
	}
	if booking == nil {
		return nil, notFound("booking")
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to list bookings")
	}

	total, err := s.repo.Booking.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to list bookings")
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.Limit(), total), nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, id uuid.UUID, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	var updated *entity.Booking
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		booking, err := tx.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return notFound("booking")
		}

		applyBookingChanges(booking, req)

		if req.PaymentStatus != nil {
			next := entity.PaymentStatus(*req.PaymentStatus)
			if next != booking.PaymentStatus {
				// completed is reached only through a verified payment, which
				// also links the payment log
				if next == entity.PaymentStatusCompleted {
					return fmt.Errorf("%w: payment status %s can only be set by a verified payment", ErrInvalidTransition, next)
				}
				if !booking.PaymentStatus.CanTransitionTo(next) {
					return fmt.Errorf("%w: payment status %s -> %s", ErrInvalidTransition, booking.PaymentStatus, next)
				}
				booking.PaymentStatus = next
			}
		}

		booking.UpdatedAt = s.now()
		if err := tx.Booking.Update(ctx, booking); err != nil {
			return err
		}
		updated = booking
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.log.Error("Failed to update booking", zap.Error(err), zap.String("booking_id", id.String()))
		return nil, fmt.Errorf("failed to update booking")
	}

	s.log.Info("Booking updated", zap.String("booking_id", id.String()))

	resp := response.BookingToResponse(updated)
	return &resp, nil
}

func applyBookingChanges(b *entity.Booking, req *request.UpdateBookingRequest) {
	if req.Name != nil {
		b.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		b.Email = normalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		b.Phone = req.Phone
	}
	if req.Service != nil {
		b.Service = strings.TrimSpace(*req.Service)
	}
	if req.ProjectType != nil {
		b.ProjectType = strings.TrimSpace(*req.ProjectType)
	}
	if req.Budget != nil {
		b.Budget = strings.TrimSpace(*req.Budget)
	}
	if req.Timeline != nil {
		b.Timeline = strings.TrimSpace(*req.Timeline)
	}
	if req.Message != nil {
		b.Message = strings.TrimSpace(*req.Message)
	}
}

func (s *bookingService) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", id.String()))
		return fmt.Errorf("failed to delete booking")
	}
	if booking == nil {
		return notFound("booking")
	}

	if err := s.repo.Booking.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete booking", zap.Error(err), zap.String("booking_id", id.String()))
		return fmt.Errorf("failed to delete booking")
	}

	s.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}
