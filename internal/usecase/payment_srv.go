package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"freelance-booking/internal/data/entity"
	"freelance-booking/internal/data/repository"
	"freelance-booking/internal/dto/request"
	"freelance-booking/internal/dto/response"
	"freelance-booking/internal/events"
	"freelance-booking/internal/gateway/paystack"
	"freelance-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentGateway is the subset of the Paystack client the service uses.
type PaymentGateway interface {
	Configured() bool
	Initialize(ctx context.Context, p paystack.InitializeParams) (*paystack.Authorization, error)
	Verify(ctx context.Context, reference string) (*paystack.Transaction, error)
}

// DeliveryGuard suppresses concurrent duplicate webhook deliveries.
type DeliveryGuard interface {
	Claim(ctx context.Context, reference string) (bool, error)
	Release(ctx context.Context, reference string) error
}

// VerifiedPayment is a charge the gateway has confirmed as successful.
type VerifiedPayment struct {
	Reference     string
	Amount        float64 // major units
	Currency      string
	CustomerEmail string
	ServiceName   string
	BookingID     *uuid.UUID
	PaidAt        *time.Time
	Raw           json.RawMessage
}

type PaymentService interface {
	Initiate(ctx context.Context, req *request.InitiatePaymentRequest) (*response.InitiatePaymentResponse, error)
	Verify(ctx context.Context, req *request.VerifyPaymentRequest) (*response.VerifyPaymentResponse, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	RecordVerifiedPayment(ctx context.Context, p VerifiedPayment) (*entity.PaymentLog, bool, error)
	ListPayments(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentLogResponse], error)
}

type paymentService struct {
	repo      *repository.Repository
	gateway   PaymentGateway
	guard     DeliveryGuard
	publisher *EventPublisher
	config    *utils.Config
	log       *zap.Logger
	now       func() time.Time
}

func NewPaymentService(
	repo *repository.Repository,
	gateway PaymentGateway,
	guard DeliveryGuard,
	publisher *EventPublisher,
	config *utils.Config,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:      repo,
		gateway:   gateway,
		guard:     guard,
		publisher: publisher,
		config:    config,
		log:       log.With(zap.String("service", "payment")),
		now:       time.Now,
	}
}

func (s *paymentService) Initiate(ctx context.Context, req *request.InitiatePaymentRequest) (*response.InitiatePaymentResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}
	if !s.gateway.Configured() {
		s.log.Error("Paystack secret key is not configured")
		return nil, ErrGatewayConfig
	}

	// 2. A paid booking cannot be charged again
	var bookingID *uuid.UUID
	if req.BookingID != nil && *req.BookingID != "" {
		id, err := uuid.Parse(*req.BookingID)
		if err != nil {
			return nil, fieldError("bookingId", "Must be a valid UUID")
		}
		booking, err := s.repo.Booking.FindByID(ctx, id)
		if err != nil {
			s.log.Error("Failed to load booking", zap.Error(err), zap.String("booking_id", id.String()))
			return nil, fmt.Errorf("failed to initiate payment")
		}
		if booking == nil {
			return nil, notFound("booking")
		}
		if !booking.PaymentStatus.CanTransitionTo(entity.PaymentStatusInitiated) {
			return nil, fmt.Errorf("%w: booking payment is already %s", ErrInvalidTransition, booking.PaymentStatus)
		}
		bookingID = &id
	}

	// 3. Call the gateway in minor units
	params := paystack.InitializeParams{
		Email:       normalizeEmail(req.Email),
		AmountMinor: paystack.ToMinorUnits(req.Amount),
		Metadata: paystack.Metadata{
			ServiceID:   req.ServiceID,
			ServiceName: req.ServiceName,
		},
	}
	if bookingID != nil {
		params.Metadata.BookingID = bookingID.String()
	}

	auth, err := s.gateway.Initialize(ctx, params)
	if err != nil {
		return nil, s.gatewayError("initialize", err)
	}

	// 4. Track the attempt on the booking
	if bookingID != nil {
		if _, err := s.setPaymentStatus(ctx, *bookingID, entity.PaymentStatusInitiated); err != nil {
			// the checkout URL is already issued; verify will settle the status
			s.log.Warn("Failed to mark booking initiated", zap.Error(err), zap.String("booking_id", bookingID.String()))
		}
	}

	s.log.Info("Payment initiated",
		zap.String("reference", auth.Reference),
		zap.Int64("amount_minor", params.AmountMinor),
		zap.String("service_id", req.ServiceID))

	return &response.InitiatePaymentResponse{
		AuthorizationURL: auth.AuthorizationURL,
		AccessCode:       auth.AccessCode,
		Reference:        auth.Reference,
	}, nil
}

func (s *paymentService) Verify(ctx context.Context, req *request.VerifyPaymentRequest) (*response.VerifyPaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	log, created, err := s.verifyAndRecord(ctx, strings.TrimSpace(req.Reference), req.ExpectedService, req.ExpectedAmount)
	if err != nil {
		return nil, err
	}

	resp := response.VerifiedToResponse(log, !created)
	return &resp, nil
}

// HandleWebhook authenticates the raw body before parsing it. Only
// charge.success is acted on; other events are acknowledged.
func (s *paymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !paystack.VerifySignature(body, signature, s.config.Paystack.WebhookSecret) {
		s.log.Warn("Rejected webhook with invalid signature")
		return unauthorized("invalid signature")
	}

	ev, err := paystack.ParseEvent(body)
	if err != nil {
		return fieldError("body", "Invalid webhook payload")
	}
	if ev.Event != paystack.EventChargeSuccess {
		s.log.Debug("Ignoring webhook event", zap.String("event", ev.Event))
		return nil
	}

	reference := strings.TrimSpace(ev.Data.Reference)
	if reference == "" {
		return fieldError("reference", "This field is required")
	}

	claimed, err := s.guard.Claim(ctx, reference)
	if err != nil {
		// the database still enforces idempotency
		s.log.Warn("Delivery guard unavailable", zap.Error(err))
		claimed = true
	}
	if !claimed {
		s.log.Info("Duplicate webhook delivery in flight", zap.String("reference", reference))
		return nil
	}

	if _, _, err := s.verifyAndRecord(ctx, reference, nil, nil); err != nil {
		if relErr := s.guard.Release(ctx, reference); relErr != nil {
			s.log.Warn("Failed to release delivery claim", zap.Error(relErr))
		}
		return err
	}

	return nil
}

// verifyAndRecord is the flow shared by synchronous verify and the webhook.
func (s *paymentService) verifyAndRecord(ctx context.Context, reference string, expectedService *string, expectedAmount *float64) (*entity.PaymentLog, bool, error) {
	if !s.gateway.Configured() {
		return nil, false, ErrGatewayConfig
	}

	// 1. Ask the gateway, never the client
	tx, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		var apiErr *paystack.APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() {
			return nil, false, fmt.Errorf("%w: transaction not found", ErrVerificationFailed)
		}
		return nil, false, s.gatewayError("verify", err)
	}

	bookingID := parseOptionalUUID(tx.Metadata.BookingID)

	// 2. Status must be success
	if !tx.Paid() {
		s.log.Info("Payment not successful",
			zap.String("reference", reference),
			zap.String("status", tx.Status))
		s.markFailed(ctx, bookingID, tx, reference)
		return nil, false, fmt.Errorf("%w: transaction status is %s", ErrVerificationFailed, tx.Status)
	}

	// 3. Amount must match to the minor unit
	if expectedAmount != nil && paystack.ToMinorUnits(*expectedAmount) != tx.AmountMinor {
		s.log.Warn("Payment amount mismatch",
			zap.String("reference", reference),
			zap.Int64("expected_minor", paystack.ToMinorUnits(*expectedAmount)),
			zap.Int64("actual_minor", tx.AmountMinor))
		s.markFailed(ctx, bookingID, tx, reference)
		return nil, false, ErrAmountMismatch
	}

	if expectedService != nil && tx.Metadata.ServiceName != "" &&
		!strings.EqualFold(strings.TrimSpace(*expectedService), tx.Metadata.ServiceName) {
		s.log.Warn("Payment service differs from expected",
			zap.String("reference", reference),
			zap.String("expected", *expectedService),
			zap.String("actual", tx.Metadata.ServiceName))
	}

	// 4. Record once per reference
	return s.RecordVerifiedPayment(ctx, VerifiedPayment{
		Reference:     tx.Reference,
		Amount:        paystack.ToMajorUnits(tx.AmountMinor),
		Currency:      tx.Currency,
		CustomerEmail: normalizeEmail(tx.CustomerEmail),
		ServiceName:   tx.Metadata.ServiceName,
		BookingID:     bookingID,
		PaidAt:        tx.PaidAt,
		Raw:           tx.Raw,
	})
}

// RecordVerifiedPayment writes everything a confirmed payment implies in one
// transaction. A reference that is already logged changes nothing and the
// stored row is returned with created=false.
func (s *paymentService) RecordVerifiedPayment(ctx context.Context, p VerifiedPayment) (*entity.PaymentLog, bool, error) {
	now := s.now()
	if p.Currency == "" {
		p.Currency = s.config.Paystack.Currency
	}
	if p.PaidAt == nil {
		p.PaidAt = &now
	}

	var (
		result  *entity.PaymentLog
		created bool
	)

	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		// 1. Log keyed by reference
		stored, inserted, err := tx.PaymentLog.InsertIfAbsent(ctx, &entity.PaymentLog{
			BaseSimple:      entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			Reference:       p.Reference,
			Amount:          p.Amount,
			Currency:        p.Currency,
			Status:          paystack.StatusSuccess,
			CustomerEmail:   p.CustomerEmail,
			ServiceName:     p.ServiceName,
			BookingID:       p.BookingID,
			GatewayResponse: p.Raw,
			PaidAt:          p.PaidAt,
		})
		if err != nil {
			return err
		}
		result, created = stored, inserted
		if !inserted {
			return nil
		}

		// 2. Booking, project and timeline
		var userID *uuid.UUID
		var projectID *uuid.UUID
		if p.BookingID != nil {
			booking, err := tx.Booking.FindByIDForUpdate(ctx, *p.BookingID)
			if err != nil {
				return err
			}
			if booking != nil {
				if booking.PaymentStatus.CanTransitionTo(entity.PaymentStatusCompleted) {
					if err := tx.Booking.UpdatePaymentStatus(ctx, booking.ID, entity.PaymentStatusCompleted, &stored.ID); err != nil {
						return err
					}
				} else {
					s.log.Info("Booking already completed, status unchanged",
						zap.String("booking_id", booking.ID.String()),
						zap.String("reference", p.Reference))
				}

				project, _, err := tx.Project.CreateForBookingIfAbsent(ctx, projectForBooking(booking, now))
				if err != nil {
					return err
				}
				if err := tx.PaymentLog.LinkProject(ctx, stored.ID, project.ID); err != nil {
					return err
				}
				stored.ProjectID = &project.ID
				projectID = &project.ID

				if err := tx.ProjectUpdate.Create(ctx, &entity.ProjectUpdate{
					BaseSimple:      entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
					ProjectID:       project.ID,
					Title:           "Payment received",
					Description:     fmt.Sprintf("Payment of %.2f %s received (reference %s).", p.Amount, p.Currency, p.Reference),
					Status:          project.Status,
					Progress:        project.Progress,
					VisibleToClient: true,
				}); err != nil {
					return err
				}

				userID = booking.UserID
			} else {
				s.log.Warn("Payment references a missing booking",
					zap.String("booking_id", p.BookingID.String()),
					zap.String("reference", p.Reference))
			}
		}

		// 3. Tell the client
		if userID == nil && p.CustomerEmail != "" {
			user, err := tx.User.FindByEmail(ctx, p.CustomerEmail)
			if err != nil {
				return err
			}
			if user != nil {
				userID = &user.ID
			}
		}
		if userID != nil {
			return tx.Notification.Create(ctx, &entity.Notification{
				BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
				UserID:     *userID,
				ProjectID:  projectID,
				Type:       entity.NotifPaymentCompleted,
				Title:      "Payment received",
				Message:    fmt.Sprintf("We received your payment of %.2f %s.", p.Amount, p.Currency),
			})
		}
		return nil
	})
	if err != nil {
		s.log.Error("Verified payment could not be recorded",
			zap.Error(err),
			zap.String("reference", p.Reference),
			zap.Float64("amount", p.Amount))
		return nil, false, fmt.Errorf("%w: reference %s", ErrPaymentNotRecorded, p.Reference)
	}

	if !created {
		s.log.Info("Payment already recorded", zap.String("reference", p.Reference))
		return result, false, nil
	}

	s.log.Info("Payment recorded",
		zap.String("reference", p.Reference),
		zap.Float64("amount", p.Amount))

	ev := events.LifecycleEvent{
		Type:      events.TypePaymentCompleted,
		Reference: p.Reference,
		Email:     p.CustomerEmail,
		Status:    string(entity.PaymentStatusCompleted),
		Amount:    p.Amount,
	}
	if p.BookingID != nil {
		ev.BookingID = p.BookingID.String()
	}
	if result.ProjectID != nil {
		ev.ProjectID = result.ProjectID.String()
	}
	s.publisher.publish(ctx, ev)

	return result, true, nil
}

func (s *paymentService) ListPayments(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentLogResponse], error) {
	logs, err := s.repo.PaymentLog.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list payments", zap.Error(err))
		return nil, fmt.Errorf("failed to list payments")
	}

	total, err := s.repo.PaymentLog.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count payments", zap.Error(err))
		return nil, fmt.Errorf("failed to list payments")
	}

	return response.NewPaginatedResponse(response.PaymentLogsToResponse(logs), req.Page, req.Limit(), total), nil
}

// markFailed records a failed attempt on the booking. completed is terminal,
// so a later bad verify cannot undo a recorded payment.
func (s *paymentService) markFailed(ctx context.Context, bookingID *uuid.UUID, tx *paystack.Transaction, reference string) {
	if bookingID == nil {
		return
	}
	applied, err := s.setPaymentStatus(ctx, *bookingID, entity.PaymentStatusFailed)
	if err != nil {
		s.log.Warn("Failed to mark booking payment failed", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return
	}
	if !applied {
		return
	}

	s.publisher.publish(ctx, events.LifecycleEvent{
		Type:      events.TypePaymentFailed,
		BookingID: bookingID.String(),
		Reference: reference,
		Email:     normalizeEmail(tx.CustomerEmail),
		Status:    tx.Status,
		Amount:    paystack.ToMajorUnits(tx.AmountMinor),
	})
}

// setPaymentStatus applies a transition under a row lock. Disallowed
// transitions are skipped without error and report applied=false.
func (s *paymentService) setPaymentStatus(ctx context.Context, bookingID uuid.UUID, next entity.PaymentStatus) (bool, error) {
	var applied bool
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		booking, err := tx.Booking.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return nil
		}
		if !booking.PaymentStatus.CanTransitionTo(next) {
			s.log.Info("Skipping payment status transition",
				zap.String("booking_id", bookingID.String()),
				zap.String("from", string(booking.PaymentStatus)),
				zap.String("to", string(next)))
			return nil
		}
		if err := tx.Booking.UpdatePaymentStatus(ctx, bookingID, next, nil); err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}

func (s *paymentService) gatewayError(op string, err error) error {
	if errors.Is(err, paystack.ErrNotConfigured) {
		return ErrGatewayConfig
	}

	var apiErr *paystack.APIError
	if errors.As(err, &apiErr) {
		s.log.Warn("Paystack rejected request",
			zap.String("op", op),
			zap.Int("status", apiErr.StatusCode),
			zap.String("message", apiErr.Message))
		return fmt.Errorf("%w: %s", ErrGateway, apiErr.Message)
	}

	s.log.Error("Paystack request failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: payment service unavailable, please retry", ErrGateway)
}

func parseOptionalUUID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
