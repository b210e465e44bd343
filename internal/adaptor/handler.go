package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"freelance-booking/internal/dto/request"
	"freelance-booking/internal/usecase"
	"freelance-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	Admin     *AdminHandler
	Booking   *BookingHandler
	Payment   *PaymentHandler
	Project   *ProjectHandler
	Dashboard *DashboardHandler
	Inbox     *InboxHandler
	User      *UserHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		Admin:     NewAdminHandler(service.Admin, log),
		Booking:   NewBookingHandler(service.Booking, log),
		Payment:   NewPaymentHandler(service.Payment, log),
		Project:   NewProjectHandler(service.Project, log),
		Dashboard: NewDashboardHandler(service.Dashboard, log),
		Inbox:     NewInboxHandler(service.Inbox, log),
		User:      NewUserHandler(service.User, log),
	}
}

// handleServiceError maps usecase sentinels to HTTP responses. Anything
// unrecognised is logged and hidden behind a generic 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", usecase.ValidationFields(err))

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrVerificationFailed),
		errors.Is(err, usecase.ErrAmountMismatch),
		errors.Is(err, usecase.ErrInvalidTransition):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrGateway):
		log.Error(operation+" failed - gateway", zap.Error(err))
		utils.ResponseBadGateway(w, err.Error())

	case errors.Is(err, usecase.ErrGatewayConfig):
		log.Error(operation+" failed - gateway not configured", zap.Error(err))
		utils.ResponseInternalError(w, "Payment service is not configured")

	case errors.Is(err, usecase.ErrPaymentNotRecorded):
		log.Error(operation+" failed - payment not recorded", zap.Error(err))
		utils.ResponseInternalError(w, "Payment received but could not be recorded. Please contact support with your reference.")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// pathUUID reads a chi URL param as a UUID and answers 400 when it is not one.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name, map[string]string{name: "must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func paginationFromQuery(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}

func clientMeta(r *http.Request) usecase.ClientMeta {
	return usecase.ClientMeta{
		UserAgent: r.UserAgent(),
		IPAddress: r.RemoteAddr,
	}
}
