package adaptor

import (
	"errors"
	"io"
	"net/http"

	"freelance-booking/internal/dto/request"
	"freelance-booking/internal/usecase"
	"freelance-booking/pkg/utils"

	"go.uber.org/zap"
)

// maxWebhookBody caps what we read from the gateway before verifying the signature.
const maxWebhookBody = 1 << 20

const signatureHeader = "x-paystack-signature"

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// Initiate handles POST /api/paystack/initiate
func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req request.InitiatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Initiate(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "initiate payment")
		return
	}

	utils.ResponseSuccess(w, "Payment initialized", resp)
}

// Verify handles POST /api/paystack/verify
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Verify(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "verify payment")
		return
	}

	utils.ResponseSuccess(w, "Payment verified", resp)
}

// Webhook handles POST /api/paystack/webhook. The raw body is needed for the
// signature check. Failures the gateway can fix by retrying answer 500; the
// rest are acknowledged so the delivery is not repeated.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	err = h.service.HandleWebhook(r.Context(), body, r.Header.Get(signatureHeader))
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrUnauthorized):
		h.log.Warn("Webhook rejected", zap.Error(err), zap.String("ip", r.RemoteAddr))
		utils.ResponseUnauthorized(w, "Invalid signature")
		return
	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrVerificationFailed),
		errors.Is(err, usecase.ErrAmountMismatch):
		h.log.Warn("Webhook acknowledged without recording", zap.Error(err))
	default:
		h.log.Error("Webhook processing failed", zap.Error(err))
		utils.WriteJSON(w, http.StatusInternalServerError, map[string]any{"received": false})
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"received": true})
}

// ListPayments handles GET /api/payments (admin)
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListPayments(r.Context(), paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}
