package adaptor

import (
	"net/http"

	"freelance-booking/internal/usecase"
	"freelance-booking/pkg/utils"

	"go.uber.org/zap"
)

type InboxHandler struct {
	service usecase.InboxService
	log     *zap.Logger
}

func NewInboxHandler(service usecase.InboxService, log *zap.Logger) *InboxHandler {
	return &InboxHandler{
		service: service,
		log:     log.With(zap.String("handler", "inbox")),
	}
}

// ListNotifications handles GET /api/user/notifications (protected)
func (h *InboxHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	notifications, err := h.service.ListNotifications(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list notifications")
		return
	}

	utils.ResponseSuccess(w, "success", notifications)
}

// MarkNotificationRead handles PUT /api/user/notifications/{id}/read (protected)
func (h *InboxHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.MarkNotificationRead(r.Context(), userID, id); err != nil {
		handleServiceError(w, h.log, err, "mark notification read")
		return
	}

	utils.ResponseSuccess(w, "Notification marked as read", nil)
}

// ListMessages handles GET /api/user/messages (protected)
func (h *InboxHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	messages, err := h.service.ListMessages(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list messages")
		return
	}

	utils.ResponseSuccess(w, "success", messages)
}

// MarkMessageRead handles PUT /api/user/messages/{id}/read (protected)
func (h *InboxHandler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.MarkMessageRead(r.Context(), userID, id); err != nil {
		handleServiceError(w, h.log, err, "mark message read")
		return
	}

	utils.ResponseSuccess(w, "Message marked as read", nil)
}
