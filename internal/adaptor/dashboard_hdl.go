package adaptor

import (
	"net/http"

	"freelance-booking/internal/usecase"
	"freelance-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	service usecase.DashboardService
	log     *zap.Logger
}

func NewDashboardHandler(service usecase.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		log:     log.With(zap.String("handler", "dashboard")),
	}
}

// ClientDashboard handles GET /api/user/dashboard/{sessionToken}
func (h *DashboardHandler) ClientDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.service.ClientDashboard(r.Context(), chi.URLParam(r, "sessionToken"))
	if err != nil {
		handleServiceError(w, h.log, err, "client dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", dash)
}

// ProjectUpdates handles GET /api/user/projects/{id}/updates (protected)
func (h *DashboardHandler) ProjectUpdates(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	updates, err := h.service.ClientProjectUpdates(r.Context(), userID, projectID)
	if err != nil {
		handleServiceError(w, h.log, err, "client project updates")
		return
	}

	utils.ResponseSuccess(w, "success", updates)
}

// AdminDashboard handles GET /api/admin/dashboard (admin)
func (h *DashboardHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.service.AdminDashboard(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "admin dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", dash)
}
