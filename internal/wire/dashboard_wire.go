package wire

import (
	"freelance-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireDashboard(
	r chi.Router,
	dashboardHandler *adaptor.DashboardHandler,
	inboxHandler *adaptor.InboxHandler,
	g guards,
) {
	// ==================== CLIENT ROUTES ====================
	// the session token travels in the path, so no middleware here
	r.Get("/api/user/dashboard/{sessionToken}", dashboardHandler.ClientDashboard)

	r.Group(func(r chi.Router) {
		r.Use(g.session)

		r.Get("/api/user/projects/{id}/updates", dashboardHandler.ProjectUpdates)
		r.Get("/api/user/notifications", inboxHandler.ListNotifications)
		r.Put("/api/user/notifications/{id}/read", inboxHandler.MarkNotificationRead)
		r.Get("/api/user/messages", inboxHandler.ListMessages)
		r.Put("/api/user/messages/{id}/read", inboxHandler.MarkMessageRead)
	})

	// ==================== ADMIN ROUTES ====================
	r.With(g.admin).Get("/api/admin/dashboard", dashboardHandler.AdminDashboard)
}
