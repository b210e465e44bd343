package wire

import (
	"freelance-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser configures client account management for the studio admin
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, g guards) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/users", func(r chi.Router) {
		r.Use(g.admin)

		r.Get("/", userHandler.ListUsers)
		r.Get("/{id}", userHandler.GetUser)
		r.Put("/{id}/status", userHandler.SetUserActive)
	})
}
