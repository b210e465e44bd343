package wire

import (
	"freelance-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	adminHandler *adaptor.AdminHandler,
	g guards,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		// verify and logout read the token themselves (body or Bearer)
		r.Post("/verify", authHandler.Verify)
		r.Post("/logout", authHandler.Logout)
	})

	r.Post("/api/admin/login", adminHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(g.session)

		r.Get("/api/user/profile", authHandler.GetProfile)
		r.Put("/api/user/profile", authHandler.UpdateProfile)
	})
}
