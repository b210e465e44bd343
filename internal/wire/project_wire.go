package wire

import (
	"freelance-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireProject(r chi.Router, projectHandler *adaptor.ProjectHandler, g guards) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/projects", func(r chi.Router) {
		r.Use(g.admin)

		r.Get("/", projectHandler.ListProjects)
		r.Post("/", projectHandler.CreateProject)
		r.Get("/{id}", projectHandler.GetProject)
		r.Put("/{id}", projectHandler.UpdateProject)
		r.Delete("/{id}", projectHandler.DeleteProject)
		r.Get("/{id}/updates", projectHandler.ListUpdates)
		r.Post("/{id}/messages", projectHandler.SendMessage)
	})
}
