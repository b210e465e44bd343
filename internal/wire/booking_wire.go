package wire

import (
	"freelance-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/booking - booking intake from the contact form
	r.Post("/api/booking", bookingHandler.SubmitBooking)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(g.admin)

		r.Get("/", bookingHandler.ListBookings)
		r.Get("/{id}", bookingHandler.GetBooking)
		r.Put("/{id}", bookingHandler.UpdateBooking)
		r.Delete("/{id}", bookingHandler.DeleteBooking)
	})
}
