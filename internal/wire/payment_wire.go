package wire

import (
	"freelance-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/paystack", func(r chi.Router) {
		r.Post("/initiate", paymentHandler.Initiate)
		r.Post("/verify", paymentHandler.Verify)
		// authenticated by the HMAC signature, not a session
		r.Post("/webhook", paymentHandler.Webhook)
	})

	// ==================== ADMIN ROUTES ====================
	r.With(g.admin).Get("/api/payments", paymentHandler.ListPayments)
}
