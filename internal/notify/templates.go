package notify

import (
	"fmt"

	"freelance-booking/internal/events"
)

// Compose renders the client email for a lifecycle event. ok is false for
// events that do not notify the client.
func Compose(ev events.LifecycleEvent) (subject, body string, ok bool) {
	switch ev.Type {
	case events.TypeBookingCreated:
		return "We received your booking",
			"Thanks for reaching out. Your booking has been received and a project has been set up in your dashboard.\n\n" +
				"Register with this email address to follow its progress.", true
	case events.TypePaymentCompleted:
		return "Payment received",
			fmt.Sprintf("We received your payment of %.2f (reference %s). Work on your project can now begin.", ev.Amount, ev.Reference), true
	case events.TypePaymentFailed:
		return "Payment not completed",
			fmt.Sprintf("Your payment with reference %s could not be confirmed. You can retry from your dashboard.", ev.Reference), true
	case events.TypeProjectUpdated:
		return "Your project was updated",
			fmt.Sprintf("Your project is now %s. Log in to your dashboard for details.", ev.Status), true
	case events.TypeMessageSent:
		return "You have a new message",
			"A new message is waiting in your dashboard.", true
	default:
		return "", "", false
	}
}
