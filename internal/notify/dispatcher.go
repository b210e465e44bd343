package notify

import (
	"context"
	"fmt"

	"freelance-booking/internal/events"

	"go.uber.org/zap"
)

// Dispatcher turns lifecycle events into emails. New bookings and payments
// are also copied to the studio inbox when one is configured.
type Dispatcher struct {
	mailer     Mailer
	adminEmail string
	log        *zap.Logger
}

func NewDispatcher(mailer Mailer, adminEmail string, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		mailer:     mailer,
		adminEmail: adminEmail,
		log:        log.With(zap.String("component", "dispatcher")),
	}
}

// Handle matches the events.Consumer handler signature.
func (d *Dispatcher) Handle(_ context.Context, ev events.LifecycleEvent) error {
	subject, body, ok := Compose(ev)
	if !ok {
		d.log.Debug("No email for event", zap.String("type", ev.Type))
		return nil
	}

	if ev.Email != "" {
		if err := d.mailer.Send(ev.Email, subject, body); err != nil {
			return err
		}
	}

	if d.adminEmail != "" && (ev.Type == events.TypeBookingCreated || ev.Type == events.TypePaymentCompleted) {
		adminBody := fmt.Sprintf("%s\n\nClient: %s\nBooking: %s\nReference: %s", ev.Type, ev.Email, ev.BookingID, ev.Reference)
		if err := d.mailer.Send(d.adminEmail, "[studio] "+subject, adminBody); err != nil {
			return err
		}
	}

	return nil
}
