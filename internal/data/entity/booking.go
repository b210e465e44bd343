package entity

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// paymentTransitions lists the statuses reachable from each status.
// completed is terminal; failed stays retryable.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusInitiated, PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusInitiated: {PaymentStatusInitiated, PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusFailed:    {PaymentStatusInitiated, PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted: nil,
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LifecycleState is the booking-level view of the payment flow.
type LifecycleState string

const (
	LifecycleRequested        LifecycleState = "requested"
	LifecyclePaymentPending   LifecycleState = "payment_pending"
	LifecyclePaymentCompleted LifecycleState = "payment_completed"
	LifecyclePaymentFailed    LifecycleState = "payment_failed"
)

type Booking struct {
	Base
	UserID        *uuid.UUID    `db:"user_id"`
	Name          string        `db:"name"`
	Email         string        `db:"email"`
	Phone         *string       `db:"phone"`
	Service       string        `db:"service"`
	ProjectType   string        `db:"project_type"`
	Budget        string        `db:"budget"`
	Timeline      string        `db:"timeline"`
	Message       string        `db:"message"`
	PaymentStatus PaymentStatus `db:"payment_status"`
	TransactionID *uuid.UUID    `db:"transaction_id"`
}

// Lifecycle derives the booking's lifecycle state. A pending booking that
// has never been sent to the gateway is still just a request.
func (b *Booking) Lifecycle() LifecycleState {
	switch b.PaymentStatus {
	case PaymentStatusInitiated:
		return LifecyclePaymentPending
	case PaymentStatusCompleted:
		return LifecyclePaymentCompleted
	case PaymentStatusFailed:
		return LifecyclePaymentFailed
	default:
		return LifecycleRequested
	}
}
