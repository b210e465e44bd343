package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PaymentLog is the gateway-verified record of a payment. Reference is the
// gateway's idempotency key and is unique.
type PaymentLog struct {
	BaseSimple
	Reference       string          `db:"reference"`
	Amount          float64         `db:"amount"` // major units
	Currency        string          `db:"currency"`
	Status          string          `db:"status"`
	CustomerEmail   string          `db:"customer_email"`
	ServiceName     string          `db:"service_name"`
	BookingID       *uuid.UUID      `db:"booking_id"`
	ProjectID       *uuid.UUID      `db:"project_id"`
	GatewayResponse json.RawMessage `db:"gateway_response"`
	PaidAt          *time.Time      `db:"paid_at"`
}
