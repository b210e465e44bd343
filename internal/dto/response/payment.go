package response

import (
	"time"

	"freelance-booking/internal/data/entity"
)

type InitiatePaymentResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode,omitempty"`
	Reference        string `json:"reference"`
}

// VerifyPaymentResponse reports a recorded payment. AlreadyRecorded is true
// when the reference had been recorded by an earlier verify or webhook.
type VerifyPaymentResponse struct {
	Reference       string  `json:"reference"`
	Amount          float64 `json:"amount"`
	Service         string  `json:"service"`
	CustomerEmail   string  `json:"customerEmail"`
	BookingID       *string `json:"bookingId,omitempty"`
	ProjectID       *string `json:"projectId,omitempty"`
	AlreadyRecorded bool    `json:"alreadyRecorded"`
}

type PaymentLogResponse struct {
	ID            string     `json:"id"`
	Reference     string     `json:"reference"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	CustomerEmail string     `json:"customerEmail"`
	ServiceName   string     `json:"serviceName"`
	BookingID     *string    `json:"bookingId,omitempty"`
	ProjectID     *string    `json:"projectId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func PaymentLogToResponse(p *entity.PaymentLog) PaymentLogResponse {
	return PaymentLogResponse{
		ID:            p.ID.String(),
		Reference:     p.Reference,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        p.Status,
		CustomerEmail: p.CustomerEmail,
		ServiceName:   p.ServiceName,
		BookingID:     uuidString(p.BookingID),
		ProjectID:     uuidString(p.ProjectID),
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
	}
}

func PaymentLogsToResponse(logs []*entity.PaymentLog) []PaymentLogResponse {
	out := make([]PaymentLogResponse, 0, len(logs))
	for _, p := range logs {
		out = append(out, PaymentLogToResponse(p))
	}
	return out
}

func VerifiedToResponse(p *entity.PaymentLog, alreadyRecorded bool) VerifyPaymentResponse {
	return VerifyPaymentResponse{
		Reference:       p.Reference,
		Amount:          p.Amount,
		Service:         p.ServiceName,
		CustomerEmail:   p.CustomerEmail,
		BookingID:       uuidString(p.BookingID),
		ProjectID:       uuidString(p.ProjectID),
		AlreadyRecorded: alreadyRecorded,
	}
}
