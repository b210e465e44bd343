package response

import (
	"time"

	"freelance-booking/internal/data/entity"
)

type BookingResponse struct {
	ID            string                `json:"id"`
	UserID        *string               `json:"userId,omitempty"`
	Name          string                `json:"name"`
	Email         string                `json:"email"`
	Phone         *string               `json:"phone,omitempty"`
	Service       string                `json:"service"`
	ProjectType   string                `json:"projectType"`
	Budget        string                `json:"budget"`
	Timeline      string                `json:"timeline"`
	Message       string                `json:"message"`
	PaymentStatus entity.PaymentStatus  `json:"paymentStatus"`
	Lifecycle     entity.LifecycleState `json:"lifecycle"`
	TransactionID *string               `json:"transactionId,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// BookingCreatedResponse is returned by public intake.
type BookingCreatedResponse struct {
	BookingID string `json:"bookingId"`
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID.String(),
		Name:          b.Name,
		Email:         b.Email,
		Phone:         b.Phone,
		Service:       b.Service,
		ProjectType:   b.ProjectType,
		Budget:        b.Budget,
		Timeline:      b.Timeline,
		Message:       b.Message,
		PaymentStatus: b.PaymentStatus,
		Lifecycle:     b.Lifecycle(),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.UserID != nil {
		id := b.UserID.String()
		resp.UserID = &id
	}
	if b.TransactionID != nil {
		id := b.TransactionID.String()
		resp.TransactionID = &id
	}
	return resp
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}
