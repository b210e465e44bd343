package request

type InitiatePaymentRequest struct {
	Email       string  `json:"email" validate:"required,basic_email"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	ServiceID   string  `json:"serviceId" validate:"required,notblank,max=100"`
	ServiceName string  `json:"serviceName" validate:"required,notblank,max=200"`
	BookingID   *string `json:"bookingId,omitempty" validate:"omitempty,uuid"`
}

type VerifyPaymentRequest struct {
	Reference       string   `json:"reference" validate:"required,notblank,max=200"`
	ExpectedService *string  `json:"expectedService,omitempty"`
	ExpectedAmount  *float64 `json:"expectedAmount,omitempty" validate:"omitempty,gt=0"`
}
