package request

type CreateBookingRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=200"`
	Email       string  `json:"email" validate:"required,basic_email,max=255"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Service     string  `json:"service" validate:"required,notblank,max=200"`
	ProjectType string  `json:"projectType" validate:"omitempty,max=200"`
	Budget      string  `json:"budget" validate:"omitempty,max=100"`
	Timeline    string  `json:"timeline" validate:"omitempty,max=100"`
	Message     string  `json:"message" validate:"omitempty,max=5000"`
}

// UpdateBookingRequest is a partial update; nil fields are left unchanged.
type UpdateBookingRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitnil,notblank,max=200"`
	Email         *string `json:"email,omitempty" validate:"omitempty,basic_email,max=255"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Service       *string `json:"service,omitempty" validate:"omitnil,notblank,max=200"`
	ProjectType   *string `json:"projectType,omitempty" validate:"omitempty,max=200"`
	Budget        *string `json:"budget,omitempty" validate:"omitempty,max=100"`
	Timeline      *string `json:"timeline,omitempty" validate:"omitempty,max=100"`
	Message       *string `json:"message,omitempty" validate:"omitempty,max=5000"`
	PaymentStatus *string `json:"paymentStatus,omitempty" validate:"omitempty,oneof=pending initiated completed failed"`
}
