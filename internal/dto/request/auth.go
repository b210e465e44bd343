package request

type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,basic_email,max=255"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	FirstName string  `json:"firstName" validate:"required,notblank,max=100"`
	LastName  string  `json:"lastName" validate:"omitempty,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,basic_email"`
	Password string `json:"password" validate:"required"`
}

// SessionTokenRequest is accepted by verify and logout when the token is not
// sent as a bearer header.
type SessionTokenRequest struct {
	SessionToken string `json:"sessionToken"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,basic_email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitnil,notblank,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
}
