package request

type SetUserActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}
