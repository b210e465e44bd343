package response

import (
	"time"

	"freelance-booking/internal/data/entity"
)

type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Phone      *string   `json:"phone,omitempty"`
	IsVerified bool      `json:"isVerified"`
	IsActive   bool      `json:"isActive"`
	Claimed    bool      `json:"claimed"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ClientDetailResponse is the admin view of one client account.
type ClientDetailResponse struct {
	User     UserResponse      `json:"user"`
	Projects []ProjectResponse `json:"projects"`
	Bookings []BookingResponse `json:"bookings"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	SessionToken string       `json:"sessionToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
}

type AdminResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

type AdminAuthResponse struct {
	Admin     AdminResponse `json:"admin"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:         user.ID.String(),
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Phone:      user.Phone,
		IsVerified: user.IsVerified,
		IsActive:   user.IsActive,
		Claimed:    user.HasPassword,
		CreatedAt:  user.CreatedAt,
	}
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{User: UserToResponse(user)}
	if session != nil {
		resp.SessionToken = session.Token
		resp.ExpiresAt = session.ExpiresAt
	}
	return resp
}

func AdminToResponse(admin *entity.Admin) AdminResponse {
	return AdminResponse{
		ID:        admin.ID.String(),
		Email:     admin.Email,
		Name:      admin.Name,
		LastLogin: admin.LastLogin,
	}
}
