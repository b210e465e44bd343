package adaptor

import (
	"encoding/json"
	"net/http"

	"freelance-booking/internal/dto/request"
	"freelance-booking/internal/dto/response"
	"freelance-booking/internal/usecase"
	"freelance-booking/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), &req, clientMeta(r))
	if err != nil {
		handleServiceError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful", resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req, clientMeta(r))
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Verify handles POST /api/auth/verify. The token comes from the body or,
// failing that, the Authorization header.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(r)
	if token == "" {
		utils.ResponseUnauthorized(w, "Missing session token")
		return
	}

	user, err := h.service.Verify(r.Context(), token)
	if err != nil {
		handleServiceError(w, h.log, err, "verify session")
		return
	}

	utils.ResponseSuccess(w, "Session valid", map[string]any{"user": response.UserToResponse(user)})
}

// Logout handles POST /api/auth/logout. Unknown tokens still succeed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(r)
	if token == "" {
		utils.ResponseBadRequest(w, "No token provided", nil)
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// GetProfile handles GET /api/user/profile (protected)
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// UpdateProfile handles PUT /api/user/profile (protected)
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated", profile)
}

func (h *AuthHandler) sessionToken(r *http.Request) string {
	var req request.SessionTokenRequest
	if r.Body != nil {
		// an empty or malformed body falls through to the header
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.SessionToken != "" {
		return req.SessionToken
	}
	return utils.BearerToken(r)
}
