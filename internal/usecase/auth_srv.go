package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"freelance-booking/internal/data/entity"
	"freelance-booking/internal/data/repository"
	"freelance-booking/internal/dto/request"
	"freelance-booking/internal/dto/response"
	"freelance-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, meta ClientMeta) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, meta ClientMeta) (*response.AuthResponse, error)
	Verify(ctx context.Context, token string) (*entity.User, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
}

// ClientMeta is stored on the session for auditing.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

type authService struct {
	repo   *repository.Repository // user and session repos
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

// dummyHash keeps login timing the same for unknown emails.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := utils.HashPassword("not-a-real-password")
	return hash
})

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, meta ClientMeta) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	// 2. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	// 3. Build user
	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        normalizeEmail(req.Email),
		PasswordHash: hashedPassword,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
		HasPassword:  true,
		IsActive:     true,
	}

	// 4. Save user, or claim the account a booking provisioned for this email
	err = s.repo.User.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		claimed, claimErr := s.repo.User.ClaimProvisioned(ctx, user)
		if claimErr != nil {
			s.log.Error("Failed to claim provisioned account", zap.Error(claimErr), zap.String("email", user.Email))
			return nil, fmt.Errorf("failed to create account")
		}
		if !claimed {
			return nil, s.claimRefused(ctx, user.Email)
		}
		s.log.Info("Provisioned account claimed", zap.String("user_id", user.ID.String()))
	} else if err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	// 5. Auto login after register
	session, err := s.createSession(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

// claimRefused explains a failed claim. A deactivated account answers like
// a failed login; anything else already has an owner.
func (s *authService) claimRefused(ctx context.Context, email string) error {
	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err))
		return fmt.Errorf("failed to create account")
	}
	if existing != nil && !existing.IsActive {
		s.log.Info("Register refused", zap.String("user_id", existing.ID.String()), zap.Bool("active", false))
		return unauthorized("invalid credentials")
	}
	return fmt.Errorf("email %w", ErrConflict)
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta ClientMeta) (*response.AuthResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	// 2. Find user
	email := normalizeEmail(req.Email)
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err))
		return nil, fmt.Errorf("failed to find user")
	}

	// 3. Unknown, unclaimed, inactive and wrong password all look the same
	if user == nil || !user.HasPassword {
		utils.CheckPasswordHash(req.Password, dummyHash())
		s.log.Info("Login failed", zap.String("reason", "unknown_or_unclaimed"))
		return nil, unauthorized("invalid credentials")
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) || !user.IsActive {
		s.log.Info("Login failed",
			zap.String("user_id", user.ID.String()),
			zap.Bool("active", user.IsActive))
		return nil, unauthorized("invalid credentials")
	}

	// 4. Create session
	session, err := s.createSession(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

// Verify is read-only. Expiry is compared against the wall clock here, not
// swept ahead of time.
func (s *authService) Verify(ctx context.Context, token string) (*entity.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, unauthorized("session token required")
	}

	session, err := s.repo.Session.FindByToken(ctx, token)
	if err != nil {
		s.log.Error("Failed to load session", zap.Error(err), zap.String("token", utils.TokenPrefix(token)))
		return nil, fmt.Errorf("failed to verify session")
	}
	if session == nil {
		return nil, unauthorized("invalid session")
	}
	if !session.Usable(s.now()) {
		return nil, unauthorized("session expired or revoked")
	}

	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if err != nil {
		s.log.Error("Failed to load session user", zap.Error(err), zap.String("user_id", session.UserID.String()))
		return nil, fmt.Errorf("failed to verify session")
	}
	if user == nil || !user.IsActive {
		return nil, unauthorized("invalid session")
	}

	return user, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	if err := s.repo.Session.Deactivate(ctx, token); err != nil {
		s.log.Error("Failed to logout", zap.Error(err), zap.String("token", utils.TokenPrefix(token)))
		return fmt.Errorf("failed to logout")
	}

	s.log.Info("Session ended", zap.String("token", utils.TokenPrefix(token)))
	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get profile")
	}
	if user == nil {
		return nil, notFound("user")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update profile")
	}
	if user == nil {
		return nil, notFound("user")
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	user.UpdatedAt = s.now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update profile")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, meta ClientMeta) (*entity.Session, error) {
	token, err := utils.GenerateSessionToken()
	if err != nil {
		s.log.Error("Failed to generate session token", zap.Error(err))
		return nil, fmt.Errorf("failed to create session")
	}

	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     token,
		UserAgent: optional(meta.UserAgent),
		IPAddress: optional(meta.IPAddress),
		IsActive:  true,
		ExpiresAt: now.Add(s.config.Session.TTL()),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	return session, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
