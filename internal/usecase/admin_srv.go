package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freelance-booking/internal/data/entity"
	"freelance-booking/internal/data/repository"
	"freelance-booking/internal/dto/request"
	"freelance-booking/internal/dto/response"
	"freelance-booking/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// adminTokenType separates admin tokens from any other JWT signed with the
// same secret.
const adminTokenType = "admin"

type AdminService interface {
	Login(ctx context.Context, req *request.AdminLoginRequest) (*response.AdminAuthResponse, error)
	Authenticate(ctx context.Context, token string) (*entity.Admin, error)
	CreateAdmin(ctx context.Context, email, name, password string) (*entity.Admin, error)
}

type adminService struct {
	adminRepo repository.AdminRepository
	config    *utils.Config
	log       *zap.Logger
	now       func() time.Time
}

func NewAdminService(adminRepo repository.AdminRepository, config *utils.Config, log *zap.Logger) AdminService {
	return &adminService{
		adminRepo: adminRepo,
		config:    config,
		log:       log.With(zap.String("service", "admin")),
		now:       time.Now,
	}
}

func (s *adminService) Login(ctx context.Context, req *request.AdminLoginRequest) (*response.AdminAuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}
	if s.config.JWT.Secret == "" {
		s.log.Error("JWT_SECRET is not set, admin login disabled")
		return nil, fmt.Errorf("admin login unavailable")
	}

	admin, err := s.adminRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		s.log.Error("Failed to find admin", zap.Error(err))
		return nil, fmt.Errorf("failed to find admin")
	}
	if admin == nil {
		utils.CheckPasswordHash(req.Password, dummyHash())
		return nil, unauthorized("invalid credentials")
	}
	if !utils.CheckPasswordHash(req.Password, admin.PasswordHash) || !admin.IsActive {
		s.log.Warn("Admin login failed", zap.String("admin_id", admin.ID.String()))
		return nil, unauthorized("invalid credentials")
	}

	now := s.now()
	expiresAt := now.Add(s.config.JWT.TTL())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": admin.ID.String(),
		"typ": adminTokenType,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		s.log.Error("Failed to sign admin token", zap.Error(err))
		return nil, fmt.Errorf("failed to issue token")
	}

	if err := s.adminRepo.TouchLastLogin(ctx, admin.ID, now); err != nil {
		// not fatal, the token is already issued
		s.log.Warn("Failed to record admin login", zap.Error(err))
	} else {
		admin.LastLogin = &now
	}

	s.log.Info("Admin logged in", zap.String("admin_id", admin.ID.String()))

	return &response.AdminAuthResponse{
		Admin:     response.AdminToResponse(admin),
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate accepts only unexpired HS256 tokens typed "admin" whose
// subject is an active admin.
func (s *adminService) Authenticate(ctx context.Context, tokenString string) (*entity.Admin, error) {
	if tokenString == "" || s.config.JWT.Secret == "" {
		return nil, unauthorized("admin token required")
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWT.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, unauthorized("invalid admin token")
	}
	if claims["typ"] != adminTokenType {
		return nil, unauthorized("invalid token type")
	}

	sub, _ := claims["sub"].(string)
	adminID, err := uuid.Parse(sub)
	if err != nil {
		return nil, unauthorized("invalid admin token")
	}

	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		s.log.Error("Failed to load admin", zap.Error(err), zap.String("admin_id", adminID.String()))
		return nil, fmt.Errorf("failed to authenticate admin")
	}
	if admin == nil || !admin.IsActive {
		return nil, unauthorized("invalid admin token")
	}

	return admin, nil
}

// CreateAdmin is used by the CLI. There is no default admin password.
func (s *adminService) CreateAdmin(ctx context.Context, email, name, password string) (*entity.Admin, error) {
	email = normalizeEmail(email)
	fields := map[string]string{}
	if !utils.IsBasicEmail(email) {
		fields["email"] = "Invalid email format"
	}
	if len(password) < 12 {
		fields["password"] = "Minimum length is 12"
	}
	if len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to process password")
	}

	now := s.now()
	admin := &entity.Admin{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		IsActive:     true,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("admin %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.log.Info("Admin created", zap.String("admin_id", admin.ID.String()))
	return admin, nil
}
