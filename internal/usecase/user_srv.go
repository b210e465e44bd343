package usecase

import (
	"context"
	"fmt"
	"time"

	"freelance-booking/internal/data/repository"
	"freelance-booking/internal/dto/request"
	"freelance-booking/internal/dto/response"
	"freelance-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService is the admin side of client accounts.
type UserService interface {
	ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	GetUser(ctx context.Context, id uuid.UUID) (*response.ClientDetailResponse, error)
	SetUserActive(ctx context.Context, id uuid.UUID, req *request.SetUserActiveRequest) (*response.UserResponse, error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
		now:  time.Now,
	}
}

func (us *userService) ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	users, err := us.repo.User.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		us.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.Limit()),
		)
		return nil, fmt.Errorf("failed to get users")
	}

	total, err := us.repo.User.CountAll(ctx)
	if err != nil {
		us.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("failed to count users")
	}

	out := make([]response.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, response.UserToResponse(user))
	}

	return response.NewPaginatedResponse(out, req.Page, req.Limit(), total), nil
}

// GetUser returns the account with the bookings and projects filed under
// its email.
func (us *userService) GetUser(ctx context.Context, id uuid.UUID) (*response.ClientDetailResponse, error) {
	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("failed to get user")
	}
	if user == nil {
		return nil, notFound("user")
	}

	projects, err := us.repo.Project.FindByClientEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user projects")
	}

	bookings, err := us.repo.Booking.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bookings")
	}

	return &response.ClientDetailResponse{
		User:     response.UserToResponse(user),
		Projects: response.ProjectsToResponse(projects),
		Bookings: response.BookingsToResponse(bookings),
	}, nil
}

// SetUserActive toggles login for an account. Deactivating also ends every
// open session in the same transaction.
func (us *userService) SetUserActive(ctx context.Context, id uuid.UUID, req *request.SetUserActiveRequest) (*response.UserResponse, error) {
	if fields := utils.ValidateStruct(req); len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	var result response.UserResponse
	err := us.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return notFound("user")
		}

		user.IsActive = *req.Active
		user.UpdatedAt = us.now()
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}

		if !user.IsActive {
			if err := tx.Session.DeactivateAllUserSessions(ctx, user.ID); err != nil {
				return err
			}
		}

		result = response.UserToResponse(user)
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		us.log.Error("Failed to update user status", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("failed to update user")
	}

	us.log.Info("User status changed", zap.String("user_id", id.String()), zap.Bool("active", result.IsActive))
	return &result, nil
}
