package usecase

import (
	"context"
	"fmt"

	"freelance-booking/internal/data/entity"
	"freelance-booking/internal/data/repository"
	"freelance-booking/internal/dto/response"
	"freelance-booking/internal/gateway/paystack"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recentPaymentsLimit = 10

type DashboardService interface {
	ClientDashboard(ctx context.Context, sessionToken string) (*response.ClientDashboardResponse, error)
	ClientProjectUpdates(ctx context.Context, userID, projectID uuid.UUID) ([]response.ProjectUpdateResponse, error)
	AdminDashboard(ctx context.Context) (*response.AdminDashboardResponse, error)
}

type dashboardService struct {
	repo *repository.Repository
	auth AuthService
	log  *zap.Logger
}

func NewDashboardService(repo *repository.Repository, auth AuthService, log *zap.Logger) DashboardService {
	return &dashboardService{
		repo: repo,
		auth: auth,
		log:  log.With(zap.String("service", "dashboard")),
	}
}

// ClientDashboard aggregates everything tied to the session's user. Projects,
// bookings and payments are matched by email so rows created before the
// account was claimed are included.
func (s *dashboardService) ClientDashboard(ctx context.Context, sessionToken string) (*response.ClientDashboardResponse, error) {
	// 1. Resolve the session
	user, err := s.auth.Verify(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	// 2. Load owned rows
	projects, err := s.repo.Project.FindByClientEmail(ctx, user.Email)
	if err != nil {
		s.log.Error("Failed to load projects", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	bookings, err := s.repo.Booking.FindByEmail(ctx, user.Email)
	if err != nil {
		s.log.Error("Failed to load bookings", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	payments, err := s.repo.PaymentLog.FindByCustomerEmail(ctx, user.Email)
	if err != nil {
		s.log.Error("Failed to load payments", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	unread, err := s.repo.Message.CountUnread(ctx, user.ID)
	if err != nil {
		s.log.Error("Failed to count unread messages", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	// 3. Stats
	return &response.ClientDashboardResponse{
		User:           response.UserToResponse(user),
		Projects:       response.ProjectsToResponse(projects),
		Bookings:       response.BookingsToResponse(bookings),
		PaymentLogs:    response.PaymentLogsToResponse(payments),
		UnreadMessages: unread,
		Stats:          clientStats(projects, bookings, payments),
	}, nil
}

func clientStats(projects []*entity.Project, bookings []*entity.Booking, payments []*entity.PaymentLog) response.DashboardStats {
	stats := response.DashboardStats{
		TotalProjects: len(projects),
		TotalBookings: len(bookings),
	}
	for _, p := range projects {
		switch {
		case p.Status.Active():
			stats.ActiveProjects++
		case p.Status == entity.ProjectStatusCompleted:
			stats.CompletedProjects++
		}
	}
	for _, b := range bookings {
		if b.PaymentStatus != entity.PaymentStatusCompleted {
			stats.PendingPayments++
		}
	}
	for _, p := range payments {
		if p.Status == paystack.StatusSuccess {
			stats.TotalSpent += p.Amount
		}
	}
	return stats
}

func (s *dashboardService) ClientProjectUpdates(ctx context.Context, userID, projectID uuid.UUID) ([]response.ProjectUpdateResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list project updates")
	}
	if user == nil {
		return nil, unauthorized("invalid session")
	}

	project, err := s.repo.Project.FindByID(ctx, projectID)
	if err != nil {
		s.log.Error("Failed to load project", zap.Error(err), zap.String("project_id", projectID.String()))
		return nil, fmt.Errorf("failed to list project updates")
	}
	// another client's project reads as missing
	if project == nil || project.ClientEmail != user.Email {
		return nil, notFound("project")
	}

	updates, err := s.repo.ProjectUpdate.FindByProjectID(ctx, projectID, true)
	if err != nil {
		s.log.Error("Failed to list project updates", zap.Error(err), zap.String("project_id", projectID.String()))
		return nil, fmt.Errorf("failed to list project updates")
	}

	return response.ProjectUpdatesToResponse(updates), nil
}

func (s *dashboardService) AdminDashboard(ctx context.Context) (*response.AdminDashboardResponse, error) {
	bookingCounts, err := s.repo.Booking.CountByPaymentStatus(ctx)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	projectCounts, err := s.repo.Project.CountByStatus(ctx)
	if err != nil {
		s.log.Error("Failed to count projects", zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	users, err := s.repo.User.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	revenue, paid, err := s.repo.PaymentLog.Revenue(ctx)
	if err != nil {
		s.log.Error("Failed to sum revenue", zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	recent, err := s.repo.PaymentLog.FindAll(ctx, recentPaymentsLimit, 0)
	if err != nil {
		s.log.Error("Failed to load recent payments", zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	resp := &response.AdminDashboardResponse{
		BookingsByStatus: make(map[string]int64, len(bookingCounts)),
		ProjectsByStatus: make(map[string]int64, len(projectCounts)),
		TotalUsers:       users,
		TotalRevenue:     revenue,
		PaidTransactions: paid,
		RecentPayments:   response.PaymentLogsToResponse(recent),
	}
	for status, n := range bookingCounts {
		resp.BookingsByStatus[string(status)] = n
	}
	for status, n := range projectCounts {
		resp.ProjectsByStatus[string(status)] = n
	}

	return resp, nil
}
