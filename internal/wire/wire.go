package wire

import (
	"context"
	"net/http"

	"freelance-booking/internal/adaptor"
	"freelance-booking/internal/data/repository"
	"freelance-booking/internal/events"
	"freelance-booking/internal/usecase"
	"freelance-booking/pkg/middleware"
	"freelance-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Infra carries the outside systems the services talk to. Publisher may be
// nil; Guard may be a nil *cache.DeliveryGuard.
type Infra struct {
	DB        Pinger
	Gateway   usecase.PaymentGateway
	Guard     usecase.DeliveryGuard
	Publisher events.Publisher
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// guards are the two auth middlewares shared by the route groups.
type guards struct {
	session func(http.Handler) http.Handler
	admin   func(http.Handler) http.Handler
}

// Wiring menginisialisasi semua dependencies
func Wiring(repo *repository.Repository, infra Infra, config *utils.Config, logger *zap.Logger) *App {
	publisher := usecase.NewEventPublisher(infra.Publisher, config.Kafka.EventsTopic, logger)
	service := usecase.NewService(repo, infra.Gateway, infra.Guard, publisher, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, service, infra.DB, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	db Pinger,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins...))

	g := guards{
		session: middleware.AuthSession(service.Auth, logger),
		admin:   middleware.AdminAuth(service.Admin, logger),
	}

	wireAuth(r, handler.Auth, handler.Admin, g)
	wireBooking(r, handler.Booking, g)
	wirePayment(r, handler.Payment, g)
	wireProject(r, handler.Project, g)
	wireDashboard(r, handler.Dashboard, handler.Inbox, g)
	wireUser(r, handler.User, g)

	r.Get("/health", health(db, logger))

	return r
}

// health reports 503 when the database is unreachable.
func health(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			utils.ResponseSuccess(w, "OK", nil)
			return
		}
		if err := db.Ping(r.Context()); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "database unavailable", nil, nil)
			return
		}
		utils.ResponseSuccess(w, "OK", nil)
	}
}
