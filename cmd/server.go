package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"freelance-booking/internal/cache"
	"freelance-booking/internal/data/repository"
	"freelance-booking/internal/events"
	"freelance-booking/internal/gateway/paystack"
	"freelance-booking/internal/wire"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap("api")
			if err != nil {
				return err
			}
			defer rt.close()

			if port == "" {
				port = rt.config.App.Port
			}
			return runServe(cmd.Context(), rt, port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default from PORT)")
	return cmd
}

func runServe(parent context.Context, rt *runtime, port string) error {
	ctx, stop := signal.NotifyContext(contextOrBackground(parent), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := rt.connectDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := repository.NewRepository(db, rt.logger)

	guard := cache.NewDeliveryGuard(rt.config.Redis, cache.DefaultDeliveryTTL)
	if err := guard.Ping(ctx); err != nil {
		// webhooks still dedupe through the database
		rt.logger.Warn("Redis unavailable, webhook delivery guard disabled", zap.Error(err))
		guard.Close()
		guard = nil
	}
	defer guard.Close()

	var publisher events.Publisher = events.Noop{}
	if len(rt.config.Kafka.Brokers) > 0 {
		publisher = events.NewProducer(rt.config.Kafka.Brokers, rt.logger)
	} else {
		rt.logger.Info("KAFKA_BROKERS not set, lifecycle events are dropped")
	}
	defer publisher.Close()

	gateway := paystack.NewClient(rt.config.Paystack)
	if !gateway.Configured() {
		rt.logger.Warn("PAYSTACK_SECRET_KEY not set, payment endpoints will fail")
	}

	app := wire.Wiring(repos, wire.Infra{
		DB:        db,
		Gateway:   gateway,
		Guard:     guard,
		Publisher: publisher,
	}, rt.config, rt.logger)

	return APIServer(ctx, app.Router, port, rt.logger)
}

// APIServer serves until ctx is cancelled, then drains in-flight requests.
func APIServer(ctx context.Context, route *chi.Mux, port string, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           route,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
