package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"freelance-booking/internal/data/repository"
	"freelance-booking/internal/events"
	"freelance-booking/internal/notify"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Email clients on lifecycle events and sweep expired sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap("worker")
			if err != nil {
				return err
			}
			defer rt.close()

			return runWorker(cmd.Context(), rt)
		},
	}
}

func runWorker(parent context.Context, rt *runtime) error {
	ctx, stop := signal.NotifyContext(contextOrBackground(parent), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := rt.connectDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := repository.NewRepository(db, rt.logger)
	g, ctx := errgroup.WithContext(ctx)

	if len(rt.config.Kafka.Brokers) > 0 {
		consumer := events.NewConsumer(rt.config.Kafka.Brokers, rt.config.Kafka.GroupID, rt.config.Kafka.EventsTopic, rt.logger)
		defer consumer.Close()

		dispatcher := notify.NewDispatcher(notify.NewMailer(rt.config.Email, rt.logger), rt.config.Email.AdminEmail, rt.logger)
		g.Go(func() error {
			rt.logger.Info("Consuming lifecycle events", zap.String("topic", rt.config.Kafka.EventsTopic))
			return consumer.Consume(ctx, dispatcher.Handle)
		})
	} else {
		rt.logger.Warn("KAFKA_BROKERS not set, event consumer disabled")
	}

	interval := time.Duration(rt.config.Worker.SweepMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	g.Go(func() error {
		sweepSessions(ctx, repos.Session, interval, rt.logger)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	rt.logger.Info("Worker stopped")
	return nil
}

// sweepSessions deletes long-expired sessions on every tick until ctx ends.
func sweepSessions(ctx context.Context, sessions repository.SessionRepository, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Warn("Session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Expired sessions removed", zap.Int64("count", n))
			}
		}
	}
}
