package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"freelance-booking/pkg/database"
	"freelance-booking/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "freelance-booking",
	Short:         "Booking, payment and project tracking API for a freelance studio",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(workerCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(adminCmd())
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtime is what every subcommand needs before doing its own work.
type runtime struct {
	config *utils.Config
	logger *zap.Logger
}

func bootstrap(component string) (*runtime, error) {
	config, err := utils.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App, component)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}

	logger.Info("Starting "+component, zap.Bool("debug", config.App.Debug))

	return &runtime{config: config, logger: logger}, nil
}

func (rt *runtime) connectDB(ctx context.Context) (database.PgxIface, error) {
	db, err := database.InitDB(contextOrBackground(ctx), rt.config.Database)
	if err != nil {
		rt.logger.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}
	rt.logger.Info("Database connected successfully")
	return db, nil
}

func (rt *runtime) close() {
	_ = rt.logger.Sync()
}
