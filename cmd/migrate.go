package cmd

import (
	"fmt"

	"freelance-booking/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database schema",
		Long: `Apply the embedded schema in a single transaction. Every statement is
idempotent, so running it against an up-to-date database is a no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				for i, stmt := range database.Statements() {
					fmt.Fprintf(cmd.OutOrStdout(), "-- %d\n%s;\n\n", i+1, stmt)
				}
				return nil
			}

			rt, err := bootstrap("migrate")
			if err != nil {
				return err
			}
			defer rt.close()

			db, err := rt.connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				rt.logger.Error("Migration failed", zap.Error(err))
				return err
			}

			rt.logger.Info("Migration applied", zap.Int("statements", len(database.Statements())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the statements without connecting")
	return cmd
}
