package cmd

import (
	"errors"
	"fmt"
	"os"

	"freelance-booking/internal/data/repository"
	"freelance-booking/internal/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const adminPasswordEnv = "ADMIN_PASSWORD"

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage studio admin accounts",
	}
	cmd.AddCommand(adminCreateCmd())
	return cmd
}

func adminCreateCmd() *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Long: `Create an admin account. The password is read from the ADMIN_PASSWORD
environment variable so it never lands in shell history.

Example:
  ADMIN_PASSWORD='a-long-passphrase' freelance-booking admin create --email owner@studio.dev --name Owner`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv(adminPasswordEnv)
			if password == "" {
				return fmt.Errorf("%s must be set", adminPasswordEnv)
			}

			rt, err := bootstrap("admin")
			if err != nil {
				return err
			}
			defer rt.close()

			db, err := rt.connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			repos := repository.NewRepository(db, rt.logger)
			admins := usecase.NewAdminService(repos.Admin, rt.config, rt.logger)

			admin, err := admins.CreateAdmin(cmd.Context(), email, name, password)
			if err != nil {
				if fields := usecase.ValidationFields(err); fields != nil {
					return fmt.Errorf("invalid input: %v", fields)
				}
				if errors.Is(err, usecase.ErrConflict) {
					return fmt.Errorf("admin %s already exists", email)
				}
				return err
			}

			rt.logger.Info("Admin created", zap.String("admin_id", admin.ID.String()), zap.String("email", admin.Email))
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (%s)\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
