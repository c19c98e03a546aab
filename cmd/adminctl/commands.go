package main

import (
	"context"
	"fmt"

	"ai-coding-assistant-be/internal/config"
	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/model"
	"ai-coding-assistant-be/internal/repository/specification"
	"ai-coding-assistant-be/internal/repository/unitofwork"
	"ai-coding-assistant-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func openDB() (*gorm.DB, error) {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is not set")
	}
	return database.Open(cfg.Database.Driver, cfg.Database.Connection)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(model.All()...); err != nil {
				return fmt.Errorf("automigrate failed: %w", err)
			}
			color.Green("Schema is up to date")
			return nil
		},
	}
}

func grantAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant-admin <email>",
		Short: "Give an existing user the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetRole(cmd, args[0], entity.UserRoleAdmin)
		},
	}
}

func revokeAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-admin <email>",
		Short: "Demote an admin back to a regular user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetRole(cmd, args[0], entity.UserRoleUser)
		},
	}
}

func listAdminsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-admins",
		Short: "Print users holding the stored admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			admins, err := listAdmins(cmd.Context(), unitofwork.NewRepositoryFactory(db))
			if err != nil {
				return err
			}
			if len(admins) == 0 {
				color.Yellow("No stored admins. ADMIN_EMAILS may still grant access.")
				return nil
			}
			for _, u := range admins {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", u.Id, derefString(u.Email))
			}
			return nil
		},
	}
}

func runSetRole(cmd *cobra.Command, email string, role entity.UserRole) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	user, err := setRole(cmd.Context(), unitofwork.NewRepositoryFactory(db), email, role)
	if err != nil {
		color.Red("Failed: %v", err)
		return err
	}
	color.Green("%s is now %s", derefString(user.Email), role)
	return nil
}

// setRole looks the user up by email and stores the new role.
func setRole(ctx context.Context, uowFactory unitofwork.RepositoryFactory, email string, role entity.UserRole) (*entity.User, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	uow := uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("no user with email %q", email)
	}

	if err := uow.UserRepository().UpdateRole(ctx, user.Id, role); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func listAdmins(ctx context.Context, uowFactory unitofwork.RepositoryFactory) ([]*entity.User, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return uowFactory.NewUnitOfWork(ctx).UserRepository().FindAll(ctx,
		specification.ByRole{Role: string(entity.UserRoleAdmin)},
		specification.OrderBy{Field: "created_at"},
	)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
