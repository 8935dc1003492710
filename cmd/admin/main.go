package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/logging"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/reference"
	"complaintdesk/backend/internal/storage"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type app struct {
	log *logrus.Logger
	db  *gorm.DB
}

func (a *app) connect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	a.log = logging.New("complaintdesk-admin", cfg.LogLevel)
	a.db, err = storage.Open(cfg, a.log)
	return err
}

func (a *app) users() *reference.UserService {
	// No redis needed for admin CLI
	return reference.NewUserService(storage.NewStorageService(a.db, nil), a.log)
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:               "admin",
		Short:             "Complaint desk administration",
		SilenceUsage:      true,
		PersistentPreRunE: a.connect,
	}
	root.AddCommand(a.migrateCmd(), a.seedCmd(), a.createUserCmd(), a.setRoleCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := storage.Migrate(a.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations complete.")
			return nil
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default areas and complaint types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := storage.Seed(cmd.Context(), a.db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d rows.\n", n)
			return nil
		},
	}
}

func (a *app) createUserCmd() *cobra.Command {
	var in reference.CreateUserInput
	var role string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Role = models.Role(role)
			u, err := a.users().Create(cmd.Context(), reference.Bootstrap, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d (%s) created with role %s.\n", u.ID, u.Email, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "one of "+roleList())
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) setRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <email> <role>",
		Short: "Change the role of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store := storage.NewStorageService(a.db, nil)
			u, err := store.GetUserByEmail(ctx, strings.ToLower(args[0]))
			if err != nil {
				return fmt.Errorf("user %s: %w", args[0], err)
			}
			role := models.Role(args[1])
			updated, err := a.users().Update(ctx, reference.Bootstrap, u.ID, reference.UpdateUserInput{Role: &role})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s now has role %s.\n", updated.Email, updated.Role)
			return nil
		},
	}
}

func roleList() string {
	names := make([]string, len(models.Roles))
	for i, r := range models.Roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
