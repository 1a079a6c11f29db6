package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/project-task-api/internal/config"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/services"
)

var (
	promoteEmail string
	promoteRole  string
)

// promoteCmd is the only way to create the first admin.
var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Change a user's role",
	RunE:  runPromote,
}

func init() {
	promoteCmd.Flags().StringVar(&promoteEmail, "email", "", "Email of the user to change")
	promoteCmd.Flags().StringVar(&promoteRole, "role", constants.RoleAdmin, "Role to assign (usuario or admin)")
	_ = promoteCmd.MarkFlagRequired("email")
}

func runPromote(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close(db)

	users := services.NewUserService(repository.NewUserRepository(db), nil, cfg.Auth.BcryptCost)
	if err := users.SetRole(promoteEmail, promoteRole); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", promoteEmail, promoteRole)
	return nil
}
