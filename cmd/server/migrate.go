package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/yukikurage/project-task-api/internal/config"
	"github.com/yukikurage/project-task-api/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and secondary indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}

		db, err := database.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Printf("migrations applied")
		return nil
	},
}
