package main

import (
	"github.com/sangkips/invoicing-api/internal/infrastructure/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication()
		if err != nil {
			return err
		}
		defer app.close()

		return database.AutoMigrate(app.db, app.log)
	},
}
