package main

import (
	"time"

	"github.com/sangkips/invoicing-api/internal/infrastructure/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample invoices into an empty database",
	Example: `  # Migrate then seed a local SQLite database
  DB_DRIVER=sqlite DB_SQLITE_PATH=invoices.db invoicing-api seed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication()
		if err != nil {
			return err
		}
		defer app.close()

		if err := database.AutoMigrate(app.db, app.log); err != nil {
			return err
		}

		loaded, err := app.sampleData.Load(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		app.log.Info("seed finished", zap.Bool("loaded", loaded))
		return nil
	},
}
