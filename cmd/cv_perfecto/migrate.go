package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-perfecto/internal/db"
	"github.com/jonathan/cv-perfecto/internal/logger"
)

var migratePrint bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if migratePrint {
			fmt.Fprint(cmd.OutOrStdout(), db.Schema())
			return nil
		}
		if appConfig.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}

		database, err := db.Connect(cmd.Context(), appConfig.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.Migrate(cmd.Context()); err != nil {
			return err
		}
		logger.Info().Msg("schema applied")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migratePrint, "print", false, "Print the schema instead of applying it")
	rootCmd.AddCommand(migrateCmd)
}
