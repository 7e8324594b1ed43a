package main

import (
	"ecomarket/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()
		defer log.Sync()

		return database.RunMigrations(db.DB(), migrationsDir, log)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()
		defer log.Sync()

		return database.GetMigrationStatus(db.DB(), migrationsDir)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}
