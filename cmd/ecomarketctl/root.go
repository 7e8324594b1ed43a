package main

import (
	"fmt"
	"os"

	"ecomarket/internal/config"
	"ecomarket/internal/database"
	"ecomarket/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrationsDir string

var rootCmd = &cobra.Command{
	Use:   "ecomarketctl",
	Short: "Operator tooling for the EcoMarket storefront",
	Long: `ecomarketctl manages the EcoMarket database: applying schema migrations
and loading the starter catalog. Connection settings come from .env and the
environment, exactly as for the API server.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations", database.DefaultMigrationsDir, "directory holding the goose migration files")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// openDatabase loads configuration and returns a verified pool with the
// logger built for the configured environment.
func openDatabase() (database.Service, *zap.Logger, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	if health := db.Health(); health["status"] != "up" {
		_ = db.Close()
		return nil, nil, fmt.Errorf("database unavailable: %s", health["error"])
	}

	return db, log, nil
}
