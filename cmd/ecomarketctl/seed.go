package main

import (
	"ecomarket/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedMigrate bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter categories and products",
	Long: `seed upserts three categories and five published products. Running it
again is harmless: categories are matched by name and products by sku.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()
		defer log.Sync()

		if seedMigrate {
			if err := database.RunMigrations(db.DB(), migrationsDir, log); err != nil {
				return err
			}
		}

		if err := database.Seed(cmd.Context(), db.DB(), log); err != nil {
			log.Error("Seeding failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedMigrate, "migrate", false, "apply pending migrations before seeding")
}
