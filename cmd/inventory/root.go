package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/seorin-lab/cosmetic-inventory/internal/config"
	"github.com/seorin-lab/cosmetic-inventory/internal/domain/formulas"
	"github.com/seorin-lab/cosmetic-inventory/internal/domain/materials"
	"github.com/seorin-lab/cosmetic-inventory/internal/domain/production"
	"github.com/seorin-lab/cosmetic-inventory/internal/domain/transactions"
	infradb "github.com/seorin-lab/cosmetic-inventory/internal/infra/db"
	"github.com/seorin-lab/cosmetic-inventory/internal/infra/logger"
	"github.com/seorin-lab/cosmetic-inventory/migrations"
)

var flagConfig string

// Shared state for subcommands, set up by PersistentPreRunE.
var (
	cfg      config.Config
	log      *slog.Logger
	sqlDB    *sql.DB
	matRepo  *materials.Repo
	formRepo *formulas.Repo
	txRepo   *transactions.Repo
	prodRepo *production.Repo
)

var rootCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Raw-material inventory and production tracking for the cosmetics lab",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		log = logger.New(cfg.App.Env)

		ctx := context.Background()
		sqlDB, err = infradb.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return err
		}
		// Table presence is guaranteed on every startup; a failure here is fatal.
		if err := migrations.Up(sqlDB); err != nil {
			return err
		}

		allowNeg := cfg.Inventory.AllowNegativeStock
		matRepo = materials.NewRepo(sqlDB)
		formRepo = formulas.NewRepo(sqlDB)
		txRepo = transactions.NewRepo(sqlDB, allowNeg)
		prodRepo = production.NewRepo(sqlDB, allowNeg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "config/example.yaml", "path to yaml config")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(stockCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(produceCmd)
	rootCmd.AddCommand(excelCmd)
}
