package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run store migrations and exit",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().String("driver", "", "store driver (overrides store.driver)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	if driver, _ := cmd.Flags().GetString("driver"); driver != "" {
		cfg.Store.Driver = driver
	}

	logger := newLogger(cfg)

	st, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate %s store: %w", cfg.Store.Driver, err)
	}
	logger.Info("migrations applied", slog.String("driver", cfg.Store.Driver))
	return nil
}
