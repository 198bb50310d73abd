package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ulabox-report/pkg/database"
	"ulabox-report/pkg/loader"
	"ulabox-report/pkg/logging"
	"ulabox-report/pkg/models"
)

var (
	srcFile      string
	srcDelimiter string
	srcDSN       string
	srcTable     string
)

// addSourceFlags registers the flags selecting the order source.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&srcFile, "file", "",
		"orders CSV file")
	cmd.Flags().StringVar(&srcDelimiter, "delimiter", "",
		"CSV field separator (default ',')")
	cmd.Flags().StringVar(&srcDSN, "dsn", "",
		"database DSN (mariadb://, mysql:// or postgres://); overrides the CSV file")
	cmd.Flags().StringVar(&srcTable, "table", "",
		"orders table name when loading from a database")
}

// applySourceFlags overrides the configured source. An explicit --file wins over a DSN
// picked up from the config file or environment.
func applySourceFlags() {
	if srcFile != "" {
		cfg.Source.File = srcFile
		if srcDSN == "" {
			cfg.Source.DSN = ""
		}
	}
	if srcDelimiter != "" {
		cfg.Source.Delimiter = srcDelimiter
	}
	if srcDSN != "" {
		cfg.Source.DSN = srcDSN
	}
	if srcTable != "" {
		cfg.Source.Table = srcTable
	}
}

// loadOrders reads the order table from the configured database, or the CSV file otherwise.
func loadOrders(ctx context.Context, progress bool) (*models.Table, error) {
	if cfg.Source.DSN == "" {
		return loader.LoadFile(cfg.Source.File,
			loader.WithDelimiter(cfg.DelimiterRune()),
			loader.WithProgress(progress))
	}

	db, dsnUsed, err := database.Open(cfg.Source.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logging.Debug().Str("dsn", dsnUsed).Msg("Database opened")

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database.LoadOrders(ctx, db, cfg.Source.Table, progress)
}
