// Package cli implements the command-line interface for ulabox-report.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ulabox-report/pkg/config"
	"ulabox-report/pkg/logging"
	"ulabox-report/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	logLevel string

	// Global config
	cfg   *config.Config
	runID string

	rootCmd = &cobra.Command{
		Use:   "ulabox-report",
		Short: "Cohort analysis of the Ulabox online grocery orders",
		Long: `ulabox-report loads the Ulabox 2017 order sample, splits it into cohorts
(frequent and infrequent customers, heavily discounted and free orders) and
answers three questions with charts and plain sentences:

  1. When do customers place their orders?
  2. Do frequent customers buy different products than infrequent ones?
  3. What do customers buy when they get a large discount?`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. An interrupt cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./ulabox-report.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(generateCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	runID = uuid.NewString()
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		RunID:  runID,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
