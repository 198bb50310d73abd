package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ulabox-report/pkg/generator"
	"ulabox-report/pkg/logging"
)

var (
	genOrders    int
	genCustomers int
	genSeed      uint64
	genFreeShare float64
	genOut       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic orders CSV",
	Long: `Generate a synthetic dataset shaped like the Ulabox sample: skewed order
counts per customer, weekday and hour peaks, category shares summing to 100
and a handful of free orders. The same seed always produces the same file.

Example:
  ulabox-report generate --orders 30000 --customers 10000 --seed 2017 --out orders.csv`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&genOrders, "orders", 0,
		"number of orders")
	generateCmd.Flags().IntVar(&genCustomers, "customers", 0,
		"number of distinct customers")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0,
		"random seed")
	generateCmd.Flags().Float64Var(&genFreeShare, "free-share", -1,
		"fraction of orders given away at 100% discount")
	generateCmd.Flags().StringVar(&genOut, "out", "",
		"output CSV path")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if genOrders > 0 {
		cfg.Generate.Orders = genOrders
	}
	if genCustomers > 0 {
		cfg.Generate.Customers = genCustomers
	}
	if cmd.Flags().Changed("seed") {
		cfg.Generate.Seed = genSeed
	}
	if genFreeShare >= 0 {
		cfg.Generate.FreeShare = genFreeShare
	}
	if genOut != "" {
		cfg.Generate.Out = genOut
	}

	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}

	orders, err := generator.Generate(generator.Config{
		Orders:    cfg.Generate.Orders,
		Customers: cfg.Generate.Customers,
		Seed:      cfg.Generate.Seed,
		FreeShare: cfg.Generate.FreeShare,
	})
	if err != nil {
		return err
	}
	if err := generator.WriteFile(cfg.Generate.Out, orders); err != nil {
		return err
	}

	logging.Info().
		Str("out", cfg.Generate.Out).
		Int("orders", len(orders)).
		Int("customers", cfg.Generate.Customers).
		Uint64("seed", cfg.Generate.Seed).
		Msg("Orders generated")
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d orders to %s\n", len(orders), cfg.Generate.Out)
	return nil
}
