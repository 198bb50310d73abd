package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ulabox-report/pkg/loader"
	"ulabox-report/pkg/logging"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the orders for out-of-range values",
	Long: `Load the orders and report rows whose weekday, hour, discount or category
shares fall outside the ranges the report assumes. Nothing is repaired.

Example:
  ulabox-report validate --file ulabox_orders_with_categories_partials_2017.csv --strict`,
	RunE: runValidate,
}

func init() {
	addSourceFlags(validateCmd)
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false,
		"exit with an error when any issue is found")
}

func runValidate(cmd *cobra.Command, args []string) error {
	applySourceFlags()
	if err := cfg.Validate(); err != nil {
		return err
	}

	orders, err := loadOrders(cmd.Context(), false)
	if err != nil {
		return err
	}

	issues := loader.CheckRanges(orders)
	out := cmd.OutOrStdout()
	for _, issue := range issues {
		fmt.Fprintln(out, issue)
	}
	fmt.Fprintf(out, "%d orders checked, %d issues found\n", orders.Len(), len(issues))
	logging.Info().Str("source", orders.Source()).Int("issues", len(issues)).Msg("Validation complete")

	if validateStrict && len(issues) > 0 {
		return fmt.Errorf("%d orders out of range", len(issues))
	}
	return nil
}
