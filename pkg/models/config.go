package models

import "fmt"

/*
CONFIG → cohort thresholds used across the report. All comparisons are inclusive.
*/

// Thresholds defines the named cohorts of the report.
type Thresholds struct {
	FrequentOrders   int     `mapstructure:"frequent_orders"`   // customers with ≥ this many orders
	InfrequentOrders int     `mapstructure:"infrequent_orders"` // customers with ≤ this many orders
	HighDiscount     float64 `mapstructure:"high_discount"`     // orders with discount% ≥ this
	FreeDiscount     float64 `mapstructure:"free_discount"`     // orders with discount% ≥ this count as free
	FreeloaderOrders int     `mapstructure:"freeloader_orders"` // customers with ≥ this many free orders
}

// DefaultThresholds are the cut-offs chosen in the Ulabox analysis.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FrequentOrders:   6,
		InfrequentOrders: 2,
		HighDiscount:     40,
		FreeDiscount:     100,
		FreeloaderOrders: 3,
	}
}

// Validate checks the thresholds describe non-overlapping customer cohorts.
func (t Thresholds) Validate() error {
	if t.InfrequentOrders < 1 {
		return fmt.Errorf("infrequent_orders must be at least 1")
	}
	if t.FrequentOrders <= t.InfrequentOrders {
		return fmt.Errorf("frequent_orders (%d) must exceed infrequent_orders (%d)",
			t.FrequentOrders, t.InfrequentOrders)
	}
	if t.HighDiscount < 0 || t.HighDiscount > 100 {
		return fmt.Errorf("high_discount must be within [0, 100]")
	}
	if t.FreeDiscount < t.HighDiscount || t.FreeDiscount > 100 {
		return fmt.Errorf("free_discount must be within [high_discount, 100]")
	}
	if t.FreeloaderOrders < 1 {
		return fmt.Errorf("freeloader_orders must be at least 1")
	}
	return nil
}

// Config contains the parameters passed to calculator.Run.
type Config struct {
	Thresholds  Thresholds
	Percentiles []float64 // reported on the orders-per-customer distribution
}
