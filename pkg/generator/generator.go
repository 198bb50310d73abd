// Package generator produces synthetic Ulabox-shaped order data for demos and tests.
package generator

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"

	"ulabox-report/pkg/models"
)

// Config sizes a generated dataset.
type Config struct {
	Orders    int
	Customers int
	Seed      uint64
	FreeShare float64 // fraction of orders given away, on top of the freeloader's
}

// DefaultConfig matches the size of the 2017 Ulabox sample.
func DefaultConfig() Config {
	return Config{Orders: 30000, Customers: 10239, Seed: 2017, FreeShare: 0.003}
}

// Validate checks the dataset can hold one order per customer plus the freeloader's extra orders.
func (c Config) Validate() error {
	if c.Customers < 1 {
		return fmt.Errorf("customers must be at least 1")
	}
	if c.Orders < c.Customers+freeloaderOrders-1 {
		return fmt.Errorf("orders (%d) must be at least customers + %d", c.Orders, freeloaderOrders-1)
	}
	if c.FreeShare < 0 || c.FreeShare > 1 {
		return fmt.Errorf("free share must be within [0, 1]")
	}
	return nil
}

// freeloaderOrders is how many orders customer "0" places, all at 100% off.
const freeloaderOrders = 4

// Rough shape of the real data: busy Sundays and Mondays, lunch and late-evening peaks.
var (
	weekdayWeights = []float32{17, 15, 14, 13, 12, 12, 17}
	hourWeights    = []float32{
		4, 2, 1, 1, 1, 1, 2, 4, 6, 8, 10, 11,
		11, 10, 8, 7, 7, 7, 8, 9, 10, 11, 12, 8,
	}
	// probability each category appears in a basket
	categoryPresence = [models.NumCategories]float64{0.9, 0.5, 0.8, 0.6, 0.4, 0.3, 0.25, 0.15}
)

// Generate builds cfg.Orders orders. The same seed always yields the same rows.
func Generate(cfg Config) ([]models.Order, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := gofakeit.New(cfg.Seed)

	// every customer orders once; the rest go to a skewed few
	owners := make([]int, 0, cfg.Orders)
	for c := 0; c < cfg.Customers; c++ {
		owners = append(owners, c)
	}
	for i := 1; i < freeloaderOrders; i++ {
		owners = append(owners, 0)
	}
	for len(owners) < cfg.Orders {
		u := f.Float64()
		c := int(math.Pow(u, 3) * float64(cfg.Customers))
		if c >= cfg.Customers {
			c = cfg.Customers - 1
		}
		if c == 0 && cfg.Customers > 1 {
			continue
		}
		owners = append(owners, c)
	}
	f.ShuffleAnySlice(owners)

	orders := make([]models.Order, cfg.Orders)
	for i, c := range owners {
		o := models.Order{
			ID:         strconv.Itoa(i + 1),
			Customer:   strconv.Itoa(c),
			TotalItems: float64(f.IntRange(1, 60)),
			Categories: basket(f),
		}
		var err error
		if o.Weekday, err = pick(f, weekdayWeights, 1); err != nil {
			return nil, err
		}
		if o.Hour, err = pick(f, hourWeights, 0); err != nil {
			return nil, err
		}
		switch {
		case c == 0 || f.Float64() < cfg.FreeShare:
			o.Discount = 100
		case f.Float64() < 0.3:
			o.Discount = round2(f.Float64Range(0, 60))
		}
		orders[i] = o
	}
	return orders, nil
}

func pick(f *gofakeit.Faker, weights []float32, base int) (int, error) {
	options := make([]any, len(weights))
	for i := range weights {
		options[i] = base + i
	}
	v, err := f.Weighted(options, weights)
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// basket splits an order across categories. Shares are whole hundredths of a percent
// and sum to exactly 100; the rounding residue goes to the largest share.
func basket(f *gofakeit.Faker) [models.NumCategories]float64 {
	var weights [models.NumCategories]float64
	var total float64
	for c, p := range categoryPresence {
		if f.Float64() < p {
			w := f.Float64Range(0.05, 1)
			weights[c] = w * w
			total += weights[c]
		}
	}
	if total == 0 {
		weights[models.Food], total = 1, 1
	}

	var cents [models.NumCategories]int
	sum, largest := 0, 0
	for c, w := range weights {
		cents[c] = int(math.Round(w / total * 10000))
		sum += cents[c]
		if cents[c] > cents[largest] {
			largest = c
		}
	}
	cents[largest] += 10000 - sum

	var shares [models.NumCategories]float64
	for c, n := range cents {
		shares[c] = float64(n) / 100
	}
	return shares
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

// Header is the column order written by WriteCSV.
func Header() []string {
	h := []string{models.HeaderOrder, models.HeaderCustomer, models.HeaderTotalItems,
		models.HeaderDiscount, models.HeaderWeekday, models.HeaderHour}
	for _, c := range models.Categories {
		h = append(h, c.Column())
	}
	return h
}

// WriteCSV writes orders with the canonical Ulabox header.
func WriteCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	row := make([]string, 0, 6+models.NumCategories)
	for _, o := range orders {
		row = append(row[:0], o.ID, o.Customer, num(o.TotalItems), num(o.Discount),
			strconv.Itoa(o.Weekday), strconv.Itoa(o.Hour))
		for _, c := range models.Categories {
			row = append(row, num(o.Categories[c]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path and writes orders to it as CSV.
func WriteFile(path string, orders []models.Order) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, orders); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
