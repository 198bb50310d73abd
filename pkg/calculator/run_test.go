package calculator

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"ulabox-report/pkg/models"
)

type row struct {
	customer string
	discount float64
	weekday  int
	hour     int
	shares   map[models.Category]float64
}

func fixtureOrders() []models.Order {
	var rows []row
	for d := 1; d <= 6; d++ {
		rows = append(rows, row{"A", 0, d, 10, map[models.Category]float64{models.Fresh: 60, models.Food: 40}})
	}
	rows = append(rows,
		row{"B", 45, 7, 23, map[models.Category]float64{models.Food: 100}},
		row{"C", 10, 1, 22, map[models.Category]float64{models.Drinks: 50, models.Food: 50}},
		row{"C", 10, 1, 22, map[models.Category]float64{models.Drinks: 50, models.Food: 50}},
	)
	for i := 0; i < 3; i++ {
		rows = append(rows, row{"D", 100, 2, 0, map[models.Category]float64{models.Food: 100}})
	}
	for i := 0; i < 3; i++ {
		rows = append(rows, row{"E", 100, 3, 12, map[models.Category]float64{models.Food: 80, models.Drinks: 20}})
	}
	rows = append(rows, row{"E", 0, 3, 12, map[models.Category]float64{models.Home: 100}})

	out := make([]models.Order, len(rows))
	for i, r := range rows {
		o := models.Order{Customer: r.customer, Discount: r.discount, Weekday: r.weekday, Hour: r.hour}
		for c, v := range r.shares {
			o.Categories[c] = v
		}
		out[i] = o
	}
	return out
}

func fixtureConfig() models.Config {
	return models.Config{Thresholds: models.DefaultThresholds(), Percentiles: []float64{25, 50, 90}}
}

func TestRun(t *testing.T) {
	res, err := Run(models.NewTable("fixture", fixtureOrders()), fixtureConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Orders != 16 || res.Source != "fixture" {
		t.Fatalf("orders = %d, source = %q", res.Orders, res.Source)
	}

	if want := [7]int{3, 4, 5, 1, 1, 1, 1}; res.WeekdayCounts != want {
		t.Errorf("weekday counts = %v, want %v", res.WeekdayCounts, want)
	}
	if res.HourCounts[10] != 6 || res.HourCounts[12] != 4 || res.HourCounts[0] != 3 || res.HourCounts[22] != 2 {
		t.Errorf("hour counts = %v", res.HourCounts)
	}
	if res.WeekdayHourCounts[2][12] != 4 || res.WeekdayHourCounts[0][22] != 2 {
		t.Errorf("weekday/hour grid = %v", res.WeekdayHourCounts)
	}
	var segTotal int
	for _, s := range res.Segments {
		segTotal += s.Orders
	}
	if segTotal != 16 {
		t.Errorf("segments cover %d orders, want 16", segTotal)
	}

	d := res.OrdersPerCustomer
	if d.Count != 5 || !approx(d.Mean, 3.2) || d.Max != 6 {
		t.Errorf("orders per customer = %+v", d)
	}
	if p90, _ := d.Percentile(90); !approx(p90, 5.2) {
		t.Errorf("p90 = %v, want 5.2", p90)
	}
	if res.FrequentCustomers != 1 || res.InfrequentCustomers != 2 {
		t.Errorf("frequent = %d, infrequent = %d", res.FrequentCustomers, res.InfrequentCustomers)
	}

	if res.Frequent.Orders != 6 || res.Frequent.Means[models.Fresh] != 60 || res.Frequent.Top() != models.Fresh {
		t.Errorf("frequent share = %+v", res.Frequent)
	}
	if res.Infrequent.Orders != 3 || !approx(res.Infrequent.Means[models.Food], 200.0/3) {
		t.Errorf("infrequent share = %+v", res.Infrequent)
	}
	if res.HighDiscount.Orders != 7 || !approx(res.HighDiscount.Means[models.Food], 640.0/7) {
		t.Errorf("high discount share = %+v", res.HighDiscount)
	}
	if res.Baseline.Orders != 16 {
		t.Errorf("baseline orders = %d", res.Baseline.Orders)
	}
}

func TestFreeOrders(t *testing.T) {
	s := FreeOrders(models.NewTable("fixture", fixtureOrders()), models.DefaultThresholds())
	if s.Instances != 6 || s.Share != 37.5 || s.Customers != 2 || s.MaxPerCustomer != 3 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	want := []Freeloader{
		{Customer: "D", FreeOrders: 3, TotalOrders: 3, AllFree: true},
		{Customer: "E", FreeOrders: 3, TotalOrders: 4, AllFree: false},
	}
	if !reflect.DeepEqual(s.Freeloaders, want) {
		t.Fatalf("freeloaders = %+v, want %+v", s.Freeloaders, want)
	}
}

func TestFreeOrdersNone(t *testing.T) {
	s := FreeOrders(models.NewTable("none", []models.Order{{Customer: "a", Discount: 5}}), models.DefaultThresholds())
	if s.Instances != 0 || s.Share != 0 || len(s.Freeloaders) != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestRunEmptyCohorts(t *testing.T) {
	if _, err := Run(models.NewTable("empty", nil), fixtureConfig()); !errors.Is(err, models.ErrEmptyCohort) {
		t.Fatalf("empty table: got %v", err)
	}

	// nobody reaches six orders
	orders := fixtureOrders()[6:]
	_, err := Run(models.NewTable("no-frequent", orders), fixtureConfig())
	var ece *models.EmptyCohortError
	if !errors.As(err, &ece) {
		t.Fatalf("expected EmptyCohortError, got %v", err)
	}
}

func TestRunRejectsBadThresholds(t *testing.T) {
	cfg := fixtureConfig()
	cfg.Thresholds.FrequentOrders = 1
	if _, err := Run(models.NewTable("fixture", fixtureOrders()), cfg); err == nil {
		t.Fatal("expected threshold validation error")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	tbl := models.NewTable("fixture", fixtureOrders())
	first, err := Run(tbl, fixtureConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Run(tbl, fixtureConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("second run over the same table differs")
	}
}

func TestRunIsOrderIndependent(t *testing.T) {
	orders := fixtureOrders()
	want, err := Run(models.NewTable("fixture", orders), fixtureConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(orders), func(a, b int) { orders[a], orders[b] = orders[b], orders[a] })
		got, err := Run(models.NewTable("fixture", orders), fixtureConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.OrdersPerCustomer.Mean != want.OrdersPerCustomer.Mean ||
			!reflect.DeepEqual(got.OrdersPerCustomer.Percentiles, want.OrdersPerCustomer.Percentiles) {
			t.Fatalf("shuffle %d: orders per customer differ", i)
		}
		if got.Frequent.Means != want.Frequent.Means ||
			got.Infrequent.Means != want.Infrequent.Means ||
			got.HighDiscount.Means != want.HighDiscount.Means ||
			got.Baseline.Means != want.Baseline.Means {
			t.Fatalf("shuffle %d: category means differ", i)
		}
		if got.WeekdayCounts != want.WeekdayCounts || got.HourCounts != want.HourCounts {
			t.Fatalf("shuffle %d: counts differ", i)
		}
		if got.Free.Instances != want.Free.Instances || len(got.Free.Freeloaders) != len(want.Free.Freeloaders) {
			t.Fatalf("shuffle %d: free orders differ", i)
		}
	}
}
