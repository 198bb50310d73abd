package generator

import (
	"bytes"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"ulabox-report/pkg/cohort"
	"ulabox-report/pkg/loader"
	"ulabox-report/pkg/models"
)

func smallConfig() Config {
	return Config{Orders: 500, Customers: 120, Seed: 7, FreeShare: 0.01}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(smallConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Generate(smallConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different orders")
	}

	cfg := smallConfig()
	cfg.Seed = 8
	c, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reflect.DeepEqual(a, c) {
		t.Fatal("different seeds produced identical orders")
	}
}

func TestGenerateShape(t *testing.T) {
	cfg := smallConfig()
	orders, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != cfg.Orders {
		t.Fatalf("got %d orders, want %d", len(orders), cfg.Orders)
	}

	for i, o := range orders {
		if o.Weekday < 1 || o.Weekday > 7 {
			t.Fatalf("order %d: weekday %d", i, o.Weekday)
		}
		if o.Hour < 0 || o.Hour > 23 {
			t.Fatalf("order %d: hour %d", i, o.Hour)
		}
		if o.Discount < 0 || o.Discount > 100 {
			t.Fatalf("order %d: discount %v", i, o.Discount)
		}
		if math.Abs(o.ShareSum()-100) > 1e-9 {
			t.Fatalf("order %d: shares sum to %v", i, o.ShareSum())
		}
		for _, v := range o.Categories {
			if v < 0 || v > 100 {
				t.Fatalf("order %d: share %v", i, v)
			}
		}
	}

	tbl := models.NewTable("generated", orders)
	counts := cohort.CountByCustomer(cohort.All(tbl, ""))
	if counts.Len() != cfg.Customers {
		t.Errorf("got %d customers, want %d", counts.Len(), cfg.Customers)
	}

	th := models.DefaultThresholds()
	var found bool
	for _, r := range cohort.Freeloaders(tbl, th) {
		if r.Customer == "0" {
			found = true
			if r.Count != counts.Count("0") {
				t.Errorf("customer 0 paid for %d orders", counts.Count("0")-r.Count)
			}
		}
	}
	if !found {
		t.Error("customer 0 is not a freeloader")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"no customers", Config{Orders: 10}, true},
		{"too few orders", Config{Orders: 10, Customers: 10}, true},
		{"bad free share", Config{Orders: 20, Customers: 10, FreeShare: 2}, true},
		{"single customer", Config{Orders: 10, Customers: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteCSVLoadsBack(t *testing.T) {
	orders, err := Generate(smallConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, orders); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	tbl, err := loader.Load(&buf, "generated.csv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(tbl.Orders(), orders) {
		t.Fatal("loaded orders differ from generated orders")
	}
	if issues := loader.CheckRanges(tbl); len(issues) != 0 {
		t.Fatalf("unexpected range issues: %v", issues)
	}
}

func TestWriteFile(t *testing.T) {
	orders, err := Generate(Config{Orders: 10, Customers: 1, Seed: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "orders.csv")
	if err := WriteFile(path, orders); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	tbl, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if tbl.Len() != 10 {
		t.Fatalf("got %d orders, want 10", tbl.Len())
	}
}
