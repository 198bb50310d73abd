package loader

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ulabox-report/pkg/models"
)

const header = "customer,discount%,weekday,hour,Food%,Fresh%,Drinks%,Home%,Beauty%,Health%,Baby%,Pets%\n"

func TestLoadFileFixture(t *testing.T) {
	tbl, err := LoadFile(filepath.Join("testdata", "orders.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 10 {
		t.Fatalf("got %d orders, want 10", tbl.Len())
	}
	o := tbl.At(5)
	if o.ID != "5" || o.Customer != "2" || o.Discount != 40 || o.Weekday != 7 || o.Hour != 23 {
		t.Fatalf("unexpected row 5: %+v", o)
	}
	if o.Share(models.Food) != 70 || o.Share(models.Drinks) != 30 || o.TotalItems != 14 {
		t.Fatalf("unexpected shares on row 5: %+v", o)
	}
}

// The fixture is the reference sample: every order must satisfy the ranges the report relies on.
func TestFixtureRanges(t *testing.T) {
	tbl, err := LoadFile(filepath.Join("testdata", "orders.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issues := CheckRanges(tbl); len(issues) != 0 {
		t.Fatalf("fixture has range issues: %v", issues)
	}
	for i := 0; i < tbl.Len(); i++ {
		o := tbl.At(i)
		for _, c := range models.Categories {
			if v := o.Share(c); v < 0 || v > 100 {
				t.Errorf("row %d %s = %v", i, c.Column(), v)
			}
		}
		if math.Abs(o.ShareSum()-100) > 1 {
			t.Errorf("row %d shares sum to %v", i, o.ShareSum())
		}
	}
}

func TestLoadOptionalColumnsAbsent(t *testing.T) {
	in := header + "c1,10,1,0,100,0,0,0,0,0,0,0\n"
	tbl, err := Load(strings.NewReader(in), "inline")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 1 || tbl.At(0).ID != "" || tbl.At(0).TotalItems != 0 {
		t.Fatalf("unexpected table: %+v", tbl.Orders())
	}
	if tbl.Source() != "inline" {
		t.Fatalf("got source %q", tbl.Source())
	}
}

func TestLoadDelimiter(t *testing.T) {
	in := strings.ReplaceAll(header+"c1,10,1,0,100,0,0,0,0,0,0,0\n", ",", ";")
	tbl, err := Load(strings.NewReader(in), "semicolon", WithDelimiter(';'))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.At(0).Discount != 10 {
		t.Fatalf("got discount %v", tbl.At(0).Discount)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.csv"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	var dle *models.DataLoadError
	if !errors.As(err, &dle) {
		t.Fatalf("expected DataLoadError, got %T", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestLoadSchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty file", ""},
		{"missing hour", strings.Replace(header, "hour,", "", 1)},
		{"wrong casing", strings.Replace(header, "Food%", "food%", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.in), "bad")
			if !errors.Is(err, models.ErrSchemaMismatch) {
				t.Fatalf("expected ErrSchemaMismatch, got %v", err)
			}
		})
	}
}

func TestLoadMalformedRowAborts(t *testing.T) {
	tests := []struct {
		name string
		rows string
		line int
	}{
		{"non numeric discount", "c1,10,1,0,100,0,0,0,0,0,0,0\nc2,lots,1,0,100,0,0,0,0,0,0,0\n", 3},
		{"fractional weekday", "c1,10,1.5,0,100,0,0,0,0,0,0,0\n", 2},
		{"short row", "c1,10,1,0,100\n", 2},
		{"empty customer", " ,10,1,0,100,0,0,0,0,0,0,0\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Load(strings.NewReader(header+tt.rows), "bad")
			if err == nil {
				t.Fatalf("expected error, got table with %d rows", tbl.Len())
			}
			var dle *models.DataLoadError
			if !errors.As(err, &dle) {
				t.Fatalf("expected DataLoadError, got %T: %v", err, err)
			}
			if dle.Line != tt.line {
				t.Errorf("got line %d, want %d (%v)", dle.Line, tt.line, err)
			}
		})
	}
}

func TestCheckRangesFlagsEveryProblem(t *testing.T) {
	orders := []models.Order{
		{ID: "ok", Customer: "a", Weekday: 1, Hour: 0, Categories: [8]float64{100}},
		{ID: "bad-day", Customer: "a", Weekday: 8, Hour: 0, Categories: [8]float64{100}},
		{ID: "bad-hour", Customer: "a", Weekday: 7, Hour: 24, Categories: [8]float64{100}},
		{ID: "bad-disc", Customer: "a", Discount: 101, Weekday: 7, Hour: 23, Categories: [8]float64{100}},
		{ID: "bad-sum", Customer: "a", Weekday: 7, Hour: 23, Categories: [8]float64{50, 48}},
	}
	issues := CheckRanges(models.NewTable("t", orders))
	if len(issues) != 4 {
		t.Fatalf("got %d issues, want 4: %v", len(issues), issues)
	}
	want := []string{"bad-day", "bad-hour", "bad-disc", "bad-sum"}
	for i, id := range want {
		if issues[i].OrderID != id {
			t.Errorf("issue %d for %q, want %q", i, issues[i].OrderID, id)
		}
	}
	if !strings.Contains(issues[3].String(), "sum to 98.00") {
		t.Errorf("unexpected message: %s", issues[3])
	}
}
