package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ulabox-report/pkg/cohort"
	"ulabox-report/pkg/models"
)

/*
WORKBOOK → XLSX export of every aggregate behind the charts and sentences.
*/

// Sheet names of the exported workbook, in tab order.
const (
	SheetSummary     = "Summary"
	SheetWeekday     = "Weekday"
	SheetHour        = "Hour"
	SheetCategories  = "Categories"
	SheetFreeloaders = "Freeloaders"
)

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) line(values ...interface{}) {
	if w.err != nil {
		return
	}
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &values)
}

// Workbook builds the XLSX export of r. The caller owns the returned file.
func Workbook(r *Report) (*excelize.File, error) {
	res := r.Results
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetWeekday, SheetHour, SheetCategories, SheetFreeloaders} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      "Ulabox order report",
		Identifier: r.RunID,
		Created:    r.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Creator:    "ulabox-report",
	}); err != nil {
		f.Close()
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	sheets := []struct {
		name string
		fill func(w *sheetWriter)
	}{
		{SheetSummary, func(w *sheetWriter) {
			d := res.OrdersPerCustomer
			w.line("Metric", "Value")
			w.line("Run ID", r.RunID)
			w.line("Source", res.Source)
			w.line("Orders", res.Orders)
			w.line("Customers", d.Count)
			w.line("Mean orders per customer", d.Mean)
			w.line("Std orders per customer", d.Std)
			w.line("Min orders per customer", d.Min)
			for _, pv := range d.Percentiles {
				w.line(fmt.Sprintf("P%g orders per customer", pv.P), pv.Value)
			}
			w.line("Max orders per customer", d.Max)
			w.line(fmt.Sprintf("Frequent customers (>= %d orders)", r.Thresholds.FrequentOrders), res.FrequentCustomers)
			w.line(fmt.Sprintf("Infrequent customers (<= %d orders)", r.Thresholds.InfrequentOrders), res.InfrequentCustomers)
			w.line(fmt.Sprintf("Orders with discount >= %g%%", r.Thresholds.HighDiscount), res.HighDiscount.Orders)
			w.line("Free orders", res.Free.Instances)
			w.line("Free orders share %", res.Free.Share)
			w.line("Customers with a free order", res.Free.Customers)
		}},
		{SheetWeekday, func(w *sheetWriter) {
			w.line("Weekday", "Orders", "Share %")
			for d, n := range res.WeekdayCounts {
				w.line(cohort.WeekdayName(d+1), n, float64(n)/float64(res.Orders)*100)
			}
		}},
		{SheetHour, func(w *sheetWriter) {
			row := []interface{}{"Hour", "All"}
			for d := 1; d <= 7; d++ {
				row = append(row, cohort.WeekdayName(d))
			}
			w.line(row...)
			for h := 0; h < 24; h++ {
				row := []interface{}{h, res.HourCounts[h]}
				for d := 0; d < 7; d++ {
					row = append(row, res.WeekdayHourCounts[d][h])
				}
				w.line(row...)
			}
		}},
		{SheetCategories, func(w *sheetWriter) {
			row := []interface{}{"Cohort", "Orders"}
			for _, c := range models.Categories {
				row = append(row, c.Column())
			}
			w.line(row...)
			for _, cs := range r.Shares() {
				row := []interface{}{cs.Cohort, cs.Orders}
				for _, c := range models.Categories {
					row = append(row, cs.Means[c])
				}
				w.line(row...)
			}
		}},
		{SheetFreeloaders, func(w *sheetWriter) {
			w.line("Customer", "Free orders", "Total orders", "All free")
			for _, fl := range res.Free.Freeloaders {
				w.line(fl.Customer, fl.FreeOrders, fl.TotalOrders, fl.AllFree)
			}
		}},
	}

	for _, s := range sheets {
		w := &sheetWriter{f: f, sheet: s.name}
		s.fill(w)
		if w.err == nil {
			w.err = f.SetRowStyle(s.name, 1, 1, header)
		}
		if w.err == nil {
			w.err = f.SetColWidth(s.name, "A", "A", 36)
		}
		if w.err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", s.name, w.err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook streams the XLSX export of r to w.
func WriteWorkbook(w io.Writer, r *Report) error {
	f, err := Workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}
