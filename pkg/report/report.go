// Package report renders the Ulabox analysis: PNG charts, prose lines and an XLSX workbook.
package report

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/plot/vg"

	"ulabox-report/pkg/calculator"
	"ulabox-report/pkg/logging"
	"ulabox-report/pkg/models"
)

// Report is everything computed for one run, ready to print or write.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Thresholds  models.Thresholds
	Results     *calculator.Results
	Sections    []Section
}

// Build aggregates t and phrases the results. The table is only read.
func Build(t *models.Table, cfg models.Config) (*Report, error) {
	res, err := calculator.Run(t, cfg)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", t.Source(), err)
	}
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		Thresholds:  cfg.Thresholds,
		Results:     res,
		Sections:    Sentences(res, cfg.Thresholds),
	}, nil
}

// Shares lists the category means in the order they appear in the Categories sheet.
func (r *Report) Shares() []calculator.CategoryShare {
	res := r.Results
	return []calculator.CategoryShare{res.Baseline, res.Frequent, res.Infrequent, res.HighDiscount}
}

// Print writes every section to w.
func (r *Report) Print(w io.Writer) error {
	for i, s := range r.Sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "== %s ==\n", s.Title); err != nil {
			return err
		}
		for _, line := range s.Lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// Options controls what Write produces.
type Options struct {
	Dir      string
	Charts   bool
	XLSX     bool
	Progress bool
	Width    vg.Length // chart size; zero means 14×7 inches
	Height   vg.Length
}

// Chart file names written into Options.Dir.
const (
	FileWeekdayPie      = "weekday_pie.png"
	FileHourHistogram   = "hour_histogram.png"
	FileWeekdayHourGrid = "weekday_hour_grid.png"
	FileCustomerBars    = "customer_categories.png"
	FileDiscountBars    = "discount_categories.png"
	FileWorkbook        = "ulabox_report.xlsx"
)

type job struct {
	file   string
	render func(path string) error
}

// Write renders the requested outputs into opts.Dir and returns the paths written.
// ctx is checked between outputs.
func Write(ctx context.Context, r *Report, opts Options) ([]string, error) {
	if opts.Width == 0 || opts.Height == 0 {
		opts.Width, opts.Height = 14*vg.Inch, 7*vg.Inch
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var jobs []job
	if opts.Charts {
		jobs = append(jobs, chartJobs(r, opts)...)
	}
	if opts.XLSX {
		jobs = append(jobs, job{FileWorkbook, func(path string) error {
			f, err := Workbook(r)
			if err != nil {
				return err
			}
			defer f.Close()
			return f.SaveAs(path)
		}})
	}

	var bar *progressbar.ProgressBar
	if opts.Progress && len(jobs) > 0 {
		bar = progressbar.Default(int64(len(jobs)), "rendering report")
		defer bar.Close()
	}

	written := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path := filepath.Join(opts.Dir, j.file)
		if err := j.render(path); err != nil {
			return written, fmt.Errorf("render %s: %w", j.file, err)
		}
		written = append(written, path)
		logging.Debug().Str("file", path).Msg("Report output written")
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	logging.Info().Str("run_id", r.RunID).Str("dir", opts.Dir).Int("files", len(written)).Msg("Report written")
	return written, nil
}

func chartJobs(r *Report, opts Options) []job {
	res := r.Results
	w, h := opts.Width, opts.Height
	return []job{
		{FileWeekdayPie, func(path string) error {
			// square canvas keeps the pie round
			return WeekdayPie(res.WeekdayCounts).Save(h, h, path)
		}},
		{FileHourHistogram, func(path string) error {
			p, err := HourHistogram(res.HourCounts)
			if err != nil {
				return err
			}
			return p.Save(w, h, path)
		}},
		{FileWeekdayHourGrid, func(path string) error {
			return SaveWeekdayHourGrid(res.WeekdayHourCounts, w, h, path)
		}},
		{FileCustomerBars, func(path string) error {
			p, err := CategoryBars("Percentage of Products Ordered by Customers",
				[]calculator.CategoryShare{res.Frequent, res.Infrequent},
				[]color.Color{purple, orange}, true)
			if err != nil {
				return err
			}
			return p.Save(w, h, path)
		}},
		{FileDiscountBars, func(path string) error {
			title := fmt.Sprintf("Percentage of Products Ordered for %s%% Off or More", Round2(r.Thresholds.HighDiscount))
			p, err := CategoryBars(title,
				[]calculator.CategoryShare{res.HighDiscount, res.Baseline},
				[]color.Color{indianRed, grey}, false)
			if err != nil {
				return err
			}
			return p.Save(w, h, path)
		}},
	}
}
