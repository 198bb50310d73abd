package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"ulabox-report/pkg/calculator"
	"ulabox-report/pkg/cohort"
	"ulabox-report/pkg/models"
)

/*
CHARTS → gonum/plot figures for each question of the report.
*/

var (
	purple    = color.RGBA{R: 128, G: 0, B: 128, A: 255}
	orange    = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	indianRed = color.RGBA{R: 205, G: 92, B: 92, A: 255}
	grey      = color.RGBA{R: 169, G: 169, B: 169, A: 255}
)

// Pie is a plot.Plotter drawing one slice per value, counter-clockwise from three o'clock.
type Pie struct {
	Values  []float64
	Labels  []string
	Explode []float64 // radial offset per slice, as a fraction of the radius
}

// Plot implements plot.Plotter.
func (p *Pie) Plot(c draw.Canvas, plt *plot.Plot) {
	var total float64
	for _, v := range p.Values {
		total += v
	}
	if total <= 0 {
		return
	}

	center := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
	radius := vg.Length(math.Min(float64(c.Max.X-c.Min.X), float64(c.Max.Y-c.Min.Y))) * 0.38

	sty := plt.Legend.TextStyle
	sty.XAlign = text.XCenter
	sty.YAlign = text.YCenter

	start := 0.0
	for i, v := range p.Values {
		sweep := v / total * 2 * math.Pi
		mid := start + sweep/2

		at := center
		if i < len(p.Explode) && p.Explode[i] > 0 {
			at = polar(center, radius*vg.Length(p.Explode[i]), mid)
		}

		var path vg.Path
		path.Move(at)
		path.Arc(at, radius, start, sweep)
		path.Close()
		c.SetColor(plotutil.Color(i))
		c.Fill(path)
		c.SetColor(color.White)
		c.SetLineWidth(vg.Points(1))
		c.Stroke(path)

		c.FillText(sty, polar(at, radius*0.6, mid), fmt.Sprintf("%.1f%%", v/total*100))
		if i < len(p.Labels) {
			c.FillText(sty, polar(at, radius*1.15, mid), p.Labels[i])
		}
		start += sweep
	}
}

func polar(o vg.Point, r vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: o.X + r*vg.Length(math.Cos(angle)),
		Y: o.Y + r*vg.Length(math.Sin(angle)),
	}
}

// WeekdayPie charts the share of orders per weekday with Monday pulled out.
func WeekdayPie(counts [7]int) *plot.Plot {
	p := plot.New()
	p.Title.Text = "% of Orders by Weekday"
	p.HideAxes()

	pie := &Pie{Explode: []float64{0.1}}
	for d, n := range counts {
		pie.Values = append(pie.Values, float64(n))
		pie.Labels = append(pie.Labels, cohort.WeekdayName(d+1))
	}
	p.Add(pie)
	return p
}

func hourBars(counts [24]int) (*plotter.BarChart, error) {
	vs := make(plotter.Values, len(counts))
	for h, n := range counts {
		vs[h] = float64(n)
	}
	bars, err := plotter.NewBarChart(vs, vg.Points(18))
	if err != nil {
		return nil, err
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = 0
	return bars, nil
}

func hourLabels(every int) []string {
	labels := make([]string, 24)
	for h := range labels {
		if h%every == 0 {
			labels[h] = strconv.Itoa(h)
		}
	}
	return labels
}

// HourHistogram charts the number of orders placed in each hour of the day.
func HourHistogram(counts [24]int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Aggregate Orders for Each Hour"
	p.X.Label.Text = "Hour of the Day"
	p.Y.Label.Text = "Number of Orders"

	bars, err := hourBars(counts)
	if err != nil {
		return nil, fmt.Errorf("hour histogram: %w", err)
	}
	p.Add(bars)
	p.NominalX(hourLabels(1)...)
	return p, nil
}

// WeekdayHourPlots builds one hour histogram per weekday, all sharing the same y limit.
func WeekdayHourPlots(grid [7][24]int) ([]*plot.Plot, error) {
	var ymax int
	for _, day := range grid {
		for _, n := range day {
			if n > ymax {
				ymax = n
			}
		}
	}

	plots := make([]*plot.Plot, 0, len(grid))
	for d, counts := range grid {
		p := plot.New()
		p.Title.Text = cohort.WeekdayName(d + 1)
		bars, err := hourBars(counts)
		if err != nil {
			return nil, fmt.Errorf("%s histogram: %w", p.Title.Text, err)
		}
		bars.Width = vg.Points(4)
		p.Add(bars)
		p.NominalX(hourLabels(4)...)
		p.Y.Min = 0
		p.Y.Max = float64(ymax) * 1.05
		if d%4 == 0 {
			p.Y.Label.Text = "# of Orders"
		}
		if d >= 4 {
			p.X.Label.Text = "Hour of the Day"
		}
		plots = append(plots, p)
	}
	return plots, nil
}

// SaveWeekdayHourGrid lays the seven weekday histograms out on 2×4 tiles and writes a PNG.
func SaveWeekdayHourGrid(grid [7][24]int, w, h vg.Length, path string) error {
	plots, err := WeekdayHourPlots(grid)
	if err != nil {
		return err
	}
	const rows, cols = 2, 4
	tiled := make([][]*plot.Plot, rows)
	for r := range tiled {
		tiled[r] = make([]*plot.Plot, cols)
		for c := range tiled[r] {
			if i := r*cols + c; i < len(plots) {
				tiled[r][c] = plots[i]
			}
		}
	}

	img := vgimg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Points(28), PadBottom: vg.Millimeter,
		PadLeft: vg.Millimeter, PadRight: vg.Millimeter,
	}
	canvases := plot.Align(tiled, tiles, dc)
	for r := range tiled {
		for c := range tiled[r] {
			if tiled[r][c] != nil {
				tiled[r][c].Draw(canvases[r][c])
			}
		}
	}

	title := plots[0].Title.TextStyle
	title.XAlign = text.XCenter
	title.YAlign = text.YTop
	dc.FillText(title, vg.Point{X: w / 2, Y: h - vg.Points(6)}, "Number of Orders by Hour of Each Day")

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CategoryBars charts mean category percentages, one bar series per cohort.
// Stacked piles each series on the previous one; otherwise bars sit side by side.
func CategoryBars(title string, shares []calculator.CategoryShare, colors []color.Color, stacked bool) (*plot.Plot, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("category bars %q: no cohorts", title)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Product Category"
	p.Y.Label.Text = "Average Percentage of Order"

	width := vg.Points(40)
	if !stacked {
		width /= vg.Length(len(shares))
	}

	var prev *plotter.BarChart
	for i, cs := range shares {
		vs := make(plotter.Values, models.NumCategories)
		for _, c := range models.Categories {
			vs[c] = cs.Means[c]
		}
		bars, err := plotter.NewBarChart(vs, width)
		if err != nil {
			return nil, fmt.Errorf("category bars %q: %w", title, err)
		}
		bars.Color = plotutil.Color(i)
		if i < len(colors) {
			bars.Color = colors[i]
		}
		if stacked && prev != nil {
			bars.StackOn(prev)
		} else if !stacked {
			bars.Offset = width * (vg.Length(i) - vg.Length(len(shares)-1)/2)
		}
		p.Add(bars)
		if len(shares) > 1 {
			p.Legend.Add(cs.Cohort, bars)
		}
		prev = bars
	}
	p.Legend.Top = true

	names := make([]string, models.NumCategories)
	for _, c := range models.Categories {
		names[c] = c.String()
	}
	p.NominalX(names...)
	return p, nil
}
