package calculator

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"ulabox-report/pkg/cohort"
	"ulabox-report/pkg/models"
)

// Values are sorted before summing so that any permutation of the rows gives
// bit-identical means.

// Mean is the unweighted arithmetic mean. An empty input is an *models.EmptyCohortError.
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, &models.EmptyCohortError{}
	}
	return stat.Mean(sortedCopy(xs), nil), nil
}

// Percentile returns the p-th percentile (0–100) by linear interpolation between the
// closest ranks: rank = p/100·(n−1), the pandas/numpy default. [1 2 3 4] at 50 is 2.5.
func Percentile(xs []float64, p float64) (float64, error) {
	if len(xs) == 0 {
		return 0, &models.EmptyCohortError{}
	}
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("percentile %v outside [0, 100]", p)
	}
	return percentileSorted(sortedCopy(xs), p), nil
}

func percentileSorted(s []float64, p float64) float64 {
	if len(s) == 1 {
		return s[0]
	}
	rank := p / 100 * float64(len(s)-1)
	lo := int(rank)
	if lo >= len(s)-1 {
		return s[len(s)-1]
	}
	frac := rank - float64(lo)
	return s[lo] + frac*(s[lo+1]-s[lo])
}

func sortedCopy(xs []float64) []float64 {
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)
	return s
}

// PercentileValue pairs a requested percentile with its value.
type PercentileValue struct {
	P     float64
	Value float64
}

// Description mirrors a pandas describe(): count, mean, sample std, min, percentiles, max.
type Description struct {
	Count       int
	Mean        float64
	Std         float64 // ddof=1; 0 for a single value
	Min         float64
	Max         float64
	Percentiles []PercentileValue
}

// Percentile looks up a percentile computed by Describe.
func (d Description) Percentile(p float64) (float64, bool) {
	for _, pv := range d.Percentiles {
		if pv.P == p {
			return pv.Value, true
		}
	}
	return 0, false
}

// Describe summarizes xs. name labels the cohort in the empty-input error.
func Describe(name string, xs []float64, percentiles ...float64) (Description, error) {
	if len(xs) == 0 {
		return Description{}, &models.EmptyCohortError{Cohort: name}
	}
	s := sortedCopy(xs)
	d := Description{
		Count: len(s),
		Mean:  stat.Mean(s, nil),
		Min:   floats.Min(s),
		Max:   floats.Max(s),
	}
	if len(s) > 1 {
		d.Std = stat.StdDev(s, nil)
	}
	for _, p := range percentiles {
		if p < 0 || p > 100 {
			return Description{}, fmt.Errorf("percentile %v outside [0, 100]", p)
		}
		d.Percentiles = append(d.Percentiles, PercentileValue{P: p, Value: percentileSorted(s, p)})
	}
	return d, nil
}

// ColumnSummary is the aggregate of one column over a cohort.
type ColumnSummary struct {
	Column      models.Column
	Count       int
	Mean        float64
	Percentiles []PercentileValue
}

// Summary holds per-column aggregates for one cohort.
type Summary struct {
	Cohort  string
	Count   int
	Columns []ColumnSummary
}

// Summarize computes count, mean and the requested percentiles of each column over c.
func Summarize(c cohort.Cohort, cols []models.Column, percentiles ...float64) (Summary, error) {
	if c.Len() == 0 {
		return Summary{}, &models.EmptyCohortError{Cohort: c.Name}
	}
	sum := Summary{Cohort: c.Name, Count: c.Len()}
	for _, col := range cols {
		d, err := Describe(c.Name, c.Values(col), percentiles...)
		if err != nil {
			return Summary{}, fmt.Errorf("%s: %w", col, err)
		}
		sum.Columns = append(sum.Columns, ColumnSummary{
			Column:      col,
			Count:       d.Count,
			Mean:        d.Mean,
			Percentiles: d.Percentiles,
		})
	}
	return sum, nil
}

// CategoryShare is the mean category percentage over a cohort's orders.
type CategoryShare struct {
	Cohort string
	Orders int
	Means  [models.NumCategories]float64
}

// Top returns the category with the highest mean share.
func (cs CategoryShare) Top() models.Category {
	best := models.Food
	for _, c := range models.Categories {
		if cs.Means[c] > cs.Means[best] {
			best = c
		}
	}
	return best
}

// CategoryMeans averages each category share across c. Means are unweighted row averages.
func CategoryMeans(c cohort.Cohort) (CategoryShare, error) {
	if c.Len() == 0 {
		return CategoryShare{}, &models.EmptyCohortError{Cohort: c.Name}
	}
	cs := CategoryShare{Cohort: c.Name, Orders: c.Len()}
	for _, cat := range models.Categories {
		m, err := Mean(c.Values(models.CategoryColumn(cat)))
		if err != nil {
			return CategoryShare{}, err
		}
		cs.Means[cat] = m
	}
	return cs, nil
}

// WeekdayCounts counts the cohort's orders per weekday, Monday first. Out-of-range days are skipped.
func WeekdayCounts(c cohort.Cohort) [7]int {
	var out [7]int
	for i := 0; i < c.Len(); i++ {
		if d := c.At(i).Weekday; d >= 1 && d <= 7 {
			out[d-1]++
		}
	}
	return out
}

// HourCounts counts the cohort's orders per hour of day. Out-of-range hours are skipped.
func HourCounts(c cohort.Cohort) [24]int {
	var out [24]int
	for i := 0; i < c.Len(); i++ {
		if h := c.At(i).Hour; h >= 0 && h < 24 {
			out[h]++
		}
	}
	return out
}
