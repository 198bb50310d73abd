// Package cohort selects named subsets of the order table by threshold predicates.
//
// A Cohort holds indices into its parent table, so selecting never copies orders
// and always keeps the table's original row order.
package cohort

import (
	"fmt"
	"strings"

	"ulabox-report/pkg/models"
)

// Op is the comparison used by a Predicate. Thresholds are inclusive.
type Op int

const (
	GTE Op = iota // ≥
	LTE           // ≤
	EQ            // =
)

func (op Op) String() string {
	switch op {
	case GTE:
		return ">="
	case LTE:
		return "<="
	case EQ:
		return "="
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// ParseOp accepts ">=", "<=", "=", "==" and the symbols ≥ ≤.
func ParseOp(s string) (Op, error) {
	switch strings.TrimSpace(s) {
	case ">=", "≥", "gte":
		return GTE, nil
	case "<=", "≤", "lte":
		return LTE, nil
	case "=", "==", "eq":
		return EQ, nil
	}
	return 0, fmt.Errorf("unknown operator %q", s)
}

// Predicate compares one numeric column against a threshold.
type Predicate struct {
	Column    models.Column
	Op        Op
	Threshold float64
}

// Match applies the comparison to v.
func (p Predicate) Match(v float64) bool {
	switch p.Op {
	case GTE:
		return v >= p.Threshold
	case LTE:
		return v <= p.Threshold
	case EQ:
		return v == p.Threshold
	}
	return false
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %g", p.Column, p.Op, p.Threshold)
}

// Cohort is a named view over a subset of a table's rows.
type Cohort struct {
	Name    string
	table   *models.Table
	indices []int
}

// All returns the whole table as a cohort.
func All(t *models.Table, name string) Cohort {
	idx := make([]int, t.Len())
	for i := range idx {
		idx[i] = i
	}
	return Cohort{Name: name, table: t, indices: idx}
}

// Len is the number of rows in the cohort.
func (c Cohort) Len() int { return len(c.indices) }

// At returns the i-th order of the cohort.
func (c Cohort) At(i int) models.Order { return c.table.At(c.indices[i]) }

// Indices returns the parent table positions of the cohort's rows.
func (c Cohort) Indices() []int {
	cp := make([]int, len(c.indices))
	copy(cp, c.indices)
	return cp
}

// Orders copies out the cohort's rows.
func (c Cohort) Orders() []models.Order {
	out := make([]models.Order, len(c.indices))
	for i, idx := range c.indices {
		out[i] = c.table.At(idx)
	}
	return out
}

// Values extracts one column across the cohort.
func (c Cohort) Values(col models.Column) []float64 {
	out := make([]float64, len(c.indices))
	for i, idx := range c.indices {
		out[i] = c.table.At(idx).Value(col)
	}
	return out
}

// Filter returns the rows of t satisfying p, in table order.
func Filter(t *models.Table, name string, p Predicate) Cohort {
	return All(t, "").Where(name, p)
}

// Where narrows c to the rows satisfying p.
func (c Cohort) Where(name string, p Predicate) Cohort {
	idx := make([]int, 0, len(c.indices))
	for _, i := range c.indices {
		if p.Match(c.table.At(i).Value(p.Column)) {
			idx = append(idx, i)
		}
	}
	return Cohort{Name: name, table: c.table, indices: idx}
}

// ByWeekday partitions t into seven cohorts, Monday first.
func ByWeekday(t *models.Table) [7]Cohort {
	var out [7]Cohort
	for d := 1; d <= 7; d++ {
		out[d-1] = Filter(t, WeekdayName(d), Predicate{Column: models.ColWeekday, Op: EQ, Threshold: float64(d)})
	}
	return out
}

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayName maps 1..7 to Monday..Sunday.
func WeekdayName(d int) string {
	if d < 1 || d > 7 {
		return fmt.Sprintf("day %d", d)
	}
	return weekdayNames[d-1]
}

// CustomersIn returns the rows of t placed by a customer in the set, in table order.
func CustomersIn(t *models.Table, name string, customers []string) Cohort {
	set := make(map[string]struct{}, len(customers))
	for _, c := range customers {
		set[c] = struct{}{}
	}
	idx := make([]int, 0)
	for i := 0; i < t.Len(); i++ {
		if _, ok := set[t.At(i).Customer]; ok {
			idx = append(idx, i)
		}
	}
	return Cohort{Name: name, table: t, indices: idx}
}
