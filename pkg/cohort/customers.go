package cohort

import (
	"sort"

	"ulabox-report/pkg/models"
)

// CustomerCount is one row of a group-by-customer count.
type CustomerCount struct {
	Customer string
	Count    int
}

// CustomerCounts is a per-customer row count, customers in first-seen order.
type CustomerCounts struct {
	rows  []CustomerCount
	index map[string]int
}

// CountByCustomer groups the cohort's rows by customer and counts them.
func CountByCustomer(c Cohort) CustomerCounts {
	cc := CustomerCounts{index: make(map[string]int)}
	for i := 0; i < c.Len(); i++ {
		cust := c.At(i).Customer
		pos, ok := cc.index[cust]
		if !ok {
			pos = len(cc.rows)
			cc.index[cust] = pos
			cc.rows = append(cc.rows, CustomerCount{Customer: cust})
		}
		cc.rows[pos].Count++
	}
	return cc
}

// FromCounts builds CustomerCounts from a map, ordered by customer key. Used by tests and
// callers that already hold per-customer totals.
func FromCounts(m map[string]int) CustomerCounts {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	cc := CustomerCounts{index: make(map[string]int, len(m))}
	for _, k := range keys {
		cc.index[k] = len(cc.rows)
		cc.rows = append(cc.rows, CustomerCount{Customer: k, Count: m[k]})
	}
	return cc
}

// Len is the number of distinct customers.
func (cc CustomerCounts) Len() int { return len(cc.rows) }

// Count returns the count for customer, 0 when absent.
func (cc CustomerCounts) Count(customer string) int {
	if pos, ok := cc.index[customer]; ok {
		return cc.rows[pos].Count
	}
	return 0
}

// Rows copies out the counts in first-seen order.
func (cc CustomerCounts) Rows() []CustomerCount {
	out := make([]CustomerCount, len(cc.rows))
	copy(out, cc.rows)
	return out
}

// Values returns the counts as floats for aggregation, in first-seen order.
func (cc CustomerCounts) Values() []float64 {
	out := make([]float64, len(cc.rows))
	for i, r := range cc.rows {
		out[i] = float64(r.Count)
	}
	return out
}

// Select returns the customers whose count satisfies p. p.Column is ignored.
func (cc CustomerCounts) Select(p Predicate) []string {
	var out []string
	for _, r := range cc.rows {
		if p.Match(float64(r.Count)) {
			out = append(out, r.Customer)
		}
	}
	return out
}

// Ranked returns the counts sorted by count descending; ties keep first-seen order.
func (cc CustomerCounts) Ranked() []CustomerCount {
	out := cc.Rows()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// CountAtLeast is shorthand for a ≥ predicate on a per-customer count.
func CountAtLeast(n int) Predicate {
	return Predicate{Op: GTE, Threshold: float64(n)}
}

// CountAtMost is shorthand for a ≤ predicate on a per-customer count.
func CountAtMost(n int) Predicate {
	return Predicate{Op: LTE, Threshold: float64(n)}
}

/*
REPORT COHORTS → the cohorts the Ulabox analysis is built from.
*/

// Frequent returns the orders of customers with at least th.FrequentOrders orders.
func Frequent(t *models.Table, th models.Thresholds) Cohort {
	counts := CountByCustomer(All(t, ""))
	return CustomersIn(t, "Frequent Customers", counts.Select(CountAtLeast(th.FrequentOrders)))
}

// Infrequent returns the orders of customers with at most th.InfrequentOrders orders.
func Infrequent(t *models.Table, th models.Thresholds) Cohort {
	counts := CountByCustomer(All(t, ""))
	return CustomersIn(t, "Infrequent Customers", counts.Select(CountAtMost(th.InfrequentOrders)))
}

// HighDiscount returns the orders with discount% ≥ th.HighDiscount.
func HighDiscount(t *models.Table, th models.Thresholds) Cohort {
	return Filter(t, "High Discount", Predicate{Column: models.ColDiscount, Op: GTE, Threshold: th.HighDiscount})
}

// FreeOrders returns the orders with discount% ≥ th.FreeDiscount.
func FreeOrders(t *models.Table, th models.Thresholds) Cohort {
	return Filter(t, "Free Orders", Predicate{Column: models.ColDiscount, Op: GTE, Threshold: th.FreeDiscount})
}

// Freeloaders returns the customers with at least th.FreeloaderOrders free orders,
// ranked by free-order count.
func Freeloaders(t *models.Table, th models.Thresholds) []CustomerCount {
	free := CountByCustomer(FreeOrders(t, th))
	var out []CustomerCount
	for _, r := range free.Ranked() {
		if CountAtLeast(th.FreeloaderOrders).Match(float64(r.Count)) {
			out = append(out, r)
		}
	}
	return out
}
