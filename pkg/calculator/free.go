package calculator

import (
	"ulabox-report/pkg/cohort"
	"ulabox-report/pkg/models"
)

// Freeloader is a customer with repeated free orders.
type Freeloader struct {
	Customer    string
	FreeOrders  int
	TotalOrders int
	AllFree     bool // every order the customer placed was free
}

// FreeOrderSummary is the two-stage free-order aggregate:
// free orders → group by customer → count → keep counts ≥ threshold.
type FreeOrderSummary struct {
	Instances      int     // orders at or above the free discount
	Share          float64 // Instances as a percentage of all orders
	Customers      int     // distinct customers with a free order
	MaxPerCustomer int
	Freeloaders    []Freeloader // ranked by free orders, ties in first-seen order
}

// FreeOrders never fails: a table without free orders yields a zero summary.
func FreeOrders(t *models.Table, th models.Thresholds) FreeOrderSummary {
	free := cohort.FreeOrders(t, th)
	perCustomer := cohort.CountByCustomer(free)
	all := cohort.CountByCustomer(cohort.All(t, ""))

	s := FreeOrderSummary{
		Instances: free.Len(),
		Customers: perCustomer.Len(),
	}
	if t.Len() > 0 {
		s.Share = float64(free.Len()) / float64(t.Len()) * 100
	}
	for _, r := range perCustomer.Rows() {
		if r.Count > s.MaxPerCustomer {
			s.MaxPerCustomer = r.Count
		}
	}
	for _, r := range cohort.Freeloaders(t, th) {
		total := all.Count(r.Customer)
		s.Freeloaders = append(s.Freeloaders, Freeloader{
			Customer:    r.Customer,
			FreeOrders:  r.Count,
			TotalOrders: total,
			AllFree:     total == r.Count,
		})
	}
	return s
}
