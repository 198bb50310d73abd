package calculator

import (
	"fmt"

	"ulabox-report/pkg/cohort"
	"ulabox-report/pkg/logging"
	"ulabox-report/pkg/models"
)

// SegmentCount is the number of orders in one time-of-day segment.
type SegmentCount struct {
	cohort.Segment
	Orders int
	Share  float64 // percentage of all orders
}

// Results holds every aggregate the report prints or charts.
type Results struct {
	Source string
	Orders int

	WeekdayCounts     [7]int
	HourCounts        [24]int
	WeekdayHourCounts [7][24]int
	Segments          []SegmentCount

	OrdersPerCustomer   Description // distribution of order counts across customers
	FrequentCustomers   int
	InfrequentCustomers int
	Frequent            CategoryShare
	Infrequent          CategoryShare

	Baseline     CategoryShare // all orders
	HighDiscount CategoryShare

	Free FreeOrderSummary
}

// Run computes every section of the report from t. The table is only read.
func Run(t *models.Table, cfg models.Config) (*Results, error) {
	th := cfg.Thresholds
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("thresholds: %w", err)
	}

	all := cohort.All(t, "All Orders")
	if all.Len() == 0 {
		return nil, &models.EmptyCohortError{Cohort: all.Name}
	}
	res := &Results{Source: t.Source(), Orders: t.Len()}

	// Q1: when are orders placed
	res.WeekdayCounts = WeekdayCounts(all)
	res.HourCounts = HourCounts(all)
	for i, day := range cohort.ByWeekday(t) {
		res.WeekdayHourCounts[i] = HourCounts(day)
	}
	for i, seg := range cohort.ByHourSegment(t) {
		res.Segments = append(res.Segments, SegmentCount{
			Segment: cohort.HourSegments[i],
			Orders:  seg.Len(),
			Share:   float64(seg.Len()) / float64(all.Len()) * 100,
		})
	}

	// Q2: frequent vs infrequent customers
	counts := cohort.CountByCustomer(all)
	d, err := Describe("orders per customer", counts.Values(), cfg.Percentiles...)
	if err != nil {
		return nil, err
	}
	res.OrdersPerCustomer = d
	res.FrequentCustomers = len(counts.Select(cohort.CountAtLeast(th.FrequentOrders)))
	res.InfrequentCustomers = len(counts.Select(cohort.CountAtMost(th.InfrequentOrders)))

	if res.Frequent, err = CategoryMeans(cohort.Frequent(t, th)); err != nil {
		return nil, err
	}
	if res.Infrequent, err = CategoryMeans(cohort.Infrequent(t, th)); err != nil {
		return nil, err
	}

	// Q3: what heavily discounted orders contain
	if res.Baseline, err = CategoryMeans(all); err != nil {
		return nil, err
	}
	if res.HighDiscount, err = CategoryMeans(cohort.HighDiscount(t, th)); err != nil {
		return nil, err
	}

	res.Free = FreeOrders(t, th)

	logging.Debug().
		Int("orders", res.Orders).
		Int("customers", res.OrdersPerCustomer.Count).
		Int("frequent_orders", res.Frequent.Orders).
		Int("infrequent_orders", res.Infrequent.Orders).
		Int("high_discount_orders", res.HighDiscount.Orders).
		Int("free_orders", res.Free.Instances).
		Msg("Aggregates computed")
	return res, nil
}
