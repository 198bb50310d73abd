package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ulabox-report/pkg/calculator"
	"ulabox-report/pkg/cohort"
	"ulabox-report/pkg/models"
)

/*
TEXT → prose lines embedding the computed statistics.
*/

// Section is a titled group of report sentences.
type Section struct {
	Title string
	Lines []string
}

// Round2 formats x rounded half-even to two decimals, trailing zeros dropped (3.2, not 3.20).
func Round2(x float64) string {
	return decimal.NewFromFloat(x).RoundBank(2).String()
}

func pct(x float64) string { return Round2(x) + "%" }

// Sentences turns the aggregates into the four narrative sections of the report.
func Sentences(res *calculator.Results, th models.Thresholds) []Section {
	return []Section{
		timingSection(res),
		customerSection(res, th),
		discountSection(res, th),
		freeSection(res, th),
	}
}

func timingSection(res *calculator.Results) Section {
	s := Section{Title: "When are orders placed?"}

	busiest, quietest := 0, 0
	for d, n := range res.WeekdayCounts {
		if n > res.WeekdayCounts[busiest] {
			busiest = d
		}
		if n < res.WeekdayCounts[quietest] {
			quietest = d
		}
	}
	share := func(n int) string { return pct(float64(n) / float64(res.Orders) * 100) }
	s.Lines = append(s.Lines,
		fmt.Sprintf("There are %d orders recorded in this data set.", res.Orders),
		fmt.Sprintf("%s is the busiest day with %s of all orders, %s the quietest with %s.",
			cohort.WeekdayName(busiest+1), share(res.WeekdayCounts[busiest]),
			cohort.WeekdayName(quietest+1), share(res.WeekdayCounts[quietest])),
	)

	peak := 0
	for h, n := range res.HourCounts {
		if n > res.HourCounts[peak] {
			peak = h
		}
	}
	s.Lines = append(s.Lines, fmt.Sprintf("The busiest hour is %02d:00 with %d orders.", peak, res.HourCounts[peak]))

	for _, seg := range res.Segments {
		s.Lines = append(s.Lines, fmt.Sprintf("%s (%02d:00 to %02d:59) place %s of orders.",
			seg.Name, seg.FirstHour, seg.LastHour, pct(seg.Share)))
	}
	return s
}

func customerSection(res *calculator.Results, th models.Thresholds) Section {
	d := res.OrdersPerCustomer
	s := Section{Title: "Who orders most often?"}
	s.Lines = append(s.Lines,
		fmt.Sprintf("There are %d total customers recorded in this data set. They average roughly %s orders each.",
			d.Count, Round2(d.Mean)),
		fmt.Sprintf("The most orders we have recorded from any one customer is %d.", int(d.Max)),
	)
	if p90, ok := d.Percentile(90); ok {
		s.Lines = append(s.Lines, fmt.Sprintf("Customers that are in the 90th percentile order %d times or more.", int(p90)))
	}
	s.Lines = append(s.Lines,
		fmt.Sprintf("%d frequent customers (%d orders or more) placed %d orders; their baskets are mostly %s.",
			res.FrequentCustomers, th.FrequentOrders, res.Frequent.Orders, topShare(res.Frequent)),
		fmt.Sprintf("%d infrequent customers (%d orders or fewer) placed %d orders; their baskets are mostly %s.",
			res.InfrequentCustomers, th.InfrequentOrders, res.Infrequent.Orders, topShare(res.Infrequent)),
	)
	return s
}

func discountSection(res *calculator.Results, th models.Thresholds) Section {
	top := res.HighDiscount.Top()
	return Section{
		Title: "What do discounted orders contain?",
		Lines: []string{
			fmt.Sprintf("There are %d orders with a discount of %s or more.", res.HighDiscount.Orders, pct(th.HighDiscount)),
			fmt.Sprintf("Their baskets are mostly %s, against %s across all orders.",
				topShare(res.HighDiscount), pct(res.Baseline.Means[top])),
		},
	}
}

func freeSection(res *calculator.Results, th models.Thresholds) Section {
	f := res.Free
	s := Section{Title: "Who gets orders for free?"}
	s.Lines = append(s.Lines,
		fmt.Sprintf("There are %d instances where the discount %% is %s.", f.Instances, pct(th.FreeDiscount)),
	)
	if f.Instances == 0 {
		return s
	}
	s.Lines = append(s.Lines,
		fmt.Sprintf("There are %d total customers recorded in this data set that get a %s discount.", f.Customers, pct(th.FreeDiscount)),
		fmt.Sprintf("The most free orders recorded from any one customer is %d orders.", f.MaxPerCustomer),
	)
	if len(f.Freeloaders) == 0 {
		s.Lines = append(s.Lines, fmt.Sprintf("No customer has received %d or more free orders.", th.FreeloaderOrders))
		return s
	}

	names := make([]string, len(f.Freeloaders))
	var neverPaid []string
	for i, fl := range f.Freeloaders {
		names[i] = fl.Customer
		if fl.AllFree {
			neverPaid = append(neverPaid, fl.Customer)
		}
	}
	s.Lines = append(s.Lines,
		fmt.Sprintf("The customers who have received %d or more free orders are: %s",
			th.FreeloaderOrders, strings.Join(names, ", ")))
	if len(neverPaid) > 0 {
		s.Lines = append(s.Lines, fmt.Sprintf("Of these, %s never paid for an order.", strings.Join(neverPaid, ", ")))
	}
	return s
}

func topShare(cs calculator.CategoryShare) string {
	top := cs.Top()
	return fmt.Sprintf("%s (%s of an average order)", top, pct(cs.Means[top]))
}
