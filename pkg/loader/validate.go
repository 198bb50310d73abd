package loader

import (
	"fmt"
	"math"

	"ulabox-report/pkg/models"
)

// ShareTolerance is how far the category shares of an order may stray from 100.
const ShareTolerance = 1.0

// Issue is a value outside the range the report assumes. Issues are reported, never repaired.
type Issue struct {
	Index   int // row position in the table
	OrderID string
	Message string
}

func (i Issue) String() string {
	if i.OrderID != "" {
		return fmt.Sprintf("order %s: %s", i.OrderID, i.Message)
	}
	return fmt.Sprintf("row %d: %s", i.Index, i.Message)
}

// CheckRanges lists orders whose weekday, hour, discount or category shares are out of range.
func CheckRanges(t *models.Table) []Issue {
	var issues []Issue
	add := func(i int, o models.Order, format string, args ...any) {
		issues = append(issues, Issue{Index: i, OrderID: o.ID, Message: fmt.Sprintf(format, args...)})
	}

	for i := 0; i < t.Len(); i++ {
		o := t.At(i)
		if o.Weekday < 1 || o.Weekday > 7 {
			add(i, o, "weekday %d outside 1..7", o.Weekday)
		}
		if o.Hour < 0 || o.Hour > 23 {
			add(i, o, "hour %d outside 0..23", o.Hour)
		}
		if o.Discount < 0 || o.Discount > 100 {
			add(i, o, "discount %.2f outside [0, 100]", o.Discount)
		}
		for _, c := range models.Categories {
			if v := o.Share(c); v < 0 || v > 100 {
				add(i, o, "%s %.2f outside [0, 100]", c.Column(), v)
			}
		}
		if sum := o.ShareSum(); math.Abs(sum-100) > ShareTolerance {
			add(i, o, "category shares sum to %.2f", sum)
		}
	}
	return issues
}
