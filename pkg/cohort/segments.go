package cohort

import "ulabox-report/pkg/models"

// Segment is a named time-of-day window, both ends inclusive.
type Segment struct {
	Name      string
	FirstHour int
	LastHour  int
}

// HourSegments are the shopper segments read off the hourly order histogram.
var HourSegments = []Segment{
	{"The night owls", 0, 5},
	{"The early birds", 6, 9},
	{"The hungry crowd", 10, 13},
	{"The siesta takers", 14, 16},
	{"The dinner makers", 17, 20},
	{"The last minute marketers", 21, 23},
}

// ByHourSegment returns one cohort per HourSegments entry.
func ByHourSegment(t *models.Table) []Cohort {
	out := make([]Cohort, 0, len(HourSegments))
	for _, s := range HourSegments {
		c := Filter(t, s.Name, Predicate{Column: models.ColHour, Op: GTE, Threshold: float64(s.FirstHour)}).
			Where(s.Name, Predicate{Column: models.ColHour, Op: LTE, Threshold: float64(s.LastHour)})
		out = append(out, c)
	}
	return out
}
