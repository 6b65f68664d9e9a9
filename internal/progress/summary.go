package progress

import "time"

const (
	ShortWindowDays = 7
	LongWindowDays  = 30
)

// Summary is what the dashboard shows for one series of samples.
// Optional fields are nil when there is not enough data.
type Summary struct {
	Count        int      `json:"count"`
	Start        *Sample  `json:"start,omitempty"`
	Latest       *Sample  `json:"latest,omitempty"`
	Median7d     *float64 `json:"median7d,omitempty"`
	Median30d    *float64 `json:"median30d,omitempty"`
	TrendPerWeek float64  `json:"trendPerWeek"`
	Goal         *float64 `json:"goal,omitempty"`
	GoalProgress *float64 `json:"goalProgress,omitempty"`
}

// Summarize builds a Summary. The trend is fitted over the last LongWindowDays days.
// goal may be nil.
func Summarize(samples []Sample, goal *float64, now time.Time) Summary {
	sorted := SortByTime(samples)
	summary := Summary{Count: len(sorted)}
	if len(sorted) == 0 {
		summary.Goal = goal
		return summary
	}

	start, latest := sorted[0], sorted[len(sorted)-1]
	summary.Start = &start
	summary.Latest = &latest

	if m, ok := Median(Values(Window(sorted, now, ShortWindowDays))); ok {
		summary.Median7d = &m
	}
	if m, ok := Median(Values(Window(sorted, now, LongWindowDays))); ok {
		summary.Median30d = &m
	}
	summary.TrendPerWeek = TrendPerWeek(Window(sorted, now, LongWindowDays))

	if goal != nil {
		g := *goal
		p := GoalProgress(start.Value, latest.Value, g)
		summary.Goal = &g
		summary.GoalProgress = &p
	}

	return summary
}

// Map applies a linear unit conversion to every value of the summary.
// Goal progress is a ratio and stays as is.
func (s Summary) Map(convert func(float64) float64) Summary {
	out := s
	out.TrendPerWeek = convert(s.TrendPerWeek)
	if s.Start != nil {
		start := *s.Start
		start.Value = convert(start.Value)
		out.Start = &start
	}
	if s.Latest != nil {
		latest := *s.Latest
		latest.Value = convert(latest.Value)
		out.Latest = &latest
	}
	out.Median7d = mapPtr(s.Median7d, convert)
	out.Median30d = mapPtr(s.Median30d, convert)
	out.Goal = mapPtr(s.Goal, convert)
	return out
}

func mapPtr(v *float64, convert func(float64) float64) *float64 {
	if v == nil {
		return nil
	}
	c := convert(*v)
	return &c
}
