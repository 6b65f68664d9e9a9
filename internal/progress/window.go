package progress

import "time"

// WindowStart is local midnight (in now's location) of the first day of a days long window ending today.
func WindowStart(now time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	y, m, d := now.Date()
	return time.Date(y, m, d-(days-1), 0, 0, 0, 0, now.Location())
}

// Window keeps the samples within [WindowStart(now, days), now], sorted ascending.
func Window(samples []Sample, now time.Time, days int) []Sample {
	start := WindowStart(now, days)

	var in []Sample
	for _, s := range SortByTime(samples) {
		if s.Time.Before(start) || s.Time.After(now) {
			continue
		}
		in = append(in, s)
	}
	return in
}
