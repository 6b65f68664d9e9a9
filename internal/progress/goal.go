package progress

import "math"

// GoalProgress returns how far current has moved away from start relative to the
// start to goal distance, as a percentage in [0, 100].
// When start equals goal the distance is taken as 1.
func GoalProgress(start, current, goal float64) float64 {
	den := math.Abs(start - goal)
	if den == 0 {
		den = 1
	}
	return clamp(math.Abs(start-current)/den, 0, 1) * 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
