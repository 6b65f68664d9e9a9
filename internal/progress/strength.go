package progress

const (
	minEpleyReps = 1
	maxEpleyReps = 30
)

// Epley1RM estimates a one rep max. Reps outside [1, 30] are clamped, never rejected.
func Epley1RM(weight float64, reps int) float64 {
	reps = min(max(reps, minEpleyReps), maxEpleyReps)
	return weight * (1 + float64(reps)/30)
}
