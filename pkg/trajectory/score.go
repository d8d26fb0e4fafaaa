package trajectory

// Scores maps a trajectory ordering to one NT score per cluster: n evenly
// spaced values from 0 to 1 inclusive, assigned by position along the
// path. The cluster visited first scores 0, the cluster visited last
// scores 1, and positions map to score values bijectively.
//
// path must be a permutation of {0, …, n-1}, as produced by [Solve].
func Scores(path []int) []float64 {
	n := len(path)
	scores := make([]float64, n)
	if n < 2 {
		return scores
	}

	step := 1.0 / float64(n-1)
	for i, cluster := range path {
		scores[cluster] = float64(i) * step
	}
	return scores
}

// Reverse flips the trajectory orientation in place, remapping every
// score s to 1-s. Orientation is presentational: relative ordering
// information is unchanged, and reversing cluster scores before
// propagation is equivalent to reversing the propagated results.
func Reverse(scores []float64) {
	for i := range scores {
		scores[i] = 1 - scores[i]
	}
}
