package trajectory

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// solveBruteForce scans every permutation of {0, …, n-1} in lexicographic
// order and returns the first one with maximum path weight, together with
// that weight.
//
// Tie-break policy: the comparison is strict, so among equal-weight
// permutations the lexicographically smallest wins. This is deterministic
// but carries no semantic preference; callers must not read meaning into
// which tied ordering is returned.
func solveBruteForce(m *mat.Dense) ([]int, float64) {
	n, _ := m.Dims()

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	best := make([]int, n)
	bestWeight := math.Inf(-1)

	for {
		if w := PathWeight(m, perm); w > bestWeight {
			bestWeight = w
			copy(best, perm)
		}
		if !nextPermutation(perm) {
			break
		}
	}

	return best, bestWeight
}

// nextPermutation advances p to its lexicographic successor in place.
// It returns false once p is the final (descending) permutation.
func nextPermutation(p []int) bool {
	// Rightmost ascent.
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}

	// Smallest element right of i that exceeds p[i].
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]

	// Reverse the suffix to restore ascending order.
	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
	return true
}
