package trajectory

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
)

// Strategy selects the path-construction algorithm used by Solve.
type Strategy string

const (
	// StrategyBruteForce enumerates all permutations. Exact but O(n·n!).
	StrategyBruteForce Strategy = "BF"

	// StrategyHeldKarp runs Held-Karp over subsets and cuts the weakest
	// cycle edge. O(n²·2ⁿ) time, O(n·2ⁿ) space.
	StrategyHeldKarp Strategy = "TSP"
)

// ParseStrategy converts a configuration string into a Strategy.
// Matching is case-insensitive; the recognized values are "BF" and "TSP".
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToUpper(strings.TrimSpace(s))) {
	case StrategyBruteForce:
		return StrategyBruteForce, nil
	case StrategyHeldKarp:
		return StrategyHeldKarp, nil
	default:
		return "", nterrors.New(nterrors.ErrCodeInvalidStrategy,
			"unknown trajectory strategy: %q (must be BF or TSP)", s)
	}
}

// Solve computes the visiting order of the n clusters described by the
// connectivity matrix that maximizes the summed weight over consecutive
// pairs. The result is a permutation of {0, …, n-1}.
//
// The matrix must be square with n ≥ 2 and contain only finite,
// non-negative entries; violations return an INVALID_INPUT error before
// any search starts. Diagonal entries are never read (a path has no
// self-loops). Symmetry is not required.
//
// See the package documentation for the guarantees and tie-break policy
// of each strategy.
func Solve(m *mat.Dense, strategy Strategy) ([]int, error) {
	if err := validateMatrix(m); err != nil {
		return nil, err
	}

	switch strategy {
	case StrategyBruteForce:
		path, _ := solveBruteForce(m)
		return path, nil
	case StrategyHeldKarp:
		return solveHeldKarp(m)
	default:
		return nil, nterrors.New(nterrors.ErrCodeInvalidStrategy,
			"unknown trajectory strategy: %q (must be BF or TSP)", string(strategy))
	}
}

// PathWeight returns the total connectivity of an open path: the sum of
// matrix entries over consecutive pairs, with no wraparound term.
func PathWeight(m *mat.Dense, path []int) float64 {
	var total float64
	for i := 0; i+1 < len(path); i++ {
		total += m.At(path[i], path[i+1])
	}
	return total
}

// validateMatrix checks the Solve preconditions: square, n ≥ 2, and all
// entries finite and non-negative.
func validateMatrix(m *mat.Dense) error {
	if m == nil {
		return nterrors.New(nterrors.ErrCodeInvalidInput, "connectivity matrix is nil")
	}

	rows, cols := m.Dims()
	if rows != cols {
		return nterrors.New(nterrors.ErrCodeInvalidInput,
			"connectivity matrix is not square: %dx%d", rows, cols)
	}
	if rows < 2 {
		return nterrors.New(nterrors.ErrCodeInvalidInput,
			"connectivity matrix must cover at least 2 clusters, got %d", rows)
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nterrors.New(nterrors.ErrCodeInvalidInput,
					"connectivity matrix entry (%d,%d) is not finite", i, j)
			}
			if v < 0 {
				return nterrors.New(nterrors.ErrCodeInvalidInput,
					"connectivity matrix entry (%d,%d) is negative: %g", i, j, v)
			}
		}
	}

	return nil
}
