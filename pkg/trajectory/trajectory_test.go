package trajectory

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Strategy
		wantErr bool
	}{
		{"brute force", "BF", StrategyBruteForce, false},
		{"lowercase bf", "bf", StrategyBruteForce, false},
		{"held-karp", "TSP", StrategyHeldKarp, false},
		{"padded tsp", "  tsp ", StrategyHeldKarp, false},

		{"empty", "", "", true},
		{"unknown", "DP", "", true},
		{"prose", "exhaustive", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStrategy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !nterrors.Is(err, nterrors.ErrCodeInvalidStrategy) {
				t.Errorf("error code = %v, want INVALID_STRATEGY", nterrors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseStrategy(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSolveRejectsInvalidMatrices(t *testing.T) {
	tests := []struct {
		name string
		m    *mat.Dense
	}{
		{"nil", nil},
		{"non-square", mat.NewDense(2, 3, []float64{0, 1, 2, 3, 4, 5})},
		{"single cluster", mat.NewDense(1, 1, []float64{0})},
		{"negative entry", mat.NewDense(2, 2, []float64{0, -1, 1, 0})},
		{"nan entry", mat.NewDense(2, 2, []float64{0, math.NaN(), 1, 0})},
		{"inf entry", mat.NewDense(2, 2, []float64{0, math.Inf(1), 1, 0})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, strategy := range []Strategy{StrategyBruteForce, StrategyHeldKarp} {
				if _, err := Solve(tt.m, strategy); !nterrors.Is(err, nterrors.ErrCodeInvalidInput) {
					t.Errorf("Solve(%s) error = %v, want INVALID_INPUT", strategy, err)
				}
			}
		})
	}
}

func TestSolveRejectsUnknownStrategy(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{0, 1, 1, 0})
	if _, err := Solve(m, Strategy("heuristic")); !nterrors.Is(err, nterrors.ErrCodeInvalidStrategy) {
		t.Errorf("Solve error = %v, want INVALID_STRATEGY", err)
	}
}

// The dominant pair (0,1) carries weight 5, so the best open path spends
// it and bridges to cluster 2 for a total of 6. The first permutation to
// reach 6 in lexicographic order is [0 1 2].
func TestSolveBruteForceKnownMatrix(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		0, 5, 1,
		5, 0, 1,
		1, 1, 0,
	})

	path, err := Solve(m, StrategyBruteForce)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	want := []int{0, 1, 2}
	if !equalInts(path, want) {
		t.Errorf("Solve() = %v, want %v", path, want)
	}
	if w := PathWeight(m, path); w != 6 {
		t.Errorf("PathWeight() = %v, want 6", w)
	}
}

func TestSolveBruteForceTieBreak(t *testing.T) {
	// Every off-diagonal weight is equal, so all permutations tie and the
	// lexicographically first must win.
	m := uniformMatrix(4, 1)

	path, err := Solve(m, StrategyBruteForce)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if !equalInts(path, []int{0, 1, 2, 3}) {
		t.Errorf("Solve() = %v, want the identity ordering", path)
	}
}

func TestSolveReturnsPermutation(t *testing.T) {
	for _, strategy := range []Strategy{StrategyBruteForce, StrategyHeldKarp} {
		for n := 3; n <= 7; n++ {
			m := rampMatrix(n)
			path, err := Solve(m, strategy)
			if err != nil {
				t.Fatalf("Solve(n=%d, %s) error = %v", n, strategy, err)
			}
			assertPermutation(t, path, n)
		}
	}
}

func TestSolveIsDeterministic(t *testing.T) {
	m := rampMatrix(6)

	for _, strategy := range []Strategy{StrategyBruteForce, StrategyHeldKarp} {
		first, err := Solve(m, strategy)
		if err != nil {
			t.Fatalf("Solve(%s) error = %v", strategy, err)
		}
		second, err := Solve(m, strategy)
		if err != nil {
			t.Fatalf("Solve(%s) error = %v", strategy, err)
		}
		if !equalInts(first, second) {
			t.Errorf("Solve(%s) not deterministic: %v then %v", strategy, first, second)
		}
	}
}

// A single dominant edge must survive into the path under both strategies.
func TestSolveKeepsDominantEdge(t *testing.T) {
	n := 5
	m := uniformMatrix(n, 1)
	m.Set(1, 3, 100)
	m.Set(3, 1, 100)

	for _, strategy := range []Strategy{StrategyBruteForce, StrategyHeldKarp} {
		path, err := Solve(m, strategy)
		if err != nil {
			t.Fatalf("Solve(%s) error = %v", strategy, err)
		}
		if !adjacentIn(path, 1, 3) {
			t.Errorf("Solve(%s) = %v, want clusters 1 and 3 adjacent", strategy, path)
		}
	}
}

func TestPathWeight(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		0, 2, 3,
		2, 0, 7,
		3, 7, 0,
	})

	tests := []struct {
		name string
		path []int
		want float64
	}{
		{"two hops", []int{0, 1, 2}, 9},
		{"reversed", []int{2, 1, 0}, 9},
		{"single hop", []int{0, 2}, 3},
		{"single cluster", []int{1}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PathWeight(m, tt.path); got != tt.want {
				t.Errorf("PathWeight(%v) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNextPermutation(t *testing.T) {
	p := []int{0, 1, 2}
	var seen [][]int
	for {
		seen = append(seen, append([]int(nil), p...))
		if !nextPermutation(p) {
			break
		}
	}

	want := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	if len(seen) != len(want) {
		t.Fatalf("enumerated %d permutations, want %d", len(seen), len(want))
	}
	for i := range want {
		if !equalInts(seen[i], want[i]) {
			t.Errorf("permutation %d = %v, want %v (lexicographic order)", i, seen[i], want[i])
		}
	}
}

// uniformMatrix builds an n×n matrix with weight w on every off-diagonal
// entry and a zero diagonal.
func uniformMatrix(n int, w float64) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				m.Set(i, j, w)
			}
		}
	}
	return m
}

// rampMatrix builds a symmetric n×n matrix with distinct positive
// off-diagonal weights, giving solvers an unambiguous landscape.
func rampMatrix(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	w := 1.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m.Set(i, j, w)
			m.Set(j, i, w)
			w += 1.5
		}
	}
	return m
}

func assertPermutation(t *testing.T, path []int, n int) {
	t.Helper()
	if len(path) != n {
		t.Fatalf("path length = %d, want %d", len(path), n)
	}
	seen := make([]bool, n)
	for _, c := range path {
		if c < 0 || c >= n || seen[c] {
			t.Fatalf("path %v is not a permutation of 0..%d", path, n-1)
		}
		seen[c] = true
	}
}

func adjacentIn(path []int, a, b int) bool {
	for i := 0; i+1 < len(path); i++ {
		if (path[i] == a && path[i+1] == b) || (path[i] == b && path[i+1] == a) {
			return true
		}
	}
	return false
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
