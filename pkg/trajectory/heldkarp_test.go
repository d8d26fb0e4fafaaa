package trajectory

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
)

// On the known 3-cluster matrix both closings tie at weight 7, the
// ascending scan keeps terminal 1, and the weakest edge of [0 2 1 0] is
// its first one, so the spliced path walks the cycle backwards: [0 1 2].
func TestSolveHeldKarpKnownMatrix(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		0, 5, 1,
		5, 0, 1,
		1, 1, 0,
	})

	path, err := Solve(m, StrategyHeldKarp)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if !equalInts(path, []int{0, 1, 2}) {
		t.Errorf("Solve() = %v, want [0 1 2]", path)
	}
	if w := PathWeight(m, path); w != 6 {
		t.Errorf("PathWeight() = %v, want 6", w)
	}
}

func TestSolveHeldKarpTwoClusters(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{0, 3, 3, 0})

	if _, err := Solve(m, StrategyHeldKarp); !nterrors.Is(err, nterrors.ErrCodeDegenerateTrajectory) {
		t.Errorf("Solve() error = %v, want DEGENERATE_TRAJECTORY", err)
	}
}

// The cycle weight minus its weakest edge bounds how far the cut path can
// fall below the exact brute-force optimum.
func TestHeldKarpCycleAgainstBruteForce(t *testing.T) {
	for n := 3; n <= 7; n++ {
		m := rampMatrix(n)

		cycle := heldKarpCycle(m)
		if len(cycle) != n+1 || cycle[0] != 0 || cycle[n] != 0 {
			t.Fatalf("n=%d: cycle = %v, want closed at cluster 0 with length %d", n, cycle, n+1)
		}
		assertPermutation(t, cycle[:n], n)

		weakest := m.At(cycle[0], cycle[1])
		cycleWeight := 0.0
		for i := 0; i < n; i++ {
			w := m.At(cycle[i], cycle[i+1])
			cycleWeight += w
			if w < weakest {
				weakest = w
			}
		}

		cutPath, err := CutCycle(m, cycle)
		if err != nil {
			t.Fatalf("n=%d: CutCycle() error = %v", n, err)
		}
		if got, want := PathWeight(m, cutPath), cycleWeight-weakest; !almostEqual(got, want) {
			t.Errorf("n=%d: cut path weight = %v, want cycle weight minus weakest edge = %v", n, got, want)
		}

		exact, _ := solveBruteForce(m)
		exactWeight := PathWeight(m, exact)
		cutWeight := PathWeight(m, cutPath)
		if cutWeight > exactWeight+1e-9 {
			t.Errorf("n=%d: cut path weight %v exceeds exact optimum %v", n, cutWeight, exactWeight)
		}
		if exactWeight-cutWeight > weakest+1e-9 {
			t.Errorf("n=%d: cut path trails optimum by %v, more than the cut edge weight %v",
				n, exactWeight-cutWeight, weakest)
		}
	}
}

func TestCutCycleSpliceBranches(t *testing.T) {
	// Weights are set along the cycle under test so exactly one edge is
	// weakest; everything else stays at 5.
	tests := []struct {
		name  string
		cycle []int
		weak  [2]int
		want  []int
	}{
		{
			name:  "closing edge cut keeps cycle order",
			cycle: []int{0, 1, 2, 3, 0},
			weak:  [2]int{3, 0},
			want:  []int{0, 1, 2, 3},
		},
		{
			name:  "first edge cut walks backwards",
			cycle: []int{0, 1, 2, 3, 0},
			weak:  [2]int{0, 1},
			want:  []int{0, 3, 2, 1},
		},
		{
			name:  "interior cut with smaller id first reverses both arcs",
			cycle: []int{0, 1, 2, 3, 0},
			weak:  [2]int{1, 2},
			want:  []int{1, 0, 3, 2},
		},
		{
			name:  "interior cut with smaller id second rotates",
			cycle: []int{0, 2, 1, 3, 0},
			weak:  [2]int{2, 1},
			want:  []int{1, 3, 0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := uniformMatrix(4, 5)
			m.Set(tt.weak[0], tt.weak[1], 1)

			path, err := CutCycle(m, tt.cycle)
			if err != nil {
				t.Fatalf("CutCycle() error = %v", err)
			}
			if !equalInts(path, tt.want) {
				t.Errorf("CutCycle() = %v, want %v", path, tt.want)
			}

			assertPermutation(t, path, 4)
			for i := 0; i+1 < len(path); i++ {
				if path[i] == tt.weak[0] && path[i+1] == tt.weak[1] {
					t.Errorf("cut edge (%d,%d) still traversed by %v", tt.weak[0], tt.weak[1], path)
				}
			}
		})
	}
}

func TestCutCycleTiesPickLowestIndex(t *testing.T) {
	// All edges tie, so the first edge is cut and the path walks backwards.
	m := uniformMatrix(4, 2)

	path, err := CutCycle(m, []int{0, 1, 2, 3, 0})
	if err != nil {
		t.Fatalf("CutCycle() error = %v", err)
	}
	if !equalInts(path, []int{0, 3, 2, 1}) {
		t.Errorf("CutCycle() = %v, want [0 3 2 1]", path)
	}
}

func TestCutCycleRejectsMalformedCycles(t *testing.T) {
	m := uniformMatrix(4, 1)

	tests := []struct {
		name  string
		cycle []int
	}{
		{"too short", []int{0, 1, 2, 0}},
		{"not closed", []int{0, 1, 2, 3, 1}},
		{"duplicate cluster", []int{0, 1, 1, 3, 0}},
		{"out of range", []int{0, 1, 2, 9, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CutCycle(m, tt.cycle); !nterrors.Is(err, nterrors.ErrCodeInvalidInput) {
				t.Errorf("CutCycle(%v) error = %v, want INVALID_INPUT", tt.cycle, err)
			}
		})
	}
}

func TestCutCycleTwoClusters(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{0, 1, 2, 0})

	if _, err := CutCycle(m, []int{0, 1, 0}); !nterrors.Is(err, nterrors.ErrCodeDegenerateTrajectory) {
		t.Errorf("CutCycle() error = %v, want DEGENERATE_TRAJECTORY", err)
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
