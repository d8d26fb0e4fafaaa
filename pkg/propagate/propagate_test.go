package propagate

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
)

func TestNicheScores(t *testing.T) {
	// Soft assignments of four niches over two clusters.
	loading := mat.NewDense(4, 2, []float64{
		1, 0,
		0, 1,
		0.5, 0.5,
		0.25, 0.75,
	})

	scores, err := NicheScores(loading, []float64{0, 1})
	if err != nil {
		t.Fatalf("NicheScores() error = %v", err)
	}

	want := []float64{0, 1, 0.5, 0.75}
	for i := range want {
		if !almostEqual(scores[i], want[i]) {
			t.Errorf("NicheScores()[%d] = %v, want %v", i, scores[i], want[i])
		}
	}
}

func TestNicheScoresRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		loading *mat.Dense
		scores  []float64
	}{
		{"nil matrix", nil, []float64{0, 1}},
		{"dimension mismatch", mat.NewDense(2, 3, []float64{1, 0, 0, 0, 1, 0}), []float64{0, 1}},
		{"negative loading", mat.NewDense(2, 2, []float64{1, 0, -0.5, 1.5}), []float64{0, 1}},
		{"nan loading", mat.NewDense(2, 2, []float64{1, 0, math.NaN(), 0}), []float64{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NicheScores(tt.loading, tt.scores); !nterrors.Is(err, nterrors.ErrCodeInvalidInput) {
				t.Errorf("NicheScores() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

// Mixture weights [[1,0],[0,1],[0.5,0.5]] in cell-row orientation, stored
// here transposed (niches × cells). Cell 2 blends both niches equally.
func TestCellScoresKnownMixture(t *testing.T) {
	w := NewWeights(2, 3)
	w.Set(0, 0, 1)
	w.Set(1, 1, 1)
	w.Set(0, 2, 0.5)
	w.Set(1, 2, 0.5)

	scores, err := CellScores(w, []float64{0.2, 0.8})
	if err != nil {
		t.Fatalf("CellScores() error = %v", err)
	}

	want := []float64{0.2, 0.8, 0.5}
	for i := range want {
		if !almostEqual(scores[i], want[i]) {
			t.Errorf("CellScores()[%d] = %v, want %v", i, scores[i], want[i])
		}
	}
}

// Column normalization must rescale cells whose raw mixtures do not sum
// to one, keeping the result a weighted average.
func TestCellScoresNormalizes(t *testing.T) {
	w := NewWeights(2, 1)
	w.Set(0, 0, 3)
	w.Set(1, 0, 1)

	scores, err := CellScores(w, []float64{0, 1})
	if err != nil {
		t.Fatalf("CellScores() error = %v", err)
	}
	if !almostEqual(scores[0], 0.25) {
		t.Errorf("CellScores()[0] = %v, want 0.25", scores[0])
	}
}

func TestCellScoresAccumulatesDuplicates(t *testing.T) {
	w := NewWeights(2, 1)
	w.Set(0, 0, 1)
	w.Set(0, 0, 1)
	w.Set(1, 0, 2)

	scores, err := CellScores(w, []float64{0, 1})
	if err != nil {
		t.Fatalf("CellScores() error = %v", err)
	}
	if !almostEqual(scores[0], 0.5) {
		t.Errorf("CellScores()[0] = %v, want 0.5", scores[0])
	}
}

func TestCellScoresConvexBounds(t *testing.T) {
	niche := []float64{0.1, 0.4, 0.9}

	w := NewWeights(3, 4)
	w.Set(0, 0, 2)
	w.Set(1, 0, 1)
	w.Set(2, 1, 5)
	w.Set(0, 2, 0.5)
	w.Set(2, 2, 0.5)
	w.Set(1, 3, 1)
	w.Set(2, 3, 3)

	scores, err := CellScores(w, niche)
	if err != nil {
		t.Fatalf("CellScores() error = %v", err)
	}

	lo, hi := niche[0], niche[2]
	for i, s := range scores {
		if s < lo-1e-9 || s > hi+1e-9 {
			t.Errorf("cell %d score %v outside [%v, %v]", i, s, lo, hi)
		}
	}
}

func TestCellScoresRejectsBadInput(t *testing.T) {
	valid := func() *Weights {
		w := NewWeights(2, 2)
		w.Set(0, 0, 1)
		w.Set(1, 1, 1)
		return w
	}

	tests := []struct {
		name   string
		w      *Weights
		scores []float64
	}{
		{"nil weights", nil, []float64{0, 1}},
		{"row mismatch", valid(), []float64{0, 0.5, 1}},
		{"out of range entry", &Weights{Rows: 2, Cols: 2, Entries: []WeightEntry{{Row: 5, Col: 0, Value: 1}}}, []float64{0, 1}},
		{"negative entry", &Weights{Rows: 2, Cols: 2, Entries: []WeightEntry{{Row: 0, Col: 0, Value: -1}, {Row: 1, Col: 1, Value: 1}}}, []float64{0, 1}},
		{"nan entry", &Weights{Rows: 2, Cols: 2, Entries: []WeightEntry{{Row: 0, Col: 0, Value: math.NaN()}, {Row: 1, Col: 1, Value: 1}}}, []float64{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CellScores(tt.w, tt.scores); !nterrors.Is(err, nterrors.ErrCodeInvalidInput) {
				t.Errorf("CellScores() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestCellScoresZeroColumn(t *testing.T) {
	w := NewWeights(2, 2)
	w.Set(0, 0, 1)
	// Cell 1 has no stored weight at all.

	_, err := CellScores(w, []float64{0, 1})
	if !nterrors.Is(err, nterrors.ErrCodeInvalidInput) {
		t.Errorf("CellScores() error = %v, want INVALID_INPUT for zero-weight cell", err)
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
