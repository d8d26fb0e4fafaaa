package propagate

import (
	"math"

	"gonum.org/v1/gonum/mat"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
)

// Weights is a sparse niche-to-cell mixture weight matrix in coordinate
// form: rows index niches, columns index cells, and only stored entries
// carry weight. Duplicate coordinates are allowed and accumulate.
type Weights struct {
	Rows    int
	Cols    int
	Entries []WeightEntry
}

// WeightEntry is one stored coordinate of a Weights matrix.
type WeightEntry struct {
	Row   int
	Col   int
	Value float64
}

// NewWeights returns an empty rows×cols weight matrix.
func NewWeights(rows, cols int) *Weights {
	return &Weights{Rows: rows, Cols: cols}
}

// Set appends a stored entry.
func (w *Weights) Set(row, col int, value float64) {
	w.Entries = append(w.Entries, WeightEntry{Row: row, Col: col, Value: value})
}

// Validate checks that the matrix shape is usable and every stored entry
// is in range, finite, and non-negative.
func (w *Weights) Validate() error {
	if w == nil {
		return nterrors.New(nterrors.ErrCodeInvalidInput, "niche weight matrix is nil")
	}
	if w.Rows <= 0 || w.Cols <= 0 {
		return nterrors.New(nterrors.ErrCodeInvalidInput,
			"niche weight matrix has empty shape %dx%d", w.Rows, w.Cols)
	}

	for _, e := range w.Entries {
		if e.Row < 0 || e.Row >= w.Rows || e.Col < 0 || e.Col >= w.Cols {
			return nterrors.New(nterrors.ErrCodeInvalidInput,
				"niche weight entry (%d,%d) outside %dx%d matrix", e.Row, e.Col, w.Rows, w.Cols)
		}
		if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
			return nterrors.New(nterrors.ErrCodeInvalidInput,
				"niche weight entry (%d,%d) is not finite", e.Row, e.Col)
		}
		if e.Value < 0 {
			return nterrors.New(nterrors.ErrCodeInvalidInput,
				"niche weight entry (%d,%d) is negative: %g", e.Row, e.Col, e.Value)
		}
	}

	return nil
}

// ColumnSums returns the per-cell total weight over all niches.
func (w *Weights) ColumnSums() []float64 {
	sums := make([]float64, w.Cols)
	for _, e := range w.Entries {
		sums[e.Col] += e.Value
	}
	return sums
}

// NicheScores projects cluster scores onto niches: the loading matrix
// (niches × clusters) times the cluster score vector. Loadings are soft
// cluster assignments and must be finite and non-negative; the column
// count must match the score vector length.
func NicheScores(loading *mat.Dense, clusterScores []float64) ([]float64, error) {
	if loading == nil {
		return nil, nterrors.New(nterrors.ErrCodeInvalidInput, "cluster loading matrix is nil")
	}

	rows, cols := loading.Dims()
	if cols != len(clusterScores) {
		return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
			"cluster loading matrix has %d columns, score vector has %d entries", cols, len(clusterScores))
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := loading.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
					"cluster loading entry (%d,%d) is not finite", i, j)
			}
			if v < 0 {
				return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
					"cluster loading entry (%d,%d) is negative: %g", i, j, v)
			}
		}
	}

	var out mat.VecDense
	out.MulVec(loading, mat.NewVecDense(len(clusterScores), clusterScores))

	scores := make([]float64, rows)
	copy(scores, out.RawVector().Data)
	return scores, nil
}

// CellScores projects one sample's niche scores onto its cells. The
// weight matrix is normalized column-wise (each cell's mixture over
// niches sums to one), transposed, and multiplied by the niche score
// slice, so every cell score is a convex combination of the niche
// scores that reach it.
//
// The matrix row count must match the niche score slice. A cell whose
// column sums to zero has no niche support and fails with INVALID_INPUT
// instead of receiving a fabricated score.
func CellScores(w *Weights, nicheScores []float64) ([]float64, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if w.Rows != len(nicheScores) {
		return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
			"niche weight matrix has %d rows, niche score slice has %d entries", w.Rows, len(nicheScores))
	}

	sums := w.ColumnSums()
	for col, sum := range sums {
		if sum == 0 {
			return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
				"cell %d has zero total niche weight", col)
		}
	}

	scores := make([]float64, w.Cols)
	for _, e := range w.Entries {
		scores[e.Col] += e.Value / sums[e.Col] * nicheScores[e.Row]
	}
	return scores, nil
}
