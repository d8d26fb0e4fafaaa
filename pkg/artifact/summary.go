package artifact

import (
	"time"

	"github.com/google/uuid"
)

// SampleStats records the per-sample outcome of one run.
type SampleStats struct {
	Name          string  `json:"name"`
	Cells         int     `json:"cells"`
	NicheScoreMin float64 `json:"niche_score_min"`
	NicheScoreMax float64 `json:"niche_score_max"`
	CellScoreMin  float64 `json:"cell_score_min"`
	CellScoreMax  float64 `json:"cell_score_max"`
}

// Summary captures the result of one scoring run: the solved cluster
// ordering, the scores assigned to each cluster, and per-sample output
// stats. It is written next to the score tables as summary.json.
type Summary struct {
	RunID         string        `json:"run_id"`
	CreatedAt     time.Time     `json:"created_at"`
	Strategy      string        `json:"strategy"`
	Reversed      bool          `json:"reversed"`
	Ordering      []int         `json:"ordering"`
	ClusterScores []float64     `json:"cluster_scores"`
	Samples       []SampleStats `json:"samples"`
	SolveElapsed  time.Duration `json:"solve_elapsed_ns"`
	TotalElapsed  time.Duration `json:"total_elapsed_ns"`
	CacheHit      bool          `json:"cache_hit"`
}

// NewSummary creates a summary with a fresh run ID and timestamp.
func NewSummary(strategy string, reversed bool) *Summary {
	return &Summary{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Strategy:  strategy,
		Reversed:  reversed,
	}
}

// StatsFor computes a sample's score ranges. Empty slices yield zero
// ranges rather than infinities so empty samples stay representable.
func StatsFor(name string, niche, cell []float64) SampleStats {
	s := SampleStats{Name: name, Cells: len(cell)}
	s.NicheScoreMin, s.NicheScoreMax = rangeOf(niche)
	s.CellScoreMin, s.CellScoreMax = rangeOf(cell)
	return s
}

func rangeOf(xs []float64) (lo, hi float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}
