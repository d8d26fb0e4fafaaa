// Package pipeline provides the core NT-score pipeline for nichetrace.
//
// This package implements the complete load → solve → propagate → write
// run that can be driven from the CLI or embedded in other tools. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read the upstream artifacts (connectivity matrix, loading
//     matrix, samples manifest, per-sample weights and coordinates)
//  2. Solve: Construct the niche-cluster trajectory and map it to scores
//  3. Propagate: Project cluster scores to niches and then to cells
//  4. Write: Emit per-sample NTScore tables, the concatenated table, and
//     the run summary
//
// The solve stage is cached: a solved ordering is content addressed by
// the connectivity matrix hash and the strategy, so re-runs over the same
// training output skip the exponential search.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    GNNDir:   "output/GNN",
//	    Manifest: "samples.yaml",
//	    OutDir:   "output/NTScore",
//	    Strategy: "BF",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Ordering)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nichetrace/nichetrace/pkg/artifact"
	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
	"github.com/nichetrace/nichetrace/pkg/trajectory"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config
// =============================================================================

const (
	// DefaultStrategy is the trajectory construction strategy used when
	// none is configured. Brute force is exact and the cluster count of a
	// typical run is well inside its practical range.
	DefaultStrategy = string(trajectory.StrategyBruteForce)

	// DefaultCacheTTL bounds how long solved orderings stay cached.
	// Entries are content addressed, so the TTL only limits growth.
	DefaultCacheTTL = 30 * 24 * time.Hour
)

// Upstream artifact names inside the GNN output directory.
const (
	// ConnectivityFile is the consolidated cluster connectivity matrix.
	ConnectivityFile = "consolidate_out_adj.csv.gz"

	// LoadingFile is the consolidated niche-to-cluster loading matrix.
	LoadingFile = "consolidate_s.csv.gz"
)

// Output names inside the NTScore directory.
const (
	// ConcatTableFile is the concatenation of all per-sample tables.
	ConcatTableFile = "NTScore.csv.gz"

	// SummaryFile is the JSON run summary consumed by serve and view.
	SummaryFile = "summary.json"
)

// TableFile returns the per-sample NTScore table name for a sample.
func TableFile(sample string) string {
	return sample + "_NTScore.csv.gz"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the NT-score pipeline.
// This struct supports JSON serialization so runs can be recorded.
type Options struct {
	// GNNDir holds the upstream training outputs: the connectivity and
	// loading matrices plus the per-sample niche weight matrices.
	GNNDir string `json:"gnn_dir"`

	// Manifest is the YAML samples manifest path.
	Manifest string `json:"manifest"`

	// OutDir receives the NTScore tables and the run summary.
	OutDir string `json:"out_dir"`

	// Strategy selects the path solver: BF or TSP.
	Strategy string `json:"strategy,omitempty"`

	// Reverse flips the trajectory orientation after solving.
	Reverse bool `json:"reverse,omitempty"`

	// Refresh bypasses the trajectory cache for this run.
	Refresh bool `json:"refresh,omitempty"`

	// CacheTTL bounds the lifetime of the cached ordering.
	CacheTTL time.Duration `json:"-"`

	// Logger receives stage progress. Defaults to a discarding logger.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.GNNDir == "" {
		return nterrors.New(nterrors.ErrCodeInvalidInput, "GNN directory is required")
	}
	if o.Manifest == "" {
		return nterrors.New(nterrors.ErrCodeInvalidInput, "samples manifest is required")
	}
	if o.OutDir == "" {
		return nterrors.New(nterrors.ErrCodeInvalidInput, "output directory is required")
	}

	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	strategy, err := trajectory.ParseStrategy(o.Strategy)
	if err != nil {
		return err
	}
	o.Strategy = string(strategy)

	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// TrajectoryStrategy returns the parsed solver strategy.
// ValidateAndSetDefaults must have succeeded first.
func (o *Options) TrajectoryStrategy() trajectory.Strategy {
	return trajectory.Strategy(o.Strategy)
}

// =============================================================================
// Result - Pipeline Outputs
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Ordering is the solved cluster visiting order.
	Ordering []int

	// ClusterScores holds one NT score per cluster, orientation applied.
	ClusterScores []float64

	// MatrixHash is the content hash of the connectivity matrix.
	MatrixHash string

	// Files lists every table written, in write order.
	Files []string

	// Summary is the run document written to SummaryFile.
	Summary *artifact.Summary

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Clusters int
	Niches   int
	Cells    int
	Samples  int

	LoadTime      time.Duration
	SolveTime     time.Duration
	PropagateTime time.Duration
	WriteTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	// SolveHit is true when the ordering came from the cache.
	SolveHit bool
}
