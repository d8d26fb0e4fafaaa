package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"

	"github.com/nichetrace/nichetrace/pkg/artifact"
	"github.com/nichetrace/nichetrace/pkg/cache"
	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
	ntio "github.com/nichetrace/nichetrace/pkg/io"
	"github.com/nichetrace/nichetrace/pkg/observability"
	"github.com/nichetrace/nichetrace/pkg/propagate"
	"github.com/nichetrace/nichetrace/pkg/trajectory"
)

// Runner executes scoring runs. It holds no per-run state, only the
// cache backend, the key layout, and a logger, so one Runner can serve
// concurrent runs with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner assembles a runner. Nil arguments select benign defaults:
// a NullCache (caching off), the DefaultKeyer layout, and the process
// logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	r := &Runner{Cache: c, Keyer: keyer, Logger: logger}
	if r.Cache == nil {
		r.Cache = cache.NewNullCache()
	}
	if r.Keyer == nil {
		r.Keyer = cache.NewDefaultKeyer()
	}
	if r.Logger == nil {
		r.Logger = log.Default()
	}
	return r
}

// inputs holds everything the load stage produces.
type inputs struct {
	connectivity *mat.Dense
	matrixHash   string
	loading      *mat.Dense
	samples      []*sampleInput
	clusters     int
	niches       int
	cells        int
}

// sampleInput is one manifest entry with its loaded artifacts.
type sampleInput struct {
	sample  artifact.Sample
	table   *artifact.Table
	weights *propagate.Weights

	// offset is the sample's first niche row in the stacked loading
	// matrix; the sample owns rows [offset, offset+weights.Rows).
	offset int
}

// Execute runs the complete load → solve → propagate → write pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}
	start := time.Now()

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.GNNDir)
	in, err := r.load(opts)
	observability.Pipeline().OnLoadComplete(ctx, opts.GNNDir, clusterCount(in), sampleCount(in), time.Since(loadStart), err)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Clusters = in.clusters
	result.Stats.Niches = in.niches
	result.Stats.Cells = in.cells
	result.Stats.Samples = len(in.samples)
	result.MatrixHash = in.matrixHash

	opts.Logger.Info("loaded artifacts",
		"clusters", in.clusters,
		"niches", in.niches,
		"cells", in.cells,
		"samples", len(in.samples),
		"duration", result.Stats.LoadTime)

	// Stage 2: Solve (cache-keyed) and map to cluster scores
	solveStart := time.Now()
	observability.Pipeline().OnSolveStart(ctx, opts.Strategy, in.clusters)
	ordering, weight, solveHit, err := r.solve(ctx, in, opts)
	observability.Pipeline().OnSolveComplete(ctx, opts.Strategy, time.Since(solveStart), err)
	if err != nil {
		return nil, err
	}
	result.Ordering = ordering
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolveHit = solveHit

	scores := trajectory.Scores(ordering)
	if opts.Reverse {
		trajectory.Reverse(scores)
	}
	result.ClusterScores = scores

	opts.Logger.Info("solved trajectory",
		"strategy", opts.Strategy,
		"ordering", ordering,
		"weight", weight,
		"cached", solveHit,
		"duration", result.Stats.SolveTime)

	// Stage 3: Propagate cluster scores down to niches and cells
	propagateStart := time.Now()
	summary := artifact.NewSummary(opts.Strategy, opts.Reverse)
	summary.Ordering = ordering
	summary.ClusterScores = scores

	scored, err := r.propagate(ctx, in, scores, summary, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.PropagateTime = time.Since(propagateStart)

	opts.Logger.Info("propagated scores",
		"samples", len(in.samples),
		"cells", in.cells,
		"duration", result.Stats.PropagateTime)

	// Stage 4: Write tables and the run summary
	writeStart := time.Now()
	observability.Pipeline().OnWriteStart(ctx, opts.OutDir)
	summary.SolveElapsed = result.Stats.SolveTime
	summary.CacheHit = solveHit
	summary.TotalElapsed = time.Since(start)
	files, err := r.write(scored, summary, opts)
	observability.Pipeline().OnWriteComplete(ctx, opts.OutDir, len(files), time.Since(writeStart), err)
	if err != nil {
		return nil, err
	}
	result.Files = files
	result.Summary = summary
	result.Stats.WriteTime = time.Since(writeStart)

	opts.Logger.Info("wrote score tables",
		"files", len(files),
		"out", opts.OutDir,
		"duration", result.Stats.WriteTime)

	return result, nil
}

// load reads and cross-validates every upstream artifact. All failures
// surface before any computation starts, so a malformed run writes
// nothing.
func (r *Runner) load(opts Options) (*inputs, error) {
	manifest, err := artifact.LoadManifest(opts.Manifest)
	if err != nil {
		return nil, err
	}

	connectivity, err := artifact.ReadMatrix(filepath.Join(opts.GNNDir, ConnectivityFile))
	if err != nil {
		return nil, err
	}
	loading, err := artifact.ReadMatrix(filepath.Join(opts.GNNDir, LoadingFile))
	if err != nil {
		return nil, err
	}

	adjRows, adjCols := connectivity.Dims()
	loadRows, loadCols := loading.Dims()
	if adjRows != adjCols {
		return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
			"connectivity matrix is not square: %dx%d", adjRows, adjCols)
	}
	if adjRows != loadCols {
		return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
			"connectivity matrix covers %d clusters but loading matrix has %d columns", adjRows, loadCols)
	}

	in := &inputs{
		connectivity: connectivity,
		matrixHash:   cache.Hash(artifact.MarshalMatrix(connectivity)),
		loading:      loading,
		clusters:     adjRows,
	}

	// Samples own contiguous row blocks of the loading matrix in
	// manifest order. Each sample's niche count comes from its weight
	// matrix; the coordinate table supplies one row per cell, and the
	// upstream construction anchors one niche per cell.
	offset := 0
	for _, s := range manifest.Data {
		weights, err := artifact.ReadWeights(manifest.WeightsPath(s, opts.GNNDir))
		if err != nil {
			return nil, err
		}
		table, err := artifact.ReadCoordinates(manifest.CoordinatesPath(s))
		if err != nil {
			return nil, err
		}

		if table.Len() != weights.Cols {
			return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
				"sample %q: coordinate table has %d cells but weight matrix has %d columns",
				s.Name, table.Len(), weights.Cols)
		}
		if weights.Rows != weights.Cols {
			return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
				"sample %q: weight matrix maps %d niches to %d cells, expected one niche per cell",
				s.Name, weights.Rows, weights.Cols)
		}

		in.samples = append(in.samples, &sampleInput{
			sample:  s,
			table:   table,
			weights: weights,
			offset:  offset,
		})
		offset += weights.Rows
		in.niches += weights.Rows
		in.cells += weights.Cols
	}

	if in.niches != loadRows {
		return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
			"samples stack to %d niches but loading matrix has %d rows", in.niches, loadRows)
	}

	return in, nil
}

// cachedTrajectory is the JSON payload stored for a solved ordering.
type cachedTrajectory struct {
	Ordering []int   `json:"ordering"`
	Weight   float64 `json:"weight"`
}

// solve returns the trajectory ordering for the connectivity matrix,
// from the cache when possible. The cache key covers the matrix content
// hash and the strategy, so a cached ordering can never be served for
// different input. Refresh bypasses the lookup but still stores the
// fresh result.
func (r *Runner) solve(ctx context.Context, in *inputs, opts Options) (ordering []int, weight float64, hit bool, err error) {
	key := r.Keyer.TrajectoryKey(in.matrixHash, cache.TrajectoryKeyOpts{Strategy: opts.Strategy})

	if !opts.Refresh {
		if data, found, err := r.Cache.Get(ctx, key); err == nil && found {
			var cached cachedTrajectory
			if err := json.Unmarshal(data, &cached); err == nil && validOrdering(cached.Ordering, in.clusters) {
				observability.Cache().OnCacheHit(ctx, "trajectory")
				return cached.Ordering, cached.Weight, true, nil
			}
			// Corrupt entries fall through to a fresh solve.
		}
		observability.Cache().OnCacheMiss(ctx, "trajectory")
	}

	ordering, err = trajectory.Solve(in.connectivity, opts.TrajectoryStrategy())
	if err != nil {
		return nil, 0, false, err
	}
	weight = trajectory.PathWeight(in.connectivity, ordering)

	if data, err := json.Marshal(cachedTrajectory{Ordering: ordering, Weight: weight}); err == nil {
		if r.Cache.Set(ctx, key, data, opts.CacheTTL) == nil {
			observability.Cache().OnCacheSet(ctx, "trajectory", len(data))
		}
	}

	return ordering, weight, false, nil
}

// scoredSample pairs a sample with its computed score columns.
type scoredSample struct {
	in    *sampleInput
	niche []float64
	cell  []float64
}

// propagate projects cluster scores to niche scores and then, per
// sample, to cell scores. Sample stats are appended to the summary in
// manifest order.
func (r *Runner) propagate(ctx context.Context, in *inputs, clusterScores []float64, summary *artifact.Summary, opts Options) ([]*scoredSample, error) {
	nicheScores, err := propagate.NicheScores(in.loading, clusterScores)
	if err != nil {
		return nil, err
	}

	scored := make([]*scoredSample, 0, len(in.samples))
	for _, s := range in.samples {
		sampleStart := time.Now()
		observability.Pipeline().OnPropagateStart(ctx, s.sample.Name, s.weights.Cols)

		slice := nicheScores[s.offset : s.offset+s.weights.Rows]
		cellScores, err := propagate.CellScores(s.weights, slice)
		observability.Pipeline().OnPropagateComplete(ctx, s.sample.Name, time.Since(sampleStart), err)
		if err != nil {
			return nil, fmt.Errorf("sample %q: %w", s.sample.Name, err)
		}

		opts.Logger.Debug("propagated sample",
			"sample", s.sample.Name,
			"niches", s.weights.Rows,
			"cells", len(cellScores))

		summary.Samples = append(summary.Samples, artifact.StatsFor(s.sample.Name, slice, cellScores))
		scored = append(scored, &scoredSample{in: s, niche: slice, cell: cellScores})
	}

	return scored, nil
}

// write emits one NTScore table per sample, the concatenated table, and
// the run summary. The returned paths are in write order.
func (r *Runner) write(scored []*scoredSample, summary *artifact.Summary, opts Options) ([]string, error) {
	var files []string

	tables := make([]*artifact.Table, 0, len(scored))
	for _, s := range scored {
		if err := s.in.table.AppendScores(s.niche, s.cell); err != nil {
			return nil, fmt.Errorf("sample %q: %w", s.in.sample.Name, err)
		}

		path := filepath.Join(opts.OutDir, TableFile(s.in.sample.Name))
		if err := artifact.WriteTable(s.in.table, path); err != nil {
			return nil, err
		}
		files = append(files, path)
		tables = append(tables, s.in.table)
	}

	concat, err := artifact.ConcatTables(tables)
	if err != nil {
		return nil, err
	}
	concatPath := filepath.Join(opts.OutDir, ConcatTableFile)
	if err := artifact.WriteTable(concat, concatPath); err != nil {
		return nil, err
	}
	files = append(files, concatPath)

	summaryPath := filepath.Join(opts.OutDir, SummaryFile)
	if err := ntio.ExportSummary(summary, summaryPath); err != nil {
		return nil, err
	}
	files = append(files, summaryPath)

	return files, nil
}

// Close releases the cache backend. The runner holds nothing else.
func (r *Runner) Close() error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Close()
}

func clusterCount(in *inputs) int {
	if in == nil {
		return 0
	}
	return in.clusters
}

func sampleCount(in *inputs) int {
	if in == nil {
		return 0
	}
	return len(in.samples)
}

// validOrdering checks a cache payload before trusting it: length n and
// a true permutation.
func validOrdering(ordering []int, n int) bool {
	if len(ordering) != n {
		return false
	}
	seen := make([]bool, n)
	for _, c := range ordering {
		if c < 0 || c >= n || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}
