package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nichetrace/nichetrace/pkg/config"
	"github.com/nichetrace/nichetrace/pkg/pipeline"
)

// scoreOpts holds the command-line flags for the score command.
type scoreOpts struct {
	gnnDir     string // directory with the GNN stage outputs
	manifest   string // samples manifest path
	out        string // output directory for score tables
	strategy   string // solver strategy: BF or TSP
	reverse    bool   // flip the trajectory direction
	noCache    bool   // disable the trajectory cache
	refresh    bool   // recompute even on a cache hit
	configPath string // optional nichetrace.toml
}

// cacheSettings collects the cache backend knobs. Only --no-cache is
// exposed as a flag; directory, TTL and redis address come from the
// config file.
type cacheSettings struct {
	dir       string
	ttl       time.Duration
	redisAddr string
	disabled  bool
}

// newScoreCmd creates the score command, the full pipeline run.
//
// Inputs can come from flags or from a config file; explicit flags
// always win. The solved trajectory is cached by matrix content, so
// re-running over unchanged GNN outputs skips the solver.
func newScoreCmd() *cobra.Command {
	opts := scoreOpts{strategy: pipeline.DefaultStrategy}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute niche trajectory scores from GNN outputs",
		Long: `Compute niche trajectory scores from GNN outputs.

The score command reads the niche-cluster connectivity and loading
matrices plus the per-sample niche weight matrices, orders the clusters
along a maximum-connectivity trajectory, and writes per-cell NT score
tables and a run summary.

Examples:
  nichetrace score --gnn-dir gnn_out --manifest samples.yaml -o nt_out
  nichetrace score --config nichetrace.toml --strategy TSP --reverse`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.gnnDir, "gnn-dir", "", "directory with GNN stage outputs")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "samples manifest file (YAML)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory for score tables")
	cmd.Flags().StringVar(&opts.strategy, "strategy", opts.strategy, "solver strategy: BF or TSP")
	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "flip the trajectory direction")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the trajectory cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached solution exists")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (nichetrace.toml)")

	return cmd
}

// runScore builds the cache backend and executes the pipeline.
func runScore(cmd *cobra.Command, opts *scoreOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	settings := cacheSettings{ttl: pipeline.DefaultCacheTTL}
	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		applyConfig(cmd, opts, &settings, cfg)
	}
	if opts.noCache {
		settings.disabled = true
	}

	c, err := newCache(settings.dir, settings.redisAddr, settings.disabled)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(c, nil, logger)
	defer runner.Close()

	done := trackProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		GNNDir:   opts.gnnDir,
		Manifest: opts.manifest,
		OutDir:   opts.out,
		Strategy: opts.strategy,
		Reverse:  opts.reverse,
		Refresh:  opts.refresh,
		CacheTTL: settings.ttl,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	done(fmt.Sprintf("Scored %d cells across %d samples", result.Stats.Cells, result.Stats.Samples))

	printSuccess("Scoring complete")
	for _, file := range result.Files {
		printFile(file)
	}
	printStats(result.Stats.Clusters, result.Stats.Niches, result.Stats.Cells, result.CacheInfo.SolveHit)
	printNewline()
	printNextStep("Inspect the run", appName+" view "+opts.out)

	return nil
}

// applyConfig merges config file values under explicit flags: a flag
// the user set on the command line always wins over the file. Cache
// settings have no flag counterparts and come from the file alone.
func applyConfig(cmd *cobra.Command, opts *scoreOpts, settings *cacheSettings, cfg *config.Config) {
	flags := cmd.Flags()

	if !flags.Changed("gnn-dir") && cfg.Paths.GNNDir != "" {
		opts.gnnDir = cfg.Paths.GNNDir
	}
	if !flags.Changed("manifest") && cfg.Paths.Manifest != "" {
		opts.manifest = cfg.Paths.Manifest
	}
	if !flags.Changed("out") && cfg.Paths.OutDir != "" {
		opts.out = cfg.Paths.OutDir
	}
	if !flags.Changed("strategy") && cfg.Trajectory.Strategy != "" {
		opts.strategy = cfg.Trajectory.Strategy
	}
	if !flags.Changed("reverse") && cfg.Trajectory.Reverse {
		opts.reverse = true
	}

	settings.dir = cfg.Cache.Dir
	if cfg.Cache.TTL.Duration > 0 {
		settings.ttl = cfg.Cache.TTL.Duration
	}
	settings.redisAddr = cfg.Cache.RedisAddr
	settings.disabled = cfg.Cache.Disabled
}
