// Package pkg provides the core libraries for nichetrace trajectory analysis.
//
// # Overview
//
// nichetrace takes the niche-cluster outputs of a spatial GNN run and orders
// the clusters along a one-dimensional tissue trajectory, then projects that
// ordering down to niches and individual cells. The pkg directory is
// organized into three main areas:
//
//  1. Domain logic - trajectory construction and score propagation
//  2. Artifacts - delimited matrix and table formats shared with the GNN stage
//  3. Infrastructure - pipeline orchestration, caching, config, rendering
//
// # Architecture
//
// The typical data flow through nichetrace:
//
//	GNN outputs (connectivity, loading, niche weight matrices)
//	         ↓
//	    [artifact] package (parse matrices, manifests, tables)
//	         ↓
//	    [trajectory] package (maximum-connectivity cluster ordering)
//	         ↓
//	    [propagate] package (cluster scores → niche scores → cell scores)
//	         ↓
//	    NTScore tables + summary.json
//
// # Quick Start
//
// Run the full pipeline programmatically:
//
//	import (
//	    "context"
//	    "github.com/nichetrace/nichetrace/pkg/cache"
//	    "github.com/nichetrace/nichetrace/pkg/pipeline"
//	)
//
//	c, _ := cache.NewFileCache("/tmp/ntcache")
//	runner := pipeline.NewRunner(c, nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    GNNDir:   "gnn_out",
//	    Manifest: "samples.yaml",
//	    OutDir:   "nt_out",
//	})
//
// Or solve a trajectory directly:
//
//	ordering, err := trajectory.Solve(connectivity, trajectory.StrategyBruteForce)
//	scores := trajectory.Scores(ordering)
//
// # Main Packages
//
// ## Domain Logic
//
// [trajectory] - Maximum-weight Hamiltonian path construction over the
// niche-cluster connectivity matrix. Two strategies: brute-force permutation
// scan (BF, exact) and Held-Karp dynamic programming with weakest-edge cycle
// cut (TSP, exact cycle followed by an approximating cut).
//
// [propagate] - Sparse niche weight handling and the two projection steps
// that carry cluster scores down to niches (loading matrix product) and to
// cells (column-normalized weight mixing).
//
// ## Artifacts
//
// [artifact] - Readers and writers for the delimited artifacts: dense
// matrices, sparse COO weight matrices, coordinate tables, the samples
// manifest, and the run summary. Gzip compression is decided by extension.
//
// [io] - JSON import/export of run summaries for downstream tooling.
//
// ## Infrastructure
//
// [pipeline] - Staged orchestration (load → solve → propagate → write) with
// content-addressed caching of solved orderings and per-stage progress
// logging. Used by both the CLI and the HTTP layer.
//
// [cache] - Byte-oriented cache with TTLs behind a Keyer that derives
// content-addressed keys. FileCache for CLI runs, RedisCache for shared
// deployments, NullCache for --no-cache.
//
// [render] - Connectivity graph rendering. [render/connectivity] emits
// deterministic DOT and rasterizes it to SVG or PNG via graphviz, with node
// fills following the trajectory score gradient.
//
// [config] - Optional nichetrace.toml loading with strict unknown-key
// rejection.
//
// [errors] - Structured error codes shared across packages and surfaced in
// CLI and HTTP error output.
//
// [observability] - Hook registry for pipeline and cache events, used to
// instrument runs without coupling the pipeline to any metrics backend.
//
// [buildinfo] - Version metadata injected at build time via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/trajectory/...   # Specific package
//	go test -run Example           # Examples only
//
// [trajectory]: https://pkg.go.dev/github.com/nichetrace/nichetrace/pkg/trajectory
// [propagate]: https://pkg.go.dev/github.com/nichetrace/nichetrace/pkg/propagate
// [artifact]: https://pkg.go.dev/github.com/nichetrace/nichetrace/pkg/artifact
// [io]: https://pkg.go.dev/github.com/nichetrace/nichetrace/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/nichetrace/nichetrace/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/nichetrace/nichetrace/pkg/cache
// [render]: https://pkg.go.dev/github.com/nichetrace/nichetrace/pkg/render
// [render/connectivity]: https://pkg.go.dev/github.com/nichetrace/nichetrace/pkg/render/connectivity
// [config]: https://pkg.go.dev/github.com/nichetrace/nichetrace/pkg/config
// [errors]: https://pkg.go.dev/github.com/nichetrace/nichetrace/pkg/errors
// [observability]: https://pkg.go.dev/github.com/nichetrace/nichetrace/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/nichetrace/nichetrace/pkg/buildinfo
package pkg
