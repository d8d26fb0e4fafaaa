package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/nichetrace/nichetrace/pkg/artifact"
	"github.com/nichetrace/nichetrace/pkg/cache"
	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
	ntio "github.com/nichetrace/nichetrace/pkg/io"
	"github.com/nichetrace/nichetrace/pkg/observability"
	"github.com/nichetrace/nichetrace/pkg/render/connectivity"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	format  string // output format: dot, svg, or png
	output  string // output file path (derived from input if empty)
	summary string // optional summary.json supplying node colors
	noCache bool   // disable the render cache
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"dot": true, "svg": true, "png": true}

// newRenderCmd creates the render command for connectivity graphs.
// Node fills follow the trajectory score gradient when a run summary is
// supplied; edge widths scale with connectivity weight either way.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{format: "svg"}

	cmd := &cobra.Command{
		Use:   "render <connectivity.csv>",
		Short: "Render the niche-cluster connectivity graph",
		Long: `Render the niche-cluster connectivity graph.

Reads a connectivity matrix and draws the cluster graph with edge
widths scaled by connectivity weight. Pass --summary to color each
node along the trajectory score gradient of a previous score run.

Examples:
  nichetrace render gnn_out/consolidate_out_adj.csv.gz
  nichetrace render gnn_out/consolidate_out_adj.csv.gz --summary nt_out/summary.json -f png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormats[opts.format] {
				return nterrors.New(nterrors.ErrCodeUnsupported,
					"unsupported output format %q (want dot, svg, or png)", opts.format)
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png, dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVar(&opts.summary, "summary", "", "summary.json whose cluster scores color the nodes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// runRender loads the matrix and optional summary, renders the graph,
// and writes the output file.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	m, err := artifact.ReadMatrix(input)
	if err != nil {
		return err
	}
	n, _ := m.Dims()
	logger.Debugf("Loaded %dx%d connectivity matrix from %s", n, n, input)

	var scores []float64
	if opts.summary != "" {
		summary, err := ntio.ImportSummary(opts.summary)
		if err != nil {
			return err
		}
		if len(summary.ClusterScores) != n {
			return nterrors.New(nterrors.ErrCodeInvalidInput,
				"summary covers %d clusters but the matrix has %d", len(summary.ClusterScores), n)
		}
		scores = summary.ClusterScores
		logger.Debugf("Coloring nodes from %s", opts.summary)
	}

	data, cached, err := renderGraph(ctx, m, scores, opts)
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", opts.format, len(data))

	outputPath := opts.output
	if outputPath == "" {
		outputPath = trimArtifactExt(input) + "." + opts.format
	}

	out, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}

	printSuccess("Rendered connectivity graph")
	printFile(outputPath)
	printStats(n, 0, 0, cached)

	return nil
}

// renderGraph produces the requested format, consulting the render
// cache for svg and png. DOT output is cheap and never cached.
func renderGraph(ctx context.Context, m *mat.Dense, scores []float64, opts *renderOpts) ([]byte, bool, error) {
	dot, err := connectivity.ToDOT(m, connectivity.Options{Scores: scores})
	if err != nil {
		return nil, false, err
	}
	if opts.format == "dot" {
		return []byte(dot), false, nil
	}

	var (
		c   cache.Cache
		key string
	)
	if !opts.noCache {
		if dir, err := cacheDir(); err == nil {
			if fc, err := cache.NewFileCache(dir); err == nil {
				c = fc
				defer c.Close()
				key = cache.NewDefaultKeyer().RenderKey(
					cache.Hash(artifact.MarshalMatrix(m)),
					cache.RenderKeyOpts{Format: opts.format, Scored: scores != nil},
				)
				if data, ok, err := c.Get(ctx, key); err == nil && ok {
					observability.Cache().OnCacheHit(ctx, "render")
					return data, true, nil
				}
				observability.Cache().OnCacheMiss(ctx, "render")
			}
		}
	}

	var data []byte
	switch opts.format {
	case "svg":
		data, err = connectivity.RenderSVG(dot)
	case "png":
		data, err = connectivity.RenderPNG(dot)
	}
	if err != nil {
		return nil, false, err
	}

	if c != nil {
		// Best effort: a failed cache write never fails the render.
		if c.Set(ctx, key, data, cache.TTLRender) == nil {
			observability.Cache().OnCacheSet(ctx, "render", len(data))
		}
	}
	return data, false, nil
}

// trimArtifactExt strips the extension from an artifact path, treating
// compressed names like matrix.csv.gz as a single extension.
func trimArtifactExt(path string) string {
	path = strings.TrimSuffix(path, ".gz")
	return strings.TrimSuffix(path, filepath.Ext(path))
}
