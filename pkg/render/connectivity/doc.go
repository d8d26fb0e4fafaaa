// Package connectivity renders niche-cluster connectivity graphs.
//
// # Overview
//
// This package turns a cluster connectivity matrix into an undirected
// Graphviz diagram: one node per cluster, one edge per positive
// connection. When NT scores are supplied, nodes are filled along the
// score gradient so the solved trajectory reads directly off the image,
// low-score clusters in violet and high-score clusters in red.
//
// # Usage
//
// Convert a matrix to DOT format, then render to SVG:
//
//	dot, err := connectivity.ToDOT(m, connectivity.Options{Scores: scores})
//	svg, err := connectivity.RenderSVG(dot)
//
// For raster output, use [RenderPNG] instead.
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Scores: per-cluster NT scores; enables gradient fills and score labels
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// Node and edge statements are emitted in ascending cluster order, so the
// output is deterministic for a given matrix. Edge pen widths and colors
// scale with weight relative to the strongest connection.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no external Graphviz installation is required.
package connectivity
