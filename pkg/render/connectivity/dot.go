package connectivity

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
	"gonum.org/v1/gonum/mat"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
)

// Options configures connectivity graph rendering.
type Options struct {
	// Scores holds one NT score per cluster in [0, 1]. When set, node
	// fills follow the score gradient from violet (0) to red (1) and
	// labels include the score.
	Scores []float64
}

// ToDOT converts a cluster connectivity matrix to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// The graph is undirected: one node per cluster and one edge per strictly
// positive weight above the diagonal. Edge widths and opacities scale with
// the weight relative to the strongest connection, so the dominant
// transitions stand out regardless of the matrix's absolute magnitude.
func ToDOT(m *mat.Dense, opts Options) (string, error) {
	n, cols := m.Dims()
	if n != cols {
		return "", nterrors.New(nterrors.ErrCodeInvalidInput,
			"connectivity matrix is not square: %dx%d", n, cols)
	}
	if opts.Scores != nil && len(opts.Scores) != n {
		return "", nterrors.New(nterrors.ErrCodeInvalidInput,
			"%d scores for %d clusters", len(opts.Scores), n)
	}

	maxWeight := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if w := m.At(i, j); w > maxWeight {
				maxWeight = w
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  label=\"Niche cluster connectivity\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14, fixedsize=true, width=0.7];\n")
	buf.WriteString("\n")

	for i := 0; i < n; i++ {
		fmt.Fprintf(&buf, "  %d [%s];\n", i, nodeAttrs(i, opts.Scores))
	}

	buf.WriteString("\n")
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := m.At(i, j)
			if w <= 0 {
				continue
			}
			rel := 1.0
			if maxWeight > 0 {
				rel = w / maxWeight
			}
			fmt.Fprintf(&buf, "  %d -- %d [penwidth=%.2f, color=\"%s\"];\n",
				i, j, 0.5+2.5*rel, edgeColor(rel))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func nodeAttrs(cluster int, scores []float64) string {
	if scores == nil {
		return fmt.Sprintf("label=%q", strconv.Itoa(cluster))
	}
	s := scores[cluster]
	fill, font := gradientColor(s)
	return fmt.Sprintf("label=%q, fillcolor=\"%s\", fontcolor=\"%s\"",
		fmt.Sprintf("%d\n%.2f", cluster, s), fill, font)
}

// gradientColor maps a score in [0, 1] onto a rainbow gradient running
// violet, blue, green, yellow, red, and picks a contrasting font color.
func gradientColor(s float64) (fill, font string) {
	s = clamp(s, 0, 1)
	r := clamp(math.Abs(2*s-0.5), 0, 1)
	g := math.Sin(s * math.Pi)
	b := math.Cos(s * math.Pi / 2)

	// Perceived luminance decides black or white labels.
	if 0.299*r+0.587*g+0.114*b > 0.6 {
		font = "black"
	} else {
		font = "white"
	}
	return fmt.Sprintf("#%02x%02x%02x", int(r*255), int(g*255), int(b*255)), font
}

// edgeColor fades weak connections out: full red for the strongest edge,
// increasingly transparent for weaker ones.
func edgeColor(rel float64) string {
	alpha := int(clamp(rel, 0.1, 1) * 255)
	return fmt.Sprintf("#b22222%02x", alpha)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or embedding.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG, normalizeViewBox)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG, nil)
}

func render(dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeRender, err, "render %s", format)
	}

	out := buf.Bytes()
	if post != nil {
		out = post(out)
	}
	return out, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so the viewBox starts at
// the origin and explicit width/height attributes match it. Graphviz emits
// point-based sizes that scale inconsistently across embedders.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
