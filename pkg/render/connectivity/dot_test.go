package connectivity

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestToDOT(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		0, 5, 1,
		5, 0, 2,
		1, 2, 0,
	})

	dot, err := ToDOT(m, Options{})
	if err != nil {
		t.Fatalf("ToDOT failed: %v", err)
	}

	if !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("DOT should declare an undirected graph, got %q", dot[:20])
	}
	for _, want := range []string{`0 [label="0"]`, `1 [label="1"]`, `2 [label="2"]`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing node statement %q:\n%s", want, dot)
		}
	}
	// Three positive weights above the diagonal.
	if got := strings.Count(dot, " -- "); got != 3 {
		t.Errorf("DOT has %d edges, want 3:\n%s", got, dot)
	}
	// The strongest edge renders at full width.
	if !strings.Contains(dot, "0 -- 1 [penwidth=3.00") {
		t.Errorf("Strongest edge should have penwidth 3.00:\n%s", dot)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	m := mat.NewDense(4, 4, []float64{
		0, 1, 2, 3,
		1, 0, 4, 5,
		2, 4, 0, 6,
		3, 5, 6, 0,
	})

	first, err := ToDOT(m, Options{Scores: []float64{0, 1.0 / 3, 2.0 / 3, 1}})
	if err != nil {
		t.Fatalf("ToDOT failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := ToDOT(m, Options{Scores: []float64{0, 1.0 / 3, 2.0 / 3, 1}})
		if err != nil {
			t.Fatalf("ToDOT failed: %v", err)
		}
		if again != first {
			t.Fatal("ToDOT output should be deterministic")
		}
	}
}

func TestToDOTSkipsZeroWeights(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		0, 0, 7,
		0, 0, 0,
		7, 0, 0,
	})

	dot, err := ToDOT(m, Options{})
	if err != nil {
		t.Fatalf("ToDOT failed: %v", err)
	}
	if got := strings.Count(dot, " -- "); got != 1 {
		t.Errorf("DOT has %d edges, want 1 (only 0--2 is connected):\n%s", got, dot)
	}
	if !strings.Contains(dot, "0 -- 2") {
		t.Errorf("DOT missing the 0 -- 2 edge:\n%s", dot)
	}
}

func TestToDOTValidation(t *testing.T) {
	if _, err := ToDOT(mat.NewDense(2, 3, nil), Options{}); err == nil {
		t.Error("Non-square matrix should fail")
	}

	square := mat.NewDense(3, 3, nil)
	if _, err := ToDOT(square, Options{Scores: []float64{0, 1}}); err == nil {
		t.Error("Score count mismatch should fail")
	}
}

func TestGradientColorEndpoints(t *testing.T) {
	tests := []struct {
		score    float64
		wantFill string
	}{
		{0, "#7f00ff"},   // violet
		{1, "#ff0000"},   // red
		{0.5, "#7fffb4"}, // green midpoint
	}

	for _, tt := range tests {
		fill, _ := gradientColor(tt.score)
		if fill != tt.wantFill {
			t.Errorf("gradientColor(%v) = %s, want %s", tt.score, fill, tt.wantFill)
		}
	}
}

func TestGradientFontContrast(t *testing.T) {
	// Dark violet gets white labels, bright green gets black.
	if _, font := gradientColor(0); font != "white" {
		t.Errorf("Score 0 font = %s, want white", font)
	}
	if _, font := gradientColor(0.5); font != "black" {
		t.Errorf("Score 0.5 font = %s, want black", font)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	svg := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">` +
		`<g></g></svg>`)

	out := string(normalizeViewBox(svg))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("width/height not rewritten: %s", out)
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	svg := []byte("<svg><g></g></svg>")
	if got := string(normalizeViewBox(svg)); got != string(svg) {
		t.Errorf("SVG without viewBox should pass through, got %s", got)
	}
}
