package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadMatrix(t *testing.T) {
	path := writeFile(t, "adj.csv", "0,1.5,2\n1.5,0,0.25\n2,0.25,0\n")

	m, err := ReadMatrix(path)
	if err != nil {
		t.Fatalf("ReadMatrix() error = %v", err)
	}

	rows, cols := m.Dims()
	if rows != 3 || cols != 3 {
		t.Fatalf("ReadMatrix() dims = %dx%d, want 3x3", rows, cols)
	}
	if got := m.At(0, 1); got != 1.5 {
		t.Errorf("m[0,1] = %v, want 1.5", got)
	}
	if got := m.At(2, 1); got != 0.25 {
		t.Errorf("m[2,1] = %v, want 0.25", got)
	}
}

func TestMatrixRoundTripGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "loading.csv.gz")
	want := mat.NewDense(2, 3, []float64{0.5, 0.25, 0.25, 0, 1, 0})

	if err := WriteMatrix(want, path); err != nil {
		t.Fatalf("WriteMatrix() error = %v", err)
	}
	got, err := ReadMatrix(path)
	if err != nil {
		t.Fatalf("ReadMatrix() error = %v", err)
	}

	if !mat.Equal(got, want) {
		t.Errorf("round trip mismatch:\ngot  %v\nwant %v", mat.Formatted(got), mat.Formatted(want))
	}
}

func TestReadMatrixMissing(t *testing.T) {
	_, err := ReadMatrix(filepath.Join(t.TempDir(), "absent.csv.gz"))
	if !nterrors.Is(err, nterrors.ErrCodeMissingArtifact) {
		t.Errorf("ReadMatrix() error = %v, want MISSING_ARTIFACT", err)
	}
}

func TestReadMatrixRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"ragged rows", "0,1\n0,1,2\n"},
		{"non-numeric entry", "0,1\n0,x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.csv", tt.content)
			if _, err := ReadMatrix(path); !nterrors.Is(err, nterrors.ErrCodeInvalidInput) {
				t.Errorf("ReadMatrix() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestReadMatrixCorruptGzip(t *testing.T) {
	path := writeFile(t, "adj.csv.gz", "this is not gzip data")
	if _, err := ReadMatrix(path); !nterrors.Is(err, nterrors.ErrCodeInvalidInput) {
		t.Errorf("ReadMatrix() error = %v, want INVALID_INPUT", err)
	}
}
