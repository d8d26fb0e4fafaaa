package artifact

import (
	"path/filepath"
	"testing"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
	"github.com/nichetrace/nichetrace/pkg/propagate"
)

func TestWeightsRoundTrip(t *testing.T) {
	w := propagate.NewWeights(3, 4)
	w.Set(0, 0, 1)
	w.Set(1, 0, 0.5)
	w.Set(2, 3, 0.125)
	w.Set(1, 2, 2)

	path := filepath.Join(t.TempDir(), "s1_NicheWeightMatrix.csv.gz")
	if err := WriteWeights(w, path); err != nil {
		t.Fatalf("WriteWeights() error = %v", err)
	}

	got, err := ReadWeights(path)
	if err != nil {
		t.Fatalf("ReadWeights() error = %v", err)
	}
	if got.Rows != 3 || got.Cols != 4 {
		t.Fatalf("ReadWeights() shape = %dx%d, want 3x4", got.Rows, got.Cols)
	}
	if len(got.Entries) != len(w.Entries) {
		t.Fatalf("ReadWeights() has %d entries, want %d", len(got.Entries), len(w.Entries))
	}
	for i, e := range w.Entries {
		if got.Entries[i] != e {
			t.Errorf("entry %d = %+v, want %+v", i, got.Entries[i], e)
		}
	}
}

func TestReadWeightsMissing(t *testing.T) {
	_, err := ReadWeights(filepath.Join(t.TempDir(), "absent.csv.gz"))
	if !nterrors.Is(err, nterrors.ErrCodeMissingArtifact) {
		t.Errorf("ReadWeights() error = %v, want MISSING_ARTIFACT", err)
	}
}

func TestReadWeightsRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no shape line", "row,col,value\n0,0,1\n"},
		{"short shape line", "#shape: 3\nrow,col,value\n"},
		{"non-positive shape", "#shape: 0 4\nrow,col,value\n"},
		{"wrong column header", "#shape: 2 2\ni,j,w\n0,0,1\n"},
		{"non-numeric entry", "#shape: 2 2\nrow,col,value\n0,0,x\n"},
		{"duplicate coordinate", "#shape: 2 2\nrow,col,value\n0,0,1\n0,0,2\n1,1,1\n"},
		{"row out of range", "#shape: 2 2\nrow,col,value\n5,0,1\n"},
		{"negative value", "#shape: 2 2\nrow,col,value\n0,0,-1\n1,1,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "w.csv", tt.content)
			if _, err := ReadWeights(path); !nterrors.Is(err, nterrors.ErrCodeInvalidInput) {
				t.Errorf("ReadWeights() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

// Trailing zero rows and columns carry no entries, so the shape line is
// the only place they survive a round trip.
func TestWeightsShapePreservedWithoutEntries(t *testing.T) {
	w := propagate.NewWeights(5, 7)
	w.Set(0, 0, 1)

	path := filepath.Join(t.TempDir(), "w.csv")
	if err := WriteWeights(w, path); err != nil {
		t.Fatalf("WriteWeights() error = %v", err)
	}
	got, err := ReadWeights(path)
	if err != nil {
		t.Fatalf("ReadWeights() error = %v", err)
	}
	if got.Rows != 5 || got.Cols != 7 {
		t.Errorf("ReadWeights() shape = %dx%d, want 5x7", got.Rows, got.Cols)
	}
}
