package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nichetrace/nichetrace/pkg/artifact"
)

// ReadSummary decodes a run summary from r and validates it: the
// ordering must be a permutation of 0..n-1 and cluster_scores must
// carry one entry per ordered cluster. Unknown fields are ignored so
// summaries written by newer versions stay readable. ReadSummary does
// not close r.
func ReadSummary(r io.Reader) (*artifact.Summary, error) {
	var s artifact.Summary
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if len(s.ClusterScores) != len(s.Ordering) {
		return nil, fmt.Errorf("summary has %d cluster scores for %d ordered clusters",
			len(s.ClusterScores), len(s.Ordering))
	}
	if err := validatePermutation(s.Ordering); err != nil {
		return nil, fmt.Errorf("summary ordering: %w", err)
	}

	return &s, nil
}

// ImportSummary reads and validates the summary file at path. A missing
// file surfaces as os.ErrNotExist in the error chain, so callers can
// tell "no run here" apart from a corrupt summary.
func ImportSummary(path string) (*artifact.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSummary(f)
}

// validatePermutation checks that ordering visits each cluster exactly
// once.
func validatePermutation(ordering []int) error {
	seen := make([]bool, len(ordering))
	for _, c := range ordering {
		if c < 0 || c >= len(ordering) {
			return fmt.Errorf("cluster %d out of range [0, %d)", c, len(ordering))
		}
		if seen[c] {
			return fmt.Errorf("cluster %d appears twice", c)
		}
		seen[c] = true
	}
	return nil
}
