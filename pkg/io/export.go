package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nichetrace/nichetrace/pkg/artifact"
)

// WriteSummary encodes s as indented JSON on w. The output re-imports
// with [ReadSummary] to the same value.
func WriteSummary(s *artifact.Summary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportSummary writes s to a JSON file at path, creating or truncating
// it. The close error is returned: a summary that did not reach disk
// should fail the run.
func ExportSummary(s *artifact.Summary, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSummary(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
