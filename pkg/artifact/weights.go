package artifact

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
	"github.com/nichetrace/nichetrace/pkg/propagate"
)

// weightsHeader starts the first line of a sparse weight artifact and
// carries the full matrix shape, which the stored triplets alone cannot
// recover (trailing all-zero rows or columns leave no entries).
const weightsHeader = "#shape:"

// ReadWeights loads a sample's sparse niche weight matrix from its
// coordinate-triplet file. The format is a "#shape: R C" first line, a
// "row,col,value" header, and one record per stored entry. Entries out
// of range, duplicated, or negative are INVALID_INPUT errors.
func ReadWeights(path string) (*propagate.Weights, error) {
	r, err := openArtifact(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	w, err := readWeights(r)
	if err != nil {
		return nil, nterrors.Wrap(nterrors.GetCode(err), err, "niche weights %s", path)
	}
	return w, nil
}

func readWeights(r io.Reader) (*propagate.Weights, error) {
	br := bufio.NewReader(r)

	shapeLine, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, nterrors.Wrap(nterrors.ErrCodeInvalidInput, err, "read shape line")
	}
	rows, cols, err := parseShape(shapeLine)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = 3

	header, err := cr.Read()
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInvalidInput, err, "read column header")
	}
	if header[0] != "row" || header[1] != "col" || header[2] != "value" {
		return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
			"unexpected column header %v, want [row col value]", header)
	}

	w := propagate.NewWeights(rows, cols)
	seen := make(map[[2]int]bool)
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nterrors.Wrap(nterrors.ErrCodeInvalidInput, err, "entry %d", line)
		}

		row, err1 := strconv.Atoi(record[0])
		col, err2 := strconv.Atoi(record[1])
		value, err3 := strconv.ParseFloat(record[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
				"entry %d is not numeric: %v", line, record)
		}

		at := [2]int{row, col}
		if seen[at] {
			return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
				"entry %d duplicates coordinate (%d,%d)", line, row, col)
		}
		seen[at] = true

		w.Set(row, col, value)
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// parseShape extracts "R C" from a "#shape: R C" line.
func parseShape(line string) (rows, cols int, err error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, weightsHeader) {
		return 0, 0, nterrors.New(nterrors.ErrCodeInvalidInput,
			"missing %q shape line, got %q", weightsHeader, line)
	}

	fields := strings.Fields(strings.TrimPrefix(line, weightsHeader))
	if len(fields) != 2 {
		return 0, 0, nterrors.New(nterrors.ErrCodeInvalidInput,
			"malformed shape line %q, want %q R C", line, weightsHeader)
	}

	rows, err1 := strconv.Atoi(fields[0])
	cols, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || rows <= 0 || cols <= 0 {
		return 0, 0, nterrors.New(nterrors.ErrCodeInvalidInput,
			"shape line %q does not name a positive RxC shape", line)
	}
	return rows, cols, nil
}

// WriteWeights writes a sparse weight matrix in the coordinate-triplet
// format read by [ReadWeights].
func WriteWeights(w *propagate.Weights, path string) error {
	if err := w.Validate(); err != nil {
		return err
	}

	out, err := createArtifact(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(out)
	fmt.Fprintf(bw, "%s %d %d\n", weightsHeader, w.Rows, w.Cols)

	cw := csv.NewWriter(bw)
	if err := cw.Write([]string{"row", "col", "value"}); err != nil {
		out.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range w.Entries {
		record := []string{
			strconv.Itoa(e.Row),
			strconv.Itoa(e.Col),
			strconv.FormatFloat(e.Value, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			out.Close()
			return fmt.Errorf("write entry (%d,%d): %w", e.Row, e.Col, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		out.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return out.Close()
}
