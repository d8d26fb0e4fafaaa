package artifact

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
)

// ReadMatrix loads a dense matrix from a headerless comma-delimited
// file, decompressing ".gz" paths. Every row must have the same number
// of fields and every field must parse as a float; violations are
// INVALID_INPUT errors naming the offending position.
func ReadMatrix(path string) (*mat.Dense, error) {
	r, err := openArtifact(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	m, err := readMatrix(r)
	if err != nil {
		return nil, nterrors.Wrap(nterrors.GetCode(err), err, "matrix %s", path)
	}
	return m, nil
}

func readMatrix(r io.Reader) (*mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row length checked below for a clearer error

	var data []float64
	rows, cols := 0, 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nterrors.Wrap(nterrors.ErrCodeInvalidInput, err, "row %d", rows+1)
		}

		if cols == 0 {
			cols = len(record)
		} else if len(record) != cols {
			return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
				"row %d has %d fields, expected %d", rows+1, len(record), cols)
		}

		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
					"entry (%d,%d) is not a number: %q", rows, i, field)
			}
			data = append(data, v)
		}
		rows++
	}

	if rows == 0 {
		return nil, nterrors.New(nterrors.ErrCodeInvalidInput, "matrix is empty")
	}
	return mat.NewDense(rows, cols, data), nil
}

// WriteMatrix writes a dense matrix as headerless comma-delimited rows,
// compressing ".gz" paths. The format round-trips through [ReadMatrix].
func WriteMatrix(m *mat.Dense, path string) error {
	w, err := createArtifact(path)
	if err != nil {
		return err
	}

	if err := writeMatrix(m, w); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return w.Close()
}

// MarshalMatrix returns the canonical delimited-text encoding of a
// matrix, uncompressed. Pipeline stages hash it to content-address the
// matrix independently of how its file was stored.
func MarshalMatrix(m *mat.Dense) []byte {
	var buf bytes.Buffer
	_ = writeMatrix(m, &buf) // bytes.Buffer writes cannot fail
	return buf.Bytes()
}

func writeMatrix(m *mat.Dense, w io.Writer) error {
	rows, cols := m.Dims()
	cw := csv.NewWriter(w)
	record := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			record[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
