package artifact

import (
	"encoding/csv"
	"strconv"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
)

// Score column names appended to coordinate tables.
const (
	ColNicheNTScore = "Niche_NTScore"
	ColCellNTScore  = "Cell_NTScore"
)

// Table is a rectangular CSV table with a header row. The first column
// holds cell identifiers; any further coordinate columns are carried
// through untouched.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadCoordinates loads a sample's cell coordinate table. The file must
// have a header row and at least one column (the cell identifier); all
// columns are preserved verbatim.
func ReadCoordinates(path string) (*Table, error) {
	rc, err := openArtifact(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	cr := csv.NewReader(rc)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInvalidInput, err,
			"parse coordinate table %s", path)
	}
	if len(records) < 2 {
		return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
			"coordinate table %s has no data rows", path)
	}
	if len(records[0]) < 1 {
		return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
			"coordinate table %s has no columns", path)
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// AppendScores adds Niche_NTScore and Cell_NTScore columns. Both slices
// must have exactly one value per data row, in row order.
func (t *Table) AppendScores(niche, cell []float64) error {
	if len(niche) != len(t.Rows) || len(cell) != len(t.Rows) {
		return nterrors.New(nterrors.ErrCodeInvalidInput,
			"score count mismatch: table has %d rows, got %d niche and %d cell scores",
			len(t.Rows), len(niche), len(cell))
	}
	t.Header = append(t.Header, ColNicheNTScore, ColCellNTScore)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i],
			strconv.FormatFloat(niche[i], 'g', -1, 64),
			strconv.FormatFloat(cell[i], 'g', -1, 64))
	}
	return nil
}

// WriteTable writes the table as CSV, gzip-compressed when the path
// ends in .gz.
func WriteTable(t *Table, path string) error {
	wc, err := createArtifact(path)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(wc)
	if err := cw.Write(t.Header); err != nil {
		wc.Close()
		return nterrors.Wrap(nterrors.ErrCodeInternal, err, "write table %s", path)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			wc.Close()
			return nterrors.Wrap(nterrors.ErrCodeInternal, err, "write table %s", path)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		wc.Close()
		return nterrors.Wrap(nterrors.ErrCodeInternal, err, "write table %s", path)
	}
	if err := wc.Close(); err != nil {
		return nterrors.Wrap(nterrors.ErrCodeInternal, err, "write table %s", path)
	}
	return nil
}

// ConcatTables stacks tables that share a header into one. Row order
// follows the argument order. Headers must match exactly.
func ConcatTables(tables []*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, nterrors.New(nterrors.ErrCodeInvalidInput, "no tables to concatenate")
	}

	out := &Table{Header: tables[0].Header}
	for i, t := range tables {
		if !equalHeader(t.Header, out.Header) {
			return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
				"table %d header %v does not match %v", i, t.Header, out.Header)
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out, nil
}

func equalHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
