package artifact

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
)

// isGzip reports whether path names a gzip-compressed artifact.
// Compression is decided by extension only; readers do not sniff bytes.
func isGzip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}

// openArtifact opens path for reading, transparently decompressing
// ".gz" files. A missing file is a MISSING_ARTIFACT error.
func openArtifact(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nterrors.Wrap(nterrors.ErrCodeMissingArtifact, err,
			"required artifact %s does not exist", path)
	}
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeMissingArtifact, err,
			"open %s", path)
	}

	if !isGzip(path) {
		return f, nil
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nterrors.Wrap(nterrors.ErrCodeInvalidInput, err,
			"%s is not a valid gzip stream", path)
	}
	return &gzipReadCloser{zr: zr, f: f}, nil
}

// gzipReadCloser closes both the gzip stream and the underlying file.
type gzipReadCloser struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipReadCloser) Close() error {
	zerr := g.zr.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// createArtifact creates path for writing (parent directories included),
// transparently compressing ".gz" files.
func createArtifact(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInternal, err,
			"create directory for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInternal, err,
			"create %s", path)
	}

	if !isGzip(path) {
		return f, nil
	}
	return &gzipWriteCloser{zw: gzip.NewWriter(f), f: f}, nil
}

// gzipWriteCloser flushes the gzip stream before closing the file.
type gzipWriteCloser struct {
	zw *gzip.Writer
	f  *os.File
}

func (g *gzipWriteCloser) Write(p []byte) (int, error) { return g.zw.Write(p) }

func (g *gzipWriteCloser) Close() error {
	zerr := g.zw.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}
