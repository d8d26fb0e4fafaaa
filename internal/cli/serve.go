package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/nichetrace/nichetrace/pkg/artifact"
	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
	ntio "github.com/nichetrace/nichetrace/pkg/io"
	"github.com/nichetrace/nichetrace/pkg/pipeline"
)

// newServeCmd creates the serve command, an HTTP API over a score
// output directory.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <ntscore-dir>",
		Short: "Serve score tables and the run summary over HTTP",
		Long: `Serve score tables and the run summary over HTTP.

Endpoints:
  GET /api/summary         run summary (ordering, scores, sample stats)
  GET /api/samples         per-sample stats from the summary
  GET /api/samples/{name}  one sample's score table as JSON
  GET /files/*             raw artifacts from the score directory`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

// runServe starts the HTTP server and shuts it down when the context
// is cancelled.
func runServe(ctx context.Context, dir, addr string) error {
	logger := loggerFromContext(ctx)

	// Fail fast on a directory without a run summary so a typo surfaces
	// before the port is bound.
	if _, err := ntio.ImportSummary(filepath.Join(dir, pipeline.SummaryFile)); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServeHandler(dir, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", addr, "dir", dir)
	printInfo("Serving %s", dir)
	printKeyValue("Summary", StyleLink.Render(listenURL(addr)+"/api/summary"))
	printKeyValue("Files", StyleLink.Render(listenURL(addr)+"/files/"))

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// listenURL turns a listen address into something clickable. Bare-port
// addresses like ":8080" resolve to localhost.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// sampleTable is the JSON shape of one sample's score table.
type sampleTable struct {
	Name   string     `json:"name"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// newServeHandler builds the router over a score directory. Artifacts
// are re-read per request so a re-run of score shows up without a
// server restart.
func newServeHandler(dir string, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	summaryPath := filepath.Join(dir, pipeline.SummaryFile)

	r.Get("/api/summary", func(w http.ResponseWriter, req *http.Request) {
		summary, err := ntio.ImportSummary(summaryPath)
		if err != nil {
			writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	})

	r.Get("/api/samples", func(w http.ResponseWriter, req *http.Request) {
		summary, err := ntio.ImportSummary(summaryPath)
		if err != nil {
			writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary.Samples)
	})

	r.Get("/api/samples/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		if err := nterrors.ValidateSampleName(name); err != nil {
			writeAPIError(w, err)
			return
		}
		table, err := artifact.ReadCoordinates(filepath.Join(dir, pipeline.TableFile(name)))
		if err != nil {
			writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sampleTable{Name: name, Header: table.Header, Rows: table.Rows})
	})

	// Raw artifact access. The wildcard is validated before it touches
	// the filesystem so traversal attempts come back as structured 400s;
	// an empty remainder serves the directory listing.
	r.Handle("/files/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rel := chi.URLParam(req, "*")
		if rel != "" {
			if err := nterrors.ValidateRelativePath(rel); err != nil {
				writeAPIError(w, err)
				return
			}
		}
		http.ServeFile(w, req, filepath.Join(dir, filepath.FromSlash(rel)))
	}))

	return r
}

// requestLogger logs one line per request, keyed by the chi request id.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, req)
			logger.Info("request",
				"id", middleware.GetReqID(req.Context()),
				"method", req.Method,
				"path", req.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
			)
		})
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeAPIError maps structured error codes onto HTTP statuses. The
// body carries the user-facing message only; internals stay in logs.
func writeAPIError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch nterrors.GetCode(err) {
	case nterrors.ErrCodeMissingArtifact:
		status = http.StatusNotFound
	case nterrors.ErrCodeInvalidSample, nterrors.ErrCodeInvalidPath, nterrors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	default:
		// The summary reader reports a deleted file as a plain os error.
		if errors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
		}
	}
	writeJSON(w, status, map[string]string{"error": nterrors.UserMessage(err)})
}
