package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nichetrace/nichetrace/pkg/artifact"
	"github.com/nichetrace/nichetrace/pkg/trajectory"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	strategy string // solver strategy: BF or TSP
	reverse  bool   // flip the trajectory direction
	asJSON   bool   // emit machine-readable JSON instead of styled text
	output   string // output file path (stdout if empty)
}

// solveResult is the JSON shape emitted with --json.
type solveResult struct {
	Strategy      string    `json:"strategy"`
	Ordering      []int     `json:"ordering"`
	Weight        float64   `json:"weight"`
	ClusterScores []float64 `json:"cluster_scores"`
}

// newSolveCmd creates the solve command, the bare trajectory solver.
// It reads a connectivity matrix and prints the cluster ordering with
// per-cluster scores, without touching weights, cells, or the cache.
func newSolveCmd() *cobra.Command {
	opts := solveOpts{strategy: string(trajectory.StrategyBruteForce)}

	cmd := &cobra.Command{
		Use:   "solve <connectivity.csv>",
		Short: "Solve the cluster trajectory from a connectivity matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.strategy, "strategy", opts.strategy, "solver strategy: BF or TSP")
	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "flip the trajectory direction")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "emit JSON instead of styled output")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file for --json (stdout if empty)")

	return cmd
}

// runSolve loads the matrix, solves the ordering, and prints it.
func runSolve(cmd *cobra.Command, input string, opts *solveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	strategy, err := trajectory.ParseStrategy(opts.strategy)
	if err != nil {
		return err
	}

	m, err := artifact.ReadMatrix(input)
	if err != nil {
		return err
	}
	rows, _ := m.Dims()
	logger.Debugf("Loaded %dx%d connectivity matrix from %s", rows, rows, input)

	spin := newSpinner(ctx, fmt.Sprintf("Solving %d-cluster trajectory (%s)...", rows, strategy))
	spin.start()

	ordering, err := trajectory.Solve(m, strategy)
	if err != nil {
		spin.fail("Solve failed")
		return err
	}
	spin.stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	weight := trajectory.PathWeight(m, ordering)
	scores := trajectory.Scores(ordering)
	if opts.reverse {
		trajectory.Reverse(scores)
	}

	if opts.asJSON {
		return writeSolveJSON(solveResult{
			Strategy:      string(strategy),
			Ordering:      ordering,
			Weight:        weight,
			ClusterScores: scores,
		}, opts.output)
	}

	printSuccess("Trajectory solved")
	printKeyValue("Strategy", string(strategy))
	printKeyValue("Ordering", formatOrdering(ordering))
	printKeyValue("Weight", StyleNumber.Render(strconv.FormatFloat(weight, 'g', -1, 64)))
	printNewline()
	for _, cluster := range ordering {
		printDetail("cluster %d  score %.4f", cluster, scores[cluster])
	}

	return nil
}

// writeSolveJSON writes the result as indented JSON to path or stdout.
func writeSolveJSON(res solveResult, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// formatOrdering renders a cluster ordering as "0 → 2 → 1".
func formatOrdering(ordering []int) string {
	parts := make([]string, len(ordering))
	for i, c := range ordering {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, " "+iconArrow+" ")
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
