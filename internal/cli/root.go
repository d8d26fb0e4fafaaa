package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nichetrace/nichetrace/pkg/buildinfo"
)

// appName is the binary name, reused for the cache directory.
const appName = "nichetrace"

// Execute runs the nichetrace CLI. The context is threaded through
// every command; cancelling it (say, from a signal handler in main)
// aborts blocking operations like a running solve or the HTTP server.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd builds the command tree. Logging level is decided here
// from --verbose and the logger rides the context into every RunE.
func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "nichetrace orders niche clusters along a continuous tissue trajectory",
		Long:         `nichetrace reads the niche-cluster outputs of a spatial GNN run, solves the maximum-connectivity trajectory through the clusters, and propagates the resulting NT scores down to niches and cells.`,
		Version:      buildinfo.Effective(),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(
		newScoreCmd(),
		newSolveCmd(),
		newRenderCmd(),
		newServeCmd(),
		newViewCmd(),
		newCacheCmd(),
		newCompletionCmd(),
	)

	return root
}
