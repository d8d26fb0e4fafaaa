package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionGenerators maps each supported shell to cobra's generator.
var completionGenerators = map[string]func(*cobra.Command) error{
	"bash":       func(root *cobra.Command) error { return root.GenBashCompletion(os.Stdout) },
	"zsh":        func(root *cobra.Command) error { return root.GenZshCompletion(os.Stdout) },
	"fish":       func(root *cobra.Command) error { return root.GenFishCompletion(os.Stdout, true) },
	"powershell": func(root *cobra.Command) error { return root.GenPowerShellCompletionWithDesc(os.Stdout) },
}

// newCompletionCmd creates the completion command.
func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate a shell completion script",
		Long: `Generate a shell completion script for nichetrace.

Load it into the current shell:

  bash:       source <(nichetrace completion bash)
  zsh:        nichetrace completion zsh > "${fpath[1]}/_nichetrace"
  fish:       nichetrace completion fish | source
  powershell: nichetrace completion powershell | Out-String | Invoke-Expression

To load it in every session, write the script where your shell picks it
up automatically, for example /etc/bash_completion.d/nichetrace or
~/.config/fish/completions/nichetrace.fish.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGenerators[args[0]](cmd.Root())
		},
	}
}
