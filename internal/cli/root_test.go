package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func findCommand(root *cobra.Command, name string) *cobra.Command {
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestNewRootCmd(t *testing.T) {
	root := newRootCmd()

	if root.Use != appName {
		t.Errorf("root.Use = %q, want %q", root.Use, appName)
	}
	if root.Version == "" {
		t.Error("root command should carry a version")
	}

	subcommands := []string{"score", "solve", "render", "serve", "view", "cache", "completion"}
	for _, name := range subcommands {
		if findCommand(root, name) == nil {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestRootVerboseFlag(t *testing.T) {
	root := newRootCmd()

	flag := root.PersistentFlags().Lookup("verbose")
	if flag == nil {
		t.Fatal("root command should define --verbose")
	}
	if flag.Shorthand != "v" {
		t.Errorf("verbose shorthand = %q, want %q", flag.Shorthand, "v")
	}
}

func TestCacheSubcommands(t *testing.T) {
	root := newRootCmd()

	cacheCmd := findCommand(root, "cache")
	if cacheCmd == nil {
		t.Fatal("root command is missing the cache subcommand")
	}
	for _, name := range []string{"clear", "path"} {
		if findCommand(cacheCmd, name) == nil {
			t.Errorf("cache command is missing subcommand %q", name)
		}
	}
}
