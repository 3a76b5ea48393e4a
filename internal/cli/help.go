package cli

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mrz1836/ethkit/internal/output"
)

//nolint:gochecknoglobals // Help text is built once per process
var helpOnce sync.Once

// prepareHelp lists the subcommands in each parent command's long help.
func prepareHelp() {
	helpOnce.Do(func() {
		walkCommands(rootCmd, listSubcommands)
	})
}

// walkCommands visits every command in the tree depth-first.
func walkCommands(cmd *cobra.Command, fn func(*cobra.Command)) {
	fn(cmd)
	for _, sub := range cmd.Commands() {
		walkCommands(sub, fn)
	}
}

// listSubcommands appends a table of the available subcommands of a parent
// command, other than the root, to its Long description.
func listSubcommands(cmd *cobra.Command) {
	if !cmd.HasSubCommands() || !cmd.HasParent() {
		return
	}

	tbl := output.NewTable()
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			tbl.AddRow("  "+sub.Name(), sub.Short)
		}
	}

	long := cmd.Long
	if long == "" {
		long = cmd.Short
	}
	cmd.Long = strings.TrimRight(long, "\n") + "\n\nSubcommands:\n" + tbl.String()
}
