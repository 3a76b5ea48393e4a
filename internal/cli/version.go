package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/ethkit/internal/version"
)

// versionCmd prints build information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		info := version.Get()
		if formatter.IsJSON() {
			return formatter.Print(versionResult{BuildInfo: info, Release: info.IsRelease()})
		}

		w := formatter.Writer()
		out(w, "ethkit %s\n", info.String())
		out(w, "%s %s\n", info.GoVersion, info.Platform)
		return nil
	},
}

type versionResult struct {
	version.BuildInfo

	Release bool `json:"release"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)
}
