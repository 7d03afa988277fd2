package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build details",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pawfocus %s (%s/%s", version, runtime.GOOS, runtime.GOARCH)
		if rev := revision(); rev != "" {
			fmt.Fprintf(cmd.OutOrStdout(), ", commit %s", rev)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ")")
	},
}

// revision returns the short VCS revision stamped by the go tool, if any.
func revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value[:min(len(s.Value), 12)]
		}
	}
	return ""
}
