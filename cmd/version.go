package cmd

import (
	"fmt"

	"github.com/YangQing-Lin/playbook/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Show the playbook version and build metadata`,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "playbook %s\n", version.GetVersion())

		if version.GetBuildDate() != "unknown" {
			fmt.Fprintf(w, "Build date: %s\n", version.GetBuildDate())
		}

		if version.GetGitCommit() != "unknown" {
			fmt.Fprintf(w, "Git commit: %s\n", version.GetGitCommit())
		}

		fmt.Fprintf(w, "Go: %s %s\n", version.GoVersion(), version.Platform())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version.GetVersion()
	rootCmd.SetVersionTemplate("playbook {{.Version}}\n")
}
