package cmd

import (
	"fmt"

	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var getpathCopy bool

// copyToClipboard is swapped in tests; CI machines have no clipboard
var copyToClipboard = clipboard.WriteAll

var getpathCmd = &cobra.Command{
	Use:     "getpath [project]",
	Aliases: []string{"gp"},
	Short:   "Print the path of a project",
	Long: `Print the path (or URL) of a project on stdout, for use in shell substitution:

  cd "$(pb gp api)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd)
		if err != nil {
			return err
		}

		var name string
		if len(args) > 0 {
			name = args[0]
		}
		path, err := app.ProjectPath(cmd.Context(), name)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		if getpathCopy {
			if err := copyToClipboard(path); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			printSuccess(cmd.ErrOrStderr(), i18n.T("success.copied"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getpathCmd)
	getpathCmd.Flags().BoolVarP(&getpathCopy, "copy", "c", false, "also copy the path to the clipboard")
}
