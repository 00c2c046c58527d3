package cmd

import (
	"errors"

	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/YangQing-Lin/playbook/internal/playbook"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove [project]",
	Aliases: []string{"rm"},
	Short:   "Remove a saved project",
	Long:    `Remove a saved project by name (case-insensitive), or pick it from a list.`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd)
		if err != nil {
			return err
		}

		var name string
		if len(args) > 0 {
			name = args[0]
		}
		removed, err := app.RemoveProject(cmd.Context(), name)
		var notFound *playbook.ProjectNotFoundError
		if errors.As(err, &notFound) {
			w := cmd.ErrOrStderr()
			printError(w, i18n.T("error.project_not_found", notFound.Name))
			printHint(w, i18n.T("hint.remove_select", color.YellowString("pb remove")))
			return &reportedError{err: err}
		}
		if err != nil {
			return err
		}

		printSuccess(cmd.ErrOrStderr(), i18n.T("success.project_removed")+": "+removed.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
