package cmd

import (
	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/YangQing-Lin/playbook/internal/playbook"
	"github.com/spf13/cobra"
)

// askURL is what --url holds when given without a value
const askURL = "ask"

var addURL string

var addCmd = &cobra.Command{
	Use:     "add [directory] [--url [link]]",
	Aliases: []string{"save"},
	Short:   "Save a directory (default: current) or repository URL as a project",
	Long: `Save a local directory or a repository URL as a project.

Examples:
  pb add                                  # save the current directory
  pb add ~/src/api                        # save another directory
  pb add --url https://github.com/o/r     # save a repository URL
  pb add --url                            # type the URL interactively
  pb add ./api --url https://github.com/o/r  # the directory is ignored`,
	Args: func(cmd *cobra.Command, args []string) error {
		// `--url link` leaves link as a positional argument
		if addURL == askURL {
			return cobra.MaximumNArgs(2)(cmd, args)
		}
		return cobra.MaximumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd)
		if err != nil {
			return err
		}

		project, err := app.AddProject(cmd.Context(), addRequest(args))
		if err != nil {
			return err
		}
		printSuccess(cmd.ErrOrStderr(), i18n.T("success.project_added")+": "+project.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addURL, "url", "u", "", "repository URL to save instead of a directory")
	addCmd.Flags().Lookup("url").NoOptDefVal = askURL
}

// addRequest maps the positional arguments around --url. A bare --url asks for
// the link; otherwise the link is the lone argument, or with two arguments the
// one that looks like a URL (the last one when neither does).
func addRequest(args []string) playbook.AddRequest {
	if addURL != askURL {
		req := playbook.AddRequest{URL: addURL}
		if len(args) > 0 {
			req.Directory = args[0]
		}
		return req
	}

	switch len(args) {
	case 0:
		return playbook.AddRequest{PromptURL: true}
	case 1:
		return playbook.AddRequest{URL: args[0]}
	}
	if playbook.IsURL(args[0]) && !playbook.IsURL(args[1]) {
		return playbook.AddRequest{Directory: args[1], URL: args[0]}
	}
	return playbook.AddRequest{Directory: args[0], URL: args[1]}
}
