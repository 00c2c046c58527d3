package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/YangQing-Lin/playbook/internal/logging"
	"github.com/YangQing-Lin/playbook/internal/playbook"
	"github.com/spf13/cobra"
)

var (
	configDir string
	verbose   bool
	langFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "pb [project] [script...] [args...]",
	Short: "Jump into a saved project and run one of your scripts",
	Long: `playbook remembers your project directories and repository URLs and runs
named shell scripts inside them.

Usage:
  pb                         pick a project, then a script
  pb <project>               pick a script for the project
  pb <project> <script...>   run the script, nested names walk into groups
  pb <project> <script> a b  pass a and b as ${1} and ${2}

The project path is always ${0}, ${@} expands to every argument.
Scripts live in the settings file, see "pb config-dir".`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(cmd.ErrOrStderr(), verbose)
		i18n.Init(langFlag)
	},
	RunE: runDefault,
}

// Execute runs the command tree and returns the process exit code
func Execute() int {
	return ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a caller supplied context
func ExecuteContext(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	return report(rootCmd.ErrOrStderr(), err)
}

func init() {
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.PersistentFlags().StringVar(&configDir, "dir", "", "settings directory (default ~/.playbook, env PLAYBOOK_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostic logs to stderr")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "message language: en, zh (env PLAYBOOK_LANG)")

	rootCmd.SetHelpTemplate(`{{.Long}}

{{if .HasAvailableSubCommands}}Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}

{{if .HasAvailableFlags}}Flags:
{{.Flags.FlagUsages | trimTrailingWhitespaces}}{{end}}

Use "{{.CommandPath}} [command] --help" for more information about a command.
`)
}

func runDefault(cmd *cobra.Command, args []string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	code, err := app.Run(cmd.Context(), args)
	var notFound *playbook.ProjectNotFoundError
	if errors.As(err, &notFound) {
		return helpFallthrough(cmd, app, notFound)
	}
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitStatus{code: code}
	}
	return nil
}

// helpFallthrough reports the unknown project with suggestions, then prints help
func helpFallthrough(cmd *cobra.Command, app *playbook.App, notFound *playbook.ProjectNotFoundError) error {
	w := cmd.ErrOrStderr()
	printError(w, i18n.T("error.project_not_found", notFound.Name))

	suggestions := cmd.SuggestionsFor(notFound.Name)
	suggestions = append(suggestions, app.SuggestProjects(notFound.Name, 2)...)
	if len(suggestions) > 0 {
		fmt.Fprintln(w, i18n.T("hint.did_you_mean"))
		for _, s := range suggestions {
			fmt.Fprintf(w, "\t%s\n", s)
		}
	}
	fmt.Fprintln(w)

	cmd.SetOut(w)
	_ = cmd.Help()
	return &reportedError{err: notFound}
}
