package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/YangQing-Lin/playbook/internal/playbook"
	"github.com/YangQing-Lin/playbook/internal/settings"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list [project]",
	Aliases: []string{"ls"},
	Short:   "List projects, scripts and options",
	Long: `List saved projects and the global script tree.
With a project name, list the scripts available in that project instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		if len(args) > 0 {
			project, err := app.SelectProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprint(project.Name), project.Path)
			printScripts(w, app.Scripts(project), "  ")
			return nil
		}

		printProjects(w, app)
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.New(color.Bold).Sprint(i18n.T("list.scripts")))
		printScripts(w, app.Settings.Scripts, "  ")
		if len(app.Settings.Options) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, color.New(color.Bold).Sprint(i18n.T("list.options")))
			printOptions(w, app.Settings.Options)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func printProjects(w io.Writer, app *playbook.App) {
	fmt.Fprintln(w, color.New(color.Bold).Sprint(i18n.T("list.projects")))
	if len(app.Settings.Projects) == 0 {
		fmt.Fprintf(w, "  %s\n", i18n.T("list.no_projects"))
		return
	}

	width := 0
	for _, p := range app.Settings.Projects {
		width = max(width, len(p.Name))
	}
	for _, p := range app.Settings.Projects {
		marker := "○"
		if playbook.IsURL(p.Path) {
			marker = "◇"
		}
		fmt.Fprintf(w, "  %s %-*s  %s", marker, width, p.Name, p.Path)
		if n := p.Scripts.Len(); n > 0 {
			fmt.Fprintf(w, "  (+%d scripts)", n)
		}
		fmt.Fprintln(w)
	}
}

func printScripts(w io.Writer, g *settings.ScriptGroup, indent string) {
	for _, k := range g.Keys() {
		node, _ := g.Get(k)
		switch n := node.(type) {
		case settings.Template:
			fmt.Fprintf(w, "%s%s: %s\n", indent, k, color.CyanString("%s", string(n)))
		case *settings.ScriptGroup:
			fmt.Fprintf(w, "%s%s/\n", indent, k)
			printScripts(w, n, indent+"  ")
		}
	}
}

func printOptions(w io.Writer, options map[string]settings.Option) {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		opt := options[name]
		flags := []string{name}
		if opt.Alias != "" {
			flags = append(flags, opt.Alias)
		}
		fmt.Fprintf(w, "  %s: %s\n", strings.Join(flags, ", "), color.CyanString("%s", opt.Command))
	}
}
