package playbook

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/YangQing-Lin/playbook/internal/runner"
	"github.com/YangQing-Lin/playbook/internal/settings"
	"github.com/YangQing-Lin/playbook/internal/utils"
	"github.com/fatih/color"
)

// Run is the default action: tokens are [project] [script...] [args...]
func (a *App) Run(ctx context.Context, tokens []string) (int, error) {
	var name string
	if len(tokens) > 0 {
		name, tokens = tokens[0], tokens[1:]
	}

	project, err := a.SelectProject(ctx, name)
	if err != nil {
		return 1, err
	}
	res, err := a.SelectScript(ctx, project, tokens)
	if err != nil {
		return 1, err
	}
	return a.Exec(ctx, project, res)
}

// Exec echoes and spawns the resolved script, returning the child's exit code.
// Local projects run in their directory, URL projects in the working directory.
func (a *App) Exec(ctx context.Context, project settings.Project, res Resolution) (int, error) {
	line := a.Command(project, res)
	a.echo(project, line)

	dir := project.Path
	if IsURL(dir) {
		dir = ""
	}
	if a.HookPath != "" && utils.FileExists(a.HookPath) {
		line = ". " + shellQuote(a.HookPath) + "; " + line
	}
	return a.Runner.Run(ctx, runner.Command{Line: line, Dir: dir})
}

// Command renders res for project. The project path is ${0}; when the args
// contain an option flag the rendered script is piped through the option's
// template as its ${0}, with the args after the flag as ${1}...
func (a *App) Command(project settings.Project, res Resolution) string {
	args, opt, optArgs := splitOption(res.Args, a.Settings.Options)
	line := Render(res.Command, append([]string{project.Path}, args...))
	if opt != nil {
		line = Render(settings.Template(opt.Command), append([]string{line}, optArgs...))
	}
	return line
}

// splitOption cuts args at the first flag naming an option by name or alias
func splitOption(args []string, options map[string]settings.Option) ([]string, *settings.Option, []string) {
	if len(options) == 0 {
		return args, nil, nil
	}

	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)

	lookup := make(map[string]settings.Option, len(options)*2)
	for _, name := range names {
		lookup[name] = options[name]
	}
	for _, name := range names {
		if alias := options[name].Alias; alias != "" {
			if _, taken := lookup[alias]; !taken {
				lookup[alias] = options[name]
			}
		}
	}

	for i, arg := range args {
		if opt, ok := lookup[arg]; ok {
			return args[:i], &opt, args[i+1:]
		}
	}
	return args, nil, nil
}

func (a *App) echo(project settings.Project, line string) {
	fmt.Fprintf(a.Stderr, "\n[%s:%s]$ %s\n",
		color.New(color.Bold, color.FgWhite).Sprint(a.User),
		color.RedString(project.Path),
		line)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
