package playbook

import (
	"context"
	"fmt"
	"strings"

	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/YangQing-Lin/playbook/internal/prompt"
	"github.com/YangQing-Lin/playbook/internal/settings"
	"github.com/rs/zerolog/log"
)

// Resolution is the template picked for a project and the tokens left after it
type Resolution struct {
	// Script is the chain of names walked to reach Command
	Script  []string
	Command settings.Template
	Args    []string
}

// SelectProject finds name case-insensitively, or asks the user when name is empty
func (a *App) SelectProject(ctx context.Context, name string) (settings.Project, error) {
	if name != "" {
		i, ok := a.Settings.FindProject(name)
		if !ok {
			return settings.Project{}, &ProjectNotFoundError{Name: name}
		}
		return a.Settings.Projects[i], nil
	}

	if len(a.Settings.Projects) == 0 {
		return settings.Project{}, ErrNoProjects
	}

	choices := make([]prompt.Choice, len(a.Settings.Projects))
	for i, p := range a.Settings.Projects {
		choices[i] = prompt.Choice{Title: p.Name, Description: p.Path}
	}
	i, err := a.Prompt.Select(ctx, i18n.T("prompt.select_project"), choices)
	if err != nil {
		return settings.Project{}, err
	}
	return a.Settings.Projects[i], nil
}

// Scripts returns the global scripts with the project's own scripts laid over them
func (a *App) Scripts(project settings.Project) *settings.ScriptGroup {
	return settings.MergeScripts(a.Settings.Scripts, project.Scripts)
}

// SelectScript walks the script tree with tokens, prompting at any level where
// the next token is missing or matches nothing. An unmatched token is dropped.
func (a *App) SelectScript(ctx context.Context, project settings.Project, tokens []string) (Resolution, error) {
	return a.selectScript(ctx, project, tokens, a.Scripts(project), nil)
}

func (a *App) selectScript(ctx context.Context, project settings.Project, tokens []string, scripts *settings.ScriptGroup, walked []string) (Resolution, error) {
	var (
		node settings.ScriptNode
		name string
		ok   bool
		rest []string
	)
	if len(tokens) > 0 {
		name, rest = tokens[0], tokens[1:]
		node, ok = scripts.Get(name)
	}

	if !ok {
		if len(tokens) > 0 {
			log.Debug().Str("token", name).Msg("no script matches token, asking")
		}
		picked, err := a.promptScript(ctx, project, scripts)
		if err != nil {
			return Resolution{}, err
		}
		name = picked
		node, _ = scripts.Get(name)
	}

	walked = append(walked, name)
	switch n := node.(type) {
	case settings.Template:
		log.Debug().Strs("script", walked).Strs("args", rest).Msg("script resolved")
		return Resolution{Script: walked, Command: n, Args: rest}, nil
	case *settings.ScriptGroup:
		return a.selectScript(ctx, project, rest, n, walked)
	default:
		return Resolution{}, fmt.Errorf("script %q has unknown type %T", strings.Join(walked, "."), node)
	}
}

func (a *App) promptScript(ctx context.Context, project settings.Project, scripts *settings.ScriptGroup) (string, error) {
	keys := scripts.Keys()
	if len(keys) == 0 {
		return "", fmt.Errorf("%w for %s", ErrNoScripts, project.Name)
	}

	choices := make([]prompt.Choice, len(keys))
	for i, k := range keys {
		choices[i] = prompt.Choice{Title: k, Description: describe(scripts, k)}
	}
	i, err := a.Prompt.Select(ctx, i18n.T("prompt.select_script", project.Name), choices)
	if err != nil {
		return "", err
	}
	return keys[i], nil
}

// describe is the template text, or the child names for a group
func describe(scripts *settings.ScriptGroup, key string) string {
	node, _ := scripts.Get(key)
	switch n := node.(type) {
	case settings.Template:
		return string(n)
	case *settings.ScriptGroup:
		return i18n.T("prompt.select_from", strings.Join(n.Keys(), ", "))
	}
	return ""
}
