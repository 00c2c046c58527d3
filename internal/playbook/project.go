package playbook

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/YangQing-Lin/playbook/internal/settings"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

// URLPromptInitial pre-fills the URL prompt of `add --url`
const URLPromptInitial = "https://github.com/"

// AddRequest describes what `add` was called with
type AddRequest struct {
	// Directory is the local path, "" meaning the working directory
	Directory string
	// URL is the remote location; it wins over Directory
	URL string
	// PromptURL asks for the URL interactively (`--url` without a value)
	PromptURL bool
}

// AddProject resolves the path, asks for the name and saves the project.
// Settings are left untouched when the name is taken or the write fails.
func (a *App) AddProject(ctx context.Context, req AddRequest) (settings.Project, error) {
	path, err := a.candidatePath(ctx, req)
	if err != nil {
		return settings.Project{}, err
	}

	name, err := a.Prompt.Input(ctx, i18n.T("prompt.project_name"), DefaultName(path))
	if err != nil {
		return settings.Project{}, err
	}
	if name = strings.TrimSpace(name); name == "" {
		name = DefaultName(path)
	}

	if i, dup := a.Settings.FindProject(name); dup {
		return settings.Project{}, &DuplicateProjectError{Name: name, Existing: a.Settings.Projects[i].Name}
	}

	project := settings.Project{Name: name, Path: path}
	n := len(a.Settings.Projects)
	a.Settings.Projects = append(a.Settings.Projects, project)
	if err := a.Store.Write(a.Settings, "add"); err != nil {
		a.Settings.Projects = a.Settings.Projects[:n:n]
		return settings.Project{}, err
	}
	log.Debug().Str("name", name).Str("path", path).Msg("project added")
	return project, nil
}

func (a *App) candidatePath(ctx context.Context, req AddRequest) (string, error) {
	if req.URL == "" && !req.PromptURL {
		dir := req.Directory
		if dir == "" {
			dir = "."
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", dir, err)
		}
		return abs, nil
	}

	if req.Directory != "" {
		a.warnf("%s", i18n.T("warn.directory_ignored"))
	}

	if !req.PromptURL {
		url := strings.TrimSpace(req.URL)
		if !IsURL(url) {
			return "", &InvalidURLError{URL: req.URL}
		}
		return url, nil
	}

	initial := URLPromptInitial
	for {
		url, err := a.Prompt.Input(ctx, i18n.T("prompt.project_url"), initial)
		if err != nil {
			return "", err
		}
		if IsURL(url) {
			return url, nil
		}
		fmt.Fprintf(a.Stderr, "%s %s\n", color.RedString(">>>"), i18n.T("error.invalid_url"))
		initial = url
	}
}

// RemoveProject resolves name (prompting when empty) and deletes it.
// A missing project yields ProjectNotFoundError and no write.
func (a *App) RemoveProject(ctx context.Context, name string) (settings.Project, error) {
	project, err := a.SelectProject(ctx, name)
	if err != nil {
		return settings.Project{}, err
	}

	i, _ := a.Settings.FindProject(project.Name)
	removed, _ := a.Settings.RemoveProject(project.Name)
	if err := a.Store.Write(a.Settings, "remove"); err != nil {
		a.Settings.Projects = slices.Insert(a.Settings.Projects, i, removed)
		return settings.Project{}, err
	}
	log.Debug().Str("name", removed.Name).Msg("project removed")
	return removed, nil
}

// ProjectPath returns the path of the resolved project
func (a *App) ProjectPath(ctx context.Context, name string) (string, error) {
	project, err := a.SelectProject(ctx, name)
	if err != nil {
		return "", err
	}
	return project.Path, nil
}

// SuggestProjects lists saved names close to name, for "did you mean" hints
func (a *App) SuggestProjects(name string, maxDistance int) []string {
	lower := strings.ToLower(name)
	var out []string
	for _, p := range a.Settings.Projects {
		candidate := strings.ToLower(p.Name)
		if strings.HasPrefix(candidate, lower) || strings.Contains(candidate, lower) ||
			levenshtein(candidate, lower) <= maxDistance {
			out = append(out, p.Name)
		}
	}
	return out
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur := make([]int, len(rb)+1)
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev = cur
	}
	return prev[len(rb)]
}
