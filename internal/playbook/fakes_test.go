package playbook

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/YangQing-Lin/playbook/internal/prompt"
	"github.com/YangQing-Lin/playbook/internal/runner"
	"github.com/YangQing-Lin/playbook/internal/settings"
)

// scriptedPrompter answers prompts from a queue and records what it was asked
type scriptedPrompter struct {
	selects []string // titles of choices to pick, "" cancels
	inputs  []string // values to type, "\x1b" cancels

	asked   []string
	offered [][]string
}

func (p *scriptedPrompter) Select(_ context.Context, title string, choices []prompt.Choice) (int, error) {
	p.asked = append(p.asked, title)
	titles := make([]string, len(choices))
	for i, c := range choices {
		titles[i] = c.Title
	}
	p.offered = append(p.offered, titles)

	if len(p.selects) == 0 {
		return -1, fmt.Errorf("unexpected select prompt %q", title)
	}
	want := p.selects[0]
	p.selects = p.selects[1:]
	if want == "" {
		return -1, prompt.ErrCancelled
	}
	for i, t := range titles {
		if t == want {
			return i, nil
		}
	}
	return -1, fmt.Errorf("choice %q not offered in %v", want, titles)
}

func (p *scriptedPrompter) Input(_ context.Context, title, initial string) (string, error) {
	p.asked = append(p.asked, title+"="+initial)
	if len(p.inputs) == 0 {
		return "", fmt.Errorf("unexpected input prompt %q", title)
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	if v == "\x1b" {
		return "", prompt.ErrCancelled
	}
	return v, nil
}

type memoryStore struct {
	writes   int
	commands []string
	err      error
	last     []byte
}

func (s *memoryStore) Write(st *settings.Settings, command string) error {
	s.commands = append(s.commands, command)
	if s.err != nil {
		return s.err
	}
	s.writes++
	data, err := settings.Encode(st, settings.FormatJSON)
	if err != nil {
		return err
	}
	s.last = data
	return nil
}

type recordingRunner struct {
	ran  []runner.Command
	code int
}

func (r *recordingRunner) Run(_ context.Context, c runner.Command) (int, error) {
	r.ran = append(r.ran, c)
	return r.code, nil
}

func testSettings() *settings.Settings {
	st := settings.Default()

	git := settings.NewScriptGroup()
	git.Set("pull", settings.Template("git pull"))
	git.Set("push", settings.Template("git push"))
	st.Scripts.Set("git", git)
	st.Scripts.Set("logs", settings.Template("tail -f ${0}/app.log"))
	st.Scripts.Set("echo", settings.Template("echo ${1}-${2} [${@}]"))

	apiScripts := settings.NewScriptGroup()
	apiScripts.Set("open", settings.Template("idea ."))
	apiScripts.Set("test", settings.Template("go test ./..."))

	st.Projects = []settings.Project{
		{Name: "Api", Path: "/src/api", Scripts: apiScripts},
		{Name: "web", Path: "/src/web"},
		{Name: "docs", Path: "https://github.com/acme/docs"},
	}
	return st
}

type harness struct {
	app    *App
	prompt *scriptedPrompter
	store  *memoryStore
	runner *recordingRunner
	stderr *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		prompt: &scriptedPrompter{},
		store:  &memoryStore{},
		runner: &recordingRunner{},
		stderr: &bytes.Buffer{},
	}
	h.app = New(testSettings(), h.store, h.prompt, h.runner)
	h.app.Stderr = h.stderr
	h.app.User = "tester"
	return h
}
