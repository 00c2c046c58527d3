package cmd

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/YangQing-Lin/playbook/internal/playbook"
	"github.com/YangQing-Lin/playbook/internal/prompt"
	"github.com/YangQing-Lin/playbook/internal/runner"
	"github.com/YangQing-Lin/playbook/internal/settings"
	"github.com/YangQing-Lin/playbook/internal/testutil"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func resetGlobals() {
	configDir = ""
	verbose = false
	langFlag = ""
	addURL = ""
	getpathCopy = false
	exportFormat = "json"
	exportOutput = ""
	importMerge = false
	importDryRun = false
	importFormat = ""
	restoreLatest = false
	configDirOpen = false
}

func resetFlags(cmd *cobra.Command) {
	resetFlagSet(cmd.Flags())
	resetFlagSet(cmd.PersistentFlags())
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func resetFlagSet(flags *pflag.FlagSet) {
	if flags == nil {
		return
	}
	flags.VisitAll(func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})
}

// fakePrompter picks choices by title and types queued values; "" cancels either
type fakePrompter struct {
	selects []string
	inputs  []string
	asked   []string
}

func (p *fakePrompter) Select(_ context.Context, title string, choices []prompt.Choice) (int, error) {
	p.asked = append(p.asked, title)
	if len(p.selects) == 0 {
		return -1, prompt.ErrNotInteractive
	}
	want := p.selects[0]
	p.selects = p.selects[1:]
	if want == "" {
		return -1, prompt.ErrCancelled
	}
	for i, c := range choices {
		if c.Title == want {
			return i, nil
		}
	}
	return -1, fmt.Errorf("choice %q not offered", want)
}

func (p *fakePrompter) Input(_ context.Context, title, initial string) (string, error) {
	p.asked = append(p.asked, title+"="+initial)
	if len(p.inputs) == 0 {
		return "", prompt.ErrNotInteractive
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	if v == "" {
		return "", prompt.ErrCancelled
	}
	return v, nil
}

type fakeRunner struct {
	ran   []runner.Command
	code  int
	posix bool
}

func (r *fakeRunner) Run(_ context.Context, c runner.Command) (int, error) {
	r.ran = append(r.ran, c)
	return r.code, nil
}

func (r *fakeRunner) IsPOSIX() bool { return r.posix }

// env is one isolated pb installation
type env struct {
	t      *testing.T
	dir    string
	prompt *fakePrompter
	runner *fakeRunner
}

func newEnv(t *testing.T) *env {
	t.Helper()
	color.NoColor = true
	testutil.WithTempHome(t, func(string) {})
	t.Setenv("PLAYBOOK_LANG", "en")

	e := &env{
		t:      t,
		dir:    filepath.Join(t.TempDir(), ".playbook"),
		prompt: &fakePrompter{},
		runner: &fakeRunner{posix: true},
	}
	t.Setenv(settings.EnvDir, e.dir)

	origPrompter, origRunner := newPrompter, newRunner
	newPrompter = func() playbook.Prompter { return e.prompt }
	newRunner = func() (shellRunner, error) { return e.runner, nil }
	t.Cleanup(func() {
		newPrompter, newRunner = origPrompter, origRunner
		resetGlobals()
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return e
}

func (e *env) store() *settings.Store {
	return settings.NewStore(e.dir)
}

// seed writes st as the current settings
func (e *env) seed(st *settings.Settings) {
	e.t.Helper()
	if err := e.store().Write(st, "test"); err != nil {
		e.t.Fatalf("seed settings: %v", err)
	}
}

func (e *env) load() *settings.Settings {
	e.t.Helper()
	st, err := e.store().Load()
	if err != nil {
		e.t.Fatalf("load settings: %v", err)
	}
	return st
}

// run executes pb with args and returns stdout, stderr and the exit code
func (e *env) run(args ...string) (string, string, int) {
	e.t.Helper()
	resetGlobals()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	code := ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), code
}

func sampleSettings() *settings.Settings {
	st := settings.Default()

	git := settings.NewScriptGroup()
	git.Set("pull", settings.Template("git pull"))
	git.Set("push", settings.Template("git push ${1}"))
	st.Scripts.Set("git", git)

	apiScripts := settings.NewScriptGroup()
	apiScripts.Set("test", settings.Template("go test ./..."))

	st.Projects = []settings.Project{
		{Name: "api", Path: "/src/api", Scripts: apiScripts},
		{Name: "docs", Path: "https://github.com/acme/docs"},
	}
	return st
}
