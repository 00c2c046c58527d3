// Package playbook resolves projects and scripts and runs them.
//
// An App owns the loaded settings for the lifetime of one command. Every
// mutation is written back through the Store before the method returns.
package playbook

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/YangQing-Lin/playbook/internal/prompt"
	"github.com/YangQing-Lin/playbook/internal/runner"
	"github.com/YangQing-Lin/playbook/internal/settings"
	"github.com/fatih/color"
)

// Store persists settings; command names the CLI command for access-denied hints
type Store interface {
	Write(st *settings.Settings, command string) error
}

// Prompter asks the user to pick or type something
type Prompter interface {
	Select(ctx context.Context, title string, choices []prompt.Choice) (int, error)
	Input(ctx context.Context, title, initial string) (string, error)
}

// Runner spawns a rendered command and returns its exit code
type Runner interface {
	Run(ctx context.Context, c runner.Command) (int, error)
}

// App holds the settings and collaborators for one invocation
type App struct {
	Settings *settings.Settings
	Store    Store
	Prompt   Prompter
	Runner   Runner

	// Stderr receives the command echo and warnings
	Stderr io.Writer
	// HookPath is sourced before each script when the file exists; empty disables it
	HookPath string
	// User is shown in the command echo
	User string
}

// New wires an App writing diagnostics to stderr
func New(st *settings.Settings, store Store, p Prompter, r Runner) *App {
	return &App{
		Settings: st,
		Store:    store,
		Prompt:   p,
		Runner:   r,
		Stderr:   os.Stderr,
		User:     currentUser(),
	}
}

func currentUser() string {
	for _, key := range []string{"USER", "USERNAME", "LOGNAME"} {
		if u := os.Getenv(key); u != "" {
			return u
		}
	}
	return "user"
}

func (a *App) warnf(format string, args ...interface{}) {
	fmt.Fprintf(a.Stderr, "%s %s\n", color.YellowString(">>>"), fmt.Sprintf(format, args...))
}
