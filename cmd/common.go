package cmd

import (
	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/YangQing-Lin/playbook/internal/playbook"
	"github.com/YangQing-Lin/playbook/internal/prompt"
	"github.com/YangQing-Lin/playbook/internal/runner"
	"github.com/YangQing-Lin/playbook/internal/settings"
	"github.com/spf13/cobra"
)

// shellRunner is a playbook.Runner that knows whether it can source the hook file
type shellRunner interface {
	playbook.Runner
	IsPOSIX() bool
}

// Replaced in tests so commands never open a real prompt or shell.
var (
	newPrompter = func() playbook.Prompter {
		return prompt.NewTerminal()
	}
	newRunner = func() (shellRunner, error) {
		return runner.NewShell()
	}
)

// getStore opens the settings store (honouring --dir)
func getStore() (*settings.Store, error) {
	dir, err := settings.ResolveDir(configDir)
	if err != nil {
		return nil, err
	}
	return settings.NewStore(dir), nil
}

// loadSettings opens the store, loads the file and applies its language
func loadSettings() (*settings.Store, *settings.Settings, error) {
	store, err := getStore()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	i18n.Init(langFlag, st.Language)
	return store, st, nil
}

// getApp wires the application with the real prompt and shell
func getApp(cmd *cobra.Command) (*playbook.App, error) {
	store, st, err := loadSettings()
	if err != nil {
		return nil, err
	}
	sh, err := newRunner()
	if err != nil {
		return nil, err
	}

	app := playbook.New(st, store, newPrompter(), sh)
	app.Stderr = cmd.ErrOrStderr()
	if sh.IsPOSIX() {
		app.HookPath = store.HookPath()
	}
	return app, nil
}
