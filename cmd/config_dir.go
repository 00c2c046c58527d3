package cmd

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/YangQing-Lin/playbook/internal/portable"
	"github.com/YangQing-Lin/playbook/internal/settings"
	"github.com/YangQing-Lin/playbook/internal/utils"
	"github.com/spf13/cobra"
)

var configDirOpen bool

// openInFileManager is swapped in tests
var openInFileManager = func(dir string) error {
	var openCmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		openCmd = exec.Command("explorer", dir)
	case "darwin":
		openCmd = exec.Command("open", dir)
	case "linux", "freebsd", "openbsd", "netbsd":
		openCmd = exec.Command("xdg-open", dir)
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return openCmd.Start()
}

var configDirCmd = &cobra.Command{
	Use:   "config-dir",
	Short: "Show where the settings file lives",
	Long: `Show the settings directory, settings file and shell hook paths.

The directory is chosen from --dir, then $PLAYBOOK_DIR, then portable mode
(a portable.ini next to the executable), then ~/.playbook.
If index.bash exists in it, it is sourced before every script.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		fmt.Fprintf(w, "Settings dir:  %s\n", store.Dir())
		fmt.Fprintf(w, "Settings file: %s\n", store.Path())
		hook := "(not present)"
		if utils.FileExists(store.HookPath()) {
			hook = store.HookPath()
		}
		fmt.Fprintf(w, "Shell hook:    %s\n", hook)
		if portable.IsPortableMode() {
			fmt.Fprintf(w, "Mode:          portable (%s)\n", portable.MarkerFile)
		}
		if legacy, err := settings.LegacyPath(); err == nil && utils.FileExists(legacy) {
			fmt.Fprintf(w, "Legacy file:   %s\n", legacy)
		}

		if !configDirOpen {
			return nil
		}
		if !utils.FileExists(store.Dir()) {
			return fmt.Errorf("%s", i18n.T("config_dir.missing", store.Dir()))
		}
		if err := openInFileManager(store.Dir()); err != nil {
			return fmt.Errorf("open file manager: %w", err)
		}
		printSuccess(cmd.ErrOrStderr(), i18n.T("config_dir.opened"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configDirCmd)
	configDirCmd.Flags().BoolVar(&configDirOpen, "open", false, "open the directory in the file manager")
}
