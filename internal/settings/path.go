package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/YangQing-Lin/playbook/internal/portable"
	"github.com/rs/zerolog/log"
)

const (
	// DirName is the per-user settings directory under $HOME
	DirName = ".playbook"
	// FileName is the settings file inside the settings directory
	FileName = "settings.json"
	// HookFileName is sourced before every script when present
	HookFileName = "index.bash"
	// EnvDir overrides the settings directory
	EnvDir = "PLAYBOOK_DIR"

	legacyDirName = ".projectman"
)

// ResolveDir picks the settings directory: explicit override, $PLAYBOOK_DIR,
// portable mode, then ~/.playbook.
func ResolveDir(override string) (string, error) {
	if override == "" {
		override = os.Getenv(EnvDir)
	}
	if override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("resolve settings dir %q: %w", override, err)
		}
		log.Debug().Str("dir", abs).Msg("using settings dir override")
		return abs, nil
	}

	if portable.IsPortableMode() {
		dir, err := portable.ConfigDir()
		if err != nil {
			return "", fmt.Errorf("get portable settings dir: %w", err)
		}
		log.Debug().Str("dir", dir).Msg("portable mode")
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home dir: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// LegacyPath is where the projectman predecessor kept its settings
func LegacyPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, legacyDirName, "settings.json"), nil
}
