package portable

import (
	"os"
	"path/filepath"
)

// MarkerFile next to the executable switches playbook into portable mode
const MarkerFile = "portable.ini"

var executableFunc = os.Executable

// IsPortableMode reports whether a portable.ini file sits next to the executable
func IsPortableMode() bool {
	execPath, err := executableFunc()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(filepath.Dir(execPath), MarkerFile))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ConfigDir returns the portable settings directory, <exe dir>/.playbook
func ConfigDir() (string, error) {
	execPath, err := executableFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(execPath), ".playbook"), nil
}
