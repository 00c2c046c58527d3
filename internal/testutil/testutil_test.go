package testutil

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestCreateTempDirAndFile(t *testing.T) {
	tests := []struct {
		name    string
		subPath string
		content string
	}{
		{name: "simple file", subPath: "file.txt", content: "hello"},
		{name: "nested file", subPath: filepath.Join("nested", "file.txt"), content: "nested"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := CreateTempDir(t)
			path := CreateTempFile(t, dir, tt.subPath, tt.content)
			AssertFileExists(t, path)
			AssertFileContent(t, path, tt.content)
		})
	}
}

func TestAssertFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}

	path := filepath.Join(t.TempDir(), "perm.txt")
	if err := os.WriteFile(path, []byte("perm"), 0600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	AssertFileMode(t, path, 0600)
}

func TestWithTempHome(t *testing.T) {
	t.Setenv("PLAYBOOK_DIR", "/somewhere/else")
	WithTempHome(t, func(home string) {
		if got := os.Getenv("HOME"); got != home {
			t.Fatalf("HOME = %s, want %s", got, home)
		}
		if got := os.Getenv("USERPROFILE"); got != home {
			t.Fatalf("USERPROFILE = %s, want %s", got, home)
		}
		if got := os.Getenv("PLAYBOOK_DIR"); got != "" {
			t.Fatalf("PLAYBOOK_DIR = %s, want empty", got)
		}
	})
}

func TestWithTempCWD(t *testing.T) {
	original, err := os.Getwd()
	if err != nil {
		t.Fatalf("get cwd: %v", err)
	}

	WithTempCWD(t, func(cwd string) {
		current, err := os.Getwd()
		if err != nil {
			t.Fatalf("get cwd: %v", err)
		}
		if current != cwd {
			t.Fatalf("cwd = %s, want %s", current, cwd)
		}
	})

	current, err := os.Getwd()
	if err != nil {
		t.Fatalf("get cwd: %v", err)
	}
	if current != original {
		t.Fatalf("cwd not restored: %s != %s", current, original)
	}
}

func TestCaptureOutput(t *testing.T) {
	stdout, stderr := CaptureOutput(t, func() {
		_, _ = io.WriteString(os.Stdout, "hello")
		_, _ = io.WriteString(os.Stderr, "oops")
	})

	if stdout != "hello" {
		t.Fatalf("stdout = %q", stdout)
	}
	if stderr != "oops" {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestBubbleTeaTestHelper(t *testing.T) {
	keys := []string{"a", "enter", "left"}
	final := BubbleTeaTestHelper(t, simpleModel{}, keys)

	got, ok := final.(simpleModel)
	if !ok {
		t.Fatalf("model type = %T", final)
	}
	if got.last != "left" {
		t.Fatalf("last key = %s", got.last)
	}
	if len(got.history) != len(keys) {
		t.Fatalf("history = %v", got.history)
	}
}

type simpleModel struct {
	last    string
	history []string
}

func (m simpleModel) Init() tea.Cmd {
	return nil
}

func (m simpleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		key := keyMsg.String()
		if keyMsg.Type == tea.KeyRunes {
			key = string(keyMsg.Runes)
		}
		m.last = key
		m.history = append(m.history, key)
	}
	return m, nil
}

func (m simpleModel) View() string {
	return ""
}
