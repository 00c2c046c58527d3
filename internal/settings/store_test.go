package settings

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/YangQing-Lin/playbook/internal/backup"
	"github.com/YangQing-Lin/playbook/internal/lock"
	"github.com/YangQing-Lin/playbook/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), DirName))
	s.SetLegacyPath("")
	s.lockWait = 100 * time.Millisecond
	return s
}

func skipPermissionTest(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	if os.Getuid() == 0 {
		t.Skip("root ignores permission bits")
	}
}

func TestLoadCreatesDefaults(t *testing.T) {
	s := newTestStore(t)

	st, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	testutil.AssertFileExists(t, s.Path())

	if len(st.Projects) != 0 {
		t.Fatalf("projects = %v, want empty", st.Projects)
	}
	if got := st.Scripts.Keys(); strings.Join(got, ",") != "code,open" {
		t.Fatalf("default scripts = %v", got)
	}
	if _, ok := st.Options["--grep"]; !ok {
		t.Fatalf("default --grep option missing")
	}

	again, err := s.Load()
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if again.Scripts.Len() != 2 {
		t.Fatalf("reloaded scripts = %v", again.Scripts.Keys())
	}
}

func TestLoadMigratesLegacySettings(t *testing.T) {
	s := newTestStore(t)
	legacy := testutil.CreateTempFile(t, t.TempDir(), "settings.json", `{
  "commandToOpen": "subl",
  "projects": [
    {"name": "blog", "path": "/src/blog"},
    {"name": "BLOG", "path": "/src/dup"},
    {"name": "", "path": "/src/nameless"}
  ]
}`)
	s.SetLegacyPath(legacy)

	st, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(st.Projects) != 1 || st.Projects[0].Path != "/src/blog" {
		t.Fatalf("migrated projects = %+v", st.Projects)
	}
	node, _ := st.Scripts.Get("open")
	if node != Template("subl .") {
		t.Fatalf("commandToOpen must replace the default open script, got %v", node)
	}
}

func TestMigrateLegacyKeepsUserOpenScript(t *testing.T) {
	legacy := testutil.CreateTempFile(t, testutil.CreateTempDir(t), "settings.json", `{"commandToOpen": "subl", "projects": []}`)
	st := Default()
	st.Scripts.Set("open", Template("idea ."))

	migrateLegacy(st, legacy)

	node, _ := st.Scripts.Get("open")
	if node != Template("idea .") {
		t.Fatalf("user open script replaced, got %v", node)
	}
}

func TestLoadCorruptedFile(t *testing.T) {
	s := newTestStore(t)
	testutil.CreateTempFile(t, s.Dir(), FileName, `{"projects": [`)

	_, err := s.Load()
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("Load() error = %v, want PersistenceError", err)
	}
	var pe *PersistenceError
	if !errors.As(err, &pe) || pe.Op != "parse" {
		t.Fatalf("error = %#v", err)
	}

	data, _ := os.ReadFile(s.Path())
	if string(data) != `{"projects": [` {
		t.Fatalf("corrupted file must not be replaced")
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	skipPermissionTest(t)
	s := newTestStore(t)
	path := testutil.CreateTempFile(t, s.Dir(), FileName, `{}`)
	if err := os.Chmod(path, 0000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(path, 0600) })

	if _, err := s.Load(); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("Load() error = %v, want AccessDenied", err)
	}
}

func TestWriteAccessDenied(t *testing.T) {
	skipPermissionTest(t)
	s := newTestStore(t)
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := os.Chmod(s.Dir(), 0500); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(s.Dir(), 0755) })

	err := s.Write(Default(), "add")
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("Write() error = %v, want AccessDeniedError", err)
	}
	if denied.Command != "add" {
		t.Fatalf("command = %q, want add", denied.Command)
	}
	if errors.Is(err, ErrPersistence) {
		t.Fatalf("access denied must not match ErrPersistence")
	}
}

func TestWriteKeepsScriptOrderAndShellText(t *testing.T) {
	s := newTestStore(t)
	st := Default()
	git := NewScriptGroup()
	git.Set("status", Template("git status"))
	git.Set("pull", Template("git pull && git log -1 > last.txt"))
	st.Scripts = NewScriptGroup()
	st.Scripts.Set("zeta", Template("echo z"))
	st.Scripts.Set("git", git)
	st.Scripts.Set("alpha", Template("echo a"))

	if err := s.Write(st, "test"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	raw, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(raw)
	if !strings.Contains(text, "git pull && git log -1 > last.txt") {
		t.Fatalf("shell text must stay readable:\n%s", text)
	}
	if strings.Index(text, `"zeta"`) > strings.Index(text, `"alpha"`) {
		t.Fatalf("script order lost:\n%s", text)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := strings.Join(loaded.Scripts.Keys(), ","); got != "zeta,git,alpha" {
		t.Fatalf("keys = %s", got)
	}
	node, _ := loaded.Scripts.Get("git")
	group, ok := node.(*ScriptGroup)
	if !ok {
		t.Fatalf("git = %T, want *ScriptGroup", node)
	}
	if got := strings.Join(group.Keys(), ","); got != "status,pull" {
		t.Fatalf("git keys = %s", got)
	}
}

func TestWriteCreatesAutoBackup(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	st := Default()
	st.Projects = append(st.Projects, Project{Name: "api", Path: "/src/api"})
	if err := s.Write(st, "add"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	backups, err := s.Backups()
	if err != nil {
		t.Fatalf("Backups() error = %v", err)
	}
	if len(backups) == 0 || !backups[0].Auto {
		t.Fatalf("expected an auto backup, got %+v", backups)
	}
	testutil.AssertFileNotExists(t, filepath.Join(s.Dir(), lock.LockFileName))
	if runtime.GOOS != "windows" {
		testutil.AssertFileMode(t, s.Path(), 0600)
	}
}

func TestWriteWaitsForLock(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	testutil.CreateTempFile(t, s.Dir(), lock.LockFileName, "999999")

	err := s.Write(Default(), "add")
	if !errors.Is(err, ErrPersistence) || !errors.Is(err, lock.ErrLocked) {
		t.Fatalf("Write() error = %v, want locked PersistenceError", err)
	}
	testutil.AssertFileNotExists(t, s.Path())
}

func TestBackupAndRestore(t *testing.T) {
	s := newTestStore(t)
	st, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	id, err := s.Backup()
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if !strings.HasPrefix(id, backup.ManualBackupPrefix) {
		t.Fatalf("id = %s", id)
	}

	st.Projects = append(st.Projects, Project{Name: "api", Path: "/src/api"})
	if err := s.Write(st, "add"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if _, err := s.Restore(id); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	restored, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(restored.Projects) != 0 {
		t.Fatalf("projects after restore = %+v", restored.Projects)
	}

	if _, err := s.Restore("backup_missing"); err == nil {
		t.Fatalf("expected error for unknown backup")
	}
}

func TestResolveDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	tests := []struct {
		name     string
		override string
		env      string
		want     string
	}{
		{name: "default home dir", want: filepath.Join(home, DirName)},
		{name: "env override", env: filepath.Join(home, "env"), want: filepath.Join(home, "env")},
		{name: "flag beats env", override: filepath.Join(home, "flag"), env: filepath.Join(home, "env"), want: filepath.Join(home, "flag")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDir, tt.env)
			got, err := ResolveDir(tt.override)
			if err != nil {
				t.Fatalf("ResolveDir() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("ResolveDir() = %s, want %s", got, tt.want)
			}
		})
	}
}
