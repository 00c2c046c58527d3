package backup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/YangQing-Lin/playbook/internal/testutil"
)

func writeSettingsFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write settings: %v", err)
	}
}

func TestCreateBackup(t *testing.T) {
	tests := []struct {
		name   string
		create bool
		auto   bool
		prefix string
	}{
		{name: "manual backup", create: true, prefix: ManualBackupPrefix},
		{name: "auto backup", create: true, auto: true, prefix: AutoBackupPrefix},
		{name: "missing settings", create: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settingsPath := filepath.Join(t.TempDir(), "settings.json")
			if tt.create {
				writeSettingsFile(t, settingsPath, `{"projects":[]}`)
			}

			var (
				id  string
				err error
			)
			if tt.auto {
				id, err = CreateAutoBackup(settingsPath)
			} else {
				id, err = CreateBackup(settingsPath)
			}
			if err != nil {
				t.Fatalf("create backup: %v", err)
			}

			if !tt.create {
				if id != "" {
					t.Fatalf("expected empty id for missing settings, got %s", id)
				}
				return
			}

			if !strings.HasPrefix(id, tt.prefix) {
				t.Fatalf("id %s missing prefix %s", id, tt.prefix)
			}
			testutil.AssertFileContent(t, filepath.Join(Dir(settingsPath), id+".json"), `{"projects":[]}`)
		})
	}
}

func TestAutoBackupRetention(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "settings.json")
	writeSettingsFile(t, settingsPath, `{}`)
	backupDir := Dir(settingsPath)
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	for i := 0; i < MaxAutoBackups+2; i++ {
		path := filepath.Join(backupDir, AutoBackupPrefix+"old_"+string(rune('a'+i))+".json")
		writeSettingsFile(t, path, `{}`)
		ts := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, ts, ts); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}
	manual := filepath.Join(backupDir, ManualBackupPrefix+"keep.json")
	writeSettingsFile(t, manual, `{}`)

	if _, err := CreateAutoBackup(settingsPath); err != nil {
		t.Fatalf("CreateAutoBackup() error = %v", err)
	}

	backups, err := ListBackups(settingsPath)
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	auto := 0
	for _, b := range backups {
		if b.Auto {
			auto++
		}
	}
	if auto != MaxAutoBackups {
		t.Fatalf("auto backups = %d, want %d", auto, MaxAutoBackups)
	}
	if _, err := os.Stat(manual); err != nil {
		t.Fatalf("manual backup must survive auto cleanup: %v", err)
	}
}

func TestListBackupsNewestFirst(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "settings.json")

	backups, err := ListBackups(settingsPath)
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("expected no backups, got %d", len(backups))
	}

	backupDir := Dir(settingsPath)
	older := filepath.Join(backupDir, "backup_1.json")
	newer := filepath.Join(backupDir, "backup_2.json")
	writeSettingsFile(t, older, `{}`)
	writeSettingsFile(t, newer, `{}`)
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	writeSettingsFile(t, filepath.Join(backupDir, "notes.txt"), "ignored")

	backups, err = ListBackups(settingsPath)
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("backups = %d, want 2", len(backups))
	}
	if backups[0].ID != "backup_2" || backups[1].ID != "backup_1" {
		t.Fatalf("order = %s, %s", backups[0].ID, backups[1].ID)
	}
}

func TestRestoreBackup(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "settings.json")
	writeSettingsFile(t, settingsPath, `{"current":true}`)
	backupPath := filepath.Join(Dir(settingsPath), "backup_x.json")
	writeSettingsFile(t, backupPath, `{"restored":true}`)

	badValidator := func([]byte) error { return errors.New("bad") }
	if _, err := RestoreBackup(settingsPath, backupPath, badValidator); err == nil {
		t.Fatalf("expected validation error")
	}
	data, _ := os.ReadFile(settingsPath)
	if string(data) != `{"current":true}` {
		t.Fatalf("settings changed after failed restore: %s", data)
	}

	id, err := RestoreBackup(settingsPath, backupPath, nil)
	if err != nil {
		t.Fatalf("RestoreBackup() error = %v", err)
	}
	if id == "" {
		t.Fatalf("expected pre-restore backup id")
	}
	data, _ = os.ReadFile(settingsPath)
	if string(data) != `{"restored":true}` {
		t.Fatalf("settings = %s", data)
	}

	found, err := Find(settingsPath, id)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	data, _ = os.ReadFile(found)
	if string(data) != `{"current":true}` {
		t.Fatalf("pre-restore backup = %s", data)
	}
}

func TestFindMissing(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "settings.json")
	if _, err := Find(settingsPath, "backup_nope"); err == nil {
		t.Fatalf("expected error for missing backup")
	}
}

func TestAutoBackupsWithinOneSecondAreDistinct(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "settings.json")
	writeSettingsFile(t, settingsPath, `{"projects":[]}`)

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		id, err := CreateAutoBackup(settingsPath)
		if err != nil {
			t.Fatalf("CreateAutoBackup() error = %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate auto backup id %s", id)
		}
		seen[id] = true
	}

	backups, err := ListBackups(settingsPath)
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("backups = %d, want 3", len(backups))
	}
}

func TestFindRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.json")
	writeSettingsFile(t, settingsPath, `{}`)
	// a file that exists right next to the backup directory
	writeSettingsFile(t, filepath.Join(dir, "other.json"), `{}`)

	for _, id := range []string{"../settings", "../other.json", `..\settings`, "sub/backup_x", "..", ""} {
		t.Run(id, func(t *testing.T) {
			_, err := Find(settingsPath, id)
			if !errors.Is(err, ErrInvalidID) {
				t.Fatalf("Find(%q) error = %v, want ErrInvalidID", id, err)
			}
		})
	}
}
