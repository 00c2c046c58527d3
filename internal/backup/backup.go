package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/YangQing-Lin/playbook/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// MaxBackups is the maximum number of manual backups to keep
	MaxBackups = 10
	// MaxAutoBackups is the maximum number of auto backups to keep
	MaxAutoBackups = 5
	// BackupDirName is the name of the backup directory
	BackupDirName = "backups"
	// AutoBackupPrefix is the prefix for auto backup files
	AutoBackupPrefix = "auto_"
	// ManualBackupPrefix is the prefix for manual backup files
	ManualBackupPrefix = "backup_"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	ID        string
	Path      string
	Timestamp time.Time
	Size      int64
	Auto      bool
}

// Validator checks that backup content is a loadable settings document
type Validator func(data []byte) error

// CreateBackup creates a manual backup of the settings file.
// Returns the backup ID, or "" if the source does not exist.
func CreateBackup(settingsPath string) (string, error) {
	return createBackup(settingsPath, false)
}

// CreateAutoBackup creates an automatic backup (called before every write).
// Returns the backup ID, or "" if the source does not exist.
func CreateAutoBackup(settingsPath string) (string, error) {
	return createBackup(settingsPath, true)
}

func createBackup(settingsPath string, isAuto bool) (string, error) {
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return "", nil
	}

	prefix := ManualBackupPrefix
	if isAuto {
		prefix = AutoBackupPrefix
	}
	// several writes within one second must not overwrite each other
	timestamp := time.Now().UTC().Format("20060102_150405")
	backupID := fmt.Sprintf("%s%s_%s", prefix, timestamp, uuid.NewString()[:8])

	backupDir := Dir(settingsPath)
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	backupPath := filepath.Join(backupDir, backupID+".json")
	if err := utils.CopyFile(settingsPath, backupPath); err != nil {
		return "", fmt.Errorf("copy settings file: %w", err)
	}

	if isAuto {
		cleanupByPrefix(backupDir, AutoBackupPrefix, MaxAutoBackups)
	} else {
		cleanupByPrefix(backupDir, ManualBackupPrefix, MaxBackups)
	}

	log.Debug().Str("id", backupID).Str("path", backupPath).Msg("settings backed up")
	return backupID, nil
}

// Dir returns the backup directory that belongs to a settings file
func Dir(settingsPath string) string {
	return filepath.Join(filepath.Dir(settingsPath), BackupDirName)
}

func cleanupByPrefix(backupDir, prefix string, retain int) {
	if retain == 0 {
		return
	}

	backups, err := readBackups(backupDir)
	if err != nil {
		return
	}

	var matching []BackupInfo
	for _, b := range backups {
		if strings.HasPrefix(b.ID, prefix) {
			matching = append(matching, b)
		}
	}
	if len(matching) <= retain {
		return
	}

	// oldest first
	sort.Slice(matching, func(i, j int) bool {
		return matching[i].Timestamp.Before(matching[j].Timestamp)
	})
	for i := 0; i < len(matching)-retain; i++ {
		if err := os.Remove(matching[i].Path); err != nil {
			log.Warn().Err(err).Str("path", matching[i].Path).Msg("failed to delete old backup")
		}
	}
}

func readBackups(backupDir string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return nil, err
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		backups = append(backups, BackupInfo{
			ID:        id,
			Path:      filepath.Join(backupDir, entry.Name()),
			Timestamp: info.ModTime(),
			Size:      info.Size(),
			Auto:      strings.HasPrefix(id, AutoBackupPrefix),
		})
	}
	return backups, nil
}

// ListBackups returns all backups of the settings file, newest first
func ListBackups(settingsPath string) ([]BackupInfo, error) {
	backupDir := Dir(settingsPath)
	if _, err := os.Stat(backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	backups, err := readBackups(backupDir)
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// ErrInvalidID is returned for backup IDs that would leave the backup directory
var ErrInvalidID = errors.New("invalid backup id")

// Find resolves a backup ID (with or without .json) to its path
func Find(settingsPath, id string) (string, error) {
	id = strings.TrimSuffix(id, ".json")
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	path := filepath.Join(Dir(settingsPath), id+".json")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("backup %q not found: %w", id, err)
	}
	return path, nil
}

// RestoreBackup replaces the settings file with a validated backup.
// The current file is backed up first; its backup ID is returned.
func RestoreBackup(settingsPath, backupPath string, validate Validator) (string, error) {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return "", fmt.Errorf("read backup file: %w", err)
	}

	if validate != nil {
		if err := validate(data); err != nil {
			return "", fmt.Errorf("backup file is corrupted: %w", err)
		}
	}

	backupID, err := CreateBackup(settingsPath)
	if err != nil {
		return "", fmt.Errorf("backup current settings: %w", err)
	}

	if err := utils.AtomicWriteFile(settingsPath, data, 0600); err != nil {
		return backupID, fmt.Errorf("write settings file: %w", err)
	}
	return backupID, nil
}
