package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/YangQing-Lin/playbook/internal/backup"
	"github.com/YangQing-Lin/playbook/internal/lock"
	"github.com/YangQing-Lin/playbook/internal/utils"
	"github.com/rs/zerolog/log"
)

// Store loads and writes the settings file
type Store struct {
	dir        string
	path       string
	legacyPath string
	lockWait   time.Duration
}

// NewStore creates a store rooted at dir (see ResolveDir)
func NewStore(dir string) *Store {
	legacy, _ := LegacyPath()
	return &Store{
		dir:        dir,
		path:       filepath.Join(dir, FileName),
		legacyPath: legacy,
		lockWait:   lock.DefaultWait,
	}
}

// Dir returns the settings directory
func (s *Store) Dir() string { return s.dir }

// Path returns the settings file path
func (s *Store) Path() string { return s.path }

// HookPath returns the shell hook sourced before scripts
func (s *Store) HookPath() string { return filepath.Join(s.dir, HookFileName) }

// SetLegacyPath overrides where projectman settings are migrated from ("" disables)
func (s *Store) SetLegacyPath(path string) { s.legacyPath = path }

// Load reads the settings file, creating it with defaults when missing
func (s *Store) Load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", s.path).Msg("settings file missing, initializing")
		st := Default()
		migrateLegacy(st, s.legacyPath)
		if err := s.Write(st, ""); err != nil {
			return nil, err
		}
		return st, nil
	}
	if err != nil {
		return nil, classify(err, "read", "", s.path)
	}

	st, err := Decode(data, FormatJSON)
	if err != nil {
		return nil, &PersistenceError{Op: "parse", Path: s.path, Err: err}
	}
	log.Debug().Str("path", s.path).Int("projects", len(st.Projects)).Msg("settings loaded")
	return st, nil
}

// Write serializes st over the settings file. It blocks until the data is
// renamed into place, holding the settings lock for the duration.
func (s *Store) Write(st *Settings, command string) error {
	data, err := Encode(st, FormatJSON)
	if err != nil {
		return &PersistenceError{Op: "encode", Path: s.path, Err: err}
	}
	return s.writeRaw(data, command)
}

func (s *Store) writeRaw(data []byte, command string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return classify(err, "create dir", command, s.dir)
	}

	lk := lock.NewLock(s.dir)
	if err := lk.Acquire(s.lockWait); err != nil {
		return classify(err, "lock", command, lk.Path())
	}
	defer func() {
		if err := lk.Release(); err != nil {
			log.Warn().Err(err).Msg("failed to release settings lock")
		}
	}()

	if _, err := backup.CreateAutoBackup(s.path); err != nil {
		log.Warn().Err(err).Msg("auto backup failed")
	}

	if err := utils.AtomicWriteFile(s.path, data, 0600); err != nil {
		return classify(err, "write", command, s.path)
	}
	log.Debug().Str("path", s.path).Str("command", command).Msg("settings written")
	return nil
}

// Backup creates a manual backup and returns its ID
func (s *Store) Backup() (string, error) {
	id, err := backup.CreateBackup(s.path)
	if err != nil {
		return "", classify(err, "backup", "backup", s.path)
	}
	return id, nil
}

// Backups lists the backups of the settings file, newest first
func (s *Store) Backups() ([]backup.BackupInfo, error) {
	return backup.ListBackups(s.path)
}

// Restore replaces the settings file with backup id under the settings lock.
// Returns the ID of the backup taken of the replaced file.
func (s *Store) Restore(id string) (string, error) {
	backupPath, err := backup.Find(s.path, id)
	if err != nil {
		return "", err
	}

	lk := lock.NewLock(s.dir)
	if err := lk.Acquire(s.lockWait); err != nil {
		return "", classify(err, "lock", "backup restore", lk.Path())
	}
	defer lk.Release()

	prev, err := backup.RestoreBackup(s.path, backupPath, func(data []byte) error {
		_, err := Decode(data, FormatJSON)
		return err
	})
	if err != nil {
		return prev, classify(err, "restore", "backup restore", s.path)
	}
	return prev, nil
}
