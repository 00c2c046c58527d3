package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// LockFileName is the name of the lock file
	LockFileName = ".playbook.lock"
	// StaleLockTimeout is the duration after which a lock is considered stale
	StaleLockTimeout = 5 * time.Minute
	// DefaultWait bounds how long Acquire waits for another instance
	DefaultWait = 3 * time.Second

	pollInterval = 50 * time.Millisecond
)

// ErrLocked is returned by Acquire when another instance holds the lock past the wait
var ErrLocked = errors.New("settings are locked by another playbook process")

// Lock represents a file-based advisory lock
type Lock struct {
	lockPath string
	acquired bool
}

// NewLock creates a new lock for the given settings directory
func NewLock(dir string) *Lock {
	return &Lock{
		lockPath: filepath.Join(dir, LockFileName),
	}
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.lockPath
}

// TryAcquire attempts to acquire the lock without waiting.
// Returns true if acquired, false if another instance holds it.
func (l *Lock) TryAcquire() (bool, error) {
	if l.acquired {
		return true, nil
	}

	if info, err := os.Stat(l.lockPath); err == nil {
		if time.Since(info.ModTime()) <= StaleLockTimeout {
			return false, nil
		}
		log.Debug().Str("path", l.lockPath).Msg("removing stale lock")
		_ = os.Remove(l.lockPath)
	}

	f, err := os.OpenFile(l.lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create lock file: %w", err)
	}
	_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(l.lockPath)
		return false, fmt.Errorf("write lock file: %w", errors.Join(werr, cerr))
	}

	l.acquired = true
	return true, nil
}

// Acquire polls TryAcquire until it succeeds or wait elapses
func (l *Lock) Acquire(wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		ok, err := l.TryAcquire()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			if pid, err := l.GetPID(); err == nil {
				return fmt.Errorf("%w (pid %d)", ErrLocked, pid)
			}
			return ErrLocked
		}
		log.Debug().Str("path", l.lockPath).Msg("waiting for settings lock")
		time.Sleep(pollInterval)
	}
}

// Release releases the lock
func (l *Lock) Release() error {
	if !l.acquired {
		return nil
	}

	if err := os.Remove(l.lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}

	l.acquired = false
	return nil
}

// GetPID returns the PID stored in the lock file
func (l *Lock) GetPID() (int, error) {
	data, err := os.ReadFile(l.lockPath)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in lock file: %w", err)
	}

	return pid, nil
}
