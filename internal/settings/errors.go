package settings

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrAccessDenied matches any *AccessDeniedError
	ErrAccessDenied = errors.New("access denied")
	// ErrPersistence matches any *PersistenceError
	ErrPersistence = errors.New("settings persistence failed")
)

// AccessDeniedError means the settings file or its directory is not writable.
// Command is the CLI command to suggest re-running with elevated rights.
type AccessDeniedError struct {
	Command string
	Path    string
	Err     error
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: %s: %v", e.Path, e.Err)
}

func (e *AccessDeniedError) Unwrap() error { return e.Err }

func (e *AccessDeniedError) Is(target error) bool { return target == ErrAccessDenied }

// PersistenceError wraps every other read, parse or write failure
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func classify(err error, op, command, path string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrPermission) {
		return &AccessDeniedError{Command: command, Path: path, Err: err}
	}
	return &PersistenceError{Op: op, Path: path, Err: err}
}
