package playbook

import (
	"errors"
	"fmt"

	"github.com/YangQing-Lin/playbook/internal/prompt"
)

var (
	ErrDuplicateProjectName = errors.New("project with this name already exists")
	ErrProjectNotFound      = errors.New("project not found")
	ErrInvalidURL           = errors.New("not a valid URL")
	ErrNoProjects           = errors.New("no projects saved")
	ErrNoScripts            = errors.New("no scripts to choose from")

	// ErrPromptCancelled is returned when the user aborts any prompt
	ErrPromptCancelled = prompt.ErrCancelled
)

// ProjectNotFoundError carries the name that failed to resolve
type ProjectNotFoundError struct {
	Name string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project %q not found", e.Name)
}

func (e *ProjectNotFoundError) Is(target error) bool { return target == ErrProjectNotFound }

// DuplicateProjectError carries the colliding name
type DuplicateProjectError struct {
	Name     string
	Existing string
}

func (e *DuplicateProjectError) Error() string {
	return fmt.Sprintf("project %q already exists as %q", e.Name, e.Existing)
}

func (e *DuplicateProjectError) Is(target error) bool { return target == ErrDuplicateProjectName }

// InvalidURLError carries the rejected input
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("not a valid URL: %q", e.URL)
}

func (e *InvalidURLError) Is(target error) bool { return target == ErrInvalidURL }
