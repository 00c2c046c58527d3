package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/YangQing-Lin/playbook/internal/playbook"
	"github.com/YangQing-Lin/playbook/internal/prompt"
	"github.com/YangQing-Lin/playbook/internal/settings"
	"github.com/fatih/color"
)

// Exit codes, one per failure kind so scripts can tell them apart
const (
	ExitOK                   = 0
	ExitError                = 1
	ExitAccessDenied         = 3
	ExitPersistence          = 4
	ExitDuplicateProjectName = 5
	ExitProjectNotFound      = 6
	ExitInvalidURL           = 7
	ExitCancelled            = 130
)

const exampleURL = "https://github.com/owner/repository"

// exitStatus carries a child process exit code
type exitStatus struct {
	code int
}

func (e *exitStatus) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// reportedError has already been shown to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// exitCode maps an error to the process exit code
func exitCode(err error) int {
	var status *exitStatus
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &status):
		return status.code
	case errors.Is(err, prompt.ErrCancelled), errors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.Is(err, settings.ErrAccessDenied):
		return ExitAccessDenied
	case errors.Is(err, settings.ErrPersistence):
		return ExitPersistence
	case errors.Is(err, playbook.ErrDuplicateProjectName):
		return ExitDuplicateProjectName
	case errors.Is(err, playbook.ErrProjectNotFound):
		return ExitProjectNotFound
	case errors.Is(err, playbook.ErrInvalidURL):
		return ExitInvalidURL
	}
	return ExitError
}

// report prints err for the user and returns the exit code
func report(w io.Writer, err error) int {
	code := exitCode(err)
	var reported *reportedError
	var status *exitStatus
	if err == nil || errors.As(err, &reported) || errors.As(err, &status) {
		return code
	}

	var (
		denied   *settings.AccessDeniedError
		notFound *playbook.ProjectNotFoundError
	)
	switch {
	case errors.Is(err, prompt.ErrCancelled), errors.Is(err, context.Canceled):
		fmt.Fprintln(w, color.RedString(i18n.T("cancelled")))
	case errors.As(err, &denied):
		printError(w, i18n.T("error.access_denied", elevateHint(denied.Command)))
	case errors.Is(err, settings.ErrPersistence):
		printError(w, i18n.T("error.report"))
		printError(w, i18n.T("error.err", err))
	case errors.Is(err, playbook.ErrDuplicateProjectName):
		printError(w, i18n.T("error.duplicate_project"))
	case errors.As(err, &notFound):
		printError(w, i18n.T("error.project_not_found", notFound.Name))
	case errors.Is(err, playbook.ErrInvalidURL):
		printError(w, i18n.T("error.invalid_url"))
		printHint(w, i18n.T("hint.valid_url", color.YellowString(exampleURL)))
	case errors.Is(err, playbook.ErrNoProjects):
		printError(w, i18n.T("error.no_projects", color.YellowString("pb add")))
	case errors.Is(err, playbook.ErrNoScripts):
		printError(w, err.Error())
	case errors.Is(err, prompt.ErrNotInteractive):
		printError(w, i18n.T("error.not_interactive"))
	default:
		printError(w, err.Error())
	}
	return code
}

// elevateHint is the "try again as ..." part of the access denied message
func elevateHint(command string) string {
	if runtime.GOOS == "windows" {
		return i18n.T("hint.admin")
	}
	if command == "" {
		command = strings.Join(os.Args[1:], " ")
	}
	return i18n.T("hint.super_user", color.YellowString(strings.TrimSpace("sudo pb "+command)))
}

func printError(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", color.RedString(">>>"), msg)
}

func printHint(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", color.YellowString(">>>"), msg)
}

func printSuccess(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s %s\n", color.GreenString(">>>"), msg, color.GreenString("✔"))
}
