package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/mattn/go-shellwords"
	"github.com/rs/zerolog/log"
)

// EnvShell overrides the shell used to run scripts, e.g. "bash -lc"
const EnvShell = "PLAYBOOK_SHELL"

// Command is a rendered script line and the directory to run it in.
// An empty Dir runs in the current working directory.
type Command struct {
	Line string
	Dir  string
}

// Shell spawns commands through a shell with inherited stdio
type Shell struct {
	// Argv is the shell invocation; the command line is appended as the last argument
	Argv   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultShell returns `sh -c` (`cmd /C` on Windows)
func DefaultShell() []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C"}
	}
	return []string{"sh", "-c"}
}

// ParseShell splits a shell spec such as `bash -lc` or `"C:\Program Files\Git\bin\bash.exe" -c`
func ParseShell(spec string) ([]string, error) {
	if strings.TrimSpace(spec) == "" {
		return DefaultShell(), nil
	}
	argv, err := shellwords.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", EnvShell, spec, err)
	}
	if len(argv) == 0 {
		return DefaultShell(), nil
	}
	return argv, nil
}

// NewShell reads PLAYBOOK_SHELL and wires the process stdio
func NewShell() (*Shell, error) {
	argv, err := ParseShell(os.Getenv(EnvShell))
	if err != nil {
		return nil, err
	}
	return &Shell{
		Argv:   argv,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}

// IsPOSIX reports whether the shell understands `. file` sourcing
func (s *Shell) IsPOSIX() bool {
	if len(s.Argv) == 0 {
		return false
	}
	name := strings.ToLower(s.Argv[0])
	return !strings.HasSuffix(name, "cmd") && !strings.HasSuffix(name, "cmd.exe") &&
		!strings.Contains(name, "powershell") && !strings.Contains(name, "pwsh")
}

// Run blocks until the command exits and returns its exit code.
// A non-zero exit is not an error; err is set only when the shell could not be started.
// ctx is only checked before spawning; a started child handles Ctrl-C itself.
func (s *Shell) Run(ctx context.Context, c Command) (int, error) {
	if len(s.Argv) == 0 {
		return -1, errors.New("no shell configured")
	}
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	args := append(append([]string{}, s.Argv[1:]...), c.Line)
	cmd := exec.Command(s.Argv[0], args...)
	cmd.Dir = c.Dir
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr

	// the child shares our process group and receives the interrupt itself
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	log.Debug().Strs("argv", cmd.Args).Str("dir", c.Dir).Msg("spawning")
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitCode(exitErr)
		log.Debug().Int("code", code).Msg("command exited")
		return code, nil
	}
	return -1, fmt.Errorf("start %s: %w", s.Argv[0], err)
}

// exitCode maps a signal death to 128+signal like POSIX shells do
func exitCode(exitErr *exec.ExitError) int {
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}
