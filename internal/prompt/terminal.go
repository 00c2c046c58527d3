package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

var (
	// ErrCancelled is returned when the user aborts a prompt
	ErrCancelled = errors.New("prompt cancelled")
	// ErrNotInteractive is returned when a prompt is needed but stdin is not a terminal
	ErrNotInteractive = errors.New("an interactive terminal is required to choose")
)

// Terminal runs prompts as bubbletea programs. It renders on Out so that
// stdout stays clean for command output such as `pb getpath`.
type Terminal struct {
	In  io.Reader
	Out io.Writer

	isTTY func() bool
}

// NewTerminal reads keys from stdin and draws on stderr
func NewTerminal() *Terminal {
	return &Terminal{
		In:  os.Stdin,
		Out: os.Stderr,
		isTTY: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Select shows choices and returns the index of the picked one
func (t *Terminal) Select(ctx context.Context, title string, choices []Choice) (int, error) {
	if len(choices) == 0 {
		return -1, fmt.Errorf("nothing to choose for %q", title)
	}
	final, err := t.run(ctx, newSelectModel(title, choices))
	if err != nil {
		return -1, err
	}
	m := final.(selectModel)
	if m.cancelled || m.chosen < 0 {
		return -1, ErrCancelled
	}
	log.Debug().Str("prompt", title).Str("choice", choices[m.chosen].Title).Msg("selected")
	return m.chosen, nil
}

// Input asks for a line of text, pre-filled with initial
func (t *Terminal) Input(ctx context.Context, title, initial string) (string, error) {
	final, err := t.run(ctx, newInputModel(title, initial))
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.value(), nil
}

func (t *Terminal) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	if t.isTTY != nil && !t.isTTY() {
		return nil, ErrNotInteractive
	}

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(t.In),
		tea.WithOutput(t.Out),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("run prompt: %w", err)
	}
	return final, nil
}
